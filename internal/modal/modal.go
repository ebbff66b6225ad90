// Package modal broadcasts the single transient notice the UI may show.
package modal

import "alphastocks/cli/internal/observe"

// AccessForbidden is shown when the backend answers 403.
const AccessForbidden = "Access Forbidden"

// Notifier holds at most one message. An empty message means no notice is shown.
type Notifier struct {
	msg *observe.Value[string]
}

// New returns a Notifier with no message.
func New() *Notifier {
	return &Notifier{msg: observe.New("")}
}

// Open replaces the current message and notifies listeners.
func (n *Notifier) Open(message string) {
	n.msg.Publish(message)
}

// Close resets the message to empty and notifies listeners.
func (n *Notifier) Close() {
	n.msg.Publish("")
}

// Current returns the message currently shown, or "".
func (n *Notifier) Current() string {
	return n.msg.Current()
}

// Message subscribes fn to message changes. fn is called with the current
// message before Message returns.
func (n *Notifier) Message(fn func(string)) *observe.Subscription {
	return n.msg.Subscribe(fn)
}
