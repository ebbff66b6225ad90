package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenClose(t *testing.T) {
	n := New()
	assert.Empty(t, n.Current())

	n.Open(AccessForbidden)
	assert.Equal(t, "Access Forbidden", n.Current())

	n.Close()
	assert.Empty(t, n.Current())
}

func TestLastOpenWins(t *testing.T) {
	n := New()

	var got []string
	sub := n.Message(func(m string) { got = append(got, m) })
	defer sub.Unsubscribe()

	n.Open("first")
	n.Open("second")
	assert.Equal(t, "second", n.Current())

	n.Close()
	assert.Equal(t, []string{"", "first", "second", ""}, got)
}

func TestLateSubscriberSeesOpenMessage(t *testing.T) {
	n := New()
	n.Open(AccessForbidden)

	var got string
	sub := n.Message(func(m string) { got = m })
	defer sub.Unsubscribe()

	assert.Equal(t, AccessForbidden, got)
}
