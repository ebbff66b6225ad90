// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package observe provides a replay-latest observable value.
//
// A Value holds one current value of type T. Subscribers are called
// synchronously with the current value when they subscribe, and then once per
// published value, in publication order. A Value is the only broadcast
// primitive the CLI uses: authentication state, modal notices and the current
// route are all modeled with it.
package observe

import "sync"

// Value is a replay-latest broadcast cell. The zero value is not usable; use New.
type Value[T comparable] struct {
	mu      sync.Mutex
	current T
	nextID  uint64
	subs    map[uint64]func(T)

	// deliver serializes notifications so subscribers observe values in the
	// order they were published.
	deliver sync.Mutex
}

// New creates a Value holding initial.
func New[T comparable](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[uint64]func(T)),
	}
}

// Subscription is returned by Subscribe. Unsubscribe is safe to call more than once.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops further notifications.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Current returns the value most recently published.
func (v *Value[T]) Current() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Subscribe registers fn and calls it with the current value before returning.
// fn must not publish to the same Value synchronously.
func (v *Value[T]) Subscribe(fn func(T)) *Subscription {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	current := v.current
	v.mu.Unlock()

	fn(current)

	return &Subscription{cancel: func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}}
}

// Publish stores val and notifies every subscriber, even if val equals the
// current value.
func (v *Value[T]) Publish(val T) {
	v.publish(val, false)
}

// PublishIfChanged stores val and notifies subscribers only when it differs
// from the current value. It reports whether a notification happened.
func (v *Value[T]) PublishIfChanged(val T) bool {
	return v.publish(val, true)
}

func (v *Value[T]) publish(val T, distinct bool) bool {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	if distinct && v.current == val {
		v.mu.Unlock()
		return false
	}
	v.current = val
	subs := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(val)
	}
	return true
}

// Len reports the number of active subscribers.
func (v *Value[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
