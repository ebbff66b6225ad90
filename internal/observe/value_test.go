// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package observe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReplaysCurrentValue(t *testing.T) {
	v := New(true)

	var got []bool
	sub := v.Subscribe(func(b bool) { got = append(got, b) })
	defer sub.Unsubscribe()

	require.Equal(t, []bool{true}, got, "subscriber must see the current value before Subscribe returns")
}

func TestPublishOrder(t *testing.T) {
	v := New("")

	var got []string
	sub := v.Subscribe(func(s string) { got = append(got, s) })
	defer sub.Unsubscribe()

	v.Publish("a")
	v.Publish("b")
	v.Publish("b")
	v.Publish("")

	assert.Equal(t, []string{"", "a", "b", "b", ""}, got)
	assert.Equal(t, "", v.Current())
}

func TestPublishIfChanged(t *testing.T) {
	v := New(false)

	var got []bool
	sub := v.Subscribe(func(b bool) { got = append(got, b) })
	defer sub.Unsubscribe()

	assert.False(t, v.PublishIfChanged(false))
	assert.True(t, v.PublishIfChanged(true))
	assert.False(t, v.PublishIfChanged(true))
	assert.True(t, v.PublishIfChanged(false))

	assert.Equal(t, []bool{false, true, false}, got)
}

func TestUnsubscribe(t *testing.T) {
	v := New(0)

	count := 0
	sub := v.Subscribe(func(int) { count++ })
	v.Publish(1)
	sub.Unsubscribe()
	sub.Unsubscribe()
	v.Publish(2)

	assert.Equal(t, 2, count)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 2, v.Current())
}

func TestUnsubscribeFromCallback(t *testing.T) {
	v := New(0)

	var sub *Subscription
	calls := 0
	sub = v.Subscribe(func(n int) {
		calls++
		if n == 1 {
			sub.Unsubscribe()
		}
	})
	v.Publish(1)
	v.Publish(2)

	assert.Equal(t, 2, calls)
}

func TestConcurrentPublishersSeeEveryValue(t *testing.T) {
	v := New(0)

	var mu sync.Mutex
	seen := 0
	sub := v.Subscribe(func(int) {
		mu.Lock()
		seen++
		mu.Unlock()
	})
	defer sub.Unsubscribe()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Publish(n)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 51, seen)
}
