package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	h := NewHub(nil)
	a := &Client{ID: "a", Events: make(chan Event, 1)}
	b := &Client{ID: "b", Events: make(chan Event, 1)}
	h.Register(a)
	h.Register(b)
	assert.Equal(t, 2, h.Count())

	h.PublishOrderUpdate("ORD-1", "status")
	ev := <-a.Events
	assert.Equal(t, "order_update", ev.EventType)
	assert.JSONEq(t, `{"order_code":"ORD-1","action":"status"}`, ev.Data)

	// b is full now, the next broadcast must not block
	h.PublishOrderUpdate("ORD-2", "create")
	require.Len(t, b.Events, 1)
	assert.Contains(t, (<-a.Events).Data, "ORD-2")

	h.Unregister("a")
	_, open := <-a.Events
	assert.False(t, open)
	assert.Equal(t, 1, h.Count())
}
