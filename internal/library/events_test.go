package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_Filter(t *testing.T) {
	n := newNotifier()
	defer n.close()

	stats, cancel := n.subscribe(EventStatsUpdated)
	defer cancel()

	n.publish(EventGamesUpdated)
	n.publish(EventStatsUpdated)

	assert.Equal(t, EventStatsUpdated, <-stats)
	assert.Empty(t, stats)
}

func TestNotifier_FullBufferDoesNotBlock(t *testing.T) {
	n := newNotifier()
	defer n.close()

	ch, cancel := n.subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*3; i++ {
		n.publish(EventGamesUpdated)
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestNotifier_Cancel(t *testing.T) {
	n := newNotifier()
	defer n.close()

	ch, cancel := n.subscribe()
	cancel()
	cancel()

	n.publish(EventGamesUpdated)

	_, open := <-ch
	assert.False(t, open)
}

func TestNotifier_Close(t *testing.T) {
	n := newNotifier()

	ch, cancel := n.subscribe()
	n.close()
	n.close()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	late, _ := n.subscribe()
	_, open = <-late
	assert.False(t, open)

	n.publish(EventStatsUpdated)
}
