package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventTransitions(t *testing.T) {
	cases := []struct {
		from EventStatus
		to   EventStatus
		ok   bool
	}{
		{EventDraft, EventPublished, true},
		{EventDraft, EventCancelled, true},
		{EventDraft, EventFinished, false},
		{EventPublished, EventCancelled, true},
		{EventPublished, EventFinished, true},
		{EventPublished, EventDraft, false},
		{EventCancelled, EventPublished, false},
		{EventCancelled, EventDraft, false},
		{EventFinished, EventCancelled, false},
		{EventFinished, EventPublished, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEventTerminal(t *testing.T) {
	assert.False(t, EventDraft.Terminal())
	assert.False(t, EventPublished.Terminal())
	assert.True(t, EventCancelled.Terminal())
	assert.True(t, EventFinished.Terminal())
}

func TestEventBookable(t *testing.T) {
	now := time.Now().UTC()
	e := Event{Status: EventPublished, StartsAt: now.Add(time.Hour)}
	assert.True(t, e.Bookable(now))

	e.StartsAt = now.Add(-time.Minute)
	assert.False(t, e.Bookable(now))

	e = Event{Status: EventDraft, StartsAt: now.Add(time.Hour)}
	assert.False(t, e.Bookable(now))
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryConcert, ParseCategory("CONCERT"))
	assert.Equal(t, CategoryConcert, ParseCategory("concert"))
	assert.Equal(t, CategoryOther, ParseCategory("circus"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}
