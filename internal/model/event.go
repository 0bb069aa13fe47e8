package model

import (
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event.  Statuses are stored
// as strings in the `events` table and drive which operations are
// permitted on the event and its reservations.
type EventStatus string

// Event lifecycle states.  An event is created as a DRAFT, becomes
// bookable when PUBLISHED, and ends up CANCELLED or FINISHED.  Both
// CANCELLED and FINISHED are terminal; FINISHED additionally makes the
// event immutable.
const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventCancelled EventStatus = "CANCELLED"
	EventFinished  EventStatus = "FINISHED"
)

// eventTransitions is the closed transition table for EventStatus.
// Publication is only reachable from DRAFT; cancellation from any
// non-terminal state; FINISHED is entered by the elapsed-event sweep
// and leads nowhere.
var eventTransitions = map[EventStatus][]EventStatus{
	EventDraft:     {EventPublished, EventCancelled},
	EventPublished: {EventCancelled, EventFinished},
	EventCancelled: {},
	EventFinished:  {},
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, t := range eventTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves this status.
func (s EventStatus) Terminal() bool {
	return len(eventTransitions[s]) == 0
}

// EventCategory tags an event with a coarse genre used for browsing
// and search filters.
type EventCategory string

// Known event categories.
const (
	CategoryConcert    EventCategory = "CONCERT"
	CategoryTheatre    EventCategory = "THEATRE"
	CategoryConference EventCategory = "CONFERENCE"
	CategorySport      EventCategory = "SPORT"
	CategoryOther      EventCategory = "OTHER"
)

// ParseCategory normalizes a raw category string, defaulting unknown
// values to CategoryOther.
func ParseCategory(s string) EventCategory {
	switch c := EventCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryConcert, CategoryTheatre, CategoryConference, CategorySport, CategoryOther:
		return c
	default:
		return CategoryOther
	}
}

// Event represents a schedulable, capacity-bounded offering owned by
// an organizer, as stored in the `events` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – event title.
//  Description – free-text description.
//  Category    – CONCERT, THEATRE, CONFERENCE, SPORT or OTHER.
//  StartsAt    – when the event begins (UTC).
//  EndsAt      – when the event ends; never before StartsAt.
//  Venue       – venue name.
//  City        – city the venue is in.
//  CapacityMax – maximum number of seats; always positive.
//  PriceCents  – price for one seat in cents; reservations freeze
//                their total at creation, later price edits never
//                reprice existing reservations.
//  OrganizerID – user who owns the event.
//  Status      – lifecycle state (see EventStatus).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last modification timestamp.
type Event struct {
	ID          uint64        // events.id
	Title       string        // events.title
	Description string        // events.description
	Category    EventCategory // events.category
	StartsAt    time.Time     // events.starts_at
	EndsAt      time.Time     // events.ends_at
	Venue       string        // events.venue
	City        string        // events.city
	CapacityMax int           // events.capacity_max
	PriceCents  int64         // events.price_cents
	OrganizerID uint64        // events.organizer_id
	Status      EventStatus   // events.status
	CreatedAt   time.Time     // events.created_at
	UpdatedAt   time.Time     // events.updated_at
}

// Bookable reports whether the event accepts new reservations at the
// given instant: it must be PUBLISHED and not yet started.
func (e Event) Bookable(now time.Time) bool {
	return e.Status == EventPublished && e.StartsAt.After(now)
}
