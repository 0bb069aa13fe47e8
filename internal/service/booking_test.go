package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

var codePattern = regexp.MustCompile(`^EVT-\d{5}$`)

func newTestEvent(store *memStore, status model.EventStatus, capacity int, priceCents int64, startsIn time.Duration) model.Event {
	now := time.Now().UTC()
	e := model.Event{
		Title:       "Jazz Night",
		Category:    model.CategoryConcert,
		StartsAt:    now.Add(startsIn),
		EndsAt:      now.Add(startsIn + 3*time.Hour),
		Venue:       "Le Zenith",
		City:        "Casablanca",
		CapacityMax: capacity,
		PriceCents:  priceCents,
		OrganizerID: 1,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_ = store.SaveEvent(context.Background(), &e)
	return e
}

func TestBookingCreate(t *testing.T) {
	ctx := context.Background()
	client := model.Actor{ID: 7, Role: model.RoleClient}

	t.Run("rejects seat counts outside bounds", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 100, 2500, 30*24*time.Hour)

		for _, seats := range []int{0, -1, 11, 100} {
			_, err := svc.Create(ctx, e.ID, seats, "", client)
			assert.Equal(t, KindBadRequest, KindOf(err), "seats=%d", seats)
		}
		for _, seats := range []int{1, 10} {
			_, err := svc.Create(ctx, e.ID, seats, "", client)
			assert.NoError(t, err, "seats=%d", seats)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		_, err := svc.Create(ctx, 42, 2, "", client)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("only published events are bookable", func(t *testing.T) {
		for _, status := range []model.EventStatus{model.EventDraft, model.EventCancelled, model.EventFinished} {
			store := newMemStore()
			svc := NewBookingService(store, store)
			e := newTestEvent(store, status, 100, 2500, 30*24*time.Hour)
			_, err := svc.Create(ctx, e.ID, 2, "", client)
			assert.Equal(t, KindBadRequest, KindOf(err), "status=%s", status)
		}
	})

	t.Run("started event is not bookable", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 100, 2500, -time.Hour)
		_, err := svc.Create(ctx, e.ID, 2, "", client)
		assert.Equal(t, KindBadRequest, KindOf(err))
	})

	t.Run("capacity exhaustion reports remaining seats", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 12, 2500, 30*24*time.Hour)

		_, err := svc.Create(ctx, e.ID, 10, "", client)
		require.NoError(t, err)

		_, err = svc.Create(ctx, e.ID, 3, "", model.Actor{ID: 8, Role: model.RoleClient})
		require.Equal(t, KindBadRequest, KindOf(err))
		assert.Contains(t, err.Error(), "2 remaining")
	})

	t.Run("fills remaining capacity exactly", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 10, 2500, 30*24*time.Hour)

		r, err := svc.Create(ctx, e.ID, 8, "", client)
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, r.ID, client)
		require.NoError(t, err)

		other := model.Actor{ID: 8, Role: model.RoleClient}
		_, err = svc.Create(ctx, e.ID, 3, "", other)
		require.Equal(t, KindBadRequest, KindOf(err))
		assert.Contains(t, err.Error(), "2 remaining")

		_, err = svc.Create(ctx, e.ID, 2, "", other)
		require.NoError(t, err)

		sum, err := store.SumActiveSeats(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, sum)

		_, err = svc.Create(ctx, e.ID, 1, "", other)
		require.Equal(t, KindBadRequest, KindOf(err))
		assert.Contains(t, err.Error(), "0 remaining")
	})

	t.Run("new reservation is pending with a frozen amount", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 100, 2500, 30*24*time.Hour)

		r, err := svc.Create(ctx, e.ID, 4, "aisle if possible", client)
		require.NoError(t, err)
		assert.Equal(t, model.ReservationPending, r.Status)
		assert.Equal(t, int64(4*2500), r.AmountCents)
		assert.Regexp(t, codePattern, r.Code)

		// A later price change must not touch the booked amount.
		e.PriceCents = 9900
		require.NoError(t, store.SaveEvent(ctx, &e))
		got, err := store.GetReservation(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4*2500), got.AmountCents)
	})

	t.Run("codes are unique across reservations", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 1000, 1000, 30*24*time.Hour)

		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			r, err := svc.Create(ctx, e.ID, 1, "", model.Actor{ID: uint64(i + 1), Role: model.RoleClient})
			require.NoError(t, err)
			require.Regexp(t, codePattern, r.Code)
			assert.False(t, seen[r.Code], "duplicate code %s", r.Code)
			seen[r.Code] = true
		}
	})
}

func TestBookingCreateConcurrent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewBookingService(store, store)

	const capacity = 50
	const workers = 80
	e := newTestEvent(store, model.EventPublished, capacity, 1500, 30*24*time.Hour)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			_, err := svc.Create(ctx, e.ID, 1, "", model.Actor{ID: uid, Role: model.RoleClient})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case KindOf(err) == KindBadRequest:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, capacity, successes, "exactly capacity bookings must succeed")
	assert.Equal(t, workers-capacity, rejected)

	sum, err := store.SumActiveSeats(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, sum)
}

func TestBookingConfirm(t *testing.T) {
	ctx := context.Background()
	client := model.Actor{ID: 7, Role: model.RoleClient}

	setup := func(t *testing.T) (*BookingService, *memStore, model.Reservation) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 100, 2500, 30*24*time.Hour)
		r, err := svc.Create(ctx, e.ID, 2, "", client)
		require.NoError(t, err)
		return svc, store, r
	}

	t.Run("owner confirms a pending reservation", func(t *testing.T) {
		svc, _, r := setup(t)
		got, err := svc.Confirm(ctx, r.ID, client)
		require.NoError(t, err)
		assert.Equal(t, model.ReservationConfirmed, got.Status)
	})

	t.Run("admins cannot confirm for someone else", func(t *testing.T) {
		svc, _, r := setup(t)
		_, err := svc.Confirm(ctx, r.ID, model.Actor{ID: 1, Role: model.RoleAdmin})
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("only pending reservations can be confirmed", func(t *testing.T) {
		svc, _, r := setup(t)
		_, err := svc.Confirm(ctx, r.ID, client)
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, r.ID, client)
		assert.Equal(t, KindBadRequest, KindOf(err))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.Confirm(ctx, 999, client)
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestBookingCancel(t *testing.T) {
	ctx := context.Background()
	client := model.Actor{ID: 7, Role: model.RoleClient}

	t.Run("cancelling releases the seats", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 10, 2500, 30*24*time.Hour)

		r, err := svc.Create(ctx, e.ID, 10, "", client)
		require.NoError(t, err)

		// Event is full now.
		other := model.Actor{ID: 8, Role: model.RoleClient}
		_, err = svc.Create(ctx, e.ID, 1, "", other)
		require.Equal(t, KindBadRequest, KindOf(err))

		_, err = svc.Cancel(ctx, r.ID, client)
		require.NoError(t, err)

		_, err = svc.Create(ctx, e.ID, 10, "", other)
		assert.NoError(t, err)
	})

	t.Run("only the booking user can cancel", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 100, 2500, 30*24*time.Hour)
		r, err := svc.Create(ctx, e.ID, 2, "", client)
		require.NoError(t, err)

		for _, actor := range []model.Actor{
			{ID: 8, Role: model.RoleClient},
			{ID: 1, Role: model.RoleAdmin},
			{ID: 2, Role: model.RoleOrganizer},
		} {
			_, err := svc.Cancel(ctx, r.ID, actor)
			assert.Equal(t, KindForbidden, KindOf(err), "actor=%+v", actor)
		}
	})

	t.Run("double cancel is rejected", func(t *testing.T) {
		store := newMemStore()
		svc := NewBookingService(store, store)
		e := newTestEvent(store, model.EventPublished, 100, 2500, 30*24*time.Hour)
		r, err := svc.Create(ctx, e.ID, 2, "", client)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, r.ID, client)
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, r.ID, client)
		assert.Equal(t, KindBadRequest, KindOf(err))
	})

	t.Run("window closes 48h before the event", func(t *testing.T) {
		for _, tc := range []struct {
			name     string
			startsIn time.Duration
			wantKind Kind
		}{
			{"50 hours out still cancels", 50 * time.Hour, 0},
			{"40 hours out is too late", 40 * time.Hour, KindBadRequest},
			{"minutes before start", 10 * time.Minute, KindBadRequest},
		} {
			t.Run(tc.name, func(t *testing.T) {
				store := newMemStore()
				svc := NewBookingService(store, store)
				e := newTestEvent(store, model.EventPublished, 100, 2500, tc.startsIn)
				r, err := svc.Create(ctx, e.ID, 2, "", client)
				require.NoError(t, err)

				_, err = svc.Cancel(ctx, r.ID, client)
				if tc.wantKind == 0 {
					assert.NoError(t, err)
				} else {
					assert.Equal(t, tc.wantKind, KindOf(err))
				}
			})
		}
	})
}

func TestBookingQueries(t *testing.T) {
	ctx := context.Background()
	owner := model.Actor{ID: 7, Role: model.RoleClient}
	stranger := model.Actor{ID: 8, Role: model.RoleClient}
	admin := model.Actor{ID: 1, Role: model.RoleAdmin}

	store := newMemStore()
	svc := NewBookingService(store, store)
	e := newTestEvent(store, model.EventPublished, 100, 2500, 30*24*time.Hour)
	r, err := svc.Create(ctx, e.ID, 2, "", owner)
	require.NoError(t, err)

	t.Run("get is restricted to owner and admin", func(t *testing.T) {
		_, err := svc.Get(ctx, r.ID, owner)
		assert.NoError(t, err)
		_, err = svc.Get(ctx, r.ID, admin)
		assert.NoError(t, err)
		_, err = svc.Get(ctx, r.ID, stranger)
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("find by code", func(t *testing.T) {
		got, err := svc.FindByCode(ctx, r.Code, owner)
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)

		_, err = svc.FindByCode(ctx, fmt.Sprintf("EVT-%05d", 99999), owner)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("listing another user's reservations needs admin", func(t *testing.T) {
		_, err := svc.ListByUser(ctx, owner.ID, stranger)
		assert.Equal(t, KindForbidden, KindOf(err))

		rs, err := svc.ListByUser(ctx, owner.ID, admin)
		require.NoError(t, err)
		assert.Len(t, rs, 1)
	})

	t.Run("event reservations are visible to the organizer", func(t *testing.T) {
		organizer := model.Actor{ID: e.OrganizerID, Role: model.RoleOrganizer}
		rs, err := svc.ListByEvent(ctx, e.ID, organizer)
		require.NoError(t, err)
		assert.Len(t, rs, 1)

		_, err = svc.ListByEvent(ctx, e.ID, stranger)
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("summary joins the booked event", func(t *testing.T) {
		sum, err := svc.Summary(ctx, r.Code, owner)
		require.NoError(t, err)
		assert.Equal(t, r.Code, sum.Code)
		assert.Equal(t, "Jazz Night", sum.EventTitle)
		assert.Equal(t, "Le Zenith", sum.Venue)
		assert.Equal(t, "Casablanca", sum.City)
		assert.Equal(t, 2, sum.Seats)
		assert.Equal(t, int64(5000), sum.AmountCents)
		assert.Equal(t, string(model.ReservationPending), sum.Status)

		_, err = svc.Summary(ctx, r.Code, stranger)
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("listing every reservation needs admin", func(t *testing.T) {
		_, err := svc.ListAll(ctx, owner)
		assert.Equal(t, KindForbidden, KindOf(err))
		_, err = svc.ListAll(ctx, stranger)
		assert.Equal(t, KindForbidden, KindOf(err))

		rs, err := svc.ListAll(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, rs, 1)
	})
}

func TestBookingLockMapGrowth(t *testing.T) {
	ctx := context.Background()
	client := model.Actor{ID: 7, Role: model.RoleClient}

	store := newMemStore()
	svc := NewBookingService(store, store)

	for id := uint64(1000); id < 1050; id++ {
		_, err := svc.Create(ctx, id, 2, "", client)
		assert.Equal(t, KindNotFound, KindOf(err))
	}
	assert.Empty(t, svc.locks, "unknown events must not allocate locks")

	e := newTestEvent(store, model.EventPublished, 100, 2500, 30*24*time.Hour)
	_, err := svc.Create(ctx, e.ID, 2, "", client)
	require.NoError(t, err)
	assert.Len(t, svc.locks, 1)
}
