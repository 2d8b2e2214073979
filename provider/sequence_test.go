package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/booking"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/provider"
)

type listReply struct {
	grouped booking.Grouped
	err     error
}

type listCall struct {
	reply chan listReply
}

// scriptedAPI hands every ProviderBookings call to the test through a
// channel, so the test decides exactly when and with what each snapshot
// request completes.
type scriptedAPI struct {
	lists   chan listCall
	update  func(ctx context.Context, id int64, status booking.Status, in api.UpdateStatusInput) (*booking.Booking, error)
	deliver func(ctx context.Context, id int64, in api.DeliverInput) (*booking.Booking, error)
}

func newScriptedAPI() *scriptedAPI {
	return &scriptedAPI{lists: make(chan listCall)}
}

func (s *scriptedAPI) ProviderBookings(ctx context.Context) (booking.Grouped, error) {
	call := listCall{reply: make(chan listReply)}
	select {
	case s.lists <- call:
	case <-ctx.Done():
		return booking.Grouped{}, ctx.Err()
	}
	select {
	case r := <-call.reply:
		return r.grouped, r.err
	case <-ctx.Done():
		return booking.Grouped{}, ctx.Err()
	}
}

func (s *scriptedAPI) UpdateBookingStatus(ctx context.Context, id int64, status booking.Status, in api.UpdateStatusInput) (*booking.Booking, error) {
	if s.update == nil {
		return nil, nil
	}
	return s.update(ctx, id, status, in)
}

func (s *scriptedAPI) MarkServiceDelivered(ctx context.Context, id int64, in api.DeliverInput) (*booking.Booking, error) {
	if s.deliver == nil {
		return nil, nil
	}
	return s.deliver(ctx, id, in)
}

func (s *scriptedAPI) ProcessCashPayment(ctx context.Context, id int64, in api.CashPaymentInput) (*booking.Booking, error) {
	return nil, nil
}

func (s *scriptedAPI) ServiceDeliveryStatus(ctx context.Context, id int64) (api.ServiceDelivery, error) {
	return api.ServiceDelivery{BookingID: id}, nil
}

func groupedWith(bks ...booking.Booking) booking.Grouped {
	var g booking.Grouped
	g.Normalize()
	for _, bk := range bks {
		g.Insert(bk)
		g.Count++
	}
	return g
}

func testBooking(id int64, status booking.Status) booking.Booking {
	return booking.Booking{
		ID:          id,
		CustomerID:  1,
		ProviderID:  2,
		ServiceID:   3,
		Status:      status,
		PaymentType: booking.PaymentPrepaid,
		Date:        "2026-09-03",
		StartTime:   "14:00",
	}
}

// TestPatch_MovesBookingBetweenBuckets pins the optimistic re-bucketing: the
// booking leaves its old bucket and appears exactly once in the bucket implied
// by the new status, with the status field updated.
func TestPatch_MovesBookingBetweenBuckets(t *testing.T) {
	tests := []struct {
		name        string
		start       booking.Status
		startBucket booking.Bucket // where the platform snapshot served it
		target      booking.Status
		wantBucket  booking.Bucket
	}{
		{
			name:  "pending booking completes",
			start: booking.StatusPending, startBucket: booking.BucketPending,
			target: booking.StatusCompleted, wantBucket: booking.BucketCompleted,
		},
		{
			name:  "confirmed booking stays upcoming when delivered",
			start: booking.StatusConfirmed, startBucket: booking.BucketUpcoming,
			target: booking.StatusServiceDelivered, wantBucket: booking.BucketUpcoming,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newScriptedAPI()
			store := provider.NewBookings(stub, nil, nil)

			var initial booking.Grouped
			initial.Normalize()
			initial.Count = 1
			switch tt.startBucket {
			case booking.BucketPending:
				initial.Pending = []booking.Booking{testBooking(101, tt.start)}
			case booking.BucketUpcoming:
				initial.Upcoming = []booking.Booking{testBooking(101, tt.start)}
			}

			ctx := context.Background()
			errCh := make(chan error, 1)
			go func() { errCh <- store.Refresh(ctx) }()
			call := <-stub.lists
			call.reply <- listReply{grouped: initial}
			require.NoError(t, <-errCh)

			require.NoError(t, store.UpdateStatus(ctx, 101, tt.target, api.UpdateStatusInput{}))

			got := store.Snapshot()
			bk, bucket, ok := got.Find(101)
			require.True(t, ok)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.target, bk.Status)
			assert.Len(t, got.Bucket(tt.wantBucket), 1, "booking must appear exactly once")
			for _, b := range booking.Buckets() {
				if b == tt.wantBucket {
					continue
				}
				assert.Empty(t, got.Bucket(b), "booking must leave the %s bucket", b)
			}

			// Drain the action's background refresh before closing.
			bg := <-stub.lists
			bg.reply <- listReply{grouped: groupedWith(testBooking(101, tt.target))}
			store.Close()
		})
	}
}

func TestStaleSnapshot_DoesNotRevertOptimisticPatch(t *testing.T) {
	stub := newScriptedAPI()
	echo := testBooking(7, booking.StatusCancelled)
	stub.update = func(context.Context, int64, booking.Status, api.UpdateStatusInput) (*booking.Booking, error) {
		return &echo, nil
	}
	store := provider.NewBookings(stub, nil, nil)

	ctx := context.Background()
	errCh := make(chan error, 2)

	// Initial snapshot: booking 7 is confirmed.
	go func() { errCh <- store.Refresh(ctx) }()
	first := <-stub.lists
	first.reply <- listReply{grouped: groupedWith(testBooking(7, booking.StatusConfirmed))}
	require.NoError(t, <-errCh)

	// A second refresh is issued and parks server-side.
	go func() { errCh <- store.Refresh(ctx) }()
	parked := <-stub.lists

	// The cancel action lands while that refresh is still in flight.
	require.NoError(t, store.UpdateStatus(ctx, 7, booking.StatusCancelled, api.UpdateStatusInput{}))
	assert.Equal(t, booking.StatusCancelled, statusOf(t, store.Snapshot(), 7))

	// The parked refresh finally answers with the pre-action world.
	parked.reply <- listReply{grouped: groupedWith(testBooking(7, booking.StatusConfirmed))}
	require.NoError(t, <-errCh)
	assert.Equal(t, booking.StatusCancelled, statusOf(t, store.Snapshot(), 7),
		"a snapshot issued before the action must not revert the patch")

	// The action's own background refresh carries the post-action world.
	bg := <-stub.lists
	bg.reply <- listReply{grouped: groupedWith(echo)}
	assert.Eventually(t, func() bool {
		g := store.Snapshot()
		return len(g.Cancelled) == 1 && g.Cancelled[0].ID == 7
	}, 2*time.Second, 10*time.Millisecond)

	store.Close()
}

func TestActions_OneAtATime(t *testing.T) {
	stub := newScriptedAPI()
	block := make(chan struct{})
	stub.deliver = func(context.Context, int64, api.DeliverInput) (*booking.Booking, error) {
		<-block
		return nil, nil
	}
	store := provider.NewBookings(stub, nil, nil)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- store.MarkDelivered(ctx, 7, api.DeliverInput{}) }()

	require.Eventually(t, store.Updating, 2*time.Second, 5*time.Millisecond)

	err := store.UpdateStatus(ctx, 7, booking.StatusConfirmed, api.UpdateStatusInput{})
	require.ErrorIs(t, err, provider.ErrUpdateInFlight)

	close(block)
	require.NoError(t, <-done)

	// Serve the delivery action's background refresh, then shut down.
	bg := <-stub.lists
	bg.reply <- listReply{grouped: groupedWith()}
	store.Close()
	assert.False(t, store.Updating())
}

func TestIndicators_UpdatingTakesPrecedenceOverLoading(t *testing.T) {
	stub := newScriptedAPI()
	store := provider.NewBookings(stub, nil, nil)

	ctx := context.Background()
	errCh := make(chan error, 1)

	go func() { errCh <- store.Refresh(ctx) }()
	call := <-stub.lists
	assert.True(t, store.Loading())
	assert.False(t, store.Updating())
	call.reply <- listReply{grouped: groupedWith()}
	require.NoError(t, <-errCh)
	assert.False(t, store.Loading())

	block := make(chan struct{})
	stub.update = func(context.Context, int64, booking.Status, api.UpdateStatusInput) (*booking.Booking, error) {
		<-block
		return nil, nil
	}
	done := make(chan error, 1)
	go func() { done <- store.UpdateStatus(ctx, 7, booking.StatusConfirmed, api.UpdateStatusInput{}) }()

	require.Eventually(t, store.Updating, 2*time.Second, 5*time.Millisecond)
	assert.False(t, store.Loading(), "the action indicator wins while an update runs")

	close(block)
	require.NoError(t, <-done)

	bg := <-stub.lists
	bg.reply <- listReply{grouped: groupedWith()}
	store.Close()
}

func TestClose_CancelsBackgroundRefresh(t *testing.T) {
	stub := newScriptedAPI()
	store := provider.NewBookings(stub, nil, nil)

	// The action spawns a background refresh that never gets an answer.
	require.NoError(t, store.UpdateStatus(context.Background(), 7, booking.StatusConfirmed, api.UpdateStatusInput{}))

	closed := make(chan struct{})
	go func() {
		store.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the pending background refresh")
	}
}
