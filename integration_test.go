package sewabazaar_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/booking"
)

// TestProviderJourney_CashBooking walks a cash booking through its whole
// lifecycle: confirm, deliver, collect cash, customer confirmation, review.
// Along the way it checks that the store's optimistic view, the platform's
// authoritative view and the suggested primary actions stay in agreement.
func TestProviderJourney_CashBooking(t *testing.T) {
	stack := setupClientStack(t)
	ctx := context.Background()

	seedCashBooking(stack.Server, 42)
	store := stack.Client.Bookings
	require.NoError(t, store.Refresh(ctx))

	// Fresh pending cash booking: the customer is asked to confirm, the
	// provider has nothing actionable yet.
	snap := store.Snapshot()
	bk, _, ok := snap.Find(42)
	require.True(t, ok)
	action, ok := booking.PrimaryAction(bk, booking.RoleCustomer)
	require.True(t, ok)
	assert.Equal(t, booking.ActionConfirmBooking, action)
	_, ok = booking.PrimaryAction(bk, booking.RoleProvider)
	assert.False(t, ok)

	// Confirm the booking.
	require.NoError(t, store.UpdateStatus(ctx, 42, booking.StatusConfirmed, api.UpdateStatusInput{}))
	bk = waitForStatus(t, store, 42, booking.StatusConfirmed)
	action, ok = booking.PrimaryAction(bk, booking.RoleProvider)
	require.True(t, ok)
	assert.Equal(t, booking.ActionMarkDelivered, action)

	// Deliver the service.
	require.NoError(t, store.MarkDelivered(ctx, 42, api.DeliverInput{
		Notes:  "done, keys back in the lockbox",
		Photos: []string{"https://cdn.sewabazaar.com/deliveries/42-1.jpg"},
	}))
	bk = waitForStatus(t, store, 42, booking.StatusServiceDelivered)
	action, ok = booking.PrimaryAction(bk, booking.RoleProvider)
	require.True(t, ok)
	assert.Equal(t, booking.ActionProcessCashPayment, action)

	sd, err := store.DeliveryStatus(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, sd.DeliveredAt)
	assert.False(t, sd.CashCollected)

	// Collect the cash.
	require.NoError(t, store.ProcessCashPayment(ctx, 42, api.CashPaymentInput{AmountCents: 320000}))
	waitForStatus(t, store, 42, booking.StatusAwaitingConfirmation)

	sd, err = store.DeliveryStatus(ctx, 42)
	require.NoError(t, err)
	assert.True(t, sd.CashCollected)
	assert.Equal(t, int64(320000), sd.AmountCollectedCents)

	// The customer signs off.
	require.NoError(t, store.UpdateStatus(ctx, 42, booking.StatusCompleted, api.UpdateStatusInput{}))
	bk = waitForStatus(t, store, 42, booking.StatusCompleted)
	assert.True(t, bk.Status.IsTerminal())
	_, ok = booking.PrimaryAction(bk, booking.RoleCustomer)
	assert.False(t, ok, "completed bookings have no primary action")

	// The platform agrees with the local view.
	serverBk, ok := stack.Server.Booking(42)
	require.True(t, ok)
	assert.Equal(t, booking.StatusCompleted, serverBk.Status)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Completed, 1)
	assert.Equal(t, int64(42), snapshot.Completed[0].ID)

	// Four successful actions, four success toasts, no error toasts.
	successes, errors := stack.Toasts.counts()
	assert.Equal(t, 4, successes)
	assert.Zero(t, errors)

	// The happy customer leaves a review.
	review, err := stack.Client.API.CreateReview(ctx, api.ReviewInput{
		BookingID: 42,
		Rating:    5,
		Comment:   "spotless work, arrived right on time",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), review.BookingID)
	require.Len(t, stack.Server.Reviews(), 1)
}

// TestLiveNotifications_FlowThroughFacade verifies that stream events reach
// the feed newest-first and are mirrored to the platform notifier, and that
// malformed events are dropped without killing the subscription.
func TestLiveNotifications_FlowThroughFacade(t *testing.T) {
	stack := setupClientStack(t)
	feed := stack.Client.Feed

	feed.SubscribeRealTime(context.Background())
	require.Eventually(t, func() bool { return stack.Server.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, feed.Connected, 2*time.Second, 10*time.Millisecond)

	stack.Server.Push(api.Notification{ID: 201, Type: "booking_update", Title: "Booking confirmed"})
	stack.Server.PushRaw([]byte(`{"id": 202,`)) // malformed, must be skipped
	stack.Server.Push(api.Notification{ID: 203, Type: "payment_update", Title: "Cash payment recorded"})

	require.Eventually(t, func() bool { return len(feed.List()) == 2 }, 2*time.Second, 10*time.Millisecond)
	list := feed.List()
	assert.Equal(t, int64(203), list[0].ID, "newest event should be first")
	assert.Equal(t, int64(201), list[1].ID)
	assert.True(t, feed.Connected())

	require.Eventually(t, func() bool { return len(stack.Notifier.ids()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int64{201, 203}, stack.Notifier.ids())

	feed.UnsubscribeRealTime()
	assert.False(t, feed.Connected())
}
