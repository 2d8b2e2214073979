package sewabazaar_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sewabazaar "github.com/FarhanAlam-Official/SewaBazaar-sub009"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/apitest"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/booking"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/provider"
)

// clientStack holds a wired-up client and the fake platform it talks to.
type clientStack struct {
	Server   *apitest.Server
	Client   *sewabazaar.Client
	Toasts   *toastRecorder
	Notifier *notifyRecorder
}

// setupClientStack starts a fake platform server and assembles a client
// against it. Everything is torn down via t.Cleanup.
func setupClientStack(t *testing.T) *clientStack {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)

	toasts := &toastRecorder{}
	notifier := &notifyRecorder{}
	client, err := sewabazaar.New(api.Config{BaseURL: srv.URL()}, sewabazaar.Options{
		Toaster:  toasts,
		Notifier: notifier,
	})
	require.NoError(t, err, "failed to assemble client")
	t.Cleanup(client.Close)

	return &clientStack{
		Server:   srv,
		Client:   client,
		Toasts:   toasts,
		Notifier: notifier,
	}
}

// seedCashBooking inserts a pending cash booking on the fake platform.
func seedCashBooking(srv *apitest.Server, id int64) booking.Booking {
	bk := booking.Booking{
		ID:           id,
		CustomerID:   11,
		ProviderID:   7,
		ServiceID:    3,
		ServiceTitle: "Full house deep clean",
		Status:       booking.StatusPending,
		PaymentType:  booking.PaymentCash,
		Date:         "2026-09-05",
		StartTime:    "09:00",
		AmountCents:  320000,
		CreatedAt:    time.Now().UTC().Add(-48 * time.Hour),
		UpdatedAt:    time.Now().UTC().Add(-48 * time.Hour),
	}
	srv.AddBooking(bk)
	return bk
}

// waitForStatus polls the booking store until the booking reaches the wanted
// status.
func waitForStatus(t *testing.T, store *provider.Bookings, id int64, want booking.Status) booking.Booking {
	t.Helper()
	var result booking.Booking
	require.Eventually(t, func() bool {
		snap := store.Snapshot()
		bk, _, ok := snap.Find(id)
		if ok && bk.Status == want {
			result = bk
			return true
		}
		return false
	}, 5*time.Second, 50*time.Millisecond, "booking %d did not reach %s", id, want)
	return result
}

// toastRecorder captures action outcome messages.
type toastRecorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *toastRecorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *toastRecorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *toastRecorder) counts() (successes, errors int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes), len(r.errors)
}

// notifyRecorder captures notifications mirrored to the platform surface.
type notifyRecorder struct {
	mu  sync.Mutex
	got []api.Notification
}

func (r *notifyRecorder) Notify(n api.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *notifyRecorder) ids() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.got))
	for i, n := range r.got {
		out[i] = n.ID
	}
	return out
}
