// Package provider holds the provider-side booking dashboard state: a grouped
// snapshot refreshed from the platform and patched optimistically after each
// successful action, so the dashboard never waits on a second round trip.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/booking"
)

// ErrUpdateInFlight is returned when an action is requested while another
// action is still running. The dashboard allows one mutation at a time.
var ErrUpdateInFlight = errors.New("booking update already in flight")

// BookingAPI is the slice of the platform client the store depends on.
type BookingAPI interface {
	ProviderBookings(ctx context.Context) (booking.Grouped, error)
	UpdateBookingStatus(ctx context.Context, id int64, status booking.Status, in api.UpdateStatusInput) (*booking.Booking, error)
	MarkServiceDelivered(ctx context.Context, id int64, in api.DeliverInput) (*booking.Booking, error)
	ProcessCashPayment(ctx context.Context, id int64, in api.CashPaymentInput) (*booking.Booking, error)
	ServiceDeliveryStatus(ctx context.Context, id int64) (api.ServiceDelivery, error)
}

// Bookings is the provider's booking store. Reads come from Snapshot; writes
// go through the action methods, which call the platform, patch the local
// snapshot optimistically and then reconcile with a background refresh.
//
// Every state write carries a sequence number taken when the write was
// issued. A refresh only applies if it is newer than the last applied write,
// so a slow snapshot fetched before an action can never clobber the action's
// optimistic patch.
type Bookings struct {
	api    BookingAPI
	toast  Toaster
	logger *zap.Logger

	// ctx bounds background refreshes to the store's lifetime.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	grouped    booking.Grouped
	loading    int // foreground refreshes in flight
	updating   bool
	lastErr    error
	issuedSeq  uint64
	appliedSeq uint64
}

// NewBookings creates a booking store backed by the given client. A nil
// toaster or logger is replaced with a no-op.
func NewBookings(client BookingAPI, toast Toaster, logger *zap.Logger) *Bookings {
	if toast == nil {
		toast = NopToaster{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Bookings{
		api:    client,
		toast:  toast,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	s.grouped.Normalize()
	return s
}

// Close stops background refreshes and waits for them to finish.
func (s *Bookings) Close() {
	s.cancel()
	s.wg.Wait()
}

// Snapshot returns a deep copy of the current grouped bookings.
func (s *Bookings) Snapshot() booking.Grouped {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grouped.Clone()
}

// Loading reports whether a foreground refresh is running. While an action is
// in flight Updating takes precedence and Loading reports false.
func (s *Bookings) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0 && !s.updating
}

// Updating reports whether an action is in flight.
func (s *Bookings) Updating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating
}

// Err returns the store's last refresh or action error. A successful refresh
// clears it.
func (s *Bookings) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Refresh replaces the snapshot with the platform's current view. A snapshot
// that lost the race against a newer write is dropped silently.
func (s *Bookings) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading++
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}()

	grouped, err := s.api.ProviderBookings(ctx)
	if err != nil {
		s.recordErr(err)
		return err
	}
	s.apply(seq, grouped)
	return nil
}

// UpdateStatus moves a booking to the given status.
func (s *Bookings) UpdateStatus(ctx context.Context, id int64, status booking.Status, in api.UpdateStatusInput) error {
	if err := s.beginUpdate(); err != nil {
		return err
	}
	defer s.endUpdate()

	echo, err := s.api.UpdateBookingStatus(ctx, id, status, in)
	if err != nil {
		s.recordErr(err)
		s.toast.Error(fmt.Sprintf("Could not update booking #%d: %s", id, apiMessage(err)))
		return err
	}

	final := s.patch(id, status, echo)
	s.toast.Success(fmt.Sprintf("Booking #%d is now %s", id, final.Info().Label))
	s.refreshInBackground()
	return nil
}

// MarkDelivered reports the service as delivered.
func (s *Bookings) MarkDelivered(ctx context.Context, id int64, in api.DeliverInput) error {
	if err := s.beginUpdate(); err != nil {
		return err
	}
	defer s.endUpdate()

	echo, err := s.api.MarkServiceDelivered(ctx, id, in)
	if err != nil {
		s.recordErr(err)
		s.toast.Error(fmt.Sprintf("Could not mark booking #%d delivered: %s", id, apiMessage(err)))
		return err
	}

	s.patch(id, booking.StatusServiceDelivered, echo)
	s.toast.Success(fmt.Sprintf("Delivery recorded for booking #%d", id))
	s.refreshInBackground()
	return nil
}

// ProcessCashPayment records a cash collection. On success the booking
// advances to awaiting confirmation by the customer.
func (s *Bookings) ProcessCashPayment(ctx context.Context, id int64, in api.CashPaymentInput) error {
	if err := s.beginUpdate(); err != nil {
		return err
	}
	defer s.endUpdate()

	echo, err := s.api.ProcessCashPayment(ctx, id, in)
	if err != nil {
		s.recordErr(err)
		s.toast.Error(fmt.Sprintf("Could not record cash payment for booking #%d: %s", id, apiMessage(err)))
		return err
	}

	s.patch(id, booking.StatusAwaitingConfirmation, echo)
	s.toast.Success(fmt.Sprintf("Cash payment recorded for booking #%d", id))
	s.refreshInBackground()
	return nil
}

// DeliveryStatus fetches the delivery record for a booking. It holds the
// action slot while running but never toasts or patches the snapshot.
func (s *Bookings) DeliveryStatus(ctx context.Context, id int64) (api.ServiceDelivery, error) {
	if err := s.beginUpdate(); err != nil {
		return api.ServiceDelivery{}, err
	}
	defer s.endUpdate()
	return s.api.ServiceDeliveryStatus(ctx, id)
}

func (s *Bookings) beginUpdate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updating {
		return ErrUpdateInFlight
	}
	s.updating = true
	return nil
}

func (s *Bookings) endUpdate() {
	s.mu.Lock()
	s.updating = false
	s.mu.Unlock()
}

func (s *Bookings) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// apply installs a refreshed snapshot unless a newer write already landed.
func (s *Bookings) apply(seq uint64, grouped booking.Grouped) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq {
		s.logger.Debug("dropping stale bookings snapshot",
			zap.Uint64("seq", seq),
			zap.Uint64("applied_seq", s.appliedSeq),
		)
		return
	}
	grouped.Normalize()
	s.grouped = grouped
	s.appliedSeq = seq
	s.lastErr = nil
}

// patch rewrites the local copy of a booking after a successful action and
// returns the status the booking ended up in. The server's echo wins over the
// intended status when the two disagree. Patching counts as a write even when
// the booking is not in the local snapshot, so a stale refresh issued before
// the action still gets dropped.
func (s *Bookings) patch(id int64, intent booking.Status, echo *booking.Booking) booking.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issuedSeq++
	s.appliedSeq = s.issuedSeq

	final := intent
	if echo != nil {
		final = echo.Status
	}

	current, _, found := s.grouped.Find(id)
	if !found {
		s.logger.Debug("patched booking missing from local snapshot", zap.Int64("booking_id", id))
		return final
	}
	s.grouped.Remove(id)
	if echo != nil {
		current = *echo
	} else {
		current.Status = final
	}
	s.grouped.Insert(current)
	return final
}

// refreshInBackground reconciles the optimistic snapshot with the platform.
// Failures are logged and otherwise ignored; the optimistic state stands
// until the next refresh succeeds.
func (s *Bookings) refreshInBackground() {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		grouped, err := s.api.ProviderBookings(s.ctx)
		if err != nil {
			s.logger.Warn("background bookings refresh failed", zap.Error(err))
			return
		}
		s.apply(seq, grouped)
	}()
}

func apiMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
