package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/booking"
)

// UpdateStatusInput carries the optional fields of a status change.
// RejectionReason is only meaningful when moving a booking to rejected.
type UpdateStatusInput struct {
	Notes           string `json:"notes,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// DeliverInput marks a confirmed booking as delivered by the provider.
type DeliverInput struct {
	Notes  string   `json:"notes,omitempty"`
	Photos []string `json:"photos,omitempty"`
}

// CashPaymentInput records a cash collection for a delivered booking.
type CashPaymentInput struct {
	AmountCents int64  `json:"amount_cents"`
	Notes       string `json:"notes,omitempty"`
}

// ServiceDelivery is the delivery record of a single booking.
type ServiceDelivery struct {
	BookingID            int64      `json:"booking_id"`
	Status               string     `json:"status"`
	DeliveredAt          *time.Time `json:"delivered_at,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	Photos               []string   `json:"photos,omitempty"`
	CashCollected        bool       `json:"cash_collected"`
	AmountCollectedCents int64      `json:"amount_collected_cents"`
}

// ProviderBookings fetches the provider's bookings grouped by lifecycle
// bucket. The result is normalized so every bucket is non-nil.
func (c *Client) ProviderBookings(ctx context.Context) (booking.Grouped, error) {
	var grouped booking.Grouped
	if err := c.do(ctx, http.MethodGet, "/api/provider/bookings/", nil, &grouped); err != nil {
		return booking.Grouped{}, err
	}
	grouped.Normalize()
	return grouped, nil
}

// UpdateBookingStatus moves a booking to the given status. The returned
// booking reflects the server's view; it is nil when the server acknowledged
// the change without echoing the booking back.
func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status booking.Status, in UpdateStatusInput) (*booking.Booking, error) {
	payload := struct {
		Status string `json:"status"`
		UpdateStatusInput
	}{Status: status.String(), UpdateStatusInput: in}

	var bk booking.Booking
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/bookings/%d/update_status/", id), payload, &bk); err != nil {
		return nil, err
	}
	if bk.ID == 0 {
		return nil, nil
	}
	return &bk, nil
}

// MarkServiceDelivered reports that the provider finished the service.
func (c *Client) MarkServiceDelivered(ctx context.Context, id int64, in DeliverInput) (*booking.Booking, error) {
	var bk booking.Booking
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/bookings/%d/mark_delivered/", id), in, &bk); err != nil {
		return nil, err
	}
	if bk.ID == 0 {
		return nil, nil
	}
	return &bk, nil
}

// ProcessCashPayment records a cash collection against a delivered booking.
func (c *Client) ProcessCashPayment(ctx context.Context, id int64, in CashPaymentInput) (*booking.Booking, error) {
	var bk booking.Booking
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/bookings/%d/process_cash_payment/", id), in, &bk); err != nil {
		return nil, err
	}
	if bk.ID == 0 {
		return nil, nil
	}
	return &bk, nil
}

// ServiceDeliveryStatus fetches the delivery record of a booking.
func (c *Client) ServiceDeliveryStatus(ctx context.Context, id int64) (ServiceDelivery, error) {
	var sd ServiceDelivery
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookings/%d/delivery_status/", id), nil, &sd); err != nil {
		return ServiceDelivery{}, err
	}
	return sd, nil
}
