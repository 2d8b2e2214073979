package apitest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/booking"
)

// listProviderBookings handles GET /api/provider/bookings/. Bookings are
// grouped the way the backend groups them: everything in flight between
// confirmation and completion lands in upcoming.
func (s *Server) listProviderBookings(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.bookings))
	for id := range s.bookings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var grouped booking.Grouped
	for _, id := range ids {
		bk := s.bookings[id]
		switch bk.Status {
		case booking.StatusPending:
			grouped.Pending = append(grouped.Pending, bk)
		case booking.StatusCompleted:
			grouped.Completed = append(grouped.Completed, bk)
		case booking.StatusCancelled:
			grouped.Cancelled = append(grouped.Cancelled, bk)
		case booking.StatusRejected:
			grouped.Rejected = append(grouped.Rejected, bk)
		default:
			grouped.Upcoming = append(grouped.Upcoming, bk)
		}
		grouped.Count++
	}
	c.JSON(http.StatusOK, grouped)
}

// updateBookingStatus handles POST /api/bookings/:id/update_status/.
func (s *Server) updateBookingStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req struct {
		Status          string `json:"status"`
		Notes           string `json:"notes"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next, err := booking.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bk, found := s.bookings[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if !bk.Status.CanTransitionTo(next) {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("cannot move booking from %s to %s", bk.Status, next),
		})
		return
	}

	bk.Status = next
	if req.Notes != "" {
		bk.Notes = req.Notes
	}
	if next == booking.StatusRejected && req.RejectionReason != "" {
		bk.Notes = req.RejectionReason
	}
	bk.UpdatedAt = time.Now().UTC()
	s.bookings[id] = bk
	c.JSON(http.StatusOK, bk)
}

// markServiceDelivered handles POST /api/bookings/:id/mark_delivered/. Only a
// confirmed booking can be delivered.
func (s *Server) markServiceDelivered(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req api.DeliverInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bk, found := s.bookings[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if bk.Status != booking.StatusConfirmed {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("cannot deliver a %s booking", bk.Status),
		})
		return
	}

	now := time.Now().UTC()
	bk.Status = booking.StatusServiceDelivered
	bk.UpdatedAt = now
	s.bookings[id] = bk
	s.deliveries[id] = api.ServiceDelivery{
		BookingID:   id,
		Status:      "delivered",
		DeliveredAt: &now,
		Notes:       req.Notes,
		Photos:      req.Photos,
	}
	c.JSON(http.StatusOK, bk)
}

// processCashPayment handles POST /api/bookings/:id/process_cash_payment/.
// The booking must be delivered and payable in cash; on success it advances
// to awaiting_confirmation.
func (s *Server) processCashPayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req api.CashPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AmountCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bk, found := s.bookings[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if bk.Status != booking.StatusServiceDelivered {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("cash payment requires a delivered booking, got %s", bk.Status),
		})
		return
	}
	if bk.PaymentType != booking.PaymentCash {
		c.JSON(http.StatusConflict, gin.H{"error": "booking is not payable in cash"})
		return
	}

	sd := s.deliveries[id]
	sd.BookingID = id
	sd.Status = "cash_collected"
	sd.CashCollected = true
	sd.AmountCollectedCents = req.AmountCents
	if req.Notes != "" {
		sd.Notes = req.Notes
	}
	s.deliveries[id] = sd

	bk.Status = booking.StatusAwaitingConfirmation
	bk.UpdatedAt = time.Now().UTC()
	s.bookings[id] = bk
	c.JSON(http.StatusOK, bk)
}

// deliveryStatus handles GET /api/bookings/:id/delivery_status/.
func (s *Server) deliveryStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.bookings[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	sd, found := s.deliveries[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no delivery recorded for booking"})
		return
	}
	c.JSON(http.StatusOK, sd)
}

// bookingID extracts the :id param, answering 400 itself on bad input.
func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID"})
		return 0, false
	}
	return id, true
}
