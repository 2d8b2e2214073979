// Package apitest runs an in-process fake of the SewaBazaar platform API for
// tests. The fake enforces the booking lifecycle the way the real backend
// does, so client tests exercise genuine transition conflicts, permission
// failures and stream behavior without leaving the process.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/booking"
)

type failure struct {
	status  int
	message string
}

// Server is a fake platform API bound to an ephemeral port.
type Server struct {
	httpSrv *httptest.Server
	hub     *hub

	mu            sync.Mutex
	token         string
	bookings      map[int64]booking.Booking
	deliveries    map[int64]api.ServiceDelivery
	notifications []api.Notification
	prefs         api.NotificationPreferences
	reviews       []api.Review
	nextReviewID  int64
	retryHint     time.Duration
	calls         map[string]int
	failures      map[string]failure
	holds         map[string]chan struct{}
}

// New starts a fake platform server. Callers own it and must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		hub:        newHub(),
		bookings:   make(map[int64]booking.Booking),
		deliveries: make(map[int64]api.ServiceDelivery),
		calls:      make(map[string]int),
		failures:   make(map[string]failure),
		holds:      make(map[string]chan struct{}),
	}

	engine := gin.New()
	engine.Use(s.instrument)
	s.registerRoutes(engine)
	s.httpSrv = httptest.NewServer(engine)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.httpSrv.URL }

// Close shuts the server down and drops any connected stream clients.
func (s *Server) Close() {
	s.hub.dropAll()
	s.httpSrv.Close()
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	g := engine.Group("/api")

	g.GET("/provider/bookings/", s.listProviderBookings)

	bookings := g.Group("/bookings")
	{
		bookings.POST("/:id/update_status/", s.updateBookingStatus)
		bookings.POST("/:id/mark_delivered/", s.markServiceDelivered)
		bookings.POST("/:id/process_cash_payment/", s.processCashPayment)
		bookings.GET("/:id/delivery_status/", s.deliveryStatus)
	}

	notifications := g.Group("/notifications")
	{
		notifications.GET("/", s.listNotifications)
		notifications.POST("/mark_all_read/", s.markAllNotificationsRead)
		notifications.GET("/preferences/", s.getNotificationPreferences)
		notifications.PATCH("/preferences/", s.updateNotificationPreferences)
		notifications.GET("/stream/", s.streamNotifications)
		notifications.POST("/:id/mark_read/", s.markNotificationRead)
		notifications.DELETE("/:id/", s.deleteNotification)
	}

	g.POST("/reviews/", s.createReview)
}

// instrument counts every routed request and applies the configured holds,
// failure injections and token check before the real handler runs.
func (s *Server) instrument(c *gin.Context) {
	key := c.Request.Method + " " + c.FullPath()

	s.mu.Lock()
	s.calls[key]++
	f, failed := s.failures[key]
	hold := s.holds[key]
	token := s.token
	s.mu.Unlock()

	if hold != nil {
		<-hold
	}
	if failed {
		c.AbortWithStatusJSON(f.status, gin.H{"error": f.message})
		return
	}
	if token != "" && c.GetHeader("Authorization") != "Bearer "+token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.Next()
}

// SetToken makes every endpoint require the given bearer token. An empty
// token disables the check.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// AddBooking seeds or replaces a booking. It panics when the seed carries an
// unrecognized payment type.
func (s *Server) AddBooking(bk booking.Booking) {
	if !bk.PaymentType.IsValid() {
		panic(fmt.Sprintf("apitest: booking %d has unknown payment type %q", bk.ID, bk.PaymentType))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[bk.ID] = bk
}

// Booking returns the server's current view of a booking.
func (s *Server) Booking(id int64) (booking.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bk, ok := s.bookings[id]
	return bk, ok
}

// Delivery returns the delivery record for a booking, if one exists.
func (s *Server) Delivery(id int64) (api.ServiceDelivery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd, ok := s.deliveries[id]
	return sd, ok
}

// SeedNotifications replaces the stored notifications. The list endpoint
// returns them in the order given, so seed newest first.
func (s *Server) SeedNotifications(list ...api.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append([]api.Notification(nil), list...)
}

// SetPreferences seeds the stored notification preferences.
func (s *Server) SetPreferences(prefs api.NotificationPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
}

// SetRetryHint makes the stream endpoint advertise the given reconnection
// delay to clients.
func (s *Server) SetRetryHint(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryHint = d
}

// Reviews returns the reviews created so far.
func (s *Server) Reviews() []api.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Review(nil), s.reviews...)
}

// Calls reports how many requests hit the given route. The route is the
// registered pattern, e.g. "/api/bookings/:id/update_status/".
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+route]
}

// Fail makes the given route answer with a fixed error until ClearFail.
func (s *Server) Fail(method, route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = failure{status: status, message: message}
}

// ClearFail removes a failure injection.
func (s *Server) ClearFail(method, route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+route)
}

// Hold blocks requests to the given route until the returned release func is
// called. Release is idempotent.
func (s *Server) Hold(method, route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[method+" "+route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, method+" "+route)
			s.mu.Unlock()
			close(ch)
		})
	}
}
