package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
)

// hub fans event frames out to connected stream clients.
type hub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[chan []byte]struct{})}
}

func (h *hub) subscribe() chan []byte {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

func (h *hub) broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- frame:
		default: // slow client, drop rather than wedge the test
		}
	}
}

// dropAll disconnects every stream client server-side.
func (h *hub) dropAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		close(ch)
		delete(h.clients, ch)
	}
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// streamNotifications handles GET /api/notifications/stream/. The connection
// stays open until the client goes away or DropStreams is called.
func (s *Server) streamNotifications(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	s.mu.Lock()
	hint := s.retryHint
	s.mu.Unlock()

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	// Commit the headers right away so clients observe an open stream
	// before the first event arrives.
	c.Writer.WriteHeader(http.StatusOK)
	_, _ = c.Writer.WriteString(": connected\n\n")
	if hint > 0 {
		_, _ = fmt.Fprintf(c.Writer, "retry: %d\n\n", hint.Milliseconds())
	}
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case frame, ok := <-ch:
			if !ok {
				return false
			}
			_, _ = w.Write(frame)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Push broadcasts a notification event to every connected stream client.
func (s *Server) Push(n api.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	s.PushRaw(payload)
}

// PushRaw broadcasts an arbitrary event payload. Tests use it to send
// malformed data down the stream.
func (s *Server) PushRaw(data []byte) {
	var frame bytes.Buffer
	fmt.Fprintf(&frame, "id: %s\n", uuid.NewString())
	frame.WriteString("event: notification\n")
	for _, line := range bytes.Split(data, []byte("\n")) {
		fmt.Fprintf(&frame, "data: %s\n", line)
	}
	frame.WriteByte('\n')
	s.hub.broadcast(frame.Bytes())
}

// DropStreams severs every open stream connection, forcing clients to
// reconnect.
func (s *Server) DropStreams() {
	s.hub.dropAll()
}

// Subscribers reports how many stream clients are currently connected.
func (s *Server) Subscribers() int {
	return s.hub.size()
}
