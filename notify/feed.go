// Package notify maintains the user's notification feed: a newest-first list
// refreshed on demand and updated live from the platform's server-sent event
// stream.
package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/internal/sse"
)

// NotificationAPI is the slice of the platform client the feed depends on.
type NotificationAPI interface {
	Notifications(ctx context.Context) ([]api.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int64) error
	NotificationPreferences(ctx context.Context) (api.NotificationPreferences, error)
	UpdateNotificationPreferences(ctx context.Context, prefs api.NotificationPreferences) (api.NotificationPreferences, error)
	NotificationStream(ctx context.Context) (io.ReadCloser, error)
}

// Feed is the client-side notification state. The zero value is not usable;
// construct with NewFeed.
//
// The live subscription is an explicit lifecycle: SubscribeRealTime starts
// it, UnsubscribeRealTime (or cancellation of the subscribe context) ends it.
// While subscribed the feed reconnects on stream failures with exponential
// backoff and never gives up.
type Feed struct {
	api      NotificationAPI
	notifier PlatformNotifier
	logger   *zap.Logger

	mu         sync.Mutex
	items      []api.Notification // newest first
	subscribed bool
	connected  bool
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewFeed creates a notification feed backed by the given client. The
// notifier may be nil; a nil logger is replaced with a no-op.
func NewFeed(client NotificationAPI, notifier PlatformNotifier, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		api:      client,
		notifier: notifier,
		logger:   logger,
	}
}

// Refresh replaces the feed with the platform's current notifications.
func (f *Feed) Refresh(ctx context.Context) error {
	list, err := f.api.Notifications(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.items = list
	f.mu.Unlock()
	return nil
}

// List returns a copy of the feed, newest first.
func (f *Feed) List() []api.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Notification(nil), f.items...)
}

// UnreadCount reports how many notifications are unread.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead marks one notification as read on the platform and locally.
func (f *Feed) MarkRead(ctx context.Context, id int64) error {
	if err := f.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead = true
			break
		}
	}
	return nil
}

// MarkAllRead marks every notification as read on the platform and locally.
func (f *Feed) MarkAllRead(ctx context.Context) error {
	if err := f.api.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].IsRead = true
	}
	return nil
}

// Delete removes a notification on the platform and locally.
func (f *Feed) Delete(ctx context.Context, id int64) error {
	if err := f.api.DeleteNotification(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

// Preferences fetches the user's notification preferences.
func (f *Feed) Preferences(ctx context.Context) (api.NotificationPreferences, error) {
	return f.api.NotificationPreferences(ctx)
}

// UpdatePreferences stores new notification preferences.
func (f *Feed) UpdatePreferences(ctx context.Context, prefs api.NotificationPreferences) (api.NotificationPreferences, error) {
	return f.api.UpdateNotificationPreferences(ctx, prefs)
}

// SubscribeRealTime starts the live subscription. It is a no-op while a
// subscription is already active. The subscription ends when ctx is canceled
// or UnsubscribeRealTime is called; cancellation winds down asynchronously,
// after which a new SubscribeRealTime starts a fresh subscription.
func (f *Feed) SubscribeRealTime(ctx context.Context) {
	f.mu.Lock()
	if f.subscribed {
		f.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	f.subscribed = true
	f.cancel = cancel
	f.done = done
	f.mu.Unlock()

	go f.run(ctx, done)
}

// UnsubscribeRealTime ends the live subscription and waits for the stream
// loop to exit. Calling it without an active subscription is a no-op.
func (f *Feed) UnsubscribeRealTime() {
	f.mu.Lock()
	cancel := f.cancel
	done := f.done
	f.subscribed = false
	f.cancel = nil
	f.done = nil
	f.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Connected reports whether the live stream is currently open. It stays false
// between reconnect attempts.
func (f *Feed) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *Feed) setConnected(v bool) {
	f.mu.Lock()
	f.connected = v
	f.mu.Unlock()
}

// run keeps the stream alive until ctx is canceled, reconnecting with
// exponential backoff. A successful connection resets the backoff; a retry
// hint from the server overrides the next interval. On exit the subscription
// state is cleared so a later SubscribeRealTime starts fresh. The clear is
// guarded by handle identity: UnsubscribeRealTime or a replacement
// subscription may already have taken over.
func (f *Feed) run(ctx context.Context, done chan struct{}) {
	defer func() {
		f.mu.Lock()
		if f.done == done {
			f.subscribed = false
			f.cancel = nil
			f.done = nil
		}
		f.mu.Unlock()
		close(done)
	}()

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 200 * time.Millisecond
	expo.MaxInterval = 10 * time.Second
	expo.MaxElapsedTime = 0 // reconnect for as long as we are subscribed

	for {
		hint, err := f.consume(ctx, expo.Reset)
		if err == nil {
			return
		}
		wait := expo.NextBackOff()
		if hint > 0 {
			wait = hint
		}
		f.logger.Warn("notification stream reconnecting",
			zap.Error(err),
			zap.Duration("backoff", wait),
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// consume opens the stream and ingests events until it breaks, returning the
// server's retry hint alongside the error. It returns a nil error only when
// ctx was canceled, signalling a clean shutdown.
func (f *Feed) consume(ctx context.Context, onConnect func()) (time.Duration, error) {
	stream, err := f.api.NotificationStream(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		return 0, err
	}
	defer stream.Close()

	onConnect()
	f.setConnected(true)
	defer f.setConnected(false)

	dec := sse.NewDecoder(stream)
	for {
		ev, err := dec.Next()
		if err != nil {
			if ctx.Err() != nil {
				return 0, nil
			}
			return dec.Retry(), err
		}
		f.ingest(ev)
	}
}

// ingest prepends one stream event to the feed. Events that are not
// notifications or do not decode are skipped without breaking the stream.
func (f *Feed) ingest(ev sse.Event) {
	if ev.Name != "" && ev.Name != "notification" {
		f.logger.Debug("ignoring stream event", zap.String("event", ev.Name))
		return
	}
	var n api.Notification
	if err := json.Unmarshal(ev.Data, &n); err != nil {
		f.logger.Warn("skipping malformed notification event",
			zap.String("event_id", ev.ID),
			zap.Error(err),
		)
		return
	}

	f.mu.Lock()
	f.items = append([]api.Notification{n}, f.items...)
	f.mu.Unlock()

	if f.notifier != nil {
		f.notifier.Notify(n)
	}
}
