package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notification is a single platform notification.
type Notification struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	IsRead    bool           `json:"is_read"`
	Priority  string         `json:"priority,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NotificationPreferences controls which channels and categories a user
// receives notifications on.
type NotificationPreferences struct {
	EmailEnabled      bool `json:"email_enabled"`
	SMSEnabled        bool `json:"sms_enabled"`
	PushEnabled       bool `json:"push_enabled"`
	BookingUpdates    bool `json:"booking_updates"`
	PaymentUpdates    bool `json:"payment_updates"`
	Reminders         bool `json:"reminders"`
	MarketingMessages bool `json:"marketing_messages"`
}

// Notifications fetches the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var list []Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications/", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/notifications/%d/mark_read/", id), nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/mark_all_read/", nil, nil)
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/notifications/%d/", id), nil, nil)
}

// NotificationPreferences fetches the user's notification preferences.
func (c *Client) NotificationPreferences(ctx context.Context) (NotificationPreferences, error) {
	var prefs NotificationPreferences
	if err := c.do(ctx, http.MethodGet, "/api/notifications/preferences/", nil, &prefs); err != nil {
		return NotificationPreferences{}, err
	}
	return prefs, nil
}

// UpdateNotificationPreferences stores the given notification preferences and
// returns the stored result.
func (c *Client) UpdateNotificationPreferences(ctx context.Context, prefs NotificationPreferences) (NotificationPreferences, error) {
	var updated NotificationPreferences
	if err := c.do(ctx, http.MethodPatch, "/api/notifications/preferences/", prefs, &updated); err != nil {
		return NotificationPreferences{}, err
	}
	return updated, nil
}

// NotificationStream opens the server-sent event stream of notifications.
// The stream has no client-side timeout; cancel ctx to close it. The caller
// owns the returned body and must close it.
func (c *Client) NotificationStream(ctx context.Context) (io.ReadCloser, error) {
	req, requestID, err := c.newRequest(ctx, http.MethodGet, "/api/notifications/stream/", nil)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Message: fmt.Sprintf("build stream request: %v", err), cause: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamc.Do(req)
	if err != nil {
		return nil, &Error{
			Kind:      KindRequest,
			Message:   fmt.Sprintf("open notification stream: %v", err),
			RequestID: requestID,
			cause:     err,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, c.responseError(resp.StatusCode, requestID, http.MethodGet, "/api/notifications/stream/", data)
	}
	return resp.Body, nil
}
