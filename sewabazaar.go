// Package sewabazaar is the Go client for the SewaBazaar local-services
// platform. It bundles the typed API client with the provider booking
// dashboard store and the live notification feed.
//
// Most programs construct one Client and keep it for the process lifetime:
//
//	client, err := sewabazaar.New(api.Config{BaseURL: "https://api.sewabazaar.com"}, sewabazaar.Options{})
//	if err != nil {
//		// ...
//	}
//	defer client.Close()
//
//	if err := client.Bookings.Refresh(ctx); err != nil {
//		// ...
//	}
package sewabazaar

import (
	"go.uber.org/zap"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/internal/version"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/notify"
	"github.com/FarhanAlam-Official/SewaBazaar-sub009/provider"
)

// Version is the client library version.
const Version = version.Version

// Options configures the optional collaborators of a Client.
type Options struct {
	// Toaster receives booking action outcomes. Nil discards them.
	Toaster provider.Toaster
	// Notifier mirrors live notifications to the host platform. Nil disables
	// mirroring.
	Notifier notify.PlatformNotifier
	// Logger is shared by all components. Nil means no logging.
	Logger *zap.Logger
}

// Client is the assembled SewaBazaar client.
type Client struct {
	API      *api.Client
	Bookings *provider.Bookings
	Feed     *notify.Feed
}

// New builds a Client for the given configuration.
func New(cfg api.Config, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	apiClient, err := api.New(cfg, api.WithLogger(logger.Named("api")))
	if err != nil {
		return nil, err
	}
	return &Client{
		API:      apiClient,
		Bookings: provider.NewBookings(apiClient, opts.Toaster, logger.Named("bookings")),
		Feed:     notify.NewFeed(apiClient, opts.Notifier, logger.Named("notifications")),
	}, nil
}

// FromEnv builds a Client from SEWABAZAAR_* environment variables.
func FromEnv(opts Options) (*Client, error) {
	cfg, err := api.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts)
}

// Close ends the live notification subscription and stops background
// refreshes. The Client must not be used afterwards.
func (c *Client) Close() {
	c.Feed.UnsubscribeRealTime()
	c.Bookings.Close()
}
