// Package svcctx provides service context for dependency injection via context.
// Commands extract what they need via the individual extractors.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/nutripick/nutripick/internal/config"
	"github.com/nutripick/nutripick/internal/detector"
	"github.com/nutripick/nutripick/internal/notify"
	"github.com/nutripick/nutripick/internal/products"
	"github.com/nutripick/nutripick/internal/store"
)

// Services holds all core services that flow through context.
type Services struct {
	Config   *config.Manager
	Store    *store.Store
	Sink     *store.Sink
	Products *products.Client
	Detector *detector.Client
	Notifier notify.Notifier
	Logger   *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// StoreFrom extracts the insight store from context.
func StoreFrom(ctx context.Context) *store.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// SinkFrom extracts the insight write sink from context.
func SinkFrom(ctx context.Context) *store.Sink {
	if s := ServicesFrom(ctx); s != nil {
		return s.Sink
	}
	return nil
}

// ProductsFrom extracts the product API client from context.
func ProductsFrom(ctx context.Context) *products.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Products
	}
	return nil
}

// DetectorFrom extracts the object detection client from context.
func DetectorFrom(ctx context.Context) *detector.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Detector
	}
	return nil
}

// NotifierFrom extracts the notifier from context.
func NotifierFrom(ctx context.Context) notify.Notifier {
	if s := ServicesFrom(ctx); s != nil {
		return s.Notifier
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
