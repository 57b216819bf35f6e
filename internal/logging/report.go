package logging

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// Report logs an unexpected error and forwards it to Sentry. Sentry is a
// no-op until sentry.Init has been called with a DSN.
func Report(ctx context.Context, err error, msg string) {
	Ctx(ctx).Error().Err(err).Msg(msg)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
