package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultExpiryInterval = 30 * time.Second

// expirySource reports the lifetime of the current session.
type expirySource interface {
	IsAuthenticated() bool
	ExpiresAt() (time.Time, bool)
}

// expirer ends a session the same way a rejected request does.
type expirer interface {
	Expire()
}

// StartExpiryWatcher launches a background goroutine that ends the session
// once its token expires, so the user is asked to sign in again before a
// request fails. It returns immediately.
func StartExpiryWatcher(ctx context.Context, src expirySource, exp expirer, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultExpiryInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			checkExpiry(time.Now(), src, exp, log)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// checkExpiry expires the session when its token has run out. Tokens
// without an expiry claim are left to the server.
func checkExpiry(now time.Time, src expirySource, exp expirer, log zerolog.Logger) bool {
	if !src.IsAuthenticated() {
		return false
	}
	at, ok := src.ExpiresAt()
	if !ok || now.Before(at) {
		return false
	}
	log.Info().Time("expired_at", at).Msg("session token expired")
	exp.Expire()
	return true
}
