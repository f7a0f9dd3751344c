package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	"github.com/feedbackhub/feedbackhub/shared/middleware/ratelimiter"
	"github.com/feedbackhub/feedbackhub/shared/utils"
)

func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.IsAdmin() { // disable for admin
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, errors.Validation(err.Error()))
				return
			}
			if !rl.Allow(identity) {
				utils.WriteErrorAndStatusCode(w, errors.RateLimited())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// Possible if user was authorized with previous middleware
func GetUserIDFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", fmt.Errorf("can't get user id")
	}
	return "user_" + user.Id.String(), nil
}

// GetIP extracts the client IP from RemoteAddr. Forwarding headers are not
// trusted; chi's RealIP middleware rewrites RemoteAddr when deployed behind a proxy.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}

// StartCleanup periodically drops idle buckets from the given limiters.
func StartCleanup(ctx context.Context, interval time.Duration, limiters ...*ratelimiter.UserRateLimiter) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := 0
				for _, rl := range limiters {
					removed += rl.Cleanup()
				}
				if removed > 0 {
					logger.Log.Debug("rate limiter cleanup", "removed", removed)
				}
			}
		}
	}()
}
