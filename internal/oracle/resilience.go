package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/MelanieRosenberg/Town/internal/common"
	"github.com/MelanieRosenberg/Town/internal/config"
)

// resilientClient guards the backend with a rate limiter and a circuit
// breaker. An open breaker surfaces as a transport error, which the Adapter
// degrades to conservative defaults like any other outage.
type resilientClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
}

func newResilientClient(inner Client, cfg config.Oracle) *resilientClient {
	settings := gobreaker.Settings{
		Name:        "oracle",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), 1)
	}

	return &resilientClient{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		limiter: limiter,
	}
}

// Classify waits for rate-limit clearance, then calls through the breaker.
func (c *resilientClient) Classify(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", common.ErrOracleTransport, err)
	}

	content, err := c.breaker.Execute(func() (string, error) {
		return c.inner.Classify(ctx, prompt)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("%w: circuit breaker: %v", common.ErrOracleTransport, err)
		}
		return "", err
	}

	return content, nil
}
