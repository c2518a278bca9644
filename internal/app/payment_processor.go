package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/navidnahidi/peek-exercise/internal/domain"
)

// PaymentProcessor decides the outcome of a payment attempt before it is
// recorded. Processing is simulated; there is no gateway behind it.
type PaymentProcessor interface {
	Process(ctx context.Context, orderID string, amount float64) error
}

// DefaultFailureRate is the fraction of simulated payment attempts that fail.
const DefaultFailureRate = 0.25

type randomProcessor struct {
	mu          sync.Mutex
	rng         *rand.Rand
	failureRate float64
}

// NewRandomProcessor returns a processor that fails a fraction of attempts at
// random. Rates outside [0, 1] fall back to DefaultFailureRate.
func NewRandomProcessor(failureRate float64) PaymentProcessor {
	if failureRate < 0 || failureRate > 1 {
		failureRate = DefaultFailureRate
	}
	return &randomProcessor{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		failureRate: failureRate,
	}
}

func (p *randomProcessor) Process(_ context.Context, _ string, _ float64) error {
	p.mu.Lock()
	draw := p.rng.Float64()
	p.mu.Unlock()

	if draw < p.failureRate {
		return domain.ErrPaymentFailed
	}
	return nil
}
