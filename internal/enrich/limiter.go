package enrich

// limiter.go implements concurrency control for enrichment fetches.
//
// The limiter uses a semaphore pattern to bound in-flight HTTP calls to
// a configurable maximum, preventing the executor from hammering the
// enrichment APIs when a bundle schedules thousands of (row, rule)
// tasks at once. Release must always be paired with a successful
// Acquire, including on fetch failure, so queued acquirers never starve.

import "context"

// DefaultConcurrency is the default limit for in-flight fetches.
const DefaultConcurrency = 5

// Limiter bounds the number of concurrently running fetch tasks.
type Limiter struct {
	semaphore chan struct{}
}

// NewLimiter creates a limiter that allows at most maxConcurrent
// simultaneous fetches.
func NewLimiter(maxConcurrent int) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultConcurrency
	}
	return &Limiter{semaphore: make(chan struct{}, maxConcurrent)}
}

// Acquire blocks until a slot is available or the context is done.
// The caller MUST call Release() when the fetch completes (use defer).
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a previously acquired slot.
// Must be called exactly once for each successful Acquire.
func (l *Limiter) Release() {
	<-l.semaphore
}

// MaxConcurrent returns the configured slot count.
func (l *Limiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// InFlight returns the number of currently occupied slots.
func (l *Limiter) InFlight() int {
	return len(l.semaphore)
}
