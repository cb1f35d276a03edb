package content

import (
	"errors"
	"log"
	"sync"
	"time"
)

// ErrUpstreamUnavailable is returned while the breaker is open; callers fall
// back to the mirror instead of hammering a struggling CMS.
var ErrUpstreamUnavailable = errors.New("content: upstream temporarily unavailable")

// CircuitBreaker stops CMS requests after repeated upstream failures.
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration

	failures            int
	totalRequests       int
	consecutiveFailures int
	isOpen              bool
	lastFailureTime     time.Time

	mutex sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	if resetTimeout <= 0 {
		resetTimeout = time.Minute
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
	}
}

// RecordSuccess records a successful request
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.totalRequests++
	cb.consecutiveFailures = 0
}

// RecordFailure records a failed request (5xx, 429, network error)
func (cb *CircuitBreaker) RecordFailure() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures++
	cb.consecutiveFailures++
	cb.totalRequests++
	cb.lastFailureTime = time.Now()

	if cb.consecutiveFailures >= cb.failureThreshold {
		cb.isOpen = true
		log.Printf("[Content] circuit breaker open after %d consecutive failures, retrying in %v",
			cb.consecutiveFailures, cb.resetTimeout)
	}
}

// CanProceed checks if requests are allowed
func (cb *CircuitBreaker) CanProceed() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if !cb.isOpen {
		return true
	}

	// Half-open after the reset timeout: let one request probe the upstream
	if time.Since(cb.lastFailureTime) > cb.resetTimeout {
		log.Printf("[Content] circuit breaker half-open after %v", cb.resetTimeout)
		cb.isOpen = false
		cb.failures = 0
		cb.totalRequests = 0
		cb.consecutiveFailures = 0
		return true
	}

	return false
}

// GetStatus returns current circuit breaker status
func (cb *CircuitBreaker) GetStatus() (isOpen bool, failures int, total int) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.isOpen, cb.failures, cb.totalRequests
}
