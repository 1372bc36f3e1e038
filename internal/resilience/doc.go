// Package resilience groups the fault tolerance helpers used around storage.
//
// Persistence is best effort for the text endpoints: a result is returned
// to the caller even when it cannot be stored. The subpackages keep a
// failing database from slowing every request down:
//   - circuitbreaker stops calling the store after repeated failures
//   - retry retries transient driver errors with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.StoreConfig())
//	err := cb.Do(ctx, func(ctx context.Context) error {
//	    return retry.WithBackoff(ctx, retry.StoreConfig(), func() error {
//	        return repo.Create(ctx, record)
//	    })
//	})
package resilience
