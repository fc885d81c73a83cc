// Package cache provides a small TTL cache with single-flight loading.
//
// It replaces ad-hoc module-level memoization maps with an explicit component
// that is constructed and owned per process: a map from key to {value, expiry}
// plus de-duplication of concurrent loads for the same key. Expired entries
// are treated as missing and removed lazily on access.
//
// Typical use is request memoization for display-only data, such as caching
// an eligibility lookup for the lifetime of one checkout page:
//
//	c := cache.NewTTL[string, Result](30 * time.Second)
//	res, err := c.GetOrLoad(ctx, email, func(ctx context.Context) (Result, error) {
//		return resolver.Check(ctx, email, planCode)
//	})
//
// Only successful loads are cached; errors propagate to every caller that
// joined the flight and nothing is stored.
package cache
