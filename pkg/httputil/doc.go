// Package httputil provides retry and file-caching utilities. The
// gatherer loop and the scheduler import it; the indexer does not.
//
// # Overview
//
//   - [Cache]: file-based keyed blob cache.
//   - [Retry] / [RetryWithBackoff]: exponential-backoff retry. The
//     gatherer's per-URL retry/backoff state machine (§4.1) reuses the
//     [RetryableError] signal to tell soft from hard failures; it does
//     not call Retry itself.
//
// # Retry
//
// [Retry] re-runs fn until it succeeds, a non-retryable error is returned,
// or attempts are exhausted. Only errors wrapped with [RetryableError]
// trigger another attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    if transient {
//	        return httputil.Retryable(err)
//	    }
//	    return err
//	})
//
// # Caching
//
// [Cache] stores byte blobs in the filesystem (~/.cache/holmes/ by default)
// keyed by a SHA-256 hash, with optional TTL-based expiry.
package httputil
