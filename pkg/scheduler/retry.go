package scheduler

import (
	"github.com/sherlocksearch/holmes/pkg/herrors"
	"github.com/sherlocksearch/holmes/pkg/httputil"
)

// FirstError is the OID base every terminal fetch-error record is
// offset from (spec §4.1/§8 scenario S5: "final oid=FIRST_ERROR+1000").
// Error OIDs live in their own namespace above any real bucket OID so
// a reader can tell an error record from a fetched document by range
// alone.
const FirstError uint64 = 1_000_000_000

// RetryClass is what a fetch outcome means for the retry/backoff state
// machine (spec §4.1).
type RetryClass int

const (
	// ClassSuccess: fetch succeeded, clear all error state.
	ClassSuccess RetryClass = iota
	// ClassNotModified: conditional GET returned 304; treat as success
	// for retry purposes but the caller keeps the prior card.
	ClassNotModified
	// ClassSoft: transient failure (timeout, 5xx, DNS hiccup); retry
	// with backoff up to MaxRetries.
	ClassSoft
	// ClassHard: permanent failure (404, parse-level rejection);
	// discard immediately, no retry.
	ClassHard
	// ClassKeyResolution: the host's DNS/queue-key resolution itself
	// failed; routed to the unresolvable-host queue-key range instead
	// of retried against the same key.
	ClassKeyResolution
)

// Classify maps a fetch error to a [RetryClass], using
// [httputil.RetryableError] to distinguish soft from hard failures —
// the same transient/permanent signal the teacher's httputil.Retry
// loop already consumes for outbound requests.
func Classify(err error) RetryClass {
	if err == nil {
		return ClassSuccess
	}
	if herrors.GetCode(err) == herrors.ErrCodeFetchFatal {
		return ClassHard
	}
	if herrors.GetCode(err) == herrors.ErrCodeFetchTransient {
		return ClassSoft
	}
	if isRetryableErr(err) {
		return ClassSoft
	}
	return ClassHard
}

func isRetryableErr(err error) bool {
	var re *httputil.RetryableError
	return herrors.Is(err, herrors.ErrCodeFetchTransient) || asRetryable(err, &re)
}

func asRetryable(err error, target **httputil.RetryableError) bool {
	for err != nil {
		if re, ok := err.(*httputil.RetryableError); ok {
			*target = re
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// RetryState is the per-URL backoff bookkeeping the scheduler carries
// between Finish calls (spec §4.1 steps 1-5):
//  1. a successful or not-modified fetch resets Code/Retries to zero.
//  2. a soft error increments Retries and, while Retries < maxRetries,
//     the URL is re-enqueued with its priority untouched.
//  3. once Retries reaches maxRetries, the error becomes terminal: no
//     further re-enqueue happens regardless of further Record calls.
//  4. a hard error is terminal on the first occurrence.
//  5. a terminal state's OID is [FirstError] + the last error code,
//     and the host's QUEUED flag for that item is cleared.
type RetryState struct {
	Code     int
	Retries  int
	Terminal bool
}

// Record applies one fetch outcome to the retry state and reports
// whether the URL should be re-enqueued.
func (r *RetryState) Record(class RetryClass, code int, maxRetries int) (requeue bool) {
	switch class {
	case ClassSuccess, ClassNotModified:
		*r = RetryState{}
		return false
	case ClassHard, ClassKeyResolution:
		r.Code = code
		r.Terminal = true
		return false
	case ClassSoft:
		r.Code = code
		if r.Terminal {
			return false
		}
		r.Retries++
		if r.Retries >= maxRetries {
			r.Terminal = true
			return false
		}
		return true
	default:
		return false
	}
}

// FinalOID returns the error-namespace OID for a terminal RetryState.
// Only meaningful once r.Terminal is true.
func (r RetryState) FinalOID() uint64 {
	return FirstError + uint64(r.Code)
}
