package scheduler

import "github.com/sherlocksearch/holmes/pkg/fingerprint"

// Feedback is one indexer-computed weight/link record merged back into
// the gatherer's host state, mirroring original_source
// gather/shepherd/shep-feedback.c's struct feedback_gatherer: a
// fingerprint plus the three facts the indexer learned about that URL
// during weight computation and link-graph construction.
type Feedback struct {
	FP         fingerprint.Fingerprint
	Weight     byte
	IsLinked   bool // CARD_NOTE_IS_LINKED: at least one inbound link was found
	IsRedirect bool // CARD_NOTE_REDIRECT
	HasTarget  bool // CARD_NOTE_HAS_TARGET: the redirect target itself resolved
}

// URLFeedbackState is the subset of gatherer per-URL state that
// SiteFilter merges feedback into (the Go analogue of struct
// url_state's weight/flag fields in shep-feedback.c).
type URLFeedbackState struct {
	FP           fingerprint.Fingerprint
	Weight       byte
	TrueWeight   bool // USF_TRUE_WEIGHT: Weight came from the indexer, not a default
	Unreferenced bool // USF_UNREF
	NoTarget     bool // UST_NO_TARGET
}

// SiteFilter merges a batch of indexer [Feedback] into gatherer URL
// records, keyed by fingerprint — grounded directly on
// shep-feedback.c's merge loop: records are walked in fingerprint
// order, advancing a feedback cursor by comparison rather than
// re-searching from scratch each time (§4.1 B' supplemented feature:
// "shepherd feedback").
type SiteFilter struct{}

// Merge applies feedback (already sorted by FP, as mergesigns/merger
// leave it) to states (also sorted by FP) in a single linear pass and
// reports how many state records were updated, matching
// shep-feedback.c's closing log line "Merged feedback to %d of %d
// entries".
func (SiteFilter) Merge(states []URLFeedbackState, feedback []Feedback) (merged int) {
	i := 0
	for s := range states {
		for i < len(feedback) && feedback[i].FP.Less(states[s].FP) {
			i++
		}
		if i >= len(feedback) {
			break
		}
		if feedback[i].FP != states[s].FP {
			continue
		}
		fb := feedback[i]

		// robots.txt and security-key records always carry a forced
		// high weight in the original (weight=255, USF_TRUE_WEIGHT);
		// that distinction isn't modeled in URLFeedbackState's flat
		// shape, so every merged record simply takes the indexer's
		// Weight and marks it authoritative.
		states[s].Weight = fb.Weight
		states[s].TrueWeight = true
		states[s].Unreferenced = !fb.IsLinked
		states[s].NoTarget = fb.IsRedirect && !fb.HasTarget
		merged++
	}
	return merged
}
