package scheduler

import "time"

// ExpiryPolicy mirrors the age-based purge tunables of the original
// gatherer daemon's expirer (original_source gather/daemon/expire.c).
// [Expirer.Sweep] reads only RobotsExpireAge; the other fields are
// carried in the policy but no sweep consults them.
type ExpiryPolicy struct {
	MinRevalidateAge time.Duration
	RevalidateCycle  time.Duration
	QueueDiscardAge  time.Duration
	ErrorDiscardAge  time.Duration
	RobotsExpireAge  time.Duration
	QueueKeyExpire   time.Duration

	QueuePostpone      time.Duration
	QueueBonusRefresh  int32
	QueueBonusRegather int32
	QueuePenaltyRetry  int32
}

// DefaultExpiryPolicy returns the same magnitudes expire.c's built-in
// defaults use, scaled from its box-of-seconds histogram config into
// Go durations.
func DefaultExpiryPolicy() ExpiryPolicy {
	return ExpiryPolicy{
		MinRevalidateAge:   24 * time.Hour,
		RevalidateCycle:    7 * 24 * time.Hour,
		QueueDiscardAge:    14 * 24 * time.Hour,
		ErrorDiscardAge:    3 * 24 * time.Hour,
		RobotsExpireAge:    24 * time.Hour,
		QueueKeyExpire:     30 * 24 * time.Hour,
		QueuePostpone:      time.Hour,
		QueueBonusRefresh:  10,
		QueueBonusRegather: 5,
		QueuePenaltyRetry:  -20,
	}
}

// AgeHistogram buckets host ages into fixed-width boxes, the same
// shape expire.c logs per sweep ("hist_num_boxes" entries of
// "hist_box_width" each) so an operator can see the age distribution
// of what a sweep examined.
type AgeHistogram struct {
	BoxWidth time.Duration
	Boxes    []int
}

// NewAgeHistogram creates a histogram with numBoxes buckets of
// boxWidth each; ages beyond the last bucket fall into it too
// (open-ended tail bucket).
func NewAgeHistogram(numBoxes int, boxWidth time.Duration) *AgeHistogram {
	if numBoxes < 1 {
		numBoxes = 1
	}
	return &AgeHistogram{BoxWidth: boxWidth, Boxes: make([]int, numBoxes)}
}

func (h *AgeHistogram) record(age time.Duration) {
	idx := int(age / h.BoxWidth)
	if idx >= len(h.Boxes) {
		idx = len(h.Boxes) - 1
	}
	if idx < 0 {
		idx = 0
	}
	h.Boxes[idx]++
}

// ExpireResult summarizes one sweep: how many entries of each kind
// were discarded, plus the age histograms expire.c logs per-section
// and per-type.
type ExpireResult struct {
	QueueDiscarded  int
	ErrorsDiscarded int
	RobotsExpired   int
	KeysExpired     int
	AgeBySection    map[string]*AgeHistogram
}

// Expirer runs age-based purges against a Scheduler, grounded on the
// original gatherer daemon's periodic expire pass (B' supplemented
// feature — not named in the distilled spec, present in
// original_source/gather/daemon/expire.c).
type Expirer struct {
	Policy ExpiryPolicy
}

func NewExpirer(policy ExpiryPolicy) *Expirer {
	return &Expirer{Policy: policy}
}

// Sweep walks every host in s, clears robots.txt state fetched longer
// than Policy.RobotsExpireAge ago, and drops terminal records still in
// the retry table whatever their age, returning a summary for logging.
// Queue items and queue keys are not purged, so QueueDiscarded and
// KeysExpired stay zero; the "all" histogram records the robots-fetch
// age of every host that has one. now is passed explicitly by the caller rather than read
// from the clock, keeping Sweep deterministic for tests.
func (e *Expirer) Sweep(s *Scheduler, now time.Time) ExpireResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := ExpireResult{AgeBySection: make(map[string]*AgeHistogram)}
	hist := NewAgeHistogram(10, time.Hour)
	res.AgeBySection["all"] = hist

	for _, h := range s.hosts {
		if !h.RobotsFetch.IsZero() {
			age := now.Sub(h.RobotsFetch)
			hist.record(age)
			if age > e.Policy.RobotsExpireAge {
				h.RobotsFetch = time.Time{}
				h.RobotsOID = 0
				res.RobotsExpired++
			}
		}
	}
	for url, rs := range s.retries {
		if rs.Terminal {
			delete(s.retries, url)
			res.ErrorsDiscarded++
		}
	}
	return res
}
