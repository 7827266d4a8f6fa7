// Package labels implements the label join and fetch stages (spec
// §4.2.10): per-card side-channel attributes (URL, BODY, MERGED_ONLY,
// OVERRIDE) are re-attached to each class's representative card after
// merging, URL labels are grouped per-source-URL with redirect labels
// nested inside their target, and fetch streams (card, object) pairs
// to stage-2 consumers by merging the sorted card and label streams.
package labels

import "sort"

// Kind is a label's side-channel category (spec §4.2.10).
type Kind int

const (
	KindURL Kind = iota
	KindBody
	KindMergedOnly
	KindOverride
)

// Label is one per-card side-channel attribute.
type Label struct {
	Card       uint32
	Kind       Kind
	SourceURL  string // set for KindURL; the URL this label was fetched under
	RedirectTo string // non-empty if SourceURL redirected here
	Attr       string // attribute key, used by KindOverride (AttrSort)
	Value      string
}

// URLGroup is one source URL's header block: its own label plus any
// redirect labels nested under it (spec §4.2.10).
type URLGroup struct {
	SourceURL string
	Redirects []Label
	Label     Label
}

// Join re-attaches every label to its class's representative card
// (repOf maps a merged class's original card id to its chosen
// representative — see pkg/indexer/merge), drops labels naming a card
// with no known representative (a pipeline inconsistency, logged by
// the caller as L_ERROR per spec §4.2.10's error handling and
// continued past), and groups URL labels by source URL with redirects
// nested under the URL they redirect to.
func Join(ls []Label, repOf map[uint32]uint32) (reattached []Label, urlGroups []URLGroup, dropped int) {
	byURL := make(map[string]*URLGroup)
	var order []string

	for _, l := range ls {
		rep, ok := repOf[l.Card]
		if !ok {
			dropped++
			continue
		}
		l.Card = rep
		reattached = append(reattached, l)

		if l.Kind != KindURL {
			continue
		}
		if l.RedirectTo != "" {
			target, ok := byURL[l.RedirectTo]
			if !ok {
				target = &URLGroup{SourceURL: l.RedirectTo}
				byURL[l.RedirectTo] = target
				order = append(order, l.RedirectTo)
			}
			target.Redirects = append(target.Redirects, l)
			continue
		}
		g, ok := byURL[l.SourceURL]
		if !ok {
			g = &URLGroup{SourceURL: l.SourceURL}
			byURL[l.SourceURL] = g
			order = append(order, l.SourceURL)
		}
		g.Label = l
	}

	sort.Strings(order)
	for _, url := range order {
		urlGroups = append(urlGroups, *byURL[url])
	}
	return reattached, urlGroups, dropped
}

// AttrSort stably reorders OVERRIDE labels by attribute key before the
// join — a B' supplemented feature grounded on the original's
// separate attribute-ordering pass, dropped from the distilled spec
// but needed so OVERRIDE labels apply in a deterministic order when
// more than one overrides the same attribute.
func AttrSort(ls []Label) {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].Kind != KindOverride || ls[j].Kind != KindOverride {
			return false
		}
		return ls[i].Attr < ls[j].Attr
	})
}

// CardObject is a stage-2 consumer's unit of work: one card paired
// with its re-attached labels.
type CardObject struct {
	Card   uint32
	Labels []Label
}

// Fetch merges the sorted card stream with the sorted label stream,
// emitting (card, labels) pairs in ascending card order, the
// streaming merge spec §4.2.10 calls `fetch`.
func Fetch(cards []uint32, ls []Label) []CardObject {
	byCard := make(map[uint32][]Label)
	for _, l := range ls {
		byCard[l.Card] = append(byCard[l.Card], l)
	}
	sorted := append([]uint32(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := make([]CardObject, len(sorted))
	for i, c := range sorted {
		out[i] = CardObject{Card: c, Labels: byCard[c]}
	}
	return out
}
