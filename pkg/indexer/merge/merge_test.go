package merge

import "testing"

// S3 — merge by fingerprint: two cards share a merge key, weight 100
// and weight 50; the class must pick the weight-100 card as primary.
func TestMergeScenarioS3(t *testing.T) {
	const weight100card, weight50card = 0, 1
	cards := []Card{
		{ID: weight100card, Weight: 100},
		{ID: weight50card, Weight: 50},
	}
	classes := Merger{}.Run(cards, [][]uint32{{weight100card, weight50card}})
	if len(classes) != 1 {
		t.Fatalf("expected a single merged class, got %d", len(classes))
	}
	if classes[0].Rep != weight100card {
		t.Fatalf("expected weight100card to be the primary, got %d", classes[0].Rep)
	}
}

func TestUnmergedCardsStaySingletons(t *testing.T) {
	cards := []Card{{ID: 0, Weight: 10}, {ID: 1, Weight: 20}}
	classes := Merger{}.Run(cards, nil)
	if len(classes) != 2 {
		t.Fatalf("expected 2 singleton classes, got %d", len(classes))
	}
}

func TestGiantThresholdFlagsLargeClasses(t *testing.T) {
	cards := []Card{{ID: 0, Weight: 1}, {ID: 1, Weight: 1}, {ID: 2, Weight: 1}}
	classes := Merger{GiantThreshold: 3}.Run(cards, [][]uint32{{0, 1, 2}})
	if len(classes) != 1 || !classes[0].Giant {
		t.Fatalf("expected a single GIANT class, got %+v", classes)
	}
}
