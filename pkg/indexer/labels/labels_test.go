package labels

import "testing"

func TestJoinReattachesToRepresentative(t *testing.T) {
	ls := []Label{{Card: 5, Kind: KindBody, Value: "x"}}
	rep := map[uint32]uint32{5: 2}
	out, _, dropped := Join(ls, rep)
	if dropped != 0 {
		t.Fatalf("expected no drops, got %d", dropped)
	}
	if len(out) != 1 || out[0].Card != 2 {
		t.Fatalf("expected label re-attached to card 2, got %v", out)
	}
}

func TestJoinDropsLabelsWithNoRepresentative(t *testing.T) {
	ls := []Label{{Card: 99, Kind: KindBody}}
	out, _, dropped := Join(ls, map[uint32]uint32{})
	if dropped != 1 || len(out) != 0 {
		t.Fatalf("expected the orphan label dropped, got out=%v dropped=%d", out, dropped)
	}
}

func TestJoinGroupsURLLabelsBySourceURL(t *testing.T) {
	rep := map[uint32]uint32{1: 1, 2: 2}
	ls := []Label{
		{Card: 1, Kind: KindURL, SourceURL: "http://a.example/"},
		{Card: 2, Kind: KindURL, SourceURL: "http://b.example/"},
	}
	_, groups, _ := Join(ls, rep)
	if len(groups) != 2 {
		t.Fatalf("expected 2 URL groups, got %d", len(groups))
	}
}

func TestJoinNestsRedirectUnderTarget(t *testing.T) {
	rep := map[uint32]uint32{1: 1, 2: 2}
	ls := []Label{
		{Card: 2, Kind: KindURL, SourceURL: "http://final.example/"},
		{Card: 1, Kind: KindURL, SourceURL: "http://old.example/", RedirectTo: "http://final.example/"},
	}
	_, groups, _ := Join(ls, rep)
	if len(groups) != 1 {
		t.Fatalf("expected redirect nested under its target, got %d groups", len(groups))
	}
	if len(groups[0].Redirects) != 1 || groups[0].Redirects[0].SourceURL != "http://old.example/" {
		t.Fatalf("got %v", groups[0])
	}
}

func TestAttrSortOrdersOverridesByKeyStably(t *testing.T) {
	ls := []Label{
		{Card: 1, Kind: KindOverride, Attr: "title", Value: "second"},
		{Card: 1, Kind: KindOverride, Attr: "author", Value: "first"},
		{Card: 1, Kind: KindBody, Value: "unaffected"},
	}
	AttrSort(ls)
	if ls[0].Attr != "author" || ls[1].Attr != "title" {
		t.Fatalf("expected OVERRIDE labels sorted by attribute key, got %v", ls)
	}
}

func TestFetchMergesCardsAndLabelsInAscendingOrder(t *testing.T) {
	cards := []uint32{3, 1, 2}
	ls := []Label{{Card: 2, Kind: KindBody, Value: "x"}}
	out := Fetch(cards, ls)
	if len(out) != 3 || out[0].Card != 1 || out[1].Card != 2 || out[2].Card != 3 {
		t.Fatalf("got %v", out)
	}
	if len(out[1].Labels) != 1 {
		t.Fatalf("expected card 2 to carry its label, got %v", out[1])
	}
}
