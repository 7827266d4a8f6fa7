package lexicon

import "testing"

func TestTokenizeSplitsWordsPunctSpace(t *testing.T) {
	toks := Tokenize("Holmes, meet Watson!")
	var words []string
	for _, tok := range toks {
		if tok.Class == ClassWord {
			words = append(words, tok.Text)
		}
	}
	if len(words) != 3 || words[0] != "Holmes" || words[1] != "meet" || words[2] != "Watson" {
		t.Fatalf("got %v", words)
	}
}

func TestOrderRanksByDescendingFrequency(t *testing.T) {
	b := NewBuilder()
	b.Add("the quick brown fox the the fox")
	lm := b.Order()

	id, ok := lm.ID("the")
	if !ok || id != 0 {
		t.Fatalf("expected 'the' to be the most frequent word (id 0), got id=%d ok=%v", id, ok)
	}
	foxID, _ := lm.ID("fox")
	if foxID != 1 {
		t.Fatalf("expected 'fox' to be the second most frequent word (id 1), got id=%d", foxID)
	}
}

func TestIDIsCaseInsensitive(t *testing.T) {
	b := NewBuilder()
	b.Add("Sherlock sherlock SHERLOCK")
	lm := b.Order()
	if lm.Len() != 1 {
		t.Fatalf("expected case folding to collapse to 1 distinct word, got %d", lm.Len())
	}
}

func TestWordRoundTrips(t *testing.T) {
	b := NewBuilder()
	b.Add("alpha beta")
	lm := b.Order()
	for id := uint32(0); id < uint32(lm.Len()); id++ {
		w := lm.Word(id)
		gotID, ok := lm.ID(w)
		if !ok || gotID != id {
			t.Fatalf("round trip failed for id %d: word=%q gotID=%d", id, w, gotID)
		}
	}
}

func TestFrequencyReportTruncatesToTopN(t *testing.T) {
	b := NewBuilder()
	b.Add("a a a b b c")
	lm := b.Order()
	top := lm.FrequencyReport(2)
	if len(top) != 2 || top[0].Word != "a" || top[0].Count != 3 {
		t.Fatalf("got %v", top)
	}
}

func TestFrequencyReportClampsToLexiconSize(t *testing.T) {
	b := NewBuilder()
	b.Add("only one word here")
	lm := b.Order()
	top := lm.FrequencyReport(100)
	if len(top) != lm.Len() {
		t.Fatalf("expected FrequencyReport to clamp to %d entries, got %d", lm.Len(), len(top))
	}
}
