// Package lexicon implements the indexer's word lexicon stages (spec
// §4.2.7/§4.2.8): mklex tokenizes documents into a word-class state
// machine output (word, punctuation, whitespace runs), lexorder
// assigns each distinct word a dense, frequency-sorted word id, and
// lexmap is the resulting word -> id table. FrequencyReport is a B'
// supplemented feature (original_source's lexicon builder logs a
// top-N frequency table on every build; the distillation dropped the
// report but kept the counts it's built from).
package lexicon

import "sort"

// TokenClass is mklex's word-class state machine output alphabet.
type TokenClass int

const (
	ClassWord TokenClass = iota
	ClassPunct
	ClassSpace
)

// Token is one classified token from Tokenize.
type Token struct {
	Text  string
	Class TokenClass
}

// Tokenize runs the word-class state machine over text: a run of
// letters/digits is ClassWord, a run of whitespace is ClassSpace,
// anything else is emitted one rune at a time as ClassPunct.
func Tokenize(text string) []Token {
	var toks []Token
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		switch {
		case isWordRune(runes[i]):
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			toks = append(toks, Token{Text: string(runes[i:j]), Class: ClassWord})
			i = j
		case isSpaceRune(runes[i]):
			j := i
			for j < len(runes) && isSpaceRune(runes[j]) {
				j++
			}
			toks = append(toks, Token{Text: string(runes[i:j]), Class: ClassSpace})
			i = j
		default:
			toks = append(toks, Token{Text: string(runes[i]), Class: ClassPunct})
			i++
		}
	}
	return toks
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Builder accumulates word frequencies across documents (mklex's
// counting pass) before lexorder assigns dense ids.
type Builder struct {
	counts map[string]int
}

func NewBuilder() *Builder { return &Builder{counts: make(map[string]int)} }

// Add tokenizes text and counts every word token.
func (b *Builder) Add(text string) {
	for _, tok := range Tokenize(text) {
		if tok.Class == ClassWord {
			b.counts[normalize(tok.Text)]++
		}
	}
}

func normalize(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// LexMap maps each distinct word to a dense word id, ordered by
// descending frequency (ties broken lexicographically) — lexorder's
// sort, lexmap's table (spec §4.2.8).
type LexMap struct {
	idOf  map[string]uint32
	words []string // words[id] = word
	freq  []int    // freq[id] = count
}

// Order builds a [LexMap] from the counts accumulated in b.
func (b *Builder) Order() *LexMap {
	words := make([]string, 0, len(b.counts))
	for w := range b.counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if b.counts[words[i]] != b.counts[words[j]] {
			return b.counts[words[i]] > b.counts[words[j]]
		}
		return words[i] < words[j]
	})
	lm := &LexMap{idOf: make(map[string]uint32, len(words)), words: words, freq: make([]int, len(words))}
	for id, w := range words {
		lm.idOf[w] = uint32(id)
		lm.freq[id] = b.counts[w]
	}
	return lm
}

// ID returns word's dense id and whether the word was added to the
// Builder before Order.
func (lm *LexMap) ID(word string) (uint32, bool) {
	id, ok := lm.idOf[normalize(word)]
	return id, ok
}

// Word returns the word for a dense id.
func (lm *LexMap) Word(id uint32) string {
	if int(id) >= len(lm.words) {
		return ""
	}
	return lm.words[id]
}

// Len returns the number of distinct words in the lexicon.
func (lm *LexMap) Len() int { return len(lm.words) }

// FrequencyEntry is one row of a [LexMap.FrequencyReport].
type FrequencyEntry struct {
	Word  string
	Count int
}

// FrequencyReport returns the topN most frequent words — a B'
// supplemented feature grounded on the original lexicon builder's
// top-N frequency log, dropped from the distilled spec but cheap to
// keep since the LexMap is already sorted by frequency.
func (lm *LexMap) FrequencyReport(topN int) []FrequencyEntry {
	if topN > len(lm.words) {
		topN = len(lm.words)
	}
	out := make([]FrequencyEntry, topN)
	for i := 0; i < topN; i++ {
		out[i] = FrequencyEntry{Word: lm.words[i], Count: lm.freq[i]}
	}
	return out
}
