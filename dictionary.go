package anglify

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/ZaguanLabs/anglify/dictionary"
)

// Dictionary maps a lower-case key from one variant to its equivalent in the
// other. Values keep their canonical case ("Heath Robinson device") and are
// re-cased at substitution time.
type Dictionary map[string]string

// NewDictionary copies m, lower-casing and trimming keys. Keys that collide
// after lower-casing resolve in sorted order, the last one winning.
func NewDictionary(m map[string]string) Dictionary {
	d := make(Dictionary, len(m))
	for _, k := range sortedKeys(m) {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		d[key] = m[k]
	}
	return d
}

// Keys returns the dictionary keys in sorted order.
func (d Dictionary) Keys() []string {
	return sortedKeys(d)
}

// Invert swaps keys and values: every (a → b) becomes (lower(b) → a).
//
// If two keys share a value, the entries collapse and the key that sorts last
// wins. That loss is accepted; the canonical tables are expected to be 1:1.
func Invert(d Dictionary) Dictionary {
	out := make(Dictionary, len(d))
	for _, k := range d.Keys() {
		out[strings.ToLower(d[k])] = k
	}
	return out
}

// Merge returns a new dictionary holding base overlaid with override. Keys
// present in both take override's value.
func Merge(base, override Dictionary) Dictionary {
	out := make(Dictionary, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// DictionarySet holds the four canonical American → British tables and the
// two derived British → American ones. It is read-only after construction and
// safe for concurrent use.
type DictionarySet struct {
	AmericanOnly              Dictionary
	BritishOnly               Dictionary
	AmericanToBritishSpelling Dictionary
	AmericanToBritishTitles   Dictionary
	BritishToAmericanSpelling Dictionary
	BritishToAmericanTitles   Dictionary

	revision string

	compileOnce sync.Once
	compiled    map[Direction]*compiledTables
}

// compiledTables are the precompiled rules for one direction.
type compiledTables struct {
	titles []rule
	terms  []rule
}

var defaultDictionaries = sync.OnceValues(func() (*DictionarySet, error) {
	tables, err := dictionary.Embedded()
	if err != nil {
		return nil, &DictionaryError{Source: "embedded", Message: "failed to load", Cause: err}
	}
	return NewDictionarySet(tables)
})

// DefaultDictionaries returns the process-wide set built from the embedded
// tables. It is built on first use and shared afterwards.
func DefaultDictionaries() (*DictionarySet, error) {
	return defaultDictionaries()
}

// LoadDictionaries builds a set from a directory of YAML tables. Tables missing
// from dir fall back to the embedded ones. An empty dir returns the default set.
func LoadDictionaries(dir string) (*DictionarySet, error) {
	if dir == "" {
		return DefaultDictionaries()
	}

	tables, err := dictionary.LoadDir(dir)
	if err != nil {
		return nil, &DictionaryError{Source: dir, Message: "failed to load", Cause: err}
	}
	return NewDictionarySet(tables)
}

// NewDictionarySet builds a set from raw tables and derives the inverted
// spelling and title tables.
func NewDictionarySet(t *dictionary.Tables) (*DictionarySet, error) {
	if t == nil {
		return nil, &DictionaryError{Source: "tables", Message: "no tables given"}
	}
	if len(t.Titles) == 0 {
		return nil, &DictionaryError{Source: dictionary.TitlesFile, Message: "titles", Cause: ErrEmptyTable}
	}
	if len(t.Spelling) == 0 {
		return nil, &DictionaryError{Source: dictionary.SpellingFile, Message: "spelling", Cause: ErrEmptyTable}
	}

	s := &DictionarySet{
		AmericanOnly:              NewDictionary(t.AmericanOnly),
		BritishOnly:               NewDictionary(t.BritishOnly),
		AmericanToBritishSpelling: NewDictionary(t.Spelling),
		AmericanToBritishTitles:   NewDictionary(t.Titles),
	}
	s.BritishToAmericanSpelling = Invert(s.AmericanToBritishSpelling)
	s.BritishToAmericanTitles = Invert(s.AmericanToBritishTitles)
	s.revision = s.hash()

	return s, nil
}

// Revision identifies the content of the set. Sets with the same entries have
// the same revision.
func (s *DictionarySet) Revision() string {
	return s.revision
}

// Size returns the number of canonical entries.
func (s *DictionarySet) Size() int {
	return len(s.AmericanOnly) + len(s.BritishOnly) +
		len(s.AmericanToBritishSpelling) + len(s.AmericanToBritishTitles)
}

// Titles returns the title table used for dir, or nil for an unknown direction.
func (s *DictionarySet) Titles(dir Direction) Dictionary {
	switch dir {
	case AmericanToBritish:
		return s.AmericanToBritishTitles
	case BritishToAmerican:
		return s.BritishToAmericanTitles
	}
	return nil
}

// Spelling returns the spelling table used for dir, or nil for an unknown direction.
func (s *DictionarySet) Spelling(dir Direction) Dictionary {
	switch dir {
	case AmericanToBritish:
		return s.AmericanToBritishSpelling
	case BritishToAmerican:
		return s.BritishToAmericanSpelling
	}
	return nil
}

// Vocabulary returns the locale-only vocabulary table used for dir, or nil for
// an unknown direction.
func (s *DictionarySet) Vocabulary(dir Direction) Dictionary {
	switch dir {
	case AmericanToBritish:
		return s.AmericanOnly
	case BritishToAmerican:
		return s.BritishOnly
	}
	return nil
}

// Terms returns the combined term table for dir: spelling merged with
// vocabulary, vocabulary winning on shared keys.
func (s *DictionarySet) Terms(dir Direction) Dictionary {
	if !dir.Valid() {
		return nil
	}
	return Merge(s.Spelling(dir), s.Vocabulary(dir))
}

// tables returns the compiled rules for dir, building them for both
// directions on first use.
func (s *DictionarySet) tables(dir Direction) *compiledTables {
	s.compileOnce.Do(func() {
		s.compiled = make(map[Direction]*compiledTables, 2)
		for _, d := range []Direction{AmericanToBritish, BritishToAmerican} {
			vocabulary := s.Vocabulary(d)
			spelling := make(map[string]bool)
			for k := range s.Spelling(d) {
				if _, ok := vocabulary[k]; !ok {
					spelling[k] = true
				}
			}
			s.compiled[d] = &compiledTables{
				titles: compileTitles(s.Titles(d)),
				terms:  compileTerms(s.Terms(d), spelling),
			}
		}
	})
	return s.compiled[dir]
}

// hash digests the canonical tables in a stable order.
func (s *DictionarySet) hash() string {
	h := sha256.New()
	for _, d := range []Dictionary{s.AmericanOnly, s.BritishOnly, s.AmericanToBritishSpelling, s.AmericanToBritishTitles} {
		for _, k := range d.Keys() {
			h.Write([]byte(k))
			h.Write([]byte{0})
			h.Write([]byte(d[k]))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

func sortedKeys[M ~map[string]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
