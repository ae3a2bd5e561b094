// Package gaps provides the Shellsort gap sequences published between 1959
// and 2021, plus user supplied custom lists.
//
// A Sequence is an immutable choice of one of those variants. Gaps(arrayLen)
// turns it into a concrete ascending list of step sizes for an array of the
// given length:
//
//	seq, err := gaps.Parse("tokuda_1992")
//	if err != nil {
//	    return err
//	}
//	steps := seq.Gaps(1000) // [1 4 9 20 46 103 233 525]
package gaps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

// Kind identifies a gap sequence variant.
type Kind int

const (
	Shell1959 Kind = iota
	FrankLazarus1960
	Hibbard1963
	PapernovStasevich1965
	Pratt1971
	Knuth1973
	Sedgewick1982
	IncerpiSedgewick1985
	Sedgewick1986
	GonnetBaezaYates1991
	Tokuda1992
	Ciura2001
	Lee2021
	Custom
)

// DefaultKind is selected by an empty specification.
const DefaultKind = Lee2021

// Info describes one named sequence for listings and APIs.
type Info struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	OEIS        string `json:"oeis,omitempty" yaml:"oeis,omitempty" toml:"oeis,omitempty"`
}

type entry struct {
	kind     Kind
	info     Info
	generate func(arrayLen int) []int
}

// table is the single source of truth for names, descriptions and generators.
// Order is chronological and is the order used by every listing.
var table = []entry{
	{Shell1959, Info{"shell_1959", "floor(n/2^k): halve the array length until it reaches 0", "A000079"}, shell1959},
	{FrankLazarus1960, Info{"frank_lazarus_1960", "2*floor(n/2^(k+1))+1, from the array length down to 1", ""}, frankLazarus1960},
	{Hibbard1963, Info{"hibbard_1963", "2^k-1: 1, 3, 7, 15, 31, ...", "A000225"}, hibbard1963},
	{PapernovStasevich1965, Info{"papernov_stasevich_1965", "2^k+1, prefixed with 1: 1, 3, 5, 9, 17, ...", "A083318"}, papernovStasevich1965},
	{Pratt1971, Info{"pratt_1971", "3-smooth numbers 2^p*3^q: 1, 2, 3, 4, 6, 8, 9, ...", "A003586"}, pratt1971},
	{Knuth1973, Info{"knuth_1973", "(3^k-1)/2: 1, 4, 13, 40, 121, ...", "A003462"}, knuth1973},
	{Sedgewick1982, Info{"sedgewick_1982", "4^k+3*2^(k-1)+1, prefixed with 1: 1, 8, 23, 77, 281, ...", "A036562"}, sedgewick1982},
	{IncerpiSedgewick1985, Info{"incerpi_sedgewick_1985", "products of coprime terms near (5/2)^i: 1, 3, 7, 21, 48, 112, ...", "A036569"}, incerpiSedgewick1985},
	{Sedgewick1986, Info{"sedgewick_1986", "9(2^k-2^(k/2))+1 for even k, 8*2^k-6*2^((k+1)/2)+1 for odd k: 1, 5, 19, 41, 109, ...", "A033622"}, sedgewick1986},
	{GonnetBaezaYates1991, Info{"gonnet_baezayates_1991", "floor((5h-1)/11) from the array length down, ending with 1", ""}, gonnetBaezaYates1991},
	{Tokuda1992, Info{"tokuda_1992", "ceil((r^k-1)/(r-1)) with r = 9/4: 1, 4, 9, 20, 46, 103, ...", "A108870"}, tokuda1992},
	{Ciura2001, Info{"ciura_2001", "fixed table 1, 4, 10, 23, 57, 132, 301, 701, 1750", "A102549"}, func(int) []int { return ciura2001() }},
	{Lee2021, Info{"lee_2021", "ceil((r^k-1)/(r-1)) with r = 2.243609061420001: 1, 4, 9, 20, 45, 102, ... (default)", "A366726"}, lee2021},
}

// aliases maps alternative spellings to their variant.
var aliases = map[string]Kind{
	"ciura_2021": Ciura2001,
}

// Sequence is an immutable gap sequence choice.
type Sequence struct {
	kind   Kind
	custom []int
}

// Named returns the sequence for a named variant. Passing Custom yields an
// empty custom list; use NewCustom for custom gaps.
func Named(kind Kind) Sequence {
	return Sequence{kind: kind}
}

// Default returns the sequence selected by an empty specification.
func Default() Sequence {
	return Named(DefaultKind)
}

// NewCustom returns a sequence that always yields a copy of gaps.
// No ordering or range checks happen here; see Validate.
func NewCustom(gaps []int) Sequence {
	return Sequence{kind: Custom, custom: append([]int(nil), gaps...)}
}

// Parse interprets spec case-insensitively as a sequence name, the empty
// string as the default sequence, and anything else as a comma-separated list
// of non-negative integers. A bad token fails the whole parse with a
// *ParseError naming that token.
func Parse(spec string) (Sequence, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return Default(), nil
	}
	if kind, ok := lookup(strings.ToLower(trimmed)); ok {
		return Named(kind), nil
	}

	tokens := strings.Split(trimmed, ",")
	custom := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseUint(tok, 10, strconv.IntSize-1)
		if err != nil {
			return Sequence{}, &ParseError{Spec: spec, Token: tok, Err: err}
		}
		custom = append(custom, int(v))
	}
	return Sequence{kind: Custom, custom: custom}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level values.
func MustParse(spec string) Sequence {
	seq, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return seq
}

func lookup(name string) (Kind, bool) {
	for _, e := range table {
		if e.info.Name == name {
			return e.kind, true
		}
	}
	kind, ok := aliases[name]
	return kind, ok
}

// ParseError reports a token of a custom gap list that is not a non-negative integer.
type ParseError struct {
	Spec  string
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: bad token %q in %q: %v", sentinel.ErrInvalidGapSequence, e.Token, e.Spec, e.Err)
}

// Unwrap exposes both the sentinel and the underlying strconv error.
func (e *ParseError) Unwrap() []error {
	return []error{sentinel.ErrInvalidGapSequence, e.Err}
}

// Names returns the canonical names of all named sequences in listing order.
func Names() []string {
	names := make([]string, 0, len(table))
	for _, e := range table {
		names = append(names, e.info.Name)
	}
	return names
}

// Catalog returns the descriptions of all named sequences in listing order.
func Catalog() []Info {
	infos := make([]Info, 0, len(table))
	for _, e := range table {
		infos = append(infos, e.info)
	}
	return infos
}

// Kind returns the variant of s.
func (s Sequence) Kind() Kind {
	return s.kind
}

// Name returns the canonical name of s, or "custom".
func (s Sequence) Name() string {
	if s.kind == Custom {
		return "custom"
	}
	return table[s.kind].info.Name
}

// String returns a specification that Parse maps back to s.
func (s Sequence) String() string {
	if s.kind != Custom {
		return s.Name()
	}
	parts := make([]string, len(s.custom))
	for i, g := range s.custom {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ",")
}

// Gaps returns the gaps for an array of length arrayLen in ascending order.
//
// Formula variants stop before the first gap that would reach arrayLen, so
// every returned gap is >= 1 and < arrayLen; for arrayLen <= 1 that leaves
// an empty list. The Ciura table and custom lists ignore arrayLen.
func (s Sequence) Gaps(arrayLen int) []int {
	switch s.kind {
	case Custom:
		return append([]int(nil), s.custom...)
	case Ciura2001:
		return ciura2001()
	}
	if arrayLen <= 1 {
		return []int{}
	}
	return table[s.kind].generate(arrayLen)
}

// Validate checks that the gaps of s can drive a correct Shellsort: strictly
// ascending, no zero gap, and a first (final pass) gap of 1. Named sequences
// always pass.
func (s Sequence) Validate() error {
	if s.kind != Custom {
		return nil
	}
	if len(s.custom) == 0 {
		return ewrap.Wrap(sentinel.ErrMissingUnitGap, "empty custom gap list")
	}
	for i, g := range s.custom {
		if g == 0 {
			return ewrap.Wrapf(sentinel.ErrZeroGap, "custom gaps %v", s.custom)
		}
		if i > 0 && g <= s.custom[i-1] {
			return ewrap.Wrapf(sentinel.ErrUnsortedGaps, "custom gaps %v at index %d", s.custom, i)
		}
	}
	if s.custom[0] != 1 {
		return ewrap.Wrapf(sentinel.ErrMissingUnitGap, "custom gaps %v", s.custom)
	}
	return nil
}

// Describe returns the listing entry for a sequence name or alias.
func Describe(name string) (Info, bool) {
	kind, ok := lookup(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return Info{}, false
	}
	return table[kind].info, true
}
