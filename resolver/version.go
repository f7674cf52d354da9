package resolver

import (
	"fmt"
	"strconv"
	"strings"
)

// segKind discriminates the two token classes a version string breaks into.
type segKind uint8

const (
	segNumeric segKind = iota
	segTag
)

// tagWeights ranks the known pre-release tags below an unmarked release.
// Any other alphabetic token gets weight zero.
var tagWeights = map[string]int{
	"work":  -5,
	"alpha": -4,
	"beta":  -3,
	"pre":   -2,
	"rc":    -1,
}

type segment struct {
	kind   segKind
	num    int
	tag    string
	weight int
}

// Version is the parsed form of a version string
// [v]N(.N|letters)*(-R)?(_HEX)?. The main components order first, the
// trailing numeric revision orders last, and the _HEX suffix (the binary
// build fingerprint) is opaque to ordering.
type Version struct {
	body string
	segs []segment
	rev  int
	hash string
}

// ParseVersion parses a version string. The canonical string form always
// carries the revision, so parse and String round-trip to a fixed point:
// "1.0" parses to "1.0-0", which parses to itself.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, &ParseError{Input: s, Reason: "empty version"}
	}

	v := Version{}
	rest := s

	// Leading v/V is decoration, not a component.
	if len(rest) > 1 && (rest[0] == 'v' || rest[0] == 'V') && rest[1] >= '0' && rest[1] <= '9' {
		rest = rest[1:]
	}

	// A _HEX suffix marks a binary build; strip it before tokenizing.
	if i := strings.LastIndexByte(rest, '_'); i >= 0 {
		suffix := rest[i+1:]
		if !isHex(suffix) {
			return Version{}, &ParseError{Input: s, Reason: "malformed hash suffix"}
		}
		v.hash = suffix
		rest = rest[:i]
	}

	if rest == "" || (!isDigit(rest[0]) && !isAlpha(rest[0])) {
		return Version{}, &ParseError{Input: s, Reason: "version must start with a digit or letter"}
	}

	// A trailing -N is the revision; anything else after a dash is an
	// ordinary component.
	if i := strings.LastIndexByte(rest, '-'); i > 0 {
		if tail := rest[i+1:]; isDigits(tail) {
			rev, err := strconv.Atoi(tail)
			if err != nil {
				return Version{}, &ParseError{Input: s, Reason: "revision out of range"}
			}
			v.rev = rev
			rest = rest[:i]
		}
	}

	v.body = rest
	for _, field := range strings.FieldsFunc(rest, func(r rune) bool { return r == '.' || r == '-' }) {
		segs, err := splitRuns(field)
		if err != nil {
			return Version{}, &ParseError{Input: s, Reason: err.Error()}
		}
		v.segs = append(v.segs, segs...)
	}
	if len(v.segs) == 0 {
		return Version{}, &ParseError{Input: s, Reason: "no version components"}
	}

	return v, nil
}

// splitRuns breaks a dot/dash-delimited field at every transition between a
// digit run and a letter run, classifying each run.
func splitRuns(field string) ([]segment, error) {
	var segs []segment
	for len(field) > 0 {
		if isDigit(field[0]) {
			i := 1
			for i < len(field) && isDigit(field[i]) {
				i++
			}
			n, err := strconv.Atoi(field[:i])
			if err != nil {
				return nil, fmt.Errorf("numeric component %q out of range", field[:i])
			}
			segs = append(segs, segment{kind: segNumeric, num: n})
			field = field[i:]
		} else if isAlpha(field[0]) {
			i := 1
			for i < len(field) && isAlpha(field[i]) {
				i++
			}
			tag := field[:i]
			segs = append(segs, segment{
				kind:   segTag,
				tag:    tag,
				weight: tagWeights[strings.ToLower(tag)],
			})
			field = field[i:]
		} else {
			return nil, fmt.Errorf("illegal character %q", field[0])
		}
	}
	return segs, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !isDigit(b) && (b < 'a' || b > 'f') {
			return false
		}
	}
	return true
}

// String renders the canonical form: the body, the revision (always), and
// the hash suffix when the version names a binary build.
func (v Version) String() string {
	var sb strings.Builder
	sb.WriteString(v.body)
	sb.WriteByte('-')
	sb.WriteString(strconv.Itoa(v.rev))
	if v.hash != "" {
		sb.WriteByte('_')
		sb.WriteString(v.hash)
	}
	return sb.String()
}

// Hash returns the _HEX binary fingerprint suffix, or "" for a source
// version.
func (v Version) Hash() string { return v.hash }

// Revision returns the trailing -N revision (0 when absent).
func (v Version) Revision() int { return v.rev }

// Compare defines the total order over versions: component-wise on the main
// segments, then numerically on the revision. A missing component counts as
// numeric zero against a numeric one, while any tagged component marks its
// side as pre-release relative to a shorter unadorned version. The hash
// suffix never participates.
func (v Version) Compare(o Version) int {
	n := len(v.segs)
	if len(o.segs) > n {
		n = len(o.segs)
	}

	for i := 0; i < n; i++ {
		switch {
		case i >= len(v.segs):
			if c := missingCmp(o.segs[i]); c != 0 {
				return -c
			}
		case i >= len(o.segs):
			if c := missingCmp(v.segs[i]); c != 0 {
				return c
			}
		default:
			if c := segCmp(v.segs[i], o.segs[i]); c != 0 {
				return c
			}
		}
	}

	return intCmp(v.rev, o.rev)
}

// missingCmp compares a present segment against an absent one, returning the
// present side's ordering.
func missingCmp(present segment) int {
	if present.kind == segTag {
		// 1.2alpha < 1.2: a tagged extension is a pre-release.
		return -1
	}
	if present.num == 0 {
		// 1.0 == 1.0.0: trailing zeros extend to nothing.
		return 0
	}
	return 1
}

func segCmp(a, b segment) int {
	if a.kind == b.kind {
		if a.kind == segNumeric {
			return intCmp(a.num, b.num)
		}
		if c := intCmp(a.weight, b.weight); c != 0 {
			return c
		}
		return strings.Compare(a.tag, b.tag)
	}
	// A numeric component outranks any tag in the same position.
	if a.kind == segNumeric {
		return 1
	}
	return -1
}

func intCmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports order-equality: revisions participate, trailing zero
// components and the hash suffix do not.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// CompatibleWith implements the ~> pessimistic operator: every component of
// the bound must be present in v and equal, and v must order at or above the
// bound. ~> 1.0 admits 1.0 and 1.0.7 but not 2.0; ~> 5.2 admits 5.2.4 but
// not 5.1.0.
func (v Version) CompatibleWith(bound Version) bool {
	if len(v.segs) < len(bound.segs) {
		return false
	}
	for i, s := range bound.segs {
		if segCmp(v.segs[i], s) != 0 {
			return false
		}
	}
	return v.Compare(bound) >= 0
}
