package resolver

import (
	"sort"
	"strings"
)

// TagSet is the set of platform tags describing the runtime the plan is
// being resolved for.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from tag strings.
func NewTagSet(tags ...string) TagSet {
	ts := make(TagSet, len(tags))
	for _, t := range tags {
		ts[t] = struct{}{}
	}
	return ts
}

// DefaultTags is the tag set assumed when the caller supplies none.
func DefaultTags() TagSet {
	return NewTagSet("unix", "linux")
}

// Has reports membership of a single tag.
func (ts TagSet) Has(tag string) bool {
	_, ok := ts[tag]
	return ok
}

func (ts TagSet) String() string {
	tags := make([]string, 0, len(ts))
	for t := range ts {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return strings.Join(tags, ",")
}

// PlatformSpec is a candidate's platform support declaration: empty means
// any platform, a positive tag means at least one positive tag must match,
// and a "!tag" entry excludes platforms carrying that tag.
type PlatformSpec []string

// Matches applies the filter: negations veto first, then any positive tag
// must be present. A spec of only negations accepts whenever no negation
// matches.
func (ps PlatformSpec) Matches(tags TagSet) bool {
	if len(ps) == 0 {
		return true
	}

	positives := false
	for _, t := range ps {
		if strings.HasPrefix(t, "!") {
			if tags.Has(t[1:]) {
				return false
			}
			continue
		}
		positives = true
	}
	if !positives {
		return true
	}

	for _, t := range ps {
		if !strings.HasPrefix(t, "!") && tags.Has(t) {
			return true
		}
	}
	return false
}
