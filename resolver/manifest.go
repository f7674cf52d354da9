package resolver

import (
	radix "github.com/armon/go-radix"
)

// Manifest indexes candidate packages by name. Per-name candidate lists
// preserve insertion order; that order is what the resolver iterates when
// selecting, so loaders must append candidates as they appear in the source
// table.
type Manifest struct {
	t *radix.Tree
}

type candidateList struct {
	pkgs []*Package
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{t: radix.New()}
}

// Add appends a candidate under its name. A candidate whose name, version
// and platform spec are all already present is silently dropped; with ranked
// tables merged earliest-first, the earlier table wins. Builds of the same
// version for different platforms are distinct candidates.
func (m *Manifest) Add(p *Package) {
	raw, ok := m.t.Get(p.Name)
	if !ok {
		m.t.Insert(p.Name, &candidateList{pkgs: []*Package{p}})
		return
	}

	cl := raw.(*candidateList)
	pv := p.Version.String()
	for _, existing := range cl.pkgs {
		if existing.Version.String() != pv || len(existing.Platforms) != len(p.Platforms) {
			continue
		}
		same := true
		for i := range p.Platforms {
			if existing.Platforms[i] != p.Platforms[i] {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	cl.pkgs = append(cl.pkgs, p)
}

// Candidates returns the insertion-ordered candidate list for a name, nil
// when the name is unknown. Callers must not mutate the returned slice.
func (m *Manifest) Candidates(name string) []*Package {
	raw, ok := m.t.Get(name)
	if !ok {
		return nil
	}
	return raw.(*candidateList).pkgs
}

// Names returns all package names in lexical order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, m.t.Len())
	m.t.Walk(func(s string, _ interface{}) bool {
		names = append(names, s)
		return false
	})
	return names
}

// WalkPrefix visits every (name, candidates) pair whose name starts with
// prefix, in lexical order.
func (m *Manifest) WalkPrefix(prefix string, fn func(name string, pkgs []*Package)) {
	m.t.WalkPrefix(prefix, func(s string, raw interface{}) bool {
		fn(s, raw.(*candidateList).pkgs)
		return false
	})
}

// Len returns the number of distinct package names.
func (m *Manifest) Len() int { return m.t.Len() }

// Merge concatenates ranked manifest tables into one, earliest table first.
// Candidates record the rank of the table that contributed them, and a
// candidate with the same name, version and platform spec appearing in a
// later table is dropped in favor of the earlier one.
func Merge(tables ...*Manifest) *Manifest {
	merged := NewManifest()
	for rank, tbl := range tables {
		if tbl == nil {
			continue
		}
		tbl.t.Walk(func(_ string, raw interface{}) bool {
			for _, p := range raw.(*candidateList).pkgs {
				cp := *p
				cp.rank = rank
				merged.Add(&cp)
			}
			return false
		})
	}
	return merged
}
