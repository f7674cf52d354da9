package resolver

// PlatformDeps is one platform-keyed entry of a dependency list: extra
// constraints that apply only when the runtime tag set carries Tag.
type PlatformDeps struct {
	Tag  string
	Deps []Constraint
}

// Dependencies models the two-part shape of a package's dependency list:
// positional constraints that always apply, plus platform-keyed overrides
// conjoined only when their tag matches the runtime platform.
type Dependencies struct {
	Positional []Constraint
	Platform   []PlatformDeps
}

// Package is an immutable candidate record. Rank is the 0-based index of the
// manifest table that contributed it; lower ranks win precedence.
type Package struct {
	Name      string
	Version   Version
	Deps      Dependencies
	Platforms PlatformSpec

	rank int
}

// NewPackage constructs a candidate. Loaders set the manifest rank when
// merging tables; candidates built directly get rank 0.
func NewPackage(name string, version Version, deps Dependencies, platforms PlatformSpec) *Package {
	return &Package{
		Name:      name,
		Version:   version,
		Deps:      deps,
		Platforms: platforms,
	}
}

// Rank returns the manifest rank the package was loaded under.
func (p *Package) Rank() int { return p.rank }

// DepsFor returns the constraints that apply on the given platform: the
// positional list followed by every platform-keyed list whose tag is
// present in tags, in declaration order.
func (p *Package) DepsFor(tags TagSet) []Constraint {
	if len(p.Deps.Platform) == 0 {
		return p.Deps.Positional
	}

	deps := make([]Constraint, 0, len(p.Deps.Positional))
	deps = append(deps, p.Deps.Positional...)
	for _, pd := range p.Deps.Platform {
		if tags.Has(pd.Tag) {
			deps = append(deps, pd.Deps...)
		}
	}
	return deps
}

// Supports reports whether the candidate's platform spec admits the runtime
// tag set.
func (p *Package) Supports(tags TagSet) bool {
	return p.Platforms.Matches(tags)
}

// String renders the name-version token used in plan output and
// diagnostics.
func (p *Package) String() string {
	return p.Name + "-" + p.Version.String()
}
