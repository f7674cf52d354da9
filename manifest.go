package keel

import (
	"os"
	"sort"

	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/keelpm/keel/resolver"
)

// rawPackage mirrors one candidate entry in a manifest file. The dependency
// list has two parts: deps applies everywhere, platform_deps keys extra
// constraints by platform tag.
type rawPackage struct {
	Version      string              `toml:"version"`
	Deps         []string            `toml:"deps"`
	Platforms    []string            `toml:"platforms"`
	PlatformDeps map[string][]string `toml:"platform_deps"`
}

type rawManifest struct {
	Packages map[string][]rawPackage `toml:"packages"`
}

// ParseManifest decodes a TOML manifest table into a resolver manifest.
// Candidate order within a name follows the file's array order.
func ParseManifest(data []byte) (*resolver.Manifest, error) {
	var rm rawManifest
	if err := toml.Unmarshal(data, &rm); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}

	m := resolver.NewManifest()
	for name, entries := range rm.Packages {
		for _, raw := range entries {
			p, err := toPackage(name, raw)
			if err != nil {
				return nil, err
			}
			m.Add(p)
		}
	}
	return m, nil
}

// LoadManifest reads and parses one manifest file.
func LoadManifest(path string) (*resolver.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return m, nil
}

// LoadManifests loads an ordered manifest list; the caller's path order is
// the resolution priority order.
func LoadManifests(paths ...string) ([]*resolver.Manifest, error) {
	manifests := make([]*resolver.Manifest, 0, len(paths))
	for _, path := range paths {
		m, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

func toPackage(name string, raw rawPackage) (*resolver.Package, error) {
	v, err := resolver.ParseVersion(raw.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "package %s", name)
	}

	var deps resolver.Dependencies
	deps.Positional, err = parseConstraints(raw.Deps)
	if err != nil {
		return nil, errors.Wrapf(err, "package %s-%s", name, v)
	}

	// Tags sort so the normalized form is stable across decodes.
	tags := make([]string, 0, len(raw.PlatformDeps))
	for tag := range raw.PlatformDeps {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		cons, err := parseConstraints(raw.PlatformDeps[tag])
		if err != nil {
			return nil, errors.Wrapf(err, "package %s-%s platform %s", name, v, tag)
		}
		deps.Platform = append(deps.Platform, resolver.PlatformDeps{Tag: tag, Deps: cons})
	}

	return resolver.NewPackage(name, v, deps, resolver.PlatformSpec(raw.Platforms)), nil
}

func parseConstraints(specs []string) ([]resolver.Constraint, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	cons := make([]resolver.Constraint, len(specs))
	for i, s := range specs {
		c, err := resolver.ParseConstraint(s)
		if err != nil {
			return nil, err
		}
		cons[i] = c
	}
	return cons, nil
}
