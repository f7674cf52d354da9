package keel

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/keelpm/keel/resolver"
)

// rawInstalledPackage mirrors one entry of an installed-set snapshot.
// Installed packages are closed during resolution, so only the version is
// consulted; the dep list is carried for completeness of the record.
type rawInstalledPackage struct {
	Version string   `yaml:"version"`
	Deps    []string `yaml:"deps,omitempty"`
}

type rawInstalled struct {
	Packages map[string]rawInstalledPackage `yaml:"packages"`
}

// ParseInstalled decodes a YAML installed-set snapshot into the canonical
// package map the resolver consumes. Exactly one version per name.
func ParseInstalled(data []byte) (map[string]*resolver.Package, error) {
	var ri rawInstalled
	if err := yaml.Unmarshal(data, &ri); err != nil {
		return nil, errors.Wrap(err, "decoding installed set")
	}

	installed := make(map[string]*resolver.Package, len(ri.Packages))
	for name, raw := range ri.Packages {
		v, err := resolver.ParseVersion(raw.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "installed package %s", name)
		}
		deps, err := parseConstraints(raw.Deps)
		if err != nil {
			return nil, errors.Wrapf(err, "installed package %s", name)
		}
		installed[name] = resolver.NewPackage(name, v, resolver.Dependencies{Positional: deps}, nil)
	}
	return installed, nil
}

// LoadInstalled reads and parses an installed-set snapshot file.
func LoadInstalled(path string) (map[string]*resolver.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading installed set %s", path)
	}
	installed, err := ParseInstalled(data)
	if err != nil {
		return nil, errors.Wrapf(err, "installed set %s", path)
	}
	return installed, nil
}
