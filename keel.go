// Package keel loads package manifests and installed-set snapshots and
// resolves install plans against them. The resolution engine itself lives in
// the resolver subpackage; this package owns the file formats and normalizes
// their loosely-shaped dependency lists into resolver structures.
package keel

import (
	"github.com/pkg/errors"

	"github.com/keelpm/keel/resolver"
)

// Resolve parses the request and resolves it against the manifests, in
// priority order, and the installed set. Options pass through to
// resolver.New.
func Resolve(request string, manifests []*resolver.Manifest, installed map[string]*resolver.Package, opts ...resolver.Option) (resolver.Plan, error) {
	plan, err := resolver.New(opts...).Resolve(request, manifests, installed)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", request)
	}
	return plan, nil
}
