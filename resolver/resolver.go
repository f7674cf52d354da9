// Package resolver computes ordered install plans for a source/binary
// package manager. Given a request, an ordered list of manifests, and the
// set of installed packages, it either returns the transitive set of
// packages needed in a valid install order, or a diagnostic error explaining
// why no plan exists.
//
// Resolution is greedy: depth-first, newest-first, with manifest order
// deciding precedence between binary and source tables. A candidate whose
// dependencies cannot be satisfied is dropped in favor of the next one,
// which gives the usual binary-preferred-source-fallback behavior without a
// complete solver. The greedy strategy cannot backtrack across siblings: if
// one dependency commits a version that a later sibling constrains more
// tightly, the resolve fails even though a complete solver might succeed.
package resolver

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Resolver performs resolution. A single Resolver is safe for concurrent
// use; every Resolve call keeps its state on its own frame.
type Resolver struct {
	log    *logrus.Logger
	tags   TagSet
	verify VerifyBinary
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the trace logger. Resolution steps log at Debug, accepted
// candidates at Info.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithPlatformTags sets the runtime platform tag set candidates are
// filtered against. The default is {unix, linux}.
func WithPlatformTags(tags TagSet) Option {
	return func(r *Resolver) {
		if len(tags) > 0 {
			r.tags = tags
		}
	}
}

// WithBinaryVerifier installs the hook that validates a binary candidate's
// hash suffix against its resolved dependency closure. Without it the
// suffix is accepted as-is.
func WithBinaryVerifier(v VerifyBinary) Option {
	return func(r *Resolver) {
		if v != nil {
			r.verify = v
		}
	}
}

// New builds a Resolver. The fallback logger only reports warnings; inject
// one with WithLogger to trace resolution.
func New(opts ...Option) *Resolver {
	fallback := logrus.New()
	fallback.SetLevel(logrus.WarnLevel)
	r := &Resolver{
		log:    fallback,
		tags:   DefaultTags(),
		verify: acceptAllBinaries,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses the request string and resolves it against the manifests,
// in order of decreasing priority, and the installed set. Inputs are
// treated as immutable snapshots; the installed map is consulted but never
// mutated.
func (r *Resolver) Resolve(request string, manifests []*Manifest, installed map[string]*Package) (Plan, error) {
	con, err := ParseConstraint(request)
	if err != nil {
		return nil, err
	}
	return r.ResolveConstraint(con, manifests, installed)
}

// ResolveConstraint is Resolve for an already-parsed request.
func (r *Resolver) ResolveConstraint(con Constraint, manifests []*Manifest, installed map[string]*Package) (Plan, error) {
	rs := &resolution{
		r:         r,
		manifests: manifests,
		installed: installed,
		placed:    make(map[string]*Package),
	}

	if r.log.IsLevelEnabled(logrus.DebugLevel) {
		r.log.WithFields(logrus.Fields{
			"request":   con.String(),
			"manifests": len(manifests),
			"installed": len(installed),
			"platform":  r.tags.String(),
		}).Debug("Beginning resolve")
	}

	if err := rs.resolveOne(con); err != nil {
		return nil, err
	}
	return rs.order, nil
}

// pathEntry records one frame of the active depth-first path, keeping the
// constraint the name is being resolved under for cycle reporting.
type pathEntry struct {
	name string
	con  Constraint
}

// resolution is the per-call state: the plan under construction, the names
// committed to it, and the active path.
type resolution struct {
	r         *Resolver
	manifests []*Manifest
	installed map[string]*Package

	order  Plan
	placed map[string]*Package
	path   []pathEntry
}

func (rs *resolution) resolveOne(con Constraint) error {
	log := rs.r.log

	// A name already on the active path means the traversal bit its own
	// tail.
	for i, e := range rs.path {
		if e.name == con.Name {
			cycle := make([]string, 0, len(rs.path)-i+1)
			for _, pe := range rs.path[i:] {
				cycle = append(cycle, pe.name)
			}
			cycle = append(cycle, con.Name)
			return &CircularError{Cycle: cycle}
		}
	}

	// A placed name is already committed; the new constraint must agree
	// with what was placed.
	if p, ok := rs.placed[con.Name]; ok {
		if con.Matches(p.Version) {
			return nil
		}
		return &ConflictError{Name: con.Name, Placed: p.Version, Constraint: con}
	}

	// Installed packages are closed: satisfy from them without planning or
	// recursing, or fail if the installed version cannot serve.
	if ip, ok := rs.installed[con.Name]; ok {
		if con.Matches(ip.Version) {
			if log.IsLevelEnabled(logrus.DebugLevel) {
				log.WithFields(logrus.Fields{
					"name":    con.Name,
					"version": ip.Version.String(),
				}).Debug("Constraint satisfied by installed package")
			}
			return nil
		}
		return &InstalledMismatchError{Name: con.Name, Required: con, Installed: ip.Version}
	}

	pool := rs.candidates(con)
	if len(pool) == 0 {
		return &NoCandidateError{Name: con.Name, Constraint: con}
	}

	var lastErr error
	for _, cand := range pool {
		if err := rs.attempt(con, cand); err != nil {
			if log.IsLevelEnabled(logrus.DebugLevel) {
				log.WithFields(logrus.Fields{
					"candidate": cand.String(),
					"err":       err,
				}).Debug("Candidate failed, trying next")
			}
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// candidates enumerates the pool for a constraint: manifests in priority
// order, each filtered by platform and version, ordered newest-first within
// a rank. Manifest rank dominates version order.
func (rs *resolution) candidates(con Constraint) []*Package {
	var pool []*Package
	for _, m := range rs.manifests {
		var sub []*Package
		for _, c := range m.Candidates(con.Name) {
			if !c.Supports(rs.r.tags) {
				continue
			}
			if !con.Matches(c.Version) {
				continue
			}
			sub = append(sub, c)
		}
		// Stable, so equal versions keep their insertion order.
		sort.SliceStable(sub, func(i, j int) bool {
			if sub[i].rank != sub[j].rank {
				return sub[i].rank < sub[j].rank
			}
			return sub[i].Version.Compare(sub[j].Version) > 0
		})
		pool = append(pool, sub...)
	}
	return pool
}

// attempt tries to place one candidate: resolve its deps depth-first,
// validate a binary's hash suffix, then commit it to the plan. Any failure
// restores the plan to its pre-attempt state.
func (rs *resolution) attempt(con Constraint, cand *Package) error {
	log := rs.r.log
	mark := len(rs.order)

	rs.path = append(rs.path, pathEntry{name: con.Name, con: con})

	var failure error
	for _, dep := range cand.DepsFor(rs.r.tags) {
		if err := rs.resolveOne(dep); err != nil {
			failure = err
			break
		}
	}

	if failure == nil && cand.Version.Hash() != "" {
		deps := rs.resolvedDepsOf(cand)
		if !rs.r.verify(cand, deps) {
			failure = &BinaryRejectedError{Candidate: cand, Deps: deps}
		}
	}

	rs.path = rs.path[:len(rs.path)-1]

	if failure != nil {
		// Every placement appends to both order and placed, so the order
		// tail is exactly the set to unwind.
		for _, p := range rs.order[mark:] {
			delete(rs.placed, p.Name)
		}
		rs.order = rs.order[:mark]
		return failure
	}

	rs.order = append(rs.order, cand)
	rs.placed[cand.Name] = cand

	if log.IsLevelEnabled(logrus.InfoLevel) {
		log.WithFields(logrus.Fields{
			"name":    cand.Name,
			"version": cand.Version.String(),
			"rank":    cand.rank,
		}).Info("Accepted candidate")
	}
	return nil
}

// resolvedDepsOf collects the packages serving a candidate's dependency
// constraints, whether newly placed or already installed.
func (rs *resolution) resolvedDepsOf(cand *Package) []*Package {
	var deps []*Package
	for _, dep := range cand.DepsFor(rs.r.tags) {
		if p, ok := rs.placed[dep.Name]; ok {
			deps = append(deps, p)
		} else if ip, ok := rs.installed[dep.Name]; ok {
			deps = append(deps, ip)
		}
	}
	return deps
}
