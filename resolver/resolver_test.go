package resolver

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// mkDepspec builds a candidate from compact fixture strings. The first
// argument is "name version [platform...]"; each dep is a constraint string,
// optionally prefixed "tag::" to place it in the platform-keyed section.
func mkDepspec(t *testing.T, nv string, deps ...string) *Package {
	t.Helper()

	fields := strings.Fields(nv)
	if len(fields) < 2 {
		t.Fatalf("malformed depspec %q", nv)
	}
	name, ver := fields[0], fields[1]

	var spec PlatformSpec
	if len(fields) > 2 {
		spec = PlatformSpec(fields[2:])
	}

	var d Dependencies
	for _, dep := range deps {
		if tag, con, ok := strings.Cut(dep, "::"); ok {
			placed := false
			for i := range d.Platform {
				if d.Platform[i].Tag == tag {
					d.Platform[i].Deps = append(d.Platform[i].Deps, mkCon(t, con))
					placed = true
					break
				}
			}
			if !placed {
				d.Platform = append(d.Platform, PlatformDeps{Tag: tag, Deps: []Constraint{mkCon(t, con)}})
			}
			continue
		}
		d.Positional = append(d.Positional, mkCon(t, dep))
	}

	return NewPackage(name, mkVer(t, ver), d, spec)
}

func mkTestManifest(pkgs ...*Package) *Manifest {
	m := NewManifest()
	for _, p := range pkgs {
		m.Add(p)
	}
	return m
}

func quietResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return New(append([]Option{WithLogger(l)}, opts...)...)
}

// basicFixture drives one resolve through compact string fixtures. pkgs is
// the sole manifest unless manifests supplies an ordered list.
type basicFixture struct {
	n         string
	pkgs      []*Package
	manifests []*Manifest
	installed []*Package
	req       string
	tags      []string
	plan      string
	errsub    string
}

func (f basicFixture) run(t *testing.T) {
	manifests := f.manifests
	if manifests == nil {
		manifests = []*Manifest{mkTestManifest(f.pkgs...)}
	}

	installed := make(map[string]*Package, len(f.installed))
	for _, p := range f.installed {
		installed[p.Name] = p
	}

	var opts []Option
	if len(f.tags) > 0 {
		opts = append(opts, WithPlatformTags(NewTagSet(f.tags...)))
	}

	plan, err := quietResolver(t, opts...).Resolve(f.req, manifests, installed)

	if f.errsub != "" {
		if err == nil {
			t.Fatalf("resolve succeeded with plan %q, wanted error containing %q", plan, f.errsub)
		}
		if !strings.Contains(err.Error(), f.errsub) {
			t.Fatalf("error %q does not contain %q", err, f.errsub)
		}
		if plan != nil {
			t.Error("plan must be nil on error")
		}
		return
	}

	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if got := plan.String(); got != f.plan {
		t.Fatalf("plan = %q, wanted %q", got, f.plan)
	}
	checkPostOrder(t, plan)
}

// checkPostOrder verifies that every planned dependency of a package
// precedes it in the plan.
func checkPostOrder(t *testing.T, plan Plan) {
	t.Helper()
	pos := make(map[string]int, len(plan))
	for i, p := range plan {
		pos[p.Name] = i
	}
	for i, p := range plan {
		for _, dep := range p.DepsFor(DefaultTags()) {
			if j, ok := pos[dep.Name]; ok && j > i {
				t.Errorf("dependency %s of %s appears after it in the plan", dep.Name, p)
			}
		}
	}
}

func TestResolveBasic(t *testing.T) {
	fixtures := []basicFixture{
		{
			n: "single dep chain",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0-0", "b"),
				mkDepspec(t, "b 1.0-0"),
			},
			req:  "a",
			plan: "b-1.0-0 a-1.0-0",
		},
		{
			n: "two-node cycle",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0", "b"),
				mkDepspec(t, "b 1.0", "a"),
			},
			req:    "a",
			errsub: "circular",
		},
		{
			n: "three-node cycle",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0", "b"),
				mkDepspec(t, "b 1.0", "c"),
				mkDepspec(t, "c 1.0", "a"),
			},
			req:    "a",
			errsub: "circular dependency detected: a -> b -> c -> a",
		},
		{
			n: "newest version wins",
			pkgs: []*Package{
				mkDepspec(t, "a 1-0"),
				mkDepspec(t, "a 2-0"),
			},
			req:  "a",
			plan: "a-2-0",
		},
		{
			n: "newest-first skips pre-releases",
			pkgs: []*Package{
				mkDepspec(t, "a 1.2rc"),
				mkDepspec(t, "a 1.2"),
				mkDepspec(t, "a 1.2alpha"),
			},
			req:  "a",
			plan: "a-1.2-0",
		},
		{
			n: "constraint chain with compat operator",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0", "b <= 1-0"),
				mkDepspec(t, "b 1.0", "c >= 2"),
				mkDepspec(t, "b 2.0", "c >= 2"),
				mkDepspec(t, "c 1.9", "d ~> 3.3"),
				mkDepspec(t, "c 2.0", "d ~> 3.3"),
				mkDepspec(t, "c 2.1", "d ~> 3.3"),
				mkDepspec(t, "d 3.2"),
				mkDepspec(t, "d 3.3"),
				mkDepspec(t, "d 3.3.1"),
				mkDepspec(t, "d 3.3.2"),
				mkDepspec(t, "d 3.4"),
			},
			req:  "a",
			plan: "d-3.3.2-0 c-2.1-0 b-1.0-0 a-1.0-0",
		},
		{
			n: "unknown name",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0"),
			},
			req:    "nosuch",
			errsub: "No suitable candidate for package nosuch found",
		},
		{
			n: "constraint excludes every candidate",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0"),
				mkDepspec(t, "a 2.0"),
			},
			req:    "a >= 9",
			errsub: "No suitable candidate",
		},
		{
			n: "exact request pins an older version",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0-0"),
				mkDepspec(t, "a 2.0-0"),
			},
			req:  "a == 1.0-0",
			plan: "a-1.0-0",
		},
		{
			n: "shared dep resolved once",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0", "b", "c"),
				mkDepspec(t, "b 1.0", "d >= 1.0"),
				mkDepspec(t, "c 1.0", "d"),
				mkDepspec(t, "d 1.0"),
			},
			req:  "a",
			plan: "d-1.0-0 b-1.0-0 c-1.0-0 a-1.0-0",
		},
	}

	for _, f := range fixtures {
		t.Run(f.n, f.run)
	}
}

func TestResolvePlatforms(t *testing.T) {
	fixtures := []basicFixture{
		{
			n: "foreign-platform candidate skipped",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0 win32"),
				mkDepspec(t, "a 1.0-0"),
			},
			req:  "a",
			plan: "a-1.0-0",
		},
		{
			n: "negated tag rejects",
			pkgs: []*Package{
				mkDepspec(t, "a 2.0 !unix"),
				mkDepspec(t, "a 1.0"),
			},
			req:  "a",
			plan: "a-1.0-0",
		},
		{
			n: "negated tag accepts elsewhere",
			pkgs: []*Package{
				mkDepspec(t, "a 2.0 !unix"),
				mkDepspec(t, "a 1.0"),
			},
			req:  "a",
			tags: []string{"win32"},
			plan: "a-2.0-0",
		},
		{
			n: "every candidate filtered",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0 win32"),
				mkDepspec(t, "a 2.0 darwin"),
			},
			req:    "a",
			errsub: "No suitable candidate",
		},
		{
			n: "platform-keyed deps conjoined",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0", "b", "linux::c", "win32::w"),
				mkDepspec(t, "b 1.0"),
				mkDepspec(t, "c 1.0"),
			},
			req:  "a",
			plan: "b-1.0-0 c-1.0-0 a-1.0-0",
		},
	}

	for _, f := range fixtures {
		t.Run(f.n, f.run)
	}
}

func TestResolveInstalled(t *testing.T) {
	fixtures := []basicFixture{
		{
			n: "installed mismatch",
			pkgs: []*Package{
				mkDepspec(t, "b 1.0-0", "a >= 1.4-0"),
			},
			installed: []*Package{
				mkDepspec(t, "a 1.2-0"),
			},
			req:    "b",
			errsub: "but installed at version",
		},
		{
			n: "installed short-circuit closes its deps",
			pkgs: []*Package{
				mkDepspec(t, "b 1.0-0", "a >= 1.0"),
			},
			installed: []*Package{
				// The installed package's own deps are never visited, so a
				// dangling reference there must not matter.
				mkDepspec(t, "a 1.2-0", "ghost >= 9"),
			},
			req:  "b",
			plan: "b-1.0-0",
		},
		{
			n: "already-installed request yields empty plan",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0-0"),
			},
			installed: []*Package{
				mkDepspec(t, "a 1.0-0"),
			},
			req:  "a",
			plan: "",
		},
	}

	for _, f := range fixtures {
		t.Run(f.n, f.run)
	}
}

func TestResolveConflicts(t *testing.T) {
	fixtures := []basicFixture{
		{
			n: "incompatible constraints on a placed package",
			pkgs: []*Package{
				mkDepspec(t, "a 1.0", "b", "c"),
				mkDepspec(t, "b 1.0", "d == 1.0"),
				mkDepspec(t, "c 1.0", "d == 2.0"),
				mkDepspec(t, "d 1.0"),
				mkDepspec(t, "d 2.0"),
			},
			req:    "a",
			errsub: "conflicting requirements for package d",
		},
		{
			// The documented greedy limitation: a is committed at 2.0 before
			// b's tighter bound is seen, and the resolver cannot backtrack
			// across siblings.
			n: "no cross-sibling backtracking",
			pkgs: []*Package{
				mkDepspec(t, "c 1.0", "a >= 1.0", "b >= 1.0"),
				mkDepspec(t, "b 1.0", "a == 1.0"),
				mkDepspec(t, "a 1.0"),
				mkDepspec(t, "a 2.0"),
			},
			req:    "c",
			errsub: "conflicting requirements for package a",
		},
	}

	for _, f := range fixtures {
		t.Run(f.n, f.run)
	}
}

func TestResolveManifestPrecedence(t *testing.T) {
	bin := mkTestManifest(
		mkDepspec(t, "a 1.0-0_5d4546a90e"),
	)
	src := mkTestManifest(
		mkDepspec(t, "a 1.0-0"),
	)

	fixtures := []basicFixture{
		{
			n:         "binary preferred",
			manifests: []*Manifest{bin, src},
			req:       "a == 1.0-0",
			plan:      "a-1.0-0_5d4546a90e",
		},
		{
			n:         "source preferred",
			manifests: []*Manifest{src, bin},
			req:       "a == 1.0-0",
			plan:      "a-1.0-0",
		},
		{
			n: "rank dominates version",
			manifests: []*Manifest{
				mkTestManifest(mkDepspec(t, "a 1.0-0")),
				mkTestManifest(mkDepspec(t, "a 9.0-0")),
			},
			req:  "a",
			plan: "a-1.0-0",
		},
		{
			n: "fallthrough when preferred deps fail",
			manifests: []*Manifest{
				mkTestManifest(mkDepspec(t, "a 1.0-0_ffffffffff", "ghost")),
				mkTestManifest(mkDepspec(t, "a 1.0-0")),
			},
			req:  "a",
			plan: "a-1.0-0",
		},
	}

	for _, f := range fixtures {
		t.Run(f.n, f.run)
	}
}

func TestResolveBinaryVerification(t *testing.T) {
	dep := mkDepspec(t, "b 1.0-0")
	good := Fingerprint([]*Package{dep})

	bin := mkTestManifest(
		mkDepspec(t, "a 1.0-0_"+good, "b"),
		dep,
	)
	src := mkTestManifest(
		mkDepspec(t, "a 1.0-0", "b"),
		dep,
	)

	r := quietResolver(t, WithBinaryVerifier(FingerprintVerifier))

	plan, err := r.Resolve("a", []*Manifest{bin, src}, nil)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if got := plan.String(); got != "b-1.0-0 a-1.0-0_"+good {
		t.Errorf("plan = %q, wanted verified binary first", got)
	}

	// A stale hash falls through to the source build.
	staleBin := mkTestManifest(
		mkDepspec(t, "a 1.0-0_ffffffffff", "b"),
		dep,
	)
	plan, err = r.Resolve("a", []*Manifest{staleBin, src}, nil)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if got := plan.String(); got != "b-1.0-0 a-1.0-0" {
		t.Errorf("plan = %q, wanted source fallback", got)
	}

	// With no source to fall back on, the rejection surfaces.
	_, err = r.Resolve("a", []*Manifest{staleBin}, nil)
	if err == nil {
		t.Fatal("resolve of an invalid binary with no fallback should fail")
	}
	if !strings.Contains(err.Error(), "rejected") {
		t.Errorf("error = %q, wanted binary rejection", err)
	}
}

func TestResolveUndoOnCandidateFailure(t *testing.T) {
	// b-2.0 places helper before its second dep fails; the retry with b-1.0
	// must not leak helper's placement into the plan.
	m := mkTestManifest(
		mkDepspec(t, "a 1.0", "b"),
		mkDepspec(t, "b 2.0", "helper", "ghost"),
		mkDepspec(t, "b 1.0"),
		mkDepspec(t, "helper 1.0"),
	)

	plan, err := quietResolver(t).Resolve("a", []*Manifest{m}, nil)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if got := plan.String(); got != "b-1.0-0 a-1.0-0" {
		t.Errorf("plan = %q, wanted abandoned placements unwound", got)
	}
}

func TestResolveParseErrorPropagates(t *testing.T) {
	_, err := quietResolver(t).Resolve("a == not??ok", nil, nil)
	if err == nil {
		t.Fatal("malformed request should fail")
	}
	if !strings.Contains(err.Error(), "not??ok") {
		t.Errorf("error %q does not name the offending string", err)
	}
}

func TestResolverReusableAcrossCalls(t *testing.T) {
	m := mkTestManifest(
		mkDepspec(t, "a 1.0", "b"),
		mkDepspec(t, "b 1.0"),
	)
	r := quietResolver(t)

	for i := 0; i < 3; i++ {
		plan, err := r.Resolve("a", []*Manifest{m}, nil)
		if err != nil {
			t.Fatalf("resolve %v failed: %s", i, err)
		}
		if plan.String() != "b-1.0-0 a-1.0-0" {
			t.Fatalf("resolve %v returned %q", i, plan)
		}
	}
}
