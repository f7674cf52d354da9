package resolver

import (
	"bytes"
	"fmt"
	"strings"
)

// ParseError reports a malformed version or constraint, naming the offending
// input.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// CircularError reports a name that reappeared on the active resolve path.
type CircularError struct {
	// Cycle holds the path from the first occurrence of the repeated name
	// back around to it, e.g. [a b a].
	Cycle []string
}

func (e *CircularError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

// NoCandidateError reports that no manifest yielded a usable candidate for a
// name: the name is unknown, nothing satisfies the constraint, or every
// candidate failed the platform filter. When candidates exist but each one
// fails (on its deps or its binary check), the resolver returns the last
// candidate's failure instead.
type NoCandidateError struct {
	Name       string
	Constraint Constraint
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("No suitable candidate for package %s found", e.Name)
}

// InstalledMismatchError reports a constraint that the installed version of
// its package cannot satisfy. Installed packages are closed: the resolver
// never replaces them.
type InstalledMismatchError struct {
	Name      string
	Required  Constraint
	Installed Version
}

func (e *InstalledMismatchError) Error() string {
	return fmt.Sprintf("Package %s is required at version %s but installed at version %s",
		e.Name, e.Required.VersionString(), e.Installed)
}

// ConflictError reports a name requested twice in one resolve under
// constraints the already-placed package cannot satisfy.
type ConflictError struct {
	Name       string
	Placed     Version
	Constraint Constraint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting requirements for package %s: placed at version %s, but %q is also required",
		e.Name, e.Placed, e.Constraint)
}

// BinaryRejectedError reports a binary candidate whose hash suffix did not
// match the fingerprint of its resolved dependency closure. The resolver
// falls through to the next candidate; this error only surfaces when nothing
// else is left to try.
type BinaryRejectedError struct {
	Candidate *Package
	Deps      []*Package
}

func (e *BinaryRejectedError) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "binary %s rejected: hash %s does not match its resolved dependencies",
		e.Candidate, e.Candidate.Version.Hash())
	for _, d := range e.Deps {
		fmt.Fprintf(&buf, "\n\t%s", d)
	}
	return buf.String()
}
