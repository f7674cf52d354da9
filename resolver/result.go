package resolver

import (
	"strings"
)

// Plan is the ordered result of a resolve: each package appears after its
// newly placed dependencies and before its dependents.
type Plan []*Package

// String renders the plan as space-separated name-version tokens, the form
// used for text comparison and debugging.
func (p Plan) String() string {
	tokens := make([]string, len(p))
	for i, pkg := range p {
		tokens[i] = pkg.String()
	}
	return strings.Join(tokens, " ")
}

// Names returns the package names in plan order.
func (p Plan) Names() []string {
	names := make([]string, len(p))
	for i, pkg := range p {
		names[i] = pkg.Name
	}
	return names
}
