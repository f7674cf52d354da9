package resolver

import (
	"strings"
)

// Op enumerates the constraint operators.
type Op uint8

const (
	// OpAny matches every version of a name.
	OpAny Op = iota
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	// OpCompat is the ~> pessimistic operator.
	OpCompat
)

func (op Op) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNeq:
		return "~="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpCompat:
		return "~>"
	}
	return ""
}

// opTable is scanned in order, so longer operators must come first.
var opTable = []struct {
	text string
	op   Op
}{
	{"==", OpEq},
	{"~=", OpNeq},
	{"<=", OpLte},
	{">=", OpGte},
	{"~>", OpCompat},
	{"<", OpLt},
	{">", OpGt},
	{"=", OpEq},
}

// Constraint is a parsed dependency: a name, an optional operator, and an
// optional bound version. The zero operator (OpAny) carries no version and
// admits every version of the name.
type Constraint struct {
	Name    string
	Op      Op
	Version Version
}

// ParseConstraint parses the textual forms "name", "name op ver", and
// "name ver" (a bare version implies ==). Whitespace around the operator is
// optional.
func ParseConstraint(s string) (Constraint, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Constraint{}, &ParseError{Input: s, Reason: "empty constraint"}
	}

	i := 0
	for i < len(trimmed) && !isOpByte(trimmed[i]) && trimmed[i] != ' ' && trimmed[i] != '\t' {
		i++
	}
	name := trimmed[:i]
	if name == "" {
		return Constraint{}, &ParseError{Input: s, Reason: "missing package name"}
	}

	rest := strings.TrimSpace(trimmed[i:])
	if rest == "" {
		return Constraint{Name: name}, nil
	}

	op := OpEq
	matched := false
	for _, e := range opTable {
		if strings.HasPrefix(rest, e.text) {
			op = e.op
			rest = strings.TrimSpace(rest[len(e.text):])
			matched = true
			break
		}
	}
	if !matched && isOpByte(rest[0]) {
		return Constraint{}, &ParseError{Input: s, Reason: "unrecognized operator"}
	}
	if rest == "" {
		return Constraint{}, &ParseError{Input: s, Reason: "operator without version"}
	}

	v, err := ParseVersion(rest)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Name: name, Op: op, Version: v}, nil
}

func isOpByte(b byte) bool {
	return b == '<' || b == '>' || b == '=' || b == '~'
}

// Matches reports whether the constraint admits v.
func (c Constraint) Matches(v Version) bool {
	switch c.Op {
	case OpAny:
		return true
	case OpEq:
		return v.Compare(c.Version) == 0
	case OpNeq:
		return v.Compare(c.Version) != 0
	case OpLt:
		return v.Compare(c.Version) < 0
	case OpLte:
		return v.Compare(c.Version) <= 0
	case OpGt:
		return v.Compare(c.Version) > 0
	case OpGte:
		return v.Compare(c.Version) >= 0
	case OpCompat:
		return v.CompatibleWith(c.Version)
	}
	return false
}

// VersionString renders the operator and bound without the name, for
// diagnostics ("any" when unconstrained).
func (c Constraint) VersionString() string {
	if c.Op == OpAny {
		return "any"
	}
	return c.Op.String() + " " + c.Version.String()
}

func (c Constraint) String() string {
	if c.Op == OpAny {
		return c.Name
	}
	return c.Name + " " + c.Op.String() + " " + c.Version.String()
}
