package graph

import "strings"

// DefaultType is assumed for relationships stored without a type.
const DefaultType = "knows"

// UnknownName labels edge endpoints that no longer resolve to a node.
const UnknownName = "Unknown"

// Level is the ordinal closeness rank of a contact (L1 closest).
type Level string

const (
	L1 Level = "L1"
	L2 Level = "L2"
	L3 Level = "L3"
	L4 Level = "L4"
)

// Strength grades a relationship.
type Strength string

const (
	Weak   Strength = "weak"
	Normal Strength = "normal"
	Strong Strength = "strong"
)

// ParseStrength maps anything unrecognised to Normal.
func ParseStrength(s string) Strength {
	switch Strength(strings.ToLower(strings.TrimSpace(s))) {
	case Weak:
		return Weak
	case Strong:
		return Strong
	default:
		return Normal
	}
}

// Node is a read-only snapshot of one contact.
type Node struct {
	ID          string
	DisplayName string
	Level       Level
	Tags        []string
	IsSelf      bool
}

// RawEdge is one directed relationship record as persisted by the
// store. Every relationship is normally present twice, once per direction.
type RawEdge struct {
	ID       string
	FromID   string
	ToID     string
	Type     string
	Strength Strength
}

// Edge is a single undirected relationship.
type Edge struct {
	ID       string
	FromID   string
	ToID     string
	Type     string
	Strength Strength
}

// Key returns the canonical key of the unordered pair {a,b} plus type.
// Key(a, b, t) == Key(b, a, t) for all inputs. Parts are joined with
// "::", so ids containing "::" can collide; ids are generated without it.
func Key(a, b, typ string) string {
	if b < a {
		a, b = b, a
	}
	if typ == "" {
		typ = DefaultType
	}
	return a + "::" + b + "::" + typ
}

// Key returns the canonical key of the edge.
func (e Edge) Key() string {
	return Key(e.FromID, e.ToID, e.Type)
}

// Dedupe collapses directed records into undirected edges, keeping the
// first record seen for each key. Malformed input (a missing reverse, a
// repeated record) is collapsed the same way; it never fails.
func Dedupe(raw []RawEdge) []Edge {
	seen := make(map[string]struct{}, len(raw)/2+1)
	out := make([]Edge, 0, len(raw)/2+1)
	for _, r := range raw {
		e := Edge{
			ID:       r.ID,
			FromID:   r.FromID,
			ToID:     r.ToID,
			Type:     r.Type,
			Strength: ParseStrength(string(r.Strength)),
		}
		if e.Type == "" {
			e.Type = DefaultType
		}
		k := e.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Lookup indexes nodes by id.
type Lookup map[string]Node

// NodesByID builds a Lookup. Later duplicates of an id win.
func NodesByID(nodes []Node) Lookup {
	m := make(Lookup, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

// Name returns the display name for id, or UnknownName when the id
// does not resolve.
func (l Lookup) Name(id string) string {
	if n, ok := l[id]; ok {
		return n.DisplayName
	}
	return UnknownName
}
