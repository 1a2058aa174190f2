// Package store reads contact documents from disk and turns them into the
// graph the scene draws. Legacy documents keep two directed records per
// relationship; they are collapsed here, once, at load time.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/olivierh59500/netgraph/internal/graph"
)

// SchemaVersion is the document version written by current clients.
const SchemaVersion = 1

// SelfTag is attached to the generated self contact.
const SelfTag = "Self"

var (
	levels    = []string{"L1", "L2", "L3", "L4"}
	edgeTypes = []string{"knows", "met", "worksWith", "family", "other"}
)

// Meta holds contact flags.
type Meta struct {
	IsSelf bool `json:"isSelf,omitempty"`
}

// Contact is one person in the document.
type Contact struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Handles     []string `json:"handles,omitempty"`
	Level       string   `json:"level,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
	Meta        Meta     `json:"meta"`
}

// Relationship is one directed edge record as stored.
type Relationship struct {
	ID        string `json:"id"`
	FromID    string `json:"fromId"`
	ToID      string `json:"toId"`
	Type      string `json:"type,omitempty"`
	Strength  string `json:"strength,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Document is the saved contact database.
type Document struct {
	SchemaVersion int            `json:"schemaVersion"`
	Contacts      []Contact      `json:"contacts"`
	Edges         []Relationship `json:"edges"`
	Tags          []string       `json:"tags"`
	LastSavedAt   string         `json:"lastSavedAt,omitempty"`
}

// New returns an empty document.
func New() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		Contacts:      []Contact{},
		Edges:         []Relationship{},
		Tags:          []string{},
	}
}

// NewID returns a random id such as "c_7f0e...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Decode parses a saved document or an export wrapper, whose contacts and
// edges live under "data".
func Decode(data []byte) (*Document, error) {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("document parse: %w", err)
	}
	body := data
	if len(probe.Data) > 0 && string(probe.Data) != "null" {
		body = probe.Data
	}

	doc := New()
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("document parse: %w", err)
	}
	if doc.Contacts == nil {
		doc.Contacts = []Contact{}
	}
	if doc.Edges == nil {
		doc.Edges = []Relationship{}
	}
	return doc, nil
}

// Self returns the self contact, if any.
func (d *Document) Self() (Contact, bool) {
	for _, c := range d.Contacts {
		if c.Meta.IsSelf {
			return c, true
		}
	}
	return Contact{}, false
}

// EnsureSelf prepends a "Me" contact with the given id when no contact is
// marked as self. It reports whether one was added.
func (d *Document) EnsureSelf(id string) bool {
	if _, ok := d.Self(); ok {
		return false
	}
	me := Contact{
		ID:          id,
		DisplayName: "Me",
		Handles:     []string{},
		Level:       string(graph.L1),
		Tags:        []string{SelfTag},
		Notes:       "Your own profile.",
		Meta:        Meta{IsSelf: true},
	}
	d.Contacts = append([]Contact{me}, d.Contacts...)
	if !slices.Contains(d.Tags, SelfTag) {
		d.Tags = append(d.Tags, SelfTag)
	}
	return true
}

// Nodes converts contacts in document order.
func (d *Document) Nodes() []graph.Node {
	nodes := make([]graph.Node, 0, len(d.Contacts))
	for _, c := range d.Contacts {
		nodes = append(nodes, graph.Node{
			ID:          c.ID,
			DisplayName: strings.TrimSpace(c.DisplayName),
			Level:       graph.Level(c.Level),
			Tags:        c.Tags,
			IsSelf:      c.Meta.IsSelf,
		})
	}
	return nodes
}

// Relationships collapses the stored records into undirected edges.
func (d *Document) Relationships() []graph.Edge {
	raw := make([]graph.RawEdge, 0, len(d.Edges))
	for _, r := range d.Edges {
		raw = append(raw, graph.RawEdge{
			ID:       r.ID,
			FromID:   r.FromID,
			ToID:     r.ToID,
			Type:     r.Type,
			Strength: graph.ParseStrength(r.Strength),
		})
	}
	return graph.Dedupe(raw)
}

// Validate reports every problem in the document. Problems do not stop a
// load: the scene skips dangling edges and unknown levels fall back.
func (d *Document) Validate() error {
	var errs []error
	byID := make(map[string]bool, len(d.Contacts))
	selves := 0
	for _, c := range d.Contacts {
		if c.ID == "" {
			errs = append(errs, errors.New("contact missing id"))
			continue
		}
		if byID[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate contact id %s", c.ID))
		}
		byID[c.ID] = true
		if strings.TrimSpace(c.DisplayName) == "" {
			errs = append(errs, fmt.Errorf("contact %s: displayName is required", c.ID))
		}
		if c.Level != "" && !slices.Contains(levels, c.Level) {
			errs = append(errs, fmt.Errorf("contact %s: level must be L1-L4", c.ID))
		}
		if c.Meta.IsSelf {
			selves++
		}
	}
	if selves > 1 {
		errs = append(errs, fmt.Errorf("%d contacts marked as self", selves))
	}

	for _, e := range d.Edges {
		id := e.ID
		if id == "" {
			errs = append(errs, errors.New("edge missing id"))
			id = "unknown"
		}
		if !byID[e.FromID] {
			errs = append(errs, fmt.Errorf("edge %s: fromId missing or unknown", id))
		}
		if !byID[e.ToID] {
			errs = append(errs, fmt.Errorf("edge %s: toId missing or unknown", id))
		}
		if e.FromID != "" && e.FromID == e.ToID {
			errs = append(errs, fmt.Errorf("edge %s: fromId and toId cannot match", id))
		}
		if e.Type != "" && !slices.Contains(edgeTypes, e.Type) {
			errs = append(errs, fmt.Errorf("edge %s: invalid edge type %q", id, e.Type))
		}
		switch e.Strength {
		case "", "weak", "normal", "strong":
		default:
			errs = append(errs, fmt.Errorf("edge %s: invalid edge strength %q", id, e.Strength))
		}
	}
	return errors.Join(errs...)
}

// File is a document on disk. The generated self id is kept for the life
// of the File so reloading an unchanged file keeps the same node ids.
type File struct {
	Path   string
	selfID string
}

// Open returns a File for path. Nothing is read until Read.
func Open(path string) *File {
	return &File{Path: path}
}

// Read loads the document. A missing file reads as an empty document. The
// result always has a self contact.
func (f *File) Read() (*Document, error) {
	doc := New()
	data, err := os.ReadFile(f.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	default:
		if doc, err = Decode(data); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Path, err)
		}
	}

	if f.selfID == "" {
		f.selfID = NewID("c")
	}
	doc.EnsureSelf(f.selfID)
	return doc, nil
}

// Load reads the file and returns its graph.
func (f *File) Load() ([]graph.Node, []graph.Edge, error) {
	doc, err := f.Read()
	if err != nil {
		return nil, nil, err
	}
	return doc.Nodes(), doc.Relationships(), nil
}

// DOT renders nodes and edges as an undirected Graphviz graph.
func DOT(nodes []graph.Node, edges []graph.Edge) string {
	lookup := graph.NodesByID(nodes)
	var b strings.Builder
	b.WriteString("graph netgraph {\n")
	b.WriteString("  node [shape=ellipse];\n\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.ID, lookup.Name(n.ID))
	}
	b.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&b, "  %q -- %q [label=%q];\n", e.FromID, e.ToID, e.Type)
	}
	b.WriteString("}\n")
	return b.String()
}
