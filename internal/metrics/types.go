package metrics

import (
	"time"

	"dx-metrics/internal/github"
)

// Value is a single entry in a node's metric map: a raw scalar, a list of
// raw observations, or an aggregated summary.
type Value interface {
	// Observations returns the flat sequence of raw observations the
	// value contributes during aggregation.
	Observations() []float64
}

// Scalar is a single raw observation.
type Scalar float64

func (s Scalar) Observations() []float64 { return []float64{float64(s)} }

// List is an ordered series of raw observations for one metric id.
type List []float64

func (l List) Observations() []float64 { return l }

// Aggregated is the statistical summary of every observation gathered for
// one metric id across a repository's issues. Immutable once computed.
type Aggregated struct {
	Values []float64 `json:"values"` // sorted ascending
	Count  int       `json:"count"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
}

func (a *Aggregated) Observations() []float64 { return a.Values }

// Stat returns the named statistic field, minus the raw values.
func (a *Aggregated) Stat(name string) (float64, bool) {
	switch name {
	case "count":
		return float64(a.Count), true
	case "min":
		return a.Min, true
	case "max":
		return a.Max, true
	case "mean":
		return a.Mean, true
	case "median":
		return a.Median, true
	}
	return 0, false
}

// statFields is the flattening order for Aggregated statistics.
var statFields = []string{"count", "min", "max", "mean", "median"}

// Level tags a tree node with its place in the org -> repo -> issue
// hierarchy.
type Level int

const (
	LevelRoot Level = iota
	LevelOrg
	LevelRepo
	LevelIssue
)

// Node is a node in the metric tree, keyed by name (organization,
// repository, or issue URL). Children are inserted explicitly via Child;
// lookups never create.
type Node struct {
	Name     string
	Level    Level
	Children map[string]*Node
	Metrics  map[string]Value
}

// NewTree creates an empty metric tree root.
func NewTree() *Node {
	return &Node{Level: LevelRoot, Children: make(map[string]*Node), Metrics: make(map[string]Value)}
}

// Child returns the named child, inserting it at the next level down if it
// does not exist yet.
func (n *Node) Child(name string) *Node {
	if child, ok := n.Children[name]; ok {
		return child
	}
	child := &Node{
		Name:     name,
		Level:    n.Level + 1,
		Children: make(map[string]*Node),
		Metrics:  make(map[string]Value),
	}
	n.Children[name] = child
	return child
}

// Lookup returns the named child without inserting.
func (n *Node) Lookup(name string) (*Node, bool) {
	child, ok := n.Children[name]
	return child, ok
}

// IssueRecord is the output contract of the event processor: one issue's
// classification and base metrics, derived from its raw timeline.
type IssueRecord struct {
	URL               string
	Author            string
	CreatedAt         time.Time
	Closed            bool
	Category          string // empty when the issue has no type label
	Status            string // e.g. "duplicate", "invalid"; empty when unset
	FirstAdminComment bool
	Events            []github.TimelineEvent
	Metrics           map[string]Value
}

// Processor turns a raw issue into an IssueRecord. It must be
// deterministic given the same issue and window.
type Processor interface {
	Process(issue github.Issue, w Window) (*IssueRecord, error)
}
