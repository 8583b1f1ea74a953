package scheduler

import (
	"fmt"
	"strings"

	"github.com/noah-isme/edt-api/internal/models"
)

// Result is the outcome of placing one group's courses.
type Result struct {
	Sessions  models.Sessions `json:"sessions"`
	Conflicts []Conflict      `json:"conflicts"`
}

// Messages flattens the conflicts into their human-readable form.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		out = append(out, c.Message)
	}
	return out
}

// Generator drives a PlacementStrategy over a course list.
type Generator struct {
	strategy PlacementStrategy
}

// NewGenerator returns a generator using strategy, or Greedy when nil.
func NewGenerator(strategy PlacementStrategy) *Generator {
	if strategy == nil {
		strategy = Greedy{}
	}
	return &Generator{strategy: strategy}
}

// StrategyByName resolves a configured strategy name.
func StrategyByName(name string) (PlacementStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "greedy":
		return Greedy{}, nil
	default:
		return nil, fmt.Errorf("unknown placement strategy %q", name)
	}
}

// Run places courses in the order given, one session per course, for the group
// currently open in state. Courses that cannot be placed are reported, not retried.
func (g *Generator) Run(courses []models.Course, state *State) Result {
	state.StartGroup()
	result := Result{Conflicts: []Conflict{}}
	for _, course := range courses {
		session, conflict := g.strategy.PlaceCourse(course, state)
		if conflict != nil {
			result.Conflicts = append(result.Conflicts, *conflict)
			continue
		}
		if session != nil {
			result.Sessions = append(result.Sessions, *session)
		}
	}
	if result.Sessions == nil {
		result.Sessions = models.Sessions{}
	}
	return result
}
