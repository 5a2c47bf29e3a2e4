package engine

import (
	"fmt"

	"github.com/aid-linh-pnp/test-question/internal/models"
)

// InitialState is the path state every session starts from.
const InitialState = "initial"

// StartLevel is the level every session starts at within its seniority.
const StartLevel = 3

// MaxQuestions bounds the depth of every transition table.
const MaxQuestions = 5

// Branch is where a single answer leads: either an advance to another node or
// a terminal outcome.
type Branch struct {
	Terminal bool

	// Advance target, valid when Terminal is false.
	Seniority models.Seniority
	Level     int
	State     string

	// Terminal outcome, valid when Terminal is true.
	Label  string
	Failed bool
}

// Advance builds a branch that moves the session to the given node.
func Advance(s models.Seniority, level int, state string) Branch {
	return Branch{Seniority: s, Level: level, State: state}
}

// Terminate builds a branch that ends the session with the given label.
func Terminate(label string) Branch {
	return Branch{Terminal: true, Label: label}
}

// Fail builds a terminal branch flagged as a failure.
func Fail(label string) Branch {
	return Branch{Terminal: true, Label: label, Failed: true}
}

// Node is one row of a transition table: the question number at which the
// state is consulted and the branch taken for each correctness outcome.
type Node struct {
	Question    int
	OnCorrect   Branch
	OnIncorrect Branch
}

// Table is the full decision tree for one starting seniority, keyed by path
// state. Tables hold no mutable state; Transition is a pure lookup.
type Table struct {
	Seniority models.Seniority
	nodes     map[string]Node
}

// Result is the outcome of applying one answer.
type Result struct {
	Done bool

	// Next position, valid when Done is false.
	Seniority models.Seniority
	Level     int
	PathState string

	// Terminal outcome, valid when Done is true.
	Label  string
	Failed bool
}

// Transition applies one answer to the table. answerCount is the 1-based
// number of the answer being applied and must match the depth at which
// pathState is consulted; a mismatch means the caller's bookkeeping has
// diverged from the tree.
func (t *Table) Transition(pathState string, answerCount int, isCorrect bool) (Result, error) {
	node, ok := t.nodes[pathState]
	if !ok {
		return Result{}, fmt.Errorf("%s table: no node for path state %q", t.Seniority, pathState)
	}
	if node.Question != answerCount {
		return Result{}, fmt.Errorf("%s table: state %q expects answer %d, got %d",
			t.Seniority, pathState, node.Question, answerCount)
	}

	branch := node.OnCorrect
	if !isCorrect {
		branch = node.OnIncorrect
	}
	if branch.Terminal {
		return Result{Done: true, Label: branch.Label, Failed: branch.Failed}, nil
	}
	return Result{
		Seniority: branch.Seniority,
		Level:     branch.Level,
		PathState: branch.State,
	}, nil
}

// Replay re-derives a terminal outcome from a starting seniority and a full
// correctness sequence. It reproduces exactly the outcome a session with the
// same answers would have stored.
func Replay(start models.Seniority, correctness []bool) (label string, failed bool, err error) {
	table, err := TableFor(start)
	if err != nil {
		return "", false, err
	}
	state := InitialState
	for i, ok := range correctness {
		res, err := table.Transition(state, i+1, ok)
		if err != nil {
			return "", false, err
		}
		if res.Done {
			return res.Label, res.Failed, nil
		}
		state = res.PathState
	}
	return "", false, fmt.Errorf("%s table: sequence of %d answers does not terminate", start, len(correctness))
}

// TableFor returns the transition table for the given starting seniority.
func TableFor(s models.Seniority) (*Table, error) {
	t, ok := tables[s]
	if !ok {
		return nil, fmt.Errorf("no transition table for seniority %q", s)
	}
	return t, nil
}

// Validate checks the structural invariants of a table: every branch resolves
// to a defined node or a labeled terminal, every node is reachable from the
// initial state by exactly one correctness sequence, question numbers grow by
// one along every path, and every path terminates within MaxQuestions answers.
// An invalid table is a construction defect, so this runs for every table at
// package init.
func (t *Table) Validate() error {
	root, ok := t.nodes[InitialState]
	if !ok {
		return fmt.Errorf("%s table: missing %q node", t.Seniority, InitialState)
	}
	if root.Question != 1 {
		return fmt.Errorf("%s table: %q node must be consulted at question 1", t.Seniority, InitialState)
	}

	seen := map[string]int{InitialState: 1}
	var walk func(state string) error
	walk = func(state string) error {
		node := t.nodes[state]
		for _, branch := range []Branch{node.OnCorrect, node.OnIncorrect} {
			if branch.Terminal {
				if branch.Label == "" {
					return fmt.Errorf("%s table: state %q has an unlabeled terminal", t.Seniority, state)
				}
				continue
			}
			if !branch.Seniority.Valid() {
				return fmt.Errorf("%s table: state %q advances to invalid seniority %q", t.Seniority, state, branch.Seniority)
			}
			if branch.Level < models.MinLevel || branch.Level > models.MaxLevel {
				return fmt.Errorf("%s table: state %q advances to level %d", t.Seniority, state, branch.Level)
			}
			next, ok := t.nodes[branch.State]
			if !ok {
				return fmt.Errorf("%s table: state %q advances to undefined state %q", t.Seniority, state, branch.State)
			}
			if next.Question != node.Question+1 {
				return fmt.Errorf("%s table: state %q at question %d advances to %q at question %d",
					t.Seniority, state, node.Question, branch.State, next.Question)
			}
			if next.Question > MaxQuestions {
				return fmt.Errorf("%s table: state %q exceeds %d questions", t.Seniority, branch.State, MaxQuestions)
			}
			seen[branch.State]++
			if seen[branch.State] > 1 {
				return fmt.Errorf("%s table: state %q is reachable by more than one path", t.Seniority, branch.State)
			}
			if err := walk(branch.State); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(InitialState); err != nil {
		return err
	}

	for state := range t.nodes {
		if seen[state] == 0 {
			return fmt.Errorf("%s table: state %q is unreachable", t.Seniority, state)
		}
	}
	return nil
}

// States returns the number of defined path states, including the initial one.
func (t *Table) States() int {
	return len(t.nodes)
}
