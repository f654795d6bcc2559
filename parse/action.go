package parse

import "github.com/dekarrin/lexpar/grammar"

// ActionKind identifies what an LRAction does: shift, reduce, accept, or
// the absence of any applicable action (error).
type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (k ActionKind) String() string {
	switch k {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// LRAction is a single ACTION-table cell, modelled as a tagged union
// rather than an encoded string: Kind selects which of the remaining
// fields are meaningful (State for shift, NonTerminal/Production for
// reduce, neither for accept or error).
type LRAction struct {
	Kind        ActionKind
	State       string
	NonTerminal string
	Production  grammar.Production
}

func (a LRAction) Equal(o LRAction) bool {
	if a.Kind != o.Kind {
		return false
	}
	switch a.Kind {
	case ActionShift:
		return a.State == o.State
	case ActionReduce:
		if a.NonTerminal != o.NonTerminal || len(a.Production) != len(o.Production) {
			return false
		}
		for i := range a.Production {
			if a.Production[i] != o.Production[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (a LRAction) String() string {
	switch a.Kind {
	case ActionShift:
		return "shift " + a.State
	case ActionReduce:
		return "reduce " + a.NonTerminal
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}
