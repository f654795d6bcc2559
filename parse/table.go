package parse

import (
	"fmt"

	"github.com/dekarrin/lexpar/grammar"
	"github.com/dekarrin/lexpar/icterr"
)

// Table is a synthesised ACTION/GOTO table plus enough of the grammar and
// automaton that produced it to drive a parse and render diagnostics.
type Table struct {
	Mode       string // "SLR(1)" or "LALR(1)"
	StateCount int

	action map[string]map[string]LRAction
	goTo   map[string]map[string]string
	start  string

	gram *grammar.Grammar // augmented grammar used during construction
}

func newTable(mode string, start string, gram *grammar.Grammar) *Table {
	return &Table{
		Mode:   mode,
		action: map[string]map[string]LRAction{},
		goTo:   map[string]map[string]string{},
		start:  start,
		gram:   gram,
	}
}

func (t *Table) setAction(state, term string, act LRAction, allowAmbig bool) ([]string, error) {
	if t.action[state] == nil {
		t.action[state] = map[string]LRAction{}
	}
	var warns []string
	if existing, ok := t.action[state][term]; ok && !existing.Equal(act) {
		if allowAmbig && isShiftReduce(existing, act) {
			warns = append(warns, icterr.NewGrammarConflict("shift/reduce", state, term, existing.String(), act.String()).Error())
			if existing.Kind != ActionShift {
				t.action[state][term] = act
			}
			return warns, nil
		}
		kind := "reduce/reduce"
		switch {
		case isShiftReduce(existing, act):
			kind = "shift/reduce"
		case existing.Kind == ActionShift && act.Kind == ActionShift:
			kind = "shift/shift"
		case existing.Kind == ActionAccept:
			kind = "accept/" + act.Kind.String()
		case act.Kind == ActionAccept:
			kind = "accept/" + existing.Kind.String()
		}
		return warns, icterr.NewGrammarConflict(kind, state, term, existing.String(), act.String())
	}
	t.action[state][term] = act
	return warns, nil
}

func isShiftReduce(a, b LRAction) bool {
	return (a.Kind == ActionShift && b.Kind == ActionReduce) || (a.Kind == ActionReduce && b.Kind == ActionShift)
}

func (t *Table) setGoto(state, nonTerm, to string) {
	if t.goTo[state] == nil {
		t.goTo[state] = map[string]string{}
	}
	t.goTo[state][nonTerm] = to
}

// Action returns the ACTION-table cell for (state, terminal), defaulting
// to ActionError if no rule applies.
func (t *Table) Action(state, terminal string) LRAction {
	row, ok := t.action[state]
	if !ok {
		return LRAction{Kind: ActionError}
	}
	act, ok := row[terminal]
	if !ok {
		return LRAction{Kind: ActionError}
	}
	return act
}

// Goto returns the GOTO-table cell for (state, nonTerminal) and whether it
// is defined.
func (t *Table) Goto(state, nonTerminal string) (string, bool) {
	row, ok := t.goTo[state]
	if !ok {
		return "", false
	}
	to, ok := row[nonTerminal]
	return to, ok
}

func (t *Table) Start() string {
	return t.start
}

// BuildSLR constructs an SLR(1) ACTION/GOTO table for g (dragon-book
// algorithm 4.46): the LR(0) canonical collection gives GOTO directly, and
// a reduce item A -> α. is placed in ACTION[i, a] for every a in
// FOLLOW(A), rather than a per-item computed lookahead set.
//
// allowAmbig permits shift/reduce conflicts to resolve in favour of shift,
// recording a warning for each one it resolves; reduce/reduce conflicts
// are always fatal.
func BuildSLR(g *grammar.Grammar, allowAmbig bool) (*Table, []string, error) {
	gPrime := g.Augmented()
	dfa := grammar.CanonicalLR0Collection(gPrime)

	table := newTable("SLR(1)", dfa.Start, gPrime)
	table.StateCount = len(dfa.StateNames())
	var warns []string

	for _, state := range dfa.StateNames() {
		items := dfa.Value(state)
		for _, item := range items {
			if !item.Reducible() {
				if item.DottedSymbol() != "" && gPrime.IsTerminal(item.DottedSymbol()) {
					to, ok := dfa.Next(state, item.DottedSymbol())
					if ok {
						w, err := table.setAction(state, item.DottedSymbol(), LRAction{Kind: ActionShift, State: to}, allowAmbig)
						warns = append(warns, w...)
						if err != nil {
							return nil, warns, errSLR(err)
						}
					}
				}
				continue
			}

			if item.NonTerminal == gPrime.StartSymbol() {
				w, err := table.setAction(state, grammar.EndOfInput, LRAction{Kind: ActionAccept}, allowAmbig)
				warns = append(warns, w...)
				if err != nil {
					return nil, warns, errSLR(err)
				}
				continue
			}

			follow := g.FOLLOW(item.NonTerminal)
			for _, a := range follow.Elements() {
				w, err := table.setAction(state, a, LRAction{Kind: ActionReduce, NonTerminal: item.NonTerminal, Production: grammar.Production(item.Left)}, allowAmbig)
				warns = append(warns, w...)
				if err != nil {
					return nil, warns, errSLR(err)
				}
			}
		}

		for _, nt := range gPrime.NonTerminals() {
			if to, ok := dfa.Next(state, nt); ok {
				table.setGoto(state, nt, to)
			}
		}
	}

	return table, warns, nil
}

// BuildLALR constructs an LALR(1) ACTION/GOTO table: the canonical LR(1)
// collection is built and then its states are merged by LR(0) core
// (grammar.MergeLALR), and each reduce item uses its own propagated
// lookahead set rather than FOLLOW of the left-hand side.
func BuildLALR(g *grammar.Grammar, allowAmbig bool) (*Table, []string, error) {
	gPrime := g.Augmented()
	canonical := grammar.CanonicalLR1Collection(gPrime)
	dfa := grammar.MergeLALR(gPrime, canonical)

	table := newTable("LALR(1)", dfa.Start, gPrime)
	table.StateCount = len(dfa.StateNames())
	var warns []string

	for _, state := range dfa.StateNames() {
		items := dfa.Value(state)
		for _, item := range items {
			if !item.Reducible() {
				sym := item.DottedSymbol()
				if sym != "" && gPrime.IsTerminal(sym) {
					to, ok := dfa.Next(state, sym)
					if ok {
						w, err := table.setAction(state, sym, LRAction{Kind: ActionShift, State: to}, allowAmbig)
						warns = append(warns, w...)
						if err != nil {
							return nil, warns, errLALR(err)
						}
					}
				}
				continue
			}

			if item.NonTerminal == gPrime.StartSymbol() && item.Lookahead == grammar.EndOfInput {
				w, err := table.setAction(state, grammar.EndOfInput, LRAction{Kind: ActionAccept}, allowAmbig)
				warns = append(warns, w...)
				if err != nil {
					return nil, warns, errLALR(err)
				}
				continue
			}

			w, err := table.setAction(state, item.Lookahead, LRAction{Kind: ActionReduce, NonTerminal: item.NonTerminal, Production: grammar.Production(item.Left)}, allowAmbig)
			warns = append(warns, w...)
			if err != nil {
				return nil, warns, errLALR(err)
			}
		}

		for _, nt := range gPrime.NonTerminals() {
			if to, ok := dfa.Next(state, nt); ok {
				table.setGoto(state, nt, to)
			}
		}
	}

	return table, warns, nil
}

func errSLR(err error) error {
	return fmt.Errorf("grammar is not SLR(1): %w", err)
}

func errLALR(err error) error {
	return fmt.Errorf("grammar is not LALR(1): %w", err)
}
