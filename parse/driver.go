package parse

import (
	"fmt"

	"github.com/dekarrin/lexpar/grammar"
	"github.com/dekarrin/lexpar/icterr"
	"github.com/dekarrin/lexpar/internal/util"
)

// Token is what the parse driver consumes: something with a terminal class
// and enough positional information to build a diagnostic (spec §4.11).
// The driver never imports package lex directly; any token implementation
// satisfying this (lex.Token included) will do.
type Token interface {
	icterr.Positioned
	Class() string
}

// Tree is one node of a parse tree: a non-terminal with children, or a
// terminal leaf carrying the token that produced it.
type Tree struct {
	Symbol   string
	Source   Token
	Children []*Tree
}

func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0 && t.Source != nil
}

// ParseStep is one entry of the structured parse trace (spec §3 "Parse
// step"): the state stack and remaining input at the moment the action was
// decided, plus a description of that action. A full Parse call returns a
// sequence of these regardless of whether a trace listener is registered.
type ParseStep struct {
	Stack          []string
	RemainingInput []string
	Action         string
}

func describeRemaining(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = describeToken(tok)
	}
	return out
}

// Driver runs the shift-reduce algorithm (dragon-book algorithm 4.44) over
// a Table, building a Tree as it goes.
type Driver struct {
	table     *Table
	listeners []func(string)
}

func NewDriver(table *Table) *Driver {
	return &Driver{table: table}
}

// RegisterTraceListener registers a callback invoked with a one-line
// description of each shift/reduce/accept/error step taken during Parse.
// Restores a hook present in the originating codebase's notifyTrace
// methods but dropped from the distilled spec; nothing in the spec's
// non-goals excludes it, and it costs nothing when no listener is
// registered.
func (d *Driver) RegisterTraceListener(fn func(string)) {
	d.listeners = append(d.listeners, fn)
}

func (d *Driver) trace(format string, args ...any) {
	if len(d.listeners) == 0 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	for _, fn := range d.listeners {
		fn(msg)
	}
}

// Parse drives the table over tokens, which must end with a token whose
// Class() is grammar.EndOfInput. It returns the completed parse tree
// together with the structured step trace accumulated along the way (spec
// §3 "Parse step", §6 "Parse output"); on failure the tree is nil and the
// trace runs up to the failing step. Before driving the main loop it checks
// the first lookahead against state 0: if neither ACTION nor GOTO has an
// entry for it, that is surfaced as *icterr.SyntaxError via
// icterr.NewInvalidInitialToken rather than falling through to the
// generic no-action case. Later state/lookahead pairs ACTION has no entry
// for return a *icterr.SyntaxError (via errors.As).
func (d *Driver) Parse(tokens []Token) (*Tree, []ParseStep, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("token stream ended without a %q token", grammar.EndOfInput)
	}

	start := d.table.Start()
	firstLookahead := tokens[0].Class()
	_, hasGoto := d.table.Goto(start, firstLookahead)
	if d.table.Action(start, firstLookahead).Kind == ActionError && !hasGoto {
		return nil, nil, icterr.NewInvalidInitialToken(tokens[0])
	}

	var states util.Stack[string]
	var trees util.Stack[*Tree]
	states.Push(start)

	var steps []ParseStep
	record := func(pos int, action string) {
		steps = append(steps, ParseStep{
			Stack:          append([]string(nil), states.Of...),
			RemainingInput: describeRemaining(tokens[pos:]),
			Action:         action,
		})
		d.trace("%s", action)
	}

	pos := 0
	for {
		if pos >= len(tokens) {
			return nil, steps, fmt.Errorf("token stream ended without a %q token", grammar.EndOfInput)
		}
		tok := tokens[pos]
		lookahead := tok.Class()
		state := states.Peek()
		act := d.table.Action(state, lookahead)

		switch act.Kind {
		case ActionShift:
			record(pos, fmt.Sprintf("state %s, lookahead %s: shift to %s", state, lookahead, act.State))
			trees.Push(&Tree{Symbol: lookahead, Source: tok})
			states.Push(act.State)
			pos++

		case ActionReduce:
			record(pos, fmt.Sprintf("state %s, lookahead %s: reduce by %s -> %s", state, lookahead, act.NonTerminal, act.Production.String()))
			n := len(act.Production)
			if n == 1 && act.Production[0] == grammar.Epsilon {
				n = 0
			}
			children := make([]*Tree, n)
			for i := n - 1; i >= 0; i-- {
				children[i] = trees.Pop()
				states.Pop()
			}
			node := &Tree{Symbol: act.NonTerminal, Children: children}
			trees.Push(node)

			cur := states.Peek()
			to, ok := d.table.Goto(cur, act.NonTerminal)
			if !ok {
				return nil, steps, icterr.NewMissingGoto(cur, act.NonTerminal)
			}
			states.Push(to)

		case ActionAccept:
			record(pos, fmt.Sprintf("state %s, lookahead %s: accept", state, lookahead))
			return trees.Peek(), steps, nil

		default:
			record(pos, fmt.Sprintf("state %s, lookahead %s: no action, syntax error", state, lookahead))
			return nil, steps, icterr.NewSyntaxError(
				fmt.Sprintf("unexpected %s", describeToken(tok)), tok, state, lookahead, pos)
		}
	}
}

func describeToken(tok Token) string {
	if tok.Class() == grammar.EndOfInput {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", tok.Class(), tok.Lexeme())
}
