package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/lexpar/grammar"
	"github.com/dekarrin/lexpar/icterr"
)

// exprGrammar is the classic dragon-book expression grammar:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func exprGrammar() *grammar.Grammar {
	g := grammar.New()
	g.AddTerm("+")
	g.AddTerm("*")
	g.AddTerm("(")
	g.AddTerm(")")
	g.AddTerm("id")

	g.AddRule("E", []string{"E", "+", "T"})
	g.AddRule("E", []string{"T"})
	g.AddRule("T", []string{"T", "*", "F"})
	g.AddRule("T", []string{"F"})
	g.AddRule("F", []string{"(", "E", ")"})
	g.AddRule("F", []string{"id"})
	return g
}

func TestBuildSLR_NoConflicts(t *testing.T) {
	g := exprGrammar()
	table, warns, err := BuildSLR(g, false)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, "SLR(1)", table.Mode)
	assert.Greater(t, table.StateCount, 0)

	// the start state must shift on every terminal that can start a F.
	startShiftsOnID := table.Action(table.Start(), "id")
	assert.Equal(t, ActionShift, startShiftsOnID.Kind)
	startShiftsOnParen := table.Action(table.Start(), "(")
	assert.Equal(t, ActionShift, startShiftsOnParen.Kind)
}

func TestBuildLALR_NoConflicts(t *testing.T) {
	g := exprGrammar()
	table, warns, err := BuildLALR(g, false)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, "LALR(1)", table.Mode)
	assert.Greater(t, table.StateCount, 0)
}

func TestBuildSLR_DetectsReduceReduceConflict(t *testing.T) {
	// S -> A | B ; A -> a ; B -> a  --- FOLLOW(A) and FOLLOW(B) collide on
	// the same input, so both productions reduce on the same lookahead.
	g := grammar.New()
	g.AddTerm("a")
	g.AddRule("S", []string{"A"})
	g.AddRule("S", []string{"B"})
	g.AddRule("A", []string{"a"})
	g.AddRule("B", []string{"a"})

	_, _, err := BuildSLR(g, false)
	assert.Error(t, err)
}

func TestBuildSLR_AmbiguityWarningOnShiftReduce(t *testing.T) {
	// the dangling-else-shaped classic: S -> if S | if S else S | a, is
	// ambiguous under SLR(1) with a shift/reduce conflict on "else".
	g := grammar.New()
	g.AddTerm("if")
	g.AddTerm("else")
	g.AddTerm("a")
	g.AddRule("S", []string{"if", "S"})
	g.AddRule("S", []string{"if", "S", "else", "S"})
	g.AddRule("S", []string{"a"})

	_, _, err := BuildSLR(g, false)
	assert.Error(t, err)

	_, warns, err := BuildSLR(g, true)
	require.NoError(t, err)
	assert.NotEmpty(t, warns)
}

type fakeToken struct {
	class, lexeme string
	line, linePos int
}

func (f fakeToken) Class() string    { return f.class }
func (f fakeToken) Lexeme() string   { return f.lexeme }
func (f fakeToken) Line() int        { return f.line }
func (f fakeToken) LinePos() int     { return f.linePos }
func (f fakeToken) FullLine() string { return f.lexeme }

func tok(class, lexeme string) Token {
	return fakeToken{class: class, lexeme: lexeme, line: 1, linePos: 1}
}

func TestDriver_ParseExpression(t *testing.T) {
	g := exprGrammar()
	table, _, err := BuildSLR(g, false)
	require.NoError(t, err)

	tokens := []Token{
		tok("id", "a"), tok("*", "*"), tok("id", "b"),
		tok("+", "+"), tok("id", "c"),
		tok(grammar.EndOfInput, ""),
	}

	driver := NewDriver(table)
	var narrated []string
	driver.RegisterTraceListener(func(s string) { narrated = append(narrated, s) })

	tree, steps, err := driver.Parse(tokens)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "E", tree.Symbol)
	assert.NotEmpty(t, narrated)

	require.NotEmpty(t, steps)
	first := steps[0]
	assert.Equal(t, []string{table.Start()}, first.Stack)
	assert.NotEmpty(t, first.RemainingInput)
	assert.NotEmpty(t, first.Action)

	last := steps[len(steps)-1]
	assert.Contains(t, last.Action, "accept")
}

func TestDriver_ParseSyntaxError(t *testing.T) {
	g := exprGrammar()
	table, _, err := BuildSLR(g, false)
	require.NoError(t, err)

	// a valid start ("id" then "+"), but the second "+" is a genuine
	// mid-parse syntax error: state at that point expects "id" or "(",
	// not another "+". This exercises the regular ActionError path, as
	// opposed to TestDriver_ParseSurfacesInvalidInitialToken's state-0 check.
	tokens := []Token{
		tok("id", "a"), tok("+", "+"), tok("+", "+"), tok(grammar.EndOfInput, ""),
	}

	driver := NewDriver(table)
	tree, steps, err := driver.Parse(tokens)
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.NotEmpty(t, steps)

	var syn *icterr.SyntaxError
	require.True(t, errors.As(err, &syn))
}

func TestDriver_ParseSurfacesInvalidInitialToken(t *testing.T) {
	g := exprGrammar()
	table, _, err := BuildSLR(g, false)
	require.NoError(t, err)

	// state 0 has no ACTION or GOTO entry for "+": a valid expression can
	// never start with it.
	tokens := []Token{
		tok("+", "+"), tok(grammar.EndOfInput, ""),
	}

	driver := NewDriver(table)
	tree, steps, err := driver.Parse(tokens)
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.Empty(t, steps)

	var syn *icterr.SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Contains(t, syn.Error(), `"+"`)
}

func TestDriver_ParseRejectsStreamWithoutEndOfInput(t *testing.T) {
	g := exprGrammar()
	table, _, err := BuildSLR(g, false)
	require.NoError(t, err)

	tokens := []Token{tok("id", "a")}

	driver := NewDriver(table)
	_, _, err = driver.Parse(tokens)
	assert.Error(t, err)
}

func TestLRAction_Equal(t *testing.T) {
	a := LRAction{Kind: ActionShift, State: "B"}
	b := LRAction{Kind: ActionShift, State: "B"}
	c := LRAction{Kind: ActionShift, State: "C"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestTable_String(t *testing.T) {
	g := exprGrammar()
	table, _, err := BuildSLR(g, false)
	require.NoError(t, err)
	out := table.String()
	assert.Contains(t, out, table.Start())
}
