package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammar is the classic dragon-book expression grammar:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func exprGrammar() *Grammar {
	g := New()
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

func TestGrammar_StartSymbolInferred(t *testing.T) {
	g := exprGrammar()
	assert.Equal(t, "E", g.StartSymbol())
}

func TestGrammar_Validate(t *testing.T) {
	g := exprGrammar()
	assert.NoError(t, g.Validate())

	bad := New()
	bad.AddTerm("id")
	bad.AddRule("E", []string{"nope"})
	assert.Error(t, bad.Validate())
}

func TestGrammar_ValidateRequiresStartAndTerminal(t *testing.T) {
	assert.Error(t, New().Validate())

	onlyTerm := New()
	onlyTerm.AddTerm("id")
	assert.Error(t, onlyTerm.Validate())

	onlyRule := New()
	onlyRule.AddRule("S", nil)
	assert.Error(t, onlyRule.Validate())
}

func TestGrammar_Augmented(t *testing.T) {
	g := exprGrammar()
	aug := g.Augmented()

	assert.Equal(t, "E-AUGMENTED", aug.StartSymbol())
	prods := aug.Productions(aug.StartSymbol())
	require.Len(t, prods, 1)
	assert.Equal(t, Production{"E"}, prods[0])

	// augmenting must not mutate the original grammar
	assert.Equal(t, "E", g.StartSymbol())
	_, ok := g.Rule("E-AUGMENTED")
	assert.False(t, ok)
}

func TestGrammar_AugmentedAvoidsNameCollision(t *testing.T) {
	g := New()
	g.AddTerm("id")
	g.AddRule("S", []string{"id"})
	g.AddRule("S-AUGMENTED", []string{"S"}) // pre-occupy the obvious name

	aug := g.Augmented()
	assert.Equal(t, "S-AUGMENTED'", aug.StartSymbol())
}

func TestGrammar_EpsilonProduction(t *testing.T) {
	g := New()
	g.AddTerm("a")
	g.AddRule("S", []string{"a"})
	g.AddRule("S", nil)

	prods := g.Productions("S")
	require.Len(t, prods, 2)
	assert.Equal(t, Production{Epsilon}, prods[1])
	assert.Equal(t, "ε", prods[1].String())
}

func TestFIRST_Terminals(t *testing.T) {
	g := exprGrammar()
	first := g.FIRST("F")
	assert.True(t, first.Has("("))
	assert.True(t, first.Has("id"))
	assert.Equal(t, 2, first.Len())

	assert.Equal(t, first.Elements(), g.FIRST("T").Elements())
	assert.Equal(t, first.Elements(), g.FIRST("E").Elements())
}

// TestFirstOfString_NonTextbookPropagation pins the deliberate deviation
// from the textbook FIRST-of-a-string algorithm: FIRST of a multi-symbol
// body only looks one symbol past a leading nullable symbol, even when
// that second symbol is itself nullable. A -> % and B -> % with body "A B
// c" must therefore NOT see FIRST(c); the textbook algorithm would.
func TestFirstOfString_NonTextbookPropagation(t *testing.T) {
	g := New()
	g.AddTerm("c")
	g.AddRule("S", []string{"A", "B", "c"})
	g.AddRule("A", nil)
	g.AddRule("B", nil)

	require.True(t, g.FIRST("A").Has(Epsilon))
	require.True(t, g.FIRST("B").Has(Epsilon))

	first := g.FirstOfString([]string{"A", "B", "c"})
	assert.True(t, first.Has(Epsilon), "first symbol A is nullable so epsilon is a contribution")
	assert.False(t, first.Has("c"), "propagation must stop at B, one symbol past A, not continue to c")
}

func TestFOLLOW_ExprGrammar(t *testing.T) {
	g := exprGrammar()

	followE := g.FOLLOW("E")
	assert.True(t, followE.Has(EndOfInput))
	assert.True(t, followE.Has("+"))
	assert.True(t, followE.Has(")"))

	followF := g.FOLLOW("F")
	assert.True(t, followF.Has("+"))
	assert.True(t, followF.Has("*"))
	assert.True(t, followF.Has(")"))
	assert.True(t, followF.Has(EndOfInput))
}

// TestFOLLOW_PropagatesThroughNullableFirstSymbolOfBeta pins FOLLOW's own
// nullability rule, which is independent of FIRST's truncated propagation
// (TestFirstOfString_NonTextbookPropagation): FOLLOW(nt) must be folded
// into FOLLOW(sym) whenever the remainder β after sym begins with a
// nullable non-terminal, no matter how many symbols follow that
// non-terminal or whether those trailing symbols are themselves nullable.
//
// S -> B C d; B -> b | %; C -> c | %
//
// β after B is "C d": C is nullable, so FOLLOW(S) (which contains "$")
// must propagate into FOLLOW(B), even though "d" does not derive ε.
func TestFOLLOW_PropagatesThroughNullableFirstSymbolOfBeta(t *testing.T) {
	g := New()
	g.AddTerm("b")
	g.AddTerm("c")
	g.AddTerm("d")
	g.AddRule("S", []string{"B", "C", "d"})
	g.AddRule("B", []string{"b"})
	g.AddRule("B", nil)
	g.AddRule("C", []string{"c"})
	g.AddRule("C", nil)

	followB := g.FOLLOW("B")
	assert.True(t, followB.Has("c"), "C can start directly after B")
	assert.True(t, followB.Has("d"), "C may vanish, so d can follow B directly")
	assert.True(t, followB.Has(EndOfInput), "C is nullable, so FOLLOW(S) must propagate into FOLLOW(B) regardless of what follows C")
}

func TestLR0Closure_StartState(t *testing.T) {
	g := exprGrammar().Augmented()
	startProd := g.Productions(g.StartSymbol())[0]
	closure := LR0Closure(g, []LR0Item{initialLR0Item(g.StartSymbol(), startProd)})

	// closure of [E' -> .E] over this grammar must contain an item for
	// every non-terminal's every production with the dot at position 0.
	var sawE, sawT, sawF bool
	for _, it := range closure {
		if it.NonTerminal == "E" && len(it.Left) == 0 {
			sawE = true
		}
		if it.NonTerminal == "T" && len(it.Left) == 0 {
			sawT = true
		}
		if it.NonTerminal == "F" && len(it.Left) == 0 {
			sawF = true
		}
	}
	assert.True(t, sawE)
	assert.True(t, sawT)
	assert.True(t, sawF)
}

func TestCanonicalLR0Collection_AcceptsOnlyAugmentedItem(t *testing.T) {
	g := exprGrammar().Augmented()
	dfa := CanonicalLR0Collection(g)

	var acceptingCount int
	for _, name := range dfa.StateNames() {
		if dfa.IsAccepting(name) {
			acceptingCount++
			// the accepting state is {E -> E . + T, E-AUGMENTED -> E .};
			// items are sorted by String(), so the augmented item is second.
			items := dfa.Value(name)
			require.Len(t, items, 2)
			assert.Equal(t, g.StartSymbol(), items[1].NonTerminal)
			assert.True(t, items[1].Reducible())
		}
	}
	assert.Equal(t, 1, acceptingCount)
}

func TestCanonicalLR1Collection_LookaheadsDiffer(t *testing.T) {
	g := exprGrammar().Augmented()
	dfa := CanonicalLR1Collection(g)

	// across the collection, reducible F items must occur under more than
	// one lookahead, since F can be followed by "+", "*", ")" or "$"
	// depending on context.
	seen := map[string]bool{}
	for _, name := range dfa.StateNames() {
		for _, it := range dfa.Value(name) {
			if it.NonTerminal == "F" && it.Reducible() {
				seen[it.Lookahead] = true
			}
		}
	}
	assert.True(t, len(seen) > 1)
}

func TestMergeLALR_ReducesStateCountAndUnionsLookaheads(t *testing.T) {
	g := exprGrammar().Augmented()
	lr1 := CanonicalLR1Collection(g)
	lalr := MergeLALR(g, lr1)

	assert.LessOrEqual(t, len(lalr.StateNames()), len(lr1.StateNames()))

	// some merged state must carry an F -> id. item under more than one
	// lookahead, since the LR(1) collection had separate states for "id"
	// reached in contexts that disagree only on lookahead.
	var sawMultiLookahead bool
	for _, name := range lalr.StateNames() {
		byCore := map[string]int{}
		for _, it := range lalr.Value(name) {
			if it.NonTerminal == "F" && it.Reducible() {
				byCore[it.LR0Item.String()]++
			}
		}
		for _, n := range byCore {
			if n > 1 {
				sawMultiLookahead = true
			}
		}
	}
	assert.True(t, sawMultiLookahead)
}

func TestItem_AdvanceAndReducible(t *testing.T) {
	it := LR0Item{NonTerminal: "E", Right: []string{"E", "+", "T"}}
	assert.False(t, it.Reducible())
	assert.Equal(t, "E", it.DottedSymbol())

	it = it.Advance()
	assert.Equal(t, []string{"E"}, it.Left)
	assert.Equal(t, "+", it.DottedSymbol())

	it = it.Advance()
	it = it.Advance()
	assert.True(t, it.Reducible())
	assert.Equal(t, "", it.DottedSymbol())
}

func TestItem_AdvancePanicsWhenReducible(t *testing.T) {
	it := LR0Item{NonTerminal: "E", Left: []string{"E", "+", "T"}}
	assert.True(t, it.Reducible())
	assert.Panics(t, func() { it.Advance() })
}
