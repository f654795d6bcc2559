// Package grammar models context-free grammars for LR table construction:
// rule storage, FIRST/FOLLOW computation, augmentation, and the LR(0)/LR(1)
// item-set machinery (item.go, closure.go) that the parse package turns
// into ACTION/GOTO tables.
package grammar

import (
	"sort"

	"github.com/dekarrin/lexpar/icterr"
	"github.com/dekarrin/lexpar/internal/util"
)

// EndOfInput is the lookahead symbol FOLLOW(start) always contains and the
// terminal the augmented start rule expects after the real start symbol.
const EndOfInput = "$"

// Epsilon is the empty-string symbol, used as the sole member of a
// production's RHS to denote an epsilon production.
const Epsilon = ""

// Production is the right-hand side of a rule alternative; a Production
// with a single Epsilon element denotes an epsilon production.
type Production []string

func (p Production) isEpsilon() bool {
	return len(p) == 1 && p[0] == Epsilon
}

func (p Production) String() string {
	if p.isEpsilon() || len(p) == 0 {
		return "ε"
	}
	out := p[0]
	for _, s := range p[1:] {
		out += " " + s
	}
	return out
}

// symbols returns the production's actual symbols, with the epsilon marker
// filtered out (so an epsilon production yields an empty slice).
func (p Production) symbols() []string {
	if p.isEpsilon() {
		return nil
	}
	return p
}

// Rule is all alternatives for one non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Grammar is a context-free grammar: a set of terminals and a set of rules
// over non-terminals, plus a distinguished start symbol (the non-terminal
// of the first rule added, unless overridden).
type Grammar struct {
	rules     map[string]Rule
	ruleOrder []string

	terms     util.StringSet
	termOrder []string

	start string
}

func New() *Grammar {
	return &Grammar{
		rules: map[string]Rule{},
		terms: util.NewStringSet(),
	}
}

// AddTerm registers a terminal symbol by name.
func (g *Grammar) AddTerm(name string) {
	if !g.terms.Has(name) {
		g.termOrder = append(g.termOrder, name)
	}
	g.terms.Add(name)
}

// AddRule appends one production alternative to the named non-terminal's
// rule, creating the rule if this is its first alternative. The first
// non-terminal ever added becomes the start symbol unless SetStart is
// called afterward.
func (g *Grammar) AddRule(nonTerminal string, production []string) {
	r, ok := g.rules[nonTerminal]
	if !ok {
		r = Rule{NonTerminal: nonTerminal}
		g.ruleOrder = append(g.ruleOrder, nonTerminal)
		if g.start == "" {
			g.start = nonTerminal
		}
	}

	prod := Production(production)
	if len(prod) == 0 {
		prod = Production{Epsilon}
	}
	r.Productions = append(r.Productions, prod)
	g.rules[nonTerminal] = r
}

// SetStart overrides the inferred start symbol.
func (g *Grammar) SetStart(nonTerminal string) {
	g.start = nonTerminal
}

func (g *Grammar) StartSymbol() string {
	return g.start
}

// IsTerminal reports whether sym was registered via AddTerm.
func (g *Grammar) IsTerminal(sym string) bool {
	return g.terms.Has(sym)
}

// IsNonTerminal reports whether sym has at least one rule.
func (g *Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rules[sym]
	return ok
}

// Term reports whether name is a registered terminal (a short alias of
// IsTerminal).
func (g *Grammar) Term(name string) bool {
	return g.IsTerminal(name)
}

// Terminals returns every registered terminal, in declaration order.
func (g *Grammar) Terminals() []string {
	out := make([]string, len(g.termOrder))
	copy(out, g.termOrder)
	return out
}

// NonTerminals returns every non-terminal with at least one rule, in
// declaration order.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.ruleOrder))
	copy(out, g.ruleOrder)
	return out
}

// Rule returns the rule for a non-terminal and whether it exists.
func (g *Grammar) Rule(nonTerminal string) (Rule, bool) {
	r, ok := g.rules[nonTerminal]
	return r, ok
}

// Productions returns the production alternatives for a non-terminal, or
// nil if it has no rule.
func (g *Grammar) Productions(nonTerminal string) []Production {
	return g.rules[nonTerminal].Productions
}

// Validate checks that the grammar is well formed: it has a start symbol,
// at least one rule, at least one terminal, and every symbol referenced on
// the right-hand side of a production is either a known terminal or a
// known non-terminal.
func (g *Grammar) Validate() error {
	if g.start == "" {
		return icterr.MalformedTreef("grammar has no start symbol (no rules were added)")
	}
	if len(g.rules) == 0 {
		return icterr.MalformedTreef("grammar has no rules")
	}
	if len(g.terms) == 0 {
		return icterr.MalformedTreef("grammar has no terminals")
	}

	for _, nt := range g.ruleOrder {
		for _, prod := range g.rules[nt].Productions {
			for _, sym := range prod.symbols() {
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					return icterr.MalformedTreef("rule %q references undefined symbol %q", nt, sym)
				}
			}
		}
	}

	return nil
}

// Augmented returns a copy of g with a fresh start rule S' -> S placed
// ahead of the existing rules,
// where S' does not collide with any existing symbol name (tried as
// "S-AUGMENTED", then with successive primes). This is the textbook
// augmentation used to give the LR automaton a unique accepting item.
func (g *Grammar) Augmented() *Grammar {
	newStart := g.start + "-AUGMENTED"
	for g.IsTerminal(newStart) || g.IsNonTerminal(newStart) {
		newStart += "'"
	}

	out := g.Copy()
	out.ruleOrder = append([]string{newStart}, out.ruleOrder...)
	out.rules[newStart] = Rule{
		NonTerminal: newStart,
		Productions: []Production{{g.start}},
	}
	out.start = newStart
	return out
}

// Copy returns a deep-enough copy for augmentation/mutation without
// aliasing the receiver's slices.
func (g *Grammar) Copy() *Grammar {
	out := New()
	out.start = g.start
	out.termOrder = append([]string(nil), g.termOrder...)
	out.terms = g.terms.Copy()
	out.ruleOrder = append([]string(nil), g.ruleOrder...)
	for k, r := range g.rules {
		cp := Rule{NonTerminal: r.NonTerminal}
		for _, p := range r.Productions {
			cp.Productions = append(cp.Productions, append(Production(nil), p...))
		}
		out.rules[k] = cp
	}
	return out
}

// AllSymbols returns every terminal and non-terminal name, sorted, used by
// table builders that need to iterate a grammar's full symbol vocabulary.
func (g *Grammar) AllSymbols() []string {
	set := util.NewStringSet(g.termOrder, g.ruleOrder)
	els := set.Elements()
	sort.Strings(els)
	return els
}
