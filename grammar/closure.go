package grammar

import (
	"sort"
	"strings"

	"github.com/dekarrin/lexpar/automaton"
	"github.com/dekarrin/lexpar/internal/util"
)

// LR0Closure computes CLOSURE(items) per dragon-book algorithm 4.41: for
// every item A -> α.Bβ in the set with B a non-terminal, add B -> .γ for
// every production of B, until no more items can be added.
func LR0Closure(g *Grammar, items []LR0Item) []LR0Item {
	seen := map[string]LR0Item{}
	var out []LR0Item
	add := func(it LR0Item) bool {
		k := it.String()
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = it
		out = append(out, it)
		return true
	}

	var worklist []LR0Item
	for _, it := range items {
		if add(it) {
			worklist = append(worklist, it)
		}
	}

	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		sym := it.DottedSymbol()
		if sym == "" || !g.IsNonTerminal(sym) {
			continue
		}
		for _, prod := range g.Productions(sym) {
			newItem := initialLR0Item(sym, prod)
			if add(newItem) {
				worklist = append(worklist, newItem)
			}
		}
	}

	sortLR0Items(out)
	return out
}

// LR0Goto computes GOTO(items, symbol): advance every item whose dotted
// symbol is symbol, then close the result (algorithm 4.41).
func LR0Goto(g *Grammar, items []LR0Item, symbol string) []LR0Item {
	var kernel []LR0Item
	for _, it := range items {
		if it.DottedSymbol() == symbol {
			kernel = append(kernel, it.Advance())
		}
	}
	if len(kernel) == 0 {
		return nil
	}
	return LR0Closure(g, kernel)
}

// LR1Closure computes the lookahead-aware closure of an LR(1) item set
// (dragon-book algorithm 4.40, fig. 4.40): for [A -> α.Bβ, a], add
// [B -> .γ, b] for every b in FirstOfString(β · a), using the grammar's
// FirstOfString (and hence its deliberately non-textbook propagation
// through nullable symbols, §9).
func LR1Closure(g *Grammar, items []LR1Item) []LR1Item {
	seen := map[string]LR1Item{}
	var out []LR1Item
	add := func(it LR1Item) bool {
		k := it.String()
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = it
		out = append(out, it)
		return true
	}

	var worklist []LR1Item
	for _, it := range items {
		if add(it) {
			worklist = append(worklist, it)
		}
	}

	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		sym := it.DottedSymbol()
		if sym == "" || !g.IsNonTerminal(sym) {
			continue
		}

		beta := append([]string(nil), it.Right[1:]...)
		lookaheads := g.FirstOfString(append(beta, it.Lookahead))

		for _, prod := range g.Productions(sym) {
			base := initialLR0Item(sym, prod)
			for _, la := range lookaheads.Elements() {
				if la == Epsilon {
					continue
				}
				newItem := LR1Item{LR0Item: base, Lookahead: la}
				if add(newItem) {
					worklist = append(worklist, newItem)
				}
			}
		}
	}

	sortLR1Items(out)
	return out
}

// LR1Goto computes GOTO for an LR(1) item set (advance, then LR1Closure).
func LR1Goto(g *Grammar, items []LR1Item, symbol string) []LR1Item {
	var kernel []LR1Item
	for _, it := range items {
		if it.DottedSymbol() == symbol {
			kernel = append(kernel, it.Advance())
		}
	}
	if len(kernel) == 0 {
		return nil
	}
	return LR1Closure(g, kernel)
}

func sortLR0Items(items []LR0Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].String() < items[j].String() })
}

func sortLR1Items(items []LR1Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].String() < items[j].String() })
}

func lr0SetKey(items []LR0Item) string {
	strs := make([]string, len(items))
	for i, it := range items {
		strs[i] = it.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, "|")
}

func lr1SetKey(items []LR1Item) string {
	strs := make([]string, len(items))
	for i, it := range items {
		strs[i] = it.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, "|")
}

// CanonicalLR0Collection builds the canonical collection of LR(0) item
// sets for g (expected to already be augmented) as a DFA whose states are
// named sequentially from 'A' and whose payload is the item set occupying
// that state (dragon-book algorithm 4.41, "the sets-of-items construction").
func CanonicalLR0Collection(g *Grammar) *automaton.DFA[[]LR0Item] {
	dfa := automaton.NewDFA[[]LR0Item]()
	nameOf := map[string]string{}
	var nextName string

	startProds := g.Productions(g.StartSymbol())
	startItems := LR0Closure(g, []LR0Item{initialLR0Item(g.StartSymbol(), startProds[0])})

	newState := func(items []LR0Item) string {
		nextName = util.NextStateName(nextName)
		name := nextName
		nameOf[lr0SetKey(items)] = name
		accepting := isAcceptingLR0(g, items)
		dfa.AddState(name, items, accepting)
		return name
	}

	startName := newState(startItems)
	dfa.Start = startName

	worklist := []string{startName}
	itemsByName := map[string][]LR0Item{startName: startItems}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		for _, sym := range g.AllSymbols() {
			next := LR0Goto(g, itemsByName[cur], sym)
			if len(next) == 0 {
				continue
			}
			k := lr0SetKey(next)
			name, ok := nameOf[k]
			if !ok {
				name = newState(next)
				itemsByName[name] = next
				worklist = append(worklist, name)
			}
			dfa.AddTransition(cur, sym, name)
		}
	}

	return dfa
}

// CanonicalLR1Collection builds the canonical collection of LR(1) item
// sets for g (expected to already be augmented), mirroring
// CanonicalLR0Collection but tracking per-item lookaheads.
func CanonicalLR1Collection(g *Grammar) *automaton.DFA[[]LR1Item] {
	dfa := automaton.NewDFA[[]LR1Item]()
	nameOf := map[string]string{}
	var nextName string

	startProds := g.Productions(g.StartSymbol())
	startItems := LR1Closure(g, []LR1Item{{
		LR0Item:   initialLR0Item(g.StartSymbol(), startProds[0]),
		Lookahead: EndOfInput,
	}})

	newState := func(items []LR1Item) string {
		nextName = util.NextStateName(nextName)
		name := nextName
		nameOf[lr1SetKey(items)] = name
		accepting := isAcceptingLR1(g, items)
		dfa.AddState(name, items, accepting)
		return name
	}

	startName := newState(startItems)
	dfa.Start = startName

	worklist := []string{startName}
	itemsByName := map[string][]LR1Item{startName: startItems}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		for _, sym := range g.AllSymbols() {
			next := LR1Goto(g, itemsByName[cur], sym)
			if len(next) == 0 {
				continue
			}
			k := lr1SetKey(next)
			name, ok := nameOf[k]
			if !ok {
				name = newState(next)
				itemsByName[name] = next
				worklist = append(worklist, name)
			}
			dfa.AddTransition(cur, sym, name)
		}
	}

	return dfa
}

func isAcceptingLR0(g *Grammar, items []LR0Item) bool {
	for _, it := range items {
		if it.Reducible() && it.NonTerminal == g.StartSymbol() {
			return true
		}
	}
	return false
}

func isAcceptingLR1(g *Grammar, items []LR1Item) bool {
	for _, it := range items {
		if it.Reducible() && it.NonTerminal == g.StartSymbol() && it.Lookahead == EndOfInput {
			return true
		}
	}
	return false
}

// lr0Core reduces an LR(1) item set to its LR(0) core (drop lookaheads),
// the identity used to merge LR(1) states into LALR(1) states.
func lr0Core(items []LR1Item) []LR0Item {
	out := make([]LR0Item, len(items))
	for i, it := range items {
		out[i] = it.LR0Item
	}
	sortLR0Items(out)
	return out
}

// MergeLALR collapses a canonical LR(1) collection into its LALR(1)
// equivalent: states sharing the same LR(0) core are merged, their
// lookaheads unioned. Kernel merging never introduces a shift/reduce
// conflict beyond what plain LR(1) already had, but it can introduce new
// reduce/reduce conflicts; table construction is responsible for
// surfacing those (spec §4.9 DESIGN NOTES).
func MergeLALR(g *Grammar, lr1 *automaton.DFA[[]LR1Item]) *automaton.DFA[[]LR1Item] {
	coreKeyOf := map[string]string{} // original state name -> merged core key
	mergedItems := map[string][]LR1Item{}
	mergedNameOf := map[string]string{} // core key -> fresh name
	var nextName string

	for _, name := range lr1.StateNames() {
		items := lr1.Value(name)
		core := lr0SetKey(lr0Core(items))
		coreKeyOf[name] = core

		if _, ok := mergedNameOf[core]; !ok {
			nextName = util.NextStateName(nextName)
			mergedNameOf[core] = nextName
		}
		mName := mergedNameOf[core]

		existing := mergedItems[mName]
		byItem := map[string]util.StringSet{}
		for _, it := range existing {
			k := it.LR0Item.String()
			if byItem[k] == nil {
				byItem[k] = util.NewStringSet()
			}
			byItem[k].Add(it.Lookahead)
		}
		for _, it := range items {
			k := it.LR0Item.String()
			if byItem[k] == nil {
				byItem[k] = util.NewStringSet()
			}
			byItem[k].Add(it.Lookahead)
		}
		var merged []LR1Item
		for _, k := range util.OrderedKeys(byItem) {
			for _, la := range byItem[k].Elements() {
				merged = append(merged, LR1Item{LR0Item: lr0ItemFromString(k), Lookahead: la})
			}
		}
		sortLR1Items(merged)
		mergedItems[mName] = merged
	}

	out := automaton.NewDFA[[]LR1Item]()
	for _, mName := range mergedNameOf {
		items := mergedItems[mName]
		out.AddState(mName, items, isAcceptingLR1(g, items))
	}
	for _, name := range lr1.StateNames() {
		fromMerged := mergedNameOf[coreKeyOf[name]]
		s := lr1.States[name]
		for sym, to := range s.Transitions {
			toMerged := mergedNameOf[coreKeyOf[to]]
			out.AddTransition(fromMerged, sym, toMerged)
		}
	}
	out.Start = mergedNameOf[coreKeyOf[lr1.Start]]

	return out
}

// lr0ItemFromString reparses the String() form produced by LR0Item.String,
// used only to recover a structured item after grouping by that string as
// a map key during LALR merge.
func lr0ItemFromString(s string) LR0Item {
	arrowIdx := strings.Index(s, " -> ")
	nt := s[:arrowIdx]
	rest := s[arrowIdx+4:]
	dotIdx := strings.Index(rest, ".")
	left := strings.Fields(rest[:dotIdx])
	right := strings.Fields(rest[dotIdx+1:])
	return LR0Item{NonTerminal: nt, Left: left, Right: right}
}
