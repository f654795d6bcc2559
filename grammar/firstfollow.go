package grammar

import "github.com/dekarrin/lexpar/internal/util"

// FIRST computes FIRST(sym): {sym} if sym is a terminal or EndOfInput,
// otherwise the union of FirstOfString(production) over every alternative
// of sym's rule, computed recursively with memoisation (spec §4.7).
func (g *Grammar) FIRST(sym string) util.StringSet {
	memo := map[string]util.StringSet{}
	return g.first(sym, memo, util.NewStringSet())
}

func (g *Grammar) first(sym string, memo map[string]util.StringSet, inProgress util.StringSet) util.StringSet {
	if s, ok := memo[sym]; ok {
		return s
	}
	if g.IsTerminal(sym) || sym == EndOfInput {
		s := util.NewStringSet([]string{sym})
		memo[sym] = s
		return s
	}
	if inProgress.Has(sym) {
		// left-recursive cycle already being expanded higher up the call
		// stack; contribute nothing from here to avoid infinite recursion.
		// The expansion higher up still collects sym's other alternatives.
		return util.NewStringSet()
	}
	inProgress.Add(sym)

	out := util.NewStringSet()
	for _, prod := range g.Productions(sym) {
		out.AddAll(g.firstOfString(prod.symbols(), memo, inProgress))
		if prod.isEpsilon() {
			out.Add(Epsilon)
		}
	}

	inProgress.Remove(sym)
	memo[sym] = out
	return out
}

// firstOfString computes FIRST of a symbol sequence with the grammar's
// deliberately non-textbook behaviour (§9 DESIGN NOTES, Open Question
// "FIRST of a multi-symbol body"): a textbook FIRST propagates through as
// many leading nullable symbols as necessary, but this one only ever looks
// one symbol past the first nullable symbol, regardless of whether that
// second symbol is itself nullable. A body of three or more leading
// nullable symbols therefore does not get its third symbol's FIRST set
// folded in here. This was an intentional decision, not a bug: it is
// preserved rather than "fixed" because callers (closure lookahead
// computation, FOLLOW) are written against this exact behaviour and tests
// pin it.
func (g *Grammar) firstOfString(symbols []string, memo map[string]util.StringSet, inProgress util.StringSet) util.StringSet {
	out := util.NewStringSet()
	if len(symbols) == 0 {
		out.Add(Epsilon)
		return out
	}

	first0 := g.first(symbols[0], memo, inProgress)
	for k := range first0 {
		if k != Epsilon {
			out.Add(k)
		}
	}

	if first0.Has(Epsilon) {
		if len(symbols) > 1 {
			out.AddAll(g.first(symbols[1], memo, inProgress))
		} else {
			out.Add(Epsilon)
		}
	}

	return out
}

// FirstOfString exposes firstOfString to callers outside the package (item
// closure lookahead propagation).
func (g *Grammar) FirstOfString(symbols []string) util.StringSet {
	return g.firstOfString(symbols, map[string]util.StringSet{}, util.NewStringSet())
}

// restIsNullableForFollow reports whether β (the symbols following sym in a
// production body) satisfies FOLLOW's propagation condition: β is empty, or
// its first symbol is a non-terminal whose FIRST set contains ε. This is
// deliberately independent of firstOfString's truncated propagation — that
// truncation is specific to FIRST and must not leak into FOLLOW, whose rule
// only ever looks at β's first symbol regardless of β's length.
func (g *Grammar) restIsNullableForFollow(rest []string) bool {
	if len(rest) == 0 {
		return true
	}
	first := rest[0]
	return g.IsNonTerminal(first) && g.FIRST(first).Has(Epsilon)
}

// FOLLOW computes FOLLOW(nonTerminal) by fixed-point iteration over every
// production body that mentions it (spec §4.7). FOLLOW(start symbol)
// always contains EndOfInput.
func (g *Grammar) FOLLOW(nonTerminal string) util.StringSet {
	follow := map[string]util.StringSet{}
	for _, nt := range g.ruleOrder {
		follow[nt] = util.NewStringSet()
	}
	follow[g.start].Add(EndOfInput)

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			for _, prod := range g.Productions(nt) {
				syms := prod.symbols()
				for i, sym := range syms {
					if !g.IsNonTerminal(sym) {
						continue
					}
					rest := syms[i+1:]
					restFirst := g.firstOfString(rest, map[string]util.StringSet{}, util.NewStringSet())

					before := follow[sym].Len()
					for k := range restFirst {
						if k != Epsilon {
							follow[sym].Add(k)
						}
					}
					if g.restIsNullableForFollow(rest) {
						follow[sym].AddAll(follow[nt])
					}
					if follow[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	return follow[nonTerminal]
}
