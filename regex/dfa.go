package regex

import (
	"sort"

	"github.com/dekarrin/lexpar/automaton"
	"github.com/dekarrin/lexpar/icterr"
	"github.com/dekarrin/lexpar/internal/util"
)

// StateValue is the payload carried by each DirectDFA state: the
// underlying set of leaf labels that produced it (used to test state
// identity during construction) and, for accepting states, the rule names
// of any named-reference leaves among those labels — the set of rule ids
// an accepting state "contains the sentinel positions of" (spec §3 DFA).
type StateValue struct {
	Leaves  util.StringSet
	RuleIDs []string
}

// BuildDirectDFA performs subset construction over leaf positions (spec
// §4.4, dragon-book algorithm 3.36 "constructing a DFA directly from a
// regular expression"). States are named sequentially from 'A'; two states
// are identical iff their underlying leaf-label sets are equal.
func BuildDirectDFA(l *Labeling) (*automaton.DFA[StateValue], error) {
	alphabet, err := CollectAlphabet(l)
	if err != nil {
		return nil, err
	}

	dfa := automaton.NewDFA[StateValue]()

	nameOf := map[string]string{} // leaf-set key -> state name
	var nextName string

	keyOf := func(leaves util.StringSet) string {
		return leaves.StringOrdered()
	}

	newState := func(leaves util.StringSet) string {
		nextName = util.NextStateName(nextName)
		name := nextName
		nameOf[keyOf(leaves)] = name
		dfa.AddState(name, StateValue{Leaves: leaves, RuleIDs: ruleIDsOf(l, leaves)}, isAccepting(l, leaves))
		return name
	}

	startLeaves := util.NewStringSet(l.Firstpos[l.Root])
	startName := newState(startLeaves)
	dfa.Start = startName

	worklist := []string{startName}
	leavesByName := map[string]util.StringSet{startName: startLeaves}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		curLeaves := leavesByName[cur]

		for _, sym := range alphabet {
			var next util.StringSet = util.NewStringSet()
			for _, p := range curLeaves.Elements() {
				n := l.Nodes[p]
				if n.symbolKey() == sym {
					next.AddAll(util.NewStringSet(l.Followpos[p]))
				}
			}
			if next.Empty() {
				continue
			}

			k := keyOf(next)
			name, ok := nameOf[k]
			if !ok {
				name = newState(next)
				leavesByName[name] = next
				worklist = append(worklist, name)
			}
			dfa.AddTransition(cur, sym, name)
		}
	}

	return dfa, nil
}

// CollectAlphabet gathers the distinct DFA alphabet symbols contributed by
// the labelled leaves (spec §4.4 step 2) and rejects any pair of distinct
// symbols whose character ranges overlap (spec §9 DESIGN NOTES): subset
// construction treats each alphabet symbol as an atomic transition key, so
// two leaves with overlapping-but-unequal ranges would silently produce two
// separate symbols for the same input character instead of one, making the
// DFA's transitions on that character ambiguous.
func CollectAlphabet(l *Labeling) ([]string, error) {
	set := map[string]bool{}
	for _, n := range l.Nodes {
		if n.isLeaf() {
			if k := n.symbolKey(); k != "" {
				set[k] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	if err := checkNoOverlappingRanges(out); err != nil {
		return nil, err
	}
	return out, nil
}

// alphabetSpan is the (lo, hi) character interval a single alphabet symbol
// covers: a literal is a one-character interval, a range is "lo-hi".
type alphabetSpan struct {
	key     string
	lo, hi  rune
	isRange bool
}

func parseAlphabetSymbol(key string) alphabetSpan {
	runes := []rune(key)
	if len(runes) == 3 && runes[1] == '-' {
		return alphabetSpan{key: key, lo: runes[0], hi: runes[2], isRange: true}
	}
	return alphabetSpan{key: key, lo: runes[0], hi: runes[0]}
}

// checkNoOverlappingRanges rejects any two distinct alphabet symbols whose
// intervals intersect. Two distinct literal keys can never intersect (equal
// literals collapse to one key before this is ever called), so only pairs
// where at least one side is a range need checking.
func checkNoOverlappingRanges(keys []string) error {
	spans := make([]alphabetSpan, len(keys))
	for i, k := range keys {
		spans[i] = parseAlphabetSymbol(k)
	}
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if !a.isRange && !b.isRange {
				continue
			}
			lo, hi := a.lo, a.hi
			if b.lo > lo {
				lo = b.lo
			}
			if b.hi < hi {
				hi = b.hi
			}
			if lo <= hi {
				return icterr.OverlappingRangesf(
					"alphabet symbols %q and %q overlap on %q-%q", a.key, b.key, string(lo), string(hi))
			}
		}
	}
	return nil
}

func isAccepting(l *Labeling, leaves util.StringSet) bool {
	for _, label := range leaves.Elements() {
		n := l.Nodes[label]
		if n.Kind == NodeSentinel || n.Kind == NodeNamedRef {
			return true
		}
	}
	return false
}

func ruleIDsOf(l *Labeling, leaves util.StringSet) []string {
	seen := map[string]bool{}
	var out []string
	// preserve RuleNames declaration order so "earliest rule wins" ties
	// resolve consistently downstream in lex.
	for _, name := range l.RuleNames {
		for _, label := range leaves.Elements() {
			n := l.Nodes[label]
			if n.Kind == NodeNamedRef && n.Name == name && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
