package regex

import (
	"sort"
	"strings"

	"github.com/dekarrin/lexpar/automaton"
	"github.com/dekarrin/lexpar/internal/util"
)

const sinkState = "\x00sink"

// Minimize performs Hopcroft partition refinement on a DirectDFA, first
// completing it with a synthetic sink state so every (state, symbol) pair
// has a transition (spec §4.5).
//
// The initial partition is accepting vs non-accepting, further split by
// rule-id set for accepting states: two accepting states that recognise
// different lex rules must never be merged even though both are
// "accepting", since merging them would erase which rule matched.
func Minimize(d *automaton.DFA[StateValue], alphabet []string) *automaton.DFA[StateValue] {
	complete := completeWithSink(d, alphabet)

	partition := initialPartition(complete)
	worklist := seedWorklist(partition)

	for len(worklist) > 0 {
		a := worklist[0]
		worklist = worklist[1:]

		for _, c := range alphabet {
			x := statesThatGoTo(complete, a, c)
			if x.Empty() {
				continue
			}

			var next [][]string
			for _, y := range partition {
				inX, notInX := splitBlock(y, x)
				if len(inX) > 0 && len(notInX) > 0 {
					next = append(next, inX, notInX)

					if containsBlock(worklist, y) {
						worklist = replaceBlock(worklist, y, inX, notInX)
					} else {
						if len(inX) <= len(notInX) {
							worklist = append(worklist, inX)
						} else {
							worklist = append(worklist, notInX)
						}
					}
				} else {
					next = append(next, y)
				}
			}
			partition = dedupBlocks(next)
		}
	}

	return rebuild(complete, partition, alphabet)
}

func initialPartition(d *automaton.DFA[StateValue]) [][]string {
	groups := map[string][]string{}
	for _, name := range d.StateNames() {
		v := d.Value(name)
		key := "non-accept"
		if d.IsAccepting(name) {
			ids := append([]string(nil), v.RuleIDs...)
			sort.Strings(ids)
			key = "accept:" + strings.Join(ids, ",")
		}
		groups[key] = append(groups[key], name)
	}
	var blocks [][]string
	for _, key := range util.OrderedKeys(groups) {
		blocks = append(blocks, groups[key])
	}
	return blocks
}

func seedWorklist(partition [][]string) [][]string {
	var wl [][]string
	if len(partition) > 0 {
		wl = append(wl, partition[0])
	}
	return wl
}

func statesThatGoTo(d *automaton.DFA[StateValue], block []string, symbol string) util.StringSet {
	target := util.NewStringSet(block)
	result := util.NewStringSet()
	for _, name := range d.StateNames() {
		next, ok := d.Next(name, symbol)
		if ok && target.Has(next) {
			result.Add(name)
		}
	}
	return result
}

func splitBlock(block []string, x util.StringSet) (inX, notInX []string) {
	for _, s := range block {
		if x.Has(s) {
			inX = append(inX, s)
		} else {
			notInX = append(notInX, s)
		}
	}
	return
}

func containsBlock(worklist [][]string, block []string) bool {
	target := blockKey(block)
	for _, b := range worklist {
		if blockKey(b) == target {
			return true
		}
	}
	return false
}

func replaceBlock(worklist [][]string, old []string, a, b []string) [][]string {
	target := blockKey(old)
	out := make([][]string, 0, len(worklist)+1)
	for _, blk := range worklist {
		if blockKey(blk) == target {
			out = append(out, a, b)
		} else {
			out = append(out, blk)
		}
	}
	return out
}

func dedupBlocks(blocks [][]string) [][]string {
	seen := map[string]bool{}
	var out [][]string
	for _, b := range blocks {
		k := blockKey(b)
		if !seen[k] {
			seen[k] = true
			out = append(out, b)
		}
	}
	return out
}

func blockKey(block []string) string {
	cp := append([]string(nil), block...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}

func completeWithSink(d *automaton.DFA[StateValue], alphabet []string) *automaton.DFA[StateValue] {
	out := automaton.NewDFA[StateValue]()
	out.Start = d.Start
	for _, name := range d.StateNames() {
		out.AddState(name, d.Value(name), d.IsAccepting(name))
	}
	out.AddState(sinkState, StateValue{Leaves: util.NewStringSet()}, false)

	for _, name := range d.StateNames() {
		for _, sym := range alphabet {
			next, ok := d.Next(name, sym)
			if !ok {
				next = sinkState
			}
			out.AddTransition(name, sym, next)
		}
	}
	for _, sym := range alphabet {
		out.AddTransition(sinkState, sym, sinkState)
	}

	return out
}

func rebuild(complete *automaton.DFA[StateValue], partition [][]string, alphabet []string) *automaton.DFA[StateValue] {
	blockOf := map[string]string{}
	var names []string
	var nextName string

	// drop the block containing the sink; name the rest starting at 'A'
	var keep [][]string
	for _, b := range partition {
		sink := false
		for _, s := range b {
			if s == sinkState {
				sink = true
				break
			}
		}
		if !sink {
			keep = append(keep, b)
		}
	}
	sort.Slice(keep, func(i, j int) bool { return blockKey(keep[i]) < blockKey(keep[j]) })

	for _, b := range keep {
		nextName = util.NextStateName(nextName)
		names = append(names, nextName)
		for _, s := range b {
			blockOf[s] = nextName
		}
	}

	out := automaton.NewDFA[StateValue]()
	for i, b := range keep {
		name := names[i]
		accepting := complete.IsAccepting(b[0])
		out.AddState(name, complete.Value(b[0]), accepting)
	}
	for i, b := range keep {
		name := names[i]
		rep := b[0]
		for _, sym := range alphabet {
			next, ok := complete.Next(rep, sym)
			if !ok {
				continue
			}
			if toName, ok := blockOf[next]; ok {
				out.AddTransition(name, sym, toName)
			}
		}
	}
	out.Start = blockOf[complete.Start]

	return out
}
