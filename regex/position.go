package regex

import "sort"

// Labeling holds the position-function maps computed over one syntax tree
// (spec §4.3), keyed by node label. All three of nullable/firstpos/lastpos
// are monotonic under the fixed-point iteration; followpos is restricted to
// terminal leaf labels once the fixpoint is reached.
type Labeling struct {
	Nullable  map[string]bool
	Firstpos  map[string][]string
	Lastpos   map[string][]string
	Followpos map[string][]string

	// Nodes maps every assigned label back to its node, so callers can walk
	// from a leaf label to its symbol key or named-reference name.
	Nodes map[string]*Node

	// RuleNames is the list of named-reference names encountered, in
	// declaration (post-order leaf visit) order — the "rule-name list" used
	// by lex to resolve token kind (§4.3, §4.6).
	RuleNames []string

	Root string
}

// Label performs a single post-order traversal assigning labels: leaves get
// ascending numeric labels, union nodes "α1, α2, ...", Kleene nodes
// "β1, β2, ...", concatenation nodes "γ1, γ2, ...".
func Label(root *Node) *Labeling {
	l := &Labeling{
		Nodes: map[string]*Node{},
	}

	var leafCounter, unionCounter, starCounter, concatCounter int
	seenNamedRef := map[string]bool{}

	var visit func(n *Node) string
	visit = func(n *Node) string {
		if n.Left != nil {
			visit(n.Left)
		}
		if n.Right != nil {
			visit(n.Right)
		}

		var label string
		switch n.Kind {
		case NodeUnion:
			unionCounter++
			label = itoaPrefixed("α", unionCounter)
		case NodeStar:
			starCounter++
			label = itoaPrefixed("β", starCounter)
		case NodeConcat:
			concatCounter++
			label = itoaPrefixed("γ", concatCounter)
		default:
			leafCounter++
			label = itoaPrefixed("", leafCounter)
		}

		n.Label = label
		l.Nodes[label] = n

		if n.Kind == NodeNamedRef && !seenNamedRef[n.Name] {
			seenNamedRef[n.Name] = true
			l.RuleNames = append(l.RuleNames, n.Name)
		}

		return label
	}

	l.Root = visit(root)
	return l
}

func itoaPrefixed(prefix string, n int) string {
	digits := [...]byte("0123456789")
	buf := make([]byte, 0, 8)
	if n == 0 {
		buf = append(buf, '0')
	}
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return prefix + string(buf)
}

// Compute runs the full fixed-point computation of nullable, firstpos,
// lastpos and followpos over a labelled tree (spec §4.3). iterationCap
// bounds the number of fixpoint sweeps as a guard against malformed,
// non-terminating input (§9 DESIGN NOTES); 0 means "size-derived default".
func Compute(l *Labeling, iterationCap int) {
	l.Nullable = map[string]bool{}
	l.Firstpos = map[string][]string{}
	l.Lastpos = map[string][]string{}
	followAccum := map[string]map[string]bool{}

	if iterationCap <= 0 {
		iterationCap = len(l.Nodes)*len(l.Nodes) + 16
	}

	// initialise leaves
	for label, n := range l.Nodes {
		if n.isLeaf() {
			if n.Kind == NodeEpsilon {
				l.Nullable[label] = true
				l.Firstpos[label] = nil
				l.Lastpos[label] = nil
			} else {
				l.Nullable[label] = false
				l.Firstpos[label] = []string{label}
				l.Lastpos[label] = []string{label}
			}
		}
	}

	changed := true
	for pass := 0; changed && pass < iterationCap; pass++ {
		changed = false
		for label, n := range l.Nodes {
			if n.isLeaf() {
				continue
			}

			var nullable bool
			var first, last []string

			switch n.Kind {
			case NodeStar:
				nullable = true
				first = l.Firstpos[n.Left.Label]
				last = l.Lastpos[n.Left.Label]
			case NodeUnion:
				nullable = l.Nullable[n.Left.Label] || l.Nullable[n.Right.Label]
				first = unionSorted(l.Firstpos[n.Left.Label], l.Firstpos[n.Right.Label])
				last = unionSorted(l.Lastpos[n.Left.Label], l.Lastpos[n.Right.Label])
			case NodeConcat:
				nullable = l.Nullable[n.Left.Label] && l.Nullable[n.Right.Label]
				if l.Nullable[n.Left.Label] {
					first = unionSorted(l.Firstpos[n.Left.Label], l.Firstpos[n.Right.Label])
				} else {
					first = l.Firstpos[n.Left.Label]
				}
				if l.Nullable[n.Right.Label] {
					last = unionSorted(l.Lastpos[n.Left.Label], l.Lastpos[n.Right.Label])
				} else {
					last = l.Lastpos[n.Right.Label]
				}
			}

			if nullable != l.Nullable[label] {
				l.Nullable[label] = nullable
				changed = true
			}
			if !equalStrSet(l.Firstpos[label], first) {
				l.Firstpos[label] = first
				changed = true
			}
			if !equalStrSet(l.Lastpos[label], last) {
				l.Lastpos[label] = last
				changed = true
			}
		}
	}

	// followpos: concat and star antecedents (§4.3 followpos)
	for _, n := range l.Nodes {
		switch n.Kind {
		case NodeConcat:
			firstR := l.Firstpos[n.Right.Label]
			for _, p := range l.Lastpos[n.Left.Label] {
				addAllTo(followAccum, p, firstR)
			}
		case NodeStar:
			firstL := l.Firstpos[n.Left.Label]
			for _, p := range l.Lastpos[n.Label] {
				addAllTo(followAccum, p, firstL)
			}
		}
	}

	l.Followpos = map[string][]string{}
	for label, n := range l.Nodes {
		if !n.isLeaf() {
			continue
		}
		set := followAccum[label]
		if len(set) == 0 {
			l.Followpos[label] = nil
			continue
		}
		out := make([]string, 0, len(set))
		for k := range set {
			out = append(out, k)
		}
		sort.Strings(out)
		l.Followpos[label] = out
	}
}

func addAllTo(m map[string]map[string]bool, key string, vals []string) {
	if m[key] == nil {
		m[key] = map[string]bool{}
	}
	for _, v := range vals {
		m[key][v] = true
	}
}

func unionSorted(a, b []string) []string {
	set := map[string]bool{}
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		set[v] = true
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func equalStrSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	am := map[string]bool{}
	for _, v := range a {
		am[v] = true
	}
	for _, v := range b {
		if !am[v] {
			return false
		}
	}
	return true
}
