package regex

import "github.com/dekarrin/lexpar/icterr"

// NodeKind identifies the kind of a syntax-tree node.
type NodeKind int

const (
	NodeLiteral NodeKind = iota
	NodeRange
	NodeNamedRef
	NodeSentinel
	NodeEpsilon
	NodeUnion
	NodeConcat
	NodeStar
)

// Node is a syntax-tree node: a token plus up to two children. Unary
// operators (Star) use Left only. Nodes are addressed from the position
// function maps by Label, not by this pointer, once labelling has run
// (§9 DESIGN NOTES: ownership stays with the tree, everything else is an
// index).
type Node struct {
	Kind NodeKind
	Lit  rune
	Lo   rune
	Hi   rune
	Name string

	Left, Right *Node

	// Label is assigned by the labelling pass in position.go; empty until
	// then.
	Label string
}

func (n *Node) isLeaf() bool {
	switch n.Kind {
	case NodeLiteral, NodeRange, NodeNamedRef, NodeSentinel, NodeEpsilon:
		return true
	}
	return false
}

// symbolKey returns the DFA alphabet key this leaf contributes, or "" for
// leaves that consume no input (sentinel, named-ref, epsilon).
func (n *Node) symbolKey() string {
	switch n.Kind {
	case NodeLiteral:
		return string(n.Lit)
	case NodeRange:
		return string(n.Lo) + "-" + string(n.Hi)
	default:
		return ""
	}
}

// Build constructs the augmented syntax tree from a postfix token sequence
// by a stack walk: leaves push themselves, binary operators pop two
// (first-popped becomes the right child), a unary operator pops one as its
// left child (spec §4.2).
func Build(postfix []Token) (*Node, error) {
	var stack []*Node

	push := func(n *Node) { stack = append(stack, n) }
	pop := func() (*Node, error) {
		if len(stack) == 0 {
			return nil, icterr.MalformedTreef("stack underflow building syntax tree")
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return n, nil
	}

	for _, t := range postfix {
		switch t.Kind {
		case KindLiteral:
			push(&Node{Kind: NodeLiteral, Lit: t.Lit})
		case KindRange:
			push(&Node{Kind: NodeRange, Lo: t.Lo, Hi: t.Hi})
		case KindNamedRef:
			push(&Node{Kind: NodeNamedRef, Name: t.Name})
		case KindSentinel:
			push(&Node{Kind: NodeSentinel})
		case KindEpsilon:
			push(&Node{Kind: NodeEpsilon})
		case KindStar:
			child, err := pop()
			if err != nil {
				return nil, err
			}
			push(&Node{Kind: NodeStar, Left: child})
		case KindUnion:
			right, err := pop()
			if err != nil {
				return nil, err
			}
			left, err := pop()
			if err != nil {
				return nil, err
			}
			push(&Node{Kind: NodeUnion, Left: left, Right: right})
		case KindConcat:
			right, err := pop()
			if err != nil {
				return nil, err
			}
			left, err := pop()
			if err != nil {
				return nil, err
			}
			push(&Node{Kind: NodeConcat, Left: left, Right: right})
		default:
			return nil, icterr.MalformedTreef("unexpected token kind %d in postfix stream", t.Kind)
		}
	}

	if len(stack) != 1 {
		return nil, icterr.MalformedTreef("residual stack size %d building syntax tree, expected 1", len(stack))
	}

	return stack[0], nil
}
