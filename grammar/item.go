package grammar

import (
	"fmt"
	"strings"
)

// LR0Item is a dotted production: NonTerminal -> Left . Right.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// DottedSymbol returns the symbol immediately after the dot, or "" if the
// dot is at the end (the item is reducible).
func (i LR0Item) DottedSymbol() string {
	if len(i.Right) == 0 {
		return ""
	}
	return i.Right[0]
}

// Reducible reports whether the dot has reached the end of the body.
func (i LR0Item) Reducible() bool {
	return len(i.Right) == 0
}

// Advance returns the item with the dot moved one symbol to the right. It
// panics if the item is already reducible; callers are expected to check
// Reducible first.
func (i LR0Item) Advance() LR0Item {
	next := LR0Item{
		NonTerminal: i.NonTerminal,
		Left:        append(append([]string(nil), i.Left...), i.Right[0]),
		Right:       append([]string(nil), i.Right[1:]...),
	}
	return next
}

func (i LR0Item) String() string {
	left := strings.Join(i.Left, " ")
	right := strings.Join(i.Right, " ")
	if left != "" {
		left += " "
	}
	if right != "" {
		right = " " + right
	}
	return fmt.Sprintf("%s -> %s.%s", i.NonTerminal, left, right)
}

// LR1Item is an LR0Item paired with a single lookahead terminal.
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (i LR1Item) Advance() LR1Item {
	return LR1Item{LR0Item: i.LR0Item.Advance(), Lookahead: i.Lookahead}
}

func (i LR1Item) String() string {
	return fmt.Sprintf("%s, %s", i.LR0Item.String(), i.Lookahead)
}

// initialLR0Item returns the item for production (dot at position 0).
func initialLR0Item(nonTerminal string, prod Production) LR0Item {
	return LR0Item{NonTerminal: nonTerminal, Right: append([]string(nil), prod.symbols()...)}
}
