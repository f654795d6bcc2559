package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/lexpar/grammar"
)

// String renders the table as an ACTION/GOTO grid, state 0 first, suitable
// for inclusion in generator diagnostics or -v output.
func (t *Table) String() string {
	stateNames := make([]string, 0, len(t.action)+len(t.goTo))
	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			stateNames = append(stateNames, s)
		}
	}
	add(t.start)
	for s := range t.action {
		add(s)
	}
	for s := range t.goTo {
		add(s)
	}
	sort.Strings(stateNames)
	// keep start first after the lexical sort, matching conventional table
	// dumps where state 0 (or its named equivalent) leads.
	for i, s := range stateNames {
		if s == t.start {
			stateNames[0], stateNames[i] = stateNames[i], stateNames[0]
			break
		}
	}

	terms := append(append([]string{}, t.gram.Terminals()...), grammar.EndOfInput)
	nonTerms := t.gram.NonTerminals()

	headers := []string{"state", "|"}
	for _, term := range terms {
		headers = append(headers, "a:"+term)
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, "g:"+nt)
	}

	data := [][]string{headers}
	for _, s := range stateNames {
		row := []string{s, "|"}
		for _, term := range terms {
			act := t.Action(s, term)
			cell := ""
			switch act.Kind {
			case ActionAccept:
				cell = "acc"
			case ActionShift:
				cell = "s" + act.State
			case ActionReduce:
				cell = fmt.Sprintf("r%s -> %s", act.NonTerminal, act.Production.String())
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range nonTerms {
			cell := ""
			if to, ok := t.Goto(s, nt); ok {
				cell = to
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
