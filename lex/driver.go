package lex

import (
	"strings"

	"github.com/dekarrin/lexpar/automaton"
	"github.com/dekarrin/lexpar/icterr"
	"github.com/dekarrin/lexpar/regex"
)

// Rule is one named lexical rule: a regex pattern and the class to tag
// matching lexemes with. Rules are combined into a single scanner in the
// order given; when two rules' matches tie in length, the earlier
// declared rule wins (spec §4.6).
type Rule struct {
	Name  string
	Human string
	Regex string
}

// Driver is a compiled scanner: one minimised DFA recognising every rule
// at once.
type Driver struct {
	dfa     *automaton.DFA[regex.StateValue]
	humanOf map[string]string
}

// Compile builds a Driver from a set of rules by unioning each rule's
// pattern with a trailing named-reference marker carrying its name
// (classic "tag the accepting state of NFA_i with token i" construction),
// then running it through the regex package's direct-DFA-then-minimize
// pipeline (spec §4.4, §4.5).
func Compile(rules []Rule) (*Driver, error) {
	if len(rules) == 0 {
		return nil, icterr.MalformedRegexf("no lexical rules given")
	}

	var parts []string
	humanOf := map[string]string{}
	for _, r := range rules {
		parts = append(parts, "("+r.Regex+"{"+r.Name+"})")
		humanOf[r.Name] = r.Human
	}
	combined := strings.Join(parts, "|")

	postfix, err := regex.InfToPos(combined)
	if err != nil {
		return nil, err
	}
	tree, err := regex.Build(postfix)
	if err != nil {
		return nil, err
	}
	labeling := regex.Label(tree)
	regex.Compute(labeling, 0)

	direct, err := regex.BuildDirectDFA(labeling)
	if err != nil {
		return nil, err
	}
	alphabet, err := regex.CollectAlphabet(labeling)
	if err != nil {
		return nil, err
	}
	minimized := regex.Minimize(direct, alphabet)

	return &Driver{dfa: minimized, humanOf: humanOf}, nil
}

// step finds the outgoing transition from state that covers rune r, if
// any. Transition keys are either a single literal rune or a "lo-hi"
// rune range (regex.Node.symbolKey), so a 1-rune key is a literal match
// and a 3-rune key with '-' in the middle is a range match.
func step(dfa *automaton.DFA[regex.StateValue], state string, r rune) (string, bool) {
	s, ok := dfa.States[state]
	if !ok {
		return "", false
	}
	for key, to := range s.Transitions {
		runes := []rune(key)
		switch len(runes) {
		case 1:
			if runes[0] == r {
				return to, true
			}
		case 3:
			if runes[1] == '-' && r >= runes[0] && r <= runes[2] {
				return to, true
			}
		}
	}
	return "", false
}

// Lex scans the entire input eagerly (spec §4.6 simulate()), returning
// the full token stream including a trailing EndOfInput token. Runs of
// unrecognised input are coalesced into a single *icterr.LexicalError
// span each, and each span also appears in the token stream as one token
// of class "!error", rather than failing on the first bad rune, so a caller can
// report every problem found in one pass; Lex still returns a non-nil
// error in that case (spec §7: lexical errors are fatal to the overall
// scan even though they don't stop it early).
func (d *Driver) Lex(input string) ([]Token, error) {
	runes := []rune(input)
	var tokens []Token
	var errSpans []icterr.LexicalErrorSpan

	line, col := 1, 1
	lineStarts := splitLines(input)

	pos := 0
	advance := func(upto int) {
		for pos < upto {
			if runes[pos] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			pos++
		}
	}

	for pos < len(runes) {
		matchEnd, ruleName, ok := d.longestMatch(runes, pos)
		if ok {
			lexeme := string(runes[pos:matchEnd])
			tokens = append(tokens, Token{
				ClassID:    ruleName,
				ClassHuman: d.humanOf[ruleName],
				Lexeme_:    lexeme,
				Line_:      line,
				LinePos_:   col,
				FullLine_:  lineAt(lineStarts, line),
			})
			advance(matchEnd)
			continue
		}

		// panic mode: no rule matches starting here. coalesce this rune
		// into the current error span if it immediately follows one,
		// otherwise start a new one.
		startLine, startCol, startFull := line, col, lineAt(lineStarts, line)
		startPos := pos
		advance(pos + 1)

		if n := len(errSpans); n > 0 && errSpans[n-1].End == startPos {
			errSpans[n-1].End = pos
			errSpans[n-1].Text = errSpans[n-1].Text + string(runes[startPos:pos])
			// the span's "!error" token is the last one emitted
			tokens[len(tokens)-1].Lexeme_ = errSpans[n-1].Text
		} else {
			errSpans = append(errSpans, icterr.LexicalErrorSpan{
				Start: startPos, End: pos,
				Line: startLine, LinePos: startCol,
				FullLine: startFull,
				Text:     string(runes[startPos:pos]),
			})
			tokens = append(tokens, Token{
				ClassID:   "!error",
				Lexeme_:   string(runes[startPos:pos]),
				Line_:     startLine,
				LinePos_:  startCol,
				FullLine_: startFull,
			})
		}
	}

	tokens = append(tokens, Token{
		ClassID:   EndOfInput,
		Line_:     line,
		LinePos_:  col,
		FullLine_: lineAt(lineStarts, line),
	})

	if len(errSpans) > 0 {
		return tokens, icterr.NewLexicalError(errSpans)
	}
	return tokens, nil
}

// longestMatch runs the DFA from start, returning the furthest position
// reached by any accepting state and the winning rule name (the first, in
// declaration order, among the rule ids tagging that state).
func (d *Driver) longestMatch(runes []rune, start int) (end int, ruleName string, ok bool) {
	state := d.dfa.Start
	pos := start

	if d.dfa.IsAccepting(state) {
		end, ruleName, ok = pos, d.dfa.Value(state).RuleIDs[0], true
	}

	for pos < len(runes) {
		next, matched := step(d.dfa, state, runes[pos])
		if !matched {
			break
		}
		state = next
		pos++
		if d.dfa.IsAccepting(state) {
			end, ruleName, ok = pos, d.dfa.Value(state).RuleIDs[0], true
		}
	}

	return end, ruleName, ok
}

func splitLines(input string) []string {
	return strings.Split(input, "\n")
}

func lineAt(lines []string, lineNum int) string {
	idx := lineNum - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	return lines[idx]
}
