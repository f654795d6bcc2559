// Package icterr defines the error kinds surfaced by the generator and
// runtime packages (spec §7). Each kind carries both a technical Error()
// string and, where it makes sense to show a human a specific spot in the
// source, a human-facing rendering with a highlighted source line.
//
// The style follows the teacher's tqerrors package: a private struct with a
// technical message and an optional human-facing one, built via Xxxf
// constructors, with Unwrap support for wrapped causes.
package icterr

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Positioned is satisfied by any token/symbol that knows where it sits in
// the source text. lex.Token implements it without needing to import this
// package.
type Positioned interface {
	Lexeme() string
	Line() int
	LinePos() int
	FullLine() string
}

// located is the common payload of every source-anchored error.
type located struct {
	msg      string
	lexeme   string
	line     int
	linePos  int
	fullLine string
	wrap     error
}

func (e *located) Error() string { return e.msg }
func (e *located) Unwrap() error { return e.wrap }

// Visual renders the offending line with a caret under the start of the
// offending lexeme. Rune display width (not byte count) is used to place
// the caret, via golang.org/x/text/width, so full-width and combining runes
// line up correctly.
func (e *located) Visual() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d | %s\n", e.line, e.fullLine)

	prefixLen := len(fmt.Sprintf("%d | ", e.line))
	var caretCol int
	runes := []rune(e.fullLine)
	upTo := e.linePos - 1
	if upTo > len(runes) {
		upTo = len(runes)
	}
	if upTo < 0 {
		upTo = 0
	}
	for _, r := range runes[:upTo] {
		caretCol += runeWidth(r)
	}

	sb.WriteString(strings.Repeat(" ", prefixLen+caretCol))
	sb.WriteString("^")
	return sb.String()
}

func runeWidth(r rune) int {
	if unicode.In(r, unicode.Mn, unicode.Me) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// Detailed returns a machine-readable one-line description naming the
// offending location, suitable for logs and automated comparisons.
func (e *located) Detailed() string {
	return fmt.Sprintf("%d:%d: %s", e.line, e.linePos, e.msg)
}

// --- MalformedRegex / MalformedRange / MalformedNamedRef / MalformedTree ---

type GenInputError struct {
	Kind string
	msg  string
	wrap error
}

func (e *GenInputError) Error() string { return e.msg }
func (e *GenInputError) Unwrap() error { return e.wrap }

func newGenInput(kind, format string, args ...any) error {
	return &GenInputError{Kind: kind, msg: fmt.Sprintf("%s: %s", kind, fmt.Sprintf(format, args...))}
}

func MalformedRegexf(format string, args ...any) error {
	return newGenInput("MalformedRegex", format, args...)
}

func MalformedRangef(format string, args ...any) error {
	return newGenInput("MalformedRange", format, args...)
}

func MalformedNamedReff(format string, args ...any) error {
	return newGenInput("MalformedNamedRef", format, args...)
}

func MalformedTreef(format string, args ...any) error {
	return newGenInput("MalformedTree", format, args...)
}

func UndefinedRegexNamef(format string, args ...any) error {
	return newGenInput("UndefinedRegexName", format, args...)
}

func OverlappingRangesf(format string, args ...any) error {
	return newGenInput("OverlappingRanges", format, args...)
}

// --- GrammarConflict ---

// GrammarConflict is returned by the table builder when two candidate
// ACTION/GOTO entries would occupy the same cell (spec §4.10, §7).
type GrammarConflict struct {
	Kind     string // "shift/reduce", "reduce/reduce", "shift/shift", "accept/*"
	State    string
	Symbol   string
	Existing string
	New      string
}

func (e *GrammarConflict) Error() string {
	return fmt.Sprintf("%s conflict in state %s on symbol %q: %s vs %s", e.Kind, e.State, e.Symbol, e.Existing, e.New)
}

func NewGrammarConflict(kind, state, symbol, existing, new string) error {
	return &GrammarConflict{Kind: kind, State: state, Symbol: symbol, Existing: existing, New: new}
}

// --- MissingGoto ---

type MissingGotoError struct {
	State  string
	Symbol string
}

func (e *MissingGotoError) Error() string {
	return fmt.Sprintf("no GOTO entry for state %s on %q (generator bug: table is malformed)", e.State, e.Symbol)
}

func NewMissingGoto(state, symbol string) error {
	return &MissingGotoError{State: state, Symbol: symbol}
}

// --- LexicalError ---

// LexicalErrorSpan is one coalesced run of unrecognised input.
type LexicalErrorSpan struct {
	Start, End int
	Line       int
	LinePos    int
	FullLine   string
	Text       string
}

// LexicalError is non-fatal to the overall scan: it is embedded in the
// symbol stream, and only surfaced as an error to the caller at the end if
// at least one span was produced.
type LexicalError struct {
	Spans []LexicalErrorSpan
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%d lexical error span(s) found", len(e.Spans))
}

// Visual renders one block per span: the span's source line with a caret
// under the span's first rune. Spans that share a line each get their own
// block, and only the first rune of each span is marked.
func (e *LexicalError) Visual() string {
	var sb strings.Builder
	for i, sp := range e.Spans {
		loc := &located{msg: sp.Text, line: sp.Line, linePos: sp.LinePos, fullLine: sp.FullLine}
		sb.WriteString(loc.Visual())
		if i+1 < len(e.Spans) {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func NewLexicalError(spans []LexicalErrorSpan) error {
	return &LexicalError{Spans: spans}
}

// --- InvalidInitialToken ---

func NewInvalidInitialToken(tok Positioned) error {
	loc := &located{
		msg:      fmt.Sprintf("input cannot begin with %q", tok.Lexeme()),
		lexeme:   tok.Lexeme(),
		line:     tok.Line(),
		linePos:  tok.LinePos(),
		fullLine: tok.FullLine(),
	}
	return &SyntaxError{located: loc}
}

// --- SyntaxError ---

// SyntaxError is returned by the parse driver when ACTION has no entry for
// the current (state, lookahead) pair (spec §4.11, §7).
type SyntaxError struct {
	*located
	State        string
	TokenIndex   int
	LookaheadID  string
}

func NewSyntaxErrorFromToken(msg string, tok Positioned) error {
	return &SyntaxError{located: &located{
		msg:      msg,
		lexeme:   tok.Lexeme(),
		line:     tok.Line(),
		linePos:  tok.LinePos(),
		fullLine: tok.FullLine(),
	}}
}

// NewSyntaxError builds a SyntaxError carrying the full structured detail
// named by spec §4.11: the state, the lookahead's class id, and its index
// in the token stream, in addition to the source position used for the
// caret diagnostic.
func NewSyntaxError(msg string, tok Positioned, state, lookaheadID string, tokenIndex int) error {
	return &SyntaxError{
		located: &located{
			msg:      msg,
			lexeme:   tok.Lexeme(),
			line:     tok.Line(),
			linePos:  tok.LinePos(),
			fullLine: tok.FullLine(),
		},
		State:       state,
		LookaheadID: lookaheadID,
		TokenIndex:  tokenIndex,
	}
}

// FullMessage gives both the visual and the detailed rendering together,
// for contexts (CLI-like demos, test failure output) that want one string.
func (e *SyntaxError) FullMessage() string {
	return e.Visual() + "\n" + e.Detailed()
}
