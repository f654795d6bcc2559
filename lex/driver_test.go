package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idKeywordRules spells the identifier's letters out as literals: a literal
// such as the "i" of "if" and an overlapping range such as [a-z] cannot
// share one DFA alphabet (regex.CollectAlphabet rejects the pair).
func idKeywordRules() []Rule {
	letter := "(a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z)"
	return []Rule{
		{Name: "kw_if", Human: "'if'", Regex: "if"},
		{Name: "id", Human: "identifier", Regex: letter + "(" + letter + "|[0-9])*"},
		{Name: "ws", Human: "whitespace", Regex: "( |\t|\n)+"},
		{Name: "plus", Human: "'+'", Regex: `\+`},
	}
}

func TestCompile_RejectsEmptyRuleSet(t *testing.T) {
	_, err := Compile(nil)
	assert.Error(t, err)
}

func TestLex_BasicTokenization(t *testing.T) {
	d, err := Compile(idKeywordRules())
	require.NoError(t, err)

	toks, err := d.Lex("if x1 + y")
	require.NoError(t, err)

	var classes []string
	var lexemes []string
	for _, tok := range toks {
		classes = append(classes, tok.Class())
		lexemes = append(lexemes, tok.Lexeme())
	}

	assert.Equal(t, []string{"kw_if", "ws", "id", "ws", "plus", "ws", "id", EndOfInput}, classes)
	assert.Equal(t, []string{"if", " ", "x1", " ", "+", " ", "y", ""}, lexemes)
}

func TestLex_LongestMatchAndDeclarationOrderTieBreak(t *testing.T) {
	// "if" matches both the kw_if rule and the id rule at the same length;
	// kw_if is declared first and must win.
	d, err := Compile(idKeywordRules())
	require.NoError(t, err)

	toks, err := d.Lex("if")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "kw_if", toks[0].Class())
}

func TestLex_LongestMatchPrefersLongerLexeme(t *testing.T) {
	d, err := Compile(idKeywordRules())
	require.NoError(t, err)

	// "ifx" must scan as one "id" token (longest match), not "if" + "x".
	toks, err := d.Lex("ifx")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "id", toks[0].Class())
	assert.Equal(t, "ifx", toks[0].Lexeme())
}

func TestLex_PanicModeCoalescesAdjacentErrorRunes(t *testing.T) {
	d, err := Compile(idKeywordRules())
	require.NoError(t, err)

	toks, err := d.Lex("x @@ y")
	require.Error(t, err)

	var classes []string
	for _, tok := range toks {
		classes = append(classes, tok.Class())
	}
	// the two unrecognised '@' runes must still yield a full token stream
	// around them, with the run coalesced into one "!error" token rather
	// than reported twice.
	assert.Equal(t, []string{"id", "ws", "!error", "ws", "id", EndOfInput}, classes)
}

func TestLex_TracksLineAndColumn(t *testing.T) {
	d, err := Compile(idKeywordRules())
	require.NoError(t, err)

	toks, err := d.Lex("x\ny")
	require.NoError(t, err)
	require.True(t, len(toks) >= 3)

	assert.Equal(t, 1, toks[0].Line())
	// the token after the newline must be reported on line 2.
	var sawLine2 bool
	for _, tok := range toks {
		if tok.Class() == "id" && tok.Lexeme() == "y" {
			assert.Equal(t, 2, tok.Line())
			sawLine2 = true
		}
	}
	assert.True(t, sawLine2)
}
