package lexpar

import (
	"github.com/dekarrin/lexpar/parse"
)

// Parse lexes input with the generated scanner and drives the generated
// table over the resulting tokens, returning the completed parse tree
// alongside the structured step trace (spec §3, §6). Lexical errors are
// fatal: a non-nil lexing error is returned as-is rather than attempting
// to parse a token stream with gaps in it.
func (gen *Generated) Parse(input string) (*parse.Tree, []parse.ParseStep, error) {
	tokens, err := gen.Lexer.Lex(input)
	if err != nil {
		return nil, nil, err
	}

	driverTokens := make([]parse.Token, len(tokens))
	for i, t := range tokens {
		driverTokens[i] = t
	}

	driver := parse.NewDriver(gen.Table)
	return driver.Parse(driverTokens)
}

// NewDriver returns a parse.Driver for the generated table, for callers
// that want to register a trace listener before parsing.
func (gen *Generated) NewDriver() *parse.Driver {
	return parse.NewDriver(gen.Table)
}
