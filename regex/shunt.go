package regex

import "github.com/dekarrin/lexpar/icterr"

// Shunt converts an infix token stream (after Expand has run) to postfix
// using the classic shunting-yard algorithm, with precedence star/plus = 3,
// concat = 2, union = 1 (spec §4.1 shunting). Parentheses are consumed and
// never emitted to the output.
func Shunt(tokens []Token) ([]Token, error) {
	var output []Token
	var opStack []Token

	popWhile := func(pred func(Token) bool) {
		for len(opStack) > 0 && pred(opStack[len(opStack)-1]) {
			output = append(output, opStack[len(opStack)-1])
			opStack = opStack[:len(opStack)-1]
		}
	}

	for _, t := range tokens {
		switch t.Kind {
		case KindLiteral, KindRange, KindNamedRef, KindSentinel, KindEpsilon:
			output = append(output, t)
		case KindLParen:
			opStack = append(opStack, t)
		case KindRParen:
			found := false
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				opStack = opStack[:len(opStack)-1]
				if top.Kind == KindLParen {
					found = true
					break
				}
				output = append(output, top)
			}
			if !found {
				return nil, icterr.MalformedRegexf("unbalanced parentheses")
			}
		case KindUnion, KindConcat, KindStar, KindPlus, KindOptional:
			prec := t.precedence()
			popWhile(func(top Token) bool {
				return top.Kind != KindLParen && top.precedence() >= prec
			})
			opStack = append(opStack, t)
		default:
			return nil, icterr.MalformedRegexf("unrecognized token in regex")
		}
	}

	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		if top.Kind == KindLParen || top.Kind == KindRParen {
			return nil, icterr.MalformedRegexf("unbalanced parentheses")
		}
		output = append(output, top)
	}

	return output, nil
}

// InfToPos wraps source as "(source)#" and runs Tokenize, Expand, Shunt in
// sequence, yielding the postfix form with its trailing sentinel (spec
// §4.1 inf_to_pos). The postfix result has no source-string form in this
// package, so it cannot be fed back through InfToPos.
func InfToPos(source string) ([]Token, error) {
	toks, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	wrapped := make([]Token, 0, len(toks)+3)
	wrapped = append(wrapped, Token{Kind: KindLParen})
	wrapped = append(wrapped, toks...)
	wrapped = append(wrapped, Token{Kind: KindRParen}, Token{Kind: KindSentinel})

	expanded := Expand(wrapped)
	return Shunt(expanded)
}
