package regex

// Expand rewrites `a?` to `(a|%)`, `a+` to `a a*`, collapses `a*+`/`a**`
// idempotently to `a*`, and inserts explicit concatenation tokens wherever
// an implicit join is required (spec §4.1 expand). It operates on a flat
// token stream; parenthesised groups are tracked so that a quantifier
// applied to a group duplicates the whole group, not just its last atom.
func Expand(tokens []Token) []Token {
	tokens = rewriteQuantifiers(tokens)
	return insertConcat(tokens)
}

// rewriteQuantifiers repeatedly applies the `?`/`+`/idempotent-`*` rewrites
// until no more apply. Each pass operates on the group immediately
// preceding the quantifier, found by scanning left from the quantifier and
// matching balanced parens if the preceding atom is a `)`.
func rewriteQuantifiers(tokens []Token) []Token {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(tokens); i++ {
			t := tokens[i]
			if t.Kind != KindStar && t.Kind != KindPlus && t.Kind != KindOptional {
				continue
			}
			start := groupStart(tokens, i-1)
			if start < 0 {
				continue
			}
			group := tokens[start:i]

			switch t.Kind {
			case KindOptional:
				// a? -> (a|%)
				rewritten := make([]Token, 0, len(group)+4)
				rewritten = append(rewritten, Token{Kind: KindLParen})
				rewritten = append(rewritten, group...)
				rewritten = append(rewritten, Token{Kind: KindUnion}, Token{Kind: KindEpsilon}, Token{Kind: KindRParen})

				tokens = splice(tokens, start, i+1, rewritten)
				changed = true
			case KindPlus:
				// a+ -> a a*
				rewritten := make([]Token, 0, len(group)*2+1)
				rewritten = append(rewritten, group...)
				rewritten = append(rewritten, group...)
				rewritten = append(rewritten, Token{Kind: KindStar})

				tokens = splice(tokens, start, i+1, rewritten)
				changed = true
			case KindStar:
				// a*+ === a*, and a** === a*: collapse a run of stars
				// following this group to a single star.
				j := i + 1
				for j < len(tokens) && tokens[j].Kind == KindStar {
					j++
				}
				if j > i+1 {
					rewritten := make([]Token, 0, len(group)+1)
					rewritten = append(rewritten, group...)
					rewritten = append(rewritten, Token{Kind: KindStar})
					tokens = splice(tokens, start, j, rewritten)
					changed = true
				}
			}
			if changed {
				break
			}
		}
	}
	return tokens
}

// groupStart finds the start index of the atom or parenthesised group
// ending at index end (inclusive). Returns -1 if end is out of bounds.
func groupStart(tokens []Token, end int) int {
	if end < 0 || end >= len(tokens) {
		return -1
	}
	if tokens[end].Kind != KindRParen {
		return end
	}
	depth := 0
	for i := end; i >= 0; i-- {
		switch tokens[i].Kind {
		case KindRParen:
			depth++
		case KindLParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splice(tokens []Token, start, end int, with []Token) []Token {
	out := make([]Token, 0, len(tokens)-(end-start)+len(with))
	out = append(out, tokens[:start]...)
	out = append(out, with...)
	out = append(out, tokens[end:]...)
	return out
}

// insertConcat inserts an explicit KindConcat token between any two adjacent
// tokens where an implicit join is required: atom-atom, atom-lparen,
// rparen-atom, postfix-atom, postfix-lparen, rparen-lparen.
func insertConcat(tokens []Token) []Token {
	var out []Token
	for i, t := range tokens {
		out = append(out, t)
		if i+1 >= len(tokens) {
			continue
		}
		next := tokens[i+1]
		if needsConcat(t, next) {
			out = append(out, Token{Kind: KindConcat})
		}
	}
	return out
}

func needsConcat(left, right Token) bool {
	leftJoins := left.isAtom() || left.Kind == KindRParen || left.isPostfixOp()
	rightJoins := right.isAtom() || right.Kind == KindLParen
	if !leftJoins || !rightJoins {
		return false
	}
	// union/concat/lparen never directly precede a concat insertion point
	// on the left side (covered above by leftJoins excluding them), and a
	// right-side union/rparen/postfix-op never opens a new atom.
	return true
}
