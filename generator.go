// Package lexpar is the orchestrator: given a set of named lexical rules
// and a grammar, it builds a scanner and an ACTION/GOTO table and hands
// back a Generated artifact ready to drive Parse.
package lexpar

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dekarrin/lexpar/grammar"
	"github.com/dekarrin/lexpar/lex"
	"github.com/dekarrin/lexpar/parse"
)

// TableMode selects which LR table construction the generator runs.
type TableMode string

const (
	TableSLR1  TableMode = "slr1"
	TableLALR1 TableMode = "lalr1"
)

// GeneratorOptions are the generator's own construction knobs, distinct
// from the (non-goal) declarative rule/grammar file formats: which table
// construction to run, whether to tolerate shift/reduce ambiguity by
// preferring shift, and a fixed-point iteration cap. IterationCap is decoded
// like the other fields, but Generate does not pass it on: lex.Compile
// always runs the regex position-function computation with its
// size-derived default cap.
type GeneratorOptions struct {
	TableMode      TableMode `toml:"table_mode"`
	AllowAmbiguity bool      `toml:"allow_ambiguity"`
	IterationCap   int       `toml:"iteration_cap"`
}

func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{TableMode: TableLALR1}
}

// LoadGeneratorOptions decodes a TOML options file, applying
// DefaultOptions for any field the file omits.
func LoadGeneratorOptions(path string) (GeneratorOptions, error) {
	opts := DefaultOptions()
	_, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return GeneratorOptions{}, fmt.Errorf("loading generator options: %w", err)
	}
	return opts, nil
}

// Generated is the result of a successful generator run: a compiled
// scanner, an ACTION/GOTO table, and identifying/summary metadata.
type Generated struct {
	ID      uuid.UUID
	Lexer   *lex.Driver
	Table   *parse.Table
	Summary string

	// AmbiguityWarnings lists every shift/reduce conflict the table
	// builder resolved in favour of shift; empty unless AllowAmbiguity
	// was set and at least one conflict was found.
	AmbiguityWarnings []string
}

// Generate compiles rules into a scanner and g into a parse table
// according to opts, and stamps the result with a fresh identity.
func Generate(rules []lex.Rule, g *grammar.Grammar, opts GeneratorOptions) (*Generated, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grammar: %w", err)
	}

	lexer, err := lex.Compile(rules)
	if err != nil {
		return nil, fmt.Errorf("compiling lexer: %w", err)
	}

	var table *parse.Table
	var warns []string
	switch opts.TableMode {
	case TableSLR1:
		table, warns, err = parse.BuildSLR(g, opts.AllowAmbiguity)
	default:
		table, warns, err = parse.BuildLALR(g, opts.AllowAmbiguity)
	}
	if err != nil {
		return nil, fmt.Errorf("building parse table: %w", err)
	}

	summary := fmt.Sprintf(
		"%s table: %s states, %s terminals, %s non-terminals",
		table.Mode,
		humanize.Comma(int64(table.StateCount)),
		humanize.Comma(int64(len(g.Terminals()))),
		humanize.Comma(int64(len(g.NonTerminals()))),
	)

	return &Generated{
		ID:                uuid.New(),
		Lexer:             lexer,
		Table:             table,
		Summary:           summary,
		AmbiguityWarnings: warns,
	}, nil
}
