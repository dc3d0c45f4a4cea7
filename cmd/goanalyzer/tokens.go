package main

import (
	"fmt"
	"os"

	apperrors "github.com/orizon-lang/goanalyzer/internal/errors"
	"github.com/orizon-lang/goanalyzer/internal/lexer"
)

// runTokens prints the lexical listing of a single file.
func runTokens(e env, args []string) error {
	fs, c := newFlagSet(e, "tokens")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, _, err := c.setup(e); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one file, got %d", fs.NArg())
	}

	name := fs.Arg(0)
	data, err := os.ReadFile(name)
	if err != nil {
		return apperrors.ReadFailure(name, err)
	}

	tokens, diags := lexer.Tokenize(string(data))
	for _, tok := range tokens {
		if tok.Type == lexer.TokenEOF {
			break
		}
		fmt.Fprintln(e.stdout, tok)
	}
	fmt.Fprintf(e.stdout, "\n%d tokens\n", len(tokens)-1)
	if len(diags) == 0 {
		return nil
	}
	fmt.Fprintln(e.stdout, "\nLEXICAL ERRORS")
	for _, d := range diags {
		fmt.Fprintf(e.stdout, "✗ %s\n", d.Message)
	}
	return errFailed
}
