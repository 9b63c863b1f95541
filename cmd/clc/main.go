package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pborman/getopt"
	"github.com/rs/zerolog/log"

	"go.clc.dev/internal/prettyprint"
	clc "go.clc.dev/pkg"
)

func main() {
	var (
		showTokens bool
		forceColor bool
		quiet      bool
	)

	getopt.BoolVarLong(&showTokens, "tokens", 0, "dump the raw token stream instead of parsing")
	getopt.BoolVarLong(&forceColor, "color", 0, "force colorized tree output")
	getopt.BoolVarLong(&quiet, "quiet", 0, "suppress the informational banner")
	getopt.SetParameters("SOURCE")

	getopt.Parse()

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(2)
	}

	path := args[0]

	if !quiet {
		prettyprint.Banner(os.Stdout, fmt.Sprintf("clc: parsing %s", path), forceColor)
	}

	lexer, err := clc.NewLexerFromFile(path)
	if err != nil {
		log.Error().Str("path", path).Err(err).Msg("cannot open source file")
		prettyprint.Error(os.Stderr, err, forceColor)
		os.Exit(1)
	}

	if showTokens {
		runTokenDump(lexer, forceColor)
		return
	}

	parser := clc.NewParser(lexer)

	tree, err := parser.Parse()
	if err != nil {
		logFatal(err)
		prettyprint.Error(os.Stderr, err, forceColor)
		os.Exit(1)
	}

	prettyprint.Tree(os.Stdout, tree, forceColor)
}

func runTokenDump(lexer *clc.Lexer, forceColor bool) {
	for {
		ti, err := lexer.Next()
		if err != nil {
			if errors.Is(err, clc.ErrEndOfFile) {
				return
			}

			logFatal(err)
			prettyprint.Error(os.Stderr, err, forceColor)
			os.Exit(1)
		}

		fmt.Printf("%d:%d %s\n", ti.Line, ti.Column, ti.Token)
	}
}

func logFatal(err error) {
	event := log.Error()

	var unexpected *clc.UnexpectedTokenError
	if errors.As(err, &unexpected) {
		event = event.Str("expected", unexpected.Expected).Str("actual", unexpected.Actual)
	}

	event.Err(err).Msg("parse failed")
}
