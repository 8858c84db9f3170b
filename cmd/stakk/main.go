package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/interp"
	"github.com/npillmayer/stakk/stakklang"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// main() runs a stakk program given on the command line, or starts an
// interactive REPL. Please refer to the package documentation for a list of
// sub-commands and flags.
func main() {
	initDisplay()
	if err := newApp().Run(os.Args); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var conf settings
	return &cli.App{
		Name:      "stakk",
		Usage:     "run programs of the stack language stakk",
		ArgsUsage: "[FILE|SOURCE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "trace",
				Usage:       "trace level [Debug|Info|Error]",
				Destination: &conf.traceLevel,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "YAML configuration `FILE`",
				Destination: &conf.configFile,
			},
		},
		Before: func(c *cli.Context) error {
			_, err := setupConfiguration(conf)
			return err
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return startREPL()
			}
			return runProgram(c.Args().First())
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a program file or source text",
				ArgsUsage: "FILE|SOURCE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("run expects a program file or source text")
					}
					return runProgram(c.Args().First())
				},
			},
			{
				Name:  "repl",
				Usage: "start an interactive session",
				Action: func(c *cli.Context) error {
					return startREPL()
				},
			},
			{
				Name:      "tokens",
				Usage:     "dump the tokens of a program file or source text",
				ArgsUsage: "FILE|SOURCE",
				Action: func(c *cli.Context) error {
					return dumpTokens(os.Stdout, c.Args().First())
				},
			},
			{
				Name:      "ast",
				Usage:     "display the syntax tree of a program file or source text",
				ArgsUsage: "FILE|SOURCE",
				Action: func(c *cli.Context) error {
					return showAST(c.Args().First())
				},
			},
			{
				Name:  "grammar",
				Usage: "print the grammar of the language",
				Action: func(c *cli.Context) error {
					return printGrammar(os.Stdout)
				},
			},
		},
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// reportError writes a diagnostic to stderr. With tracing at debug level,
// the stack trace of the error's origin is traced as well.
func reportError(err error) {
	fmt.Fprintln(os.Stderr, pterm.Error.Sprint(err.Error()))
	if tracer().GetTraceLevel() >= tracing.LevelDebug {
		tracer().Debugf("%s", tracerr.Sprint(err))
	}
}

// runProgram runs a program file, or source text given in place of a file
// name, with stdin and stdout connected. Halting is not an error.
func runProgram(arg string) error {
	return runWith(arg, os.Stdin, os.Stdout)
}

func runWith(arg string, in *os.File, out io.Writer) error {
	src := interp.NewReaderSource(in)
	intp := interp.New(
		interp.WithLineSource(src),
		interp.WithKeySource(newTerminalKeys(src, in)),
		interp.WithOutput(out),
	)
	_, err := intp.EvalSource(interp.SourceText(arg))
	if stakk.IsHalt(err) {
		tracer().Infof("program halted")
		return nil
	}
	return err
}

// tokenDump is the representation of a token for dumps.
type tokenDump struct {
	Type   string
	Lexeme string
	Value  interface{}
	Pos    string
}

// dumpTokens lexes a program file or source text and dumps the tokens.
func dumpTokens(w io.Writer, arg string) error {
	tokens, err := stakklang.Lex(interp.SourceText(arg))
	if err != nil {
		return err
	}
	dump := make([]tokenDump, len(tokens))
	for i, t := range tokens {
		dump[i] = tokenDump{
			Type:   stakklang.TokenName(t.TokType()),
			Lexeme: t.Lexeme(),
			Value:  t.Value(),
			Pos:    stakklang.TokenPos(t).String(),
		}
	}
	repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(dump)
	return nil
}

// showAST parses a program file or source text and renders the syntax tree.
func showAST(arg string) error {
	prog, err := stakklang.Parse(interp.SourceText(arg))
	if err != nil {
		return err
	}
	ll := leveledNodes(prog, pterm.LeveledList{}, 0)
	tracer().Debugf("|ll| = %d", len(ll))
	root := pterm.NewTreeFromLeveledList(ll)
	return pterm.DefaultTree.WithRoot(root).Render()
}

func leveledNodes(n stakklang.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  stakklang.Label(n),
	})
	for _, ch := range stakklang.Children(n) {
		ll = leveledNodes(ch, ll, level+1)
	}
	return ll
}

// printGrammar prints the grammar of the language, after verifying it.
func printGrammar(w io.Writer) error {
	if err := stakklang.VerifyGrammar(); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, stakklang.GrammarEBNF)
	return err
}
