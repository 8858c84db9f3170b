package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/stakk"
	"github.com/npillmayer/stakk/interp"
	"github.com/npillmayer/stakk/runtime"
	"github.com/npillmayer/stakk/stakklang"
	"github.com/pterm/pterm"
)

// REPL is an interactive session. Every line entered is evaluated by the same
// interpreter, so bindings and the operand stack persist between lines.
// Lines starting with '//' are meta commands.
type REPL struct {
	intp   *interp.Interpreter
	rl     *readline.Instance
	prompt string
	done   bool
}

func startREPL() error {
	prompt := gconf.GetString("repl.prompt")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: gconf.GetString("repl.history"),
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	repl := &REPL{rl: rl, prompt: prompt}
	input := replInput{rl: rl, prompt: prompt}
	repl.intp = interp.New(
		interp.WithLineSource(input),
		interp.WithKeySource(input),
		interp.WithOutput(rl.Stdout()),
	)
	pterm.Info.Println("Welcome to stakk") // colored welcome message
	tracer().Infof("Quit with <ctrl>D or //quit")
	repl.loop()
	fmt.Fprintln(rl.Stdout(), "Good bye!")
	return nil
}

// loop reads and evaluates lines until end of input. Input is collected over
// several lines while it ends within a comment, string, block or list.
func (repl *REPL) loop() {
	var pending []string
	for !repl.done {
		line, err := repl.rl.Readline()
		if err == readline.ErrInterrupt {
			pending = pending[:0]
			repl.rl.SetPrompt(repl.prompt)
			continue
		} else if err != nil { // io.EOF
			break
		}
		if len(pending) == 0 {
			if line = strings.TrimSpace(line); line == "" {
				continue
			}
			if strings.HasPrefix(line, "//") {
				repl.meta(strings.Fields(line[2:]))
				continue
			}
		}
		pending = append(pending, line)
		source := strings.Join(pending, "\n")
		if incomplete(source) {
			repl.rl.SetPrompt(continuationPrompt(repl.prompt))
			continue
		}
		pending = pending[:0]
		repl.rl.SetPrompt(repl.prompt)
		repl.eval(source)
	}
}

// continuationPrompt is a row of dots as wide as prompt.
func continuationPrompt(prompt string) string {
	n := len(prompt) - 1
	if n < 0 {
		n = 0
	}
	return strings.Repeat(".", n) + " "
}

// incomplete is a predicate: does source end prematurely, in a way more
// input could fix?
func incomplete(source string) bool {
	_, err := stakklang.Parse(source)
	if e := stakk.AsError(err); e != nil {
		return e.Kind != stakk.RuntimeError && strings.HasPrefix(e.Msg, "unterminated")
	}
	return false
}

func (repl *REPL) eval(source string) {
	v, err := repl.intp.EvalSource(source)
	if stakk.IsHalt(err) {
		pterm.Info.Println("halted")
		repl.done = true
		return
	}
	if err != nil {
		reportError(err)
		return
	}
	pterm.Info.Println(runtime.Repr(v))
}

// meta executes a meta command.
func (repl *REPL) meta(args []string) {
	if len(args) == 0 {
		args = []string{"help"}
	}
	out := repl.rl.Stdout()
	switch args[0] {
	case "quit", "q":
		repl.done = true
	case "stack", "s":
		printStack(out, repl.intp.Machine())
	case "regs", "r":
		printRegisters(out, repl.intp.Machine())
	case "env", "e":
		printEnv(repl.intp.Globals())
	case "clear":
		repl.intp.Machine().Clear()
	case "load", "l":
		if len(args) != 2 {
			pterm.Error.Println("usage: //load FILE")
			return
		}
		if _, err := repl.intp.Run(args[1]); err != nil {
			if stakk.IsHalt(err) {
				repl.done = true
				return
			}
			reportError(err)
		}
	case "ast", "tokens":
		if len(args) < 2 {
			pterm.Error.Printf("usage: //%s FILE|SOURCE\n", args[0])
			return
		}
		arg := strings.Join(args[1:], " ")
		var err error
		if args[0] == "ast" {
			err = showAST(arg)
		} else {
			err = dumpTokens(out, arg)
		}
		if err != nil {
			reportError(err)
		}
	case "help", "h":
		fmt.Fprint(out, replHelp)
	default:
		pterm.Error.Printf("unknown command //%s\n", args[0])
	}
}

const replHelp = `Meta commands:
  //stack         show the operand stack, top first
  //regs          show the registers
  //env           show the global variables
  //clear         clear the stack and registers
  //load FILE     run a program file
  //ast SRC       display the syntax tree of a file or source text
  //tokens SRC    dump the tokens of a file or source text
  //quit          leave the REPL
`

func printStack(w io.Writer, m *runtime.StackMachine) {
	vals := m.Values()
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.FormatInt(v, 10)
	}
	fmt.Fprintf(w, "[%s] (%d)\n", strings.Join(strs, " "), len(vals))
}

func printRegisters(w io.Writer, m *runtime.StackMachine) {
	regs := m.Registers()
	if regs.ValueCount() == 0 {
		fmt.Fprintln(w, "no registers set")
		return
	}
	regs.Each(func(i, v int64) {
		fmt.Fprintf(w, "[%d] = %d\n", i, v)
	})
}

func printEnv(sc *runtime.Scope) {
	names := sc.Names()
	data := pterm.TableData{{"name", "type", "value"}}
	for _, name := range names {
		v := sc.Get(name)
		data = append(data, []string{name, runtime.TypeName(v.Type()), runtime.Repr(v)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// replInput reads program input from the REPL's line editor. Keystrokes are
// taken from the first character of a line.
type replInput struct {
	rl     *readline.Instance
	prompt string // prompt to restore after reading
}

func (in replInput) ReadLine() (string, error) {
	in.rl.SetPrompt("? ")
	defer in.rl.SetPrompt(in.prompt)
	return in.rl.Readline()
}

func (in replInput) ReadKey() (rune, error) {
	line, err := in.ReadLine()
	if err != nil {
		return 0, err
	}
	for _, r := range line {
		return r, nil
	}
	return '\n', nil
}
