// Package replcli implements an interactive read-eval-print loop driving
// the semcore pipeline (lex -> parse -> bind -> typecheck) one input at a
// time, with persistent readline history.
package replcli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/nodalang/semcore/internal/binder"
	"github.com/nodalang/semcore/internal/config"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
	"github.com/nodalang/semcore/internal/parser"
	"github.com/nodalang/semcore/internal/typecheck"
	"github.com/nodalang/semcore/internal/types"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// REPL holds the session's compiler context across inputs: types interned
// in one line (a struct declaration, say) stay interned for every line
// after it. Names do not carry over: each line is bound in a fresh scope,
// so a declaration on one line cannot be referenced from a later line.
type REPL struct {
	cfg         *config.Config
	ctx         *types.CompilerContext
	maxBranches int
	history     []string
}

// New creates a REPL from cfg, applying the same project overrides
// (qualifier_sets, max_branches) that cmd/semcore's "check" subcommand
// applies via cfg.Apply — so a semcore.yaml affects "semcore repl"
// identically to "semcore check". cfg may be config.Default().
func New(cfg *config.Config) *REPL {
	ctx := types.NewCompilerContext()
	cfg.Apply(ctx)
	return &REPL{cfg: cfg, ctx: ctx, maxBranches: cfg.ResolvedMaxBranches()}
}

// Start runs the prompt loop, reading lines from the terminal and writing
// to out, until EOF or :quit.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".semcore_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(out, bold("semcore"), dim("type-checker REPL"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		for _, cmd := range []string{":help", ":quit", ":reset", ":history"} {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("semcore> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.handleCommand(input, out)
			continue
		}

		r.checkLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) handleCommand(cmd string, out io.Writer) {
	switch cmd {
	case ":help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :help     show this message")
		fmt.Fprintln(out, "  :reset    discard all interned declarations")
		fmt.Fprintln(out, "  :history  show input history")
		fmt.Fprintln(out, "  :quit     exit the REPL")
	case ":reset":
		r.ctx = types.NewCompilerContext()
		r.cfg.Apply(r.ctx)
		fmt.Fprintln(out, dim("compiler context reset"))
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%4d  %s\n", i+1, h)
		}
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", red("error"), cmd)
	}
}

// checkLine runs the full lex/parse/bind/typecheck pipeline over one line
// of input and renders whatever diagnostics fall out.
func (r *REPL) checkLine(src string, out io.Writer) {
	l := lexer.New(src, "<repl>")
	sink := diagnostic.NewSink()
	p := parser.New(l, sink)
	file := p.ParseFile("<repl>")
	if sink.HasErrors() {
		diagnostic.NewRenderer(out).RenderAll(sink)
		return
	}

	b := binder.New(r.ctx, sink)
	b.Bind(file)
	if sink.HasErrors() {
		diagnostic.NewRenderer(out).RenderAll(sink)
		return
	}

	result := typecheck.TypeCheck(file, r.ctx, typecheck.Options{MaxBranches: r.maxBranches})
	rd := diagnostic.NewRenderer(out)
	for _, rep := range result.Diagnostics {
		rd.Render(rep)
	}
	if result.OK {
		fmt.Fprintln(out, green("ok"))
	}
}
