package diagnostic

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Renderer writes human-readable diagnostics to an io.Writer, colorizing
// only when the writer is a terminal.
type Renderer struct {
	w      io.Writer
	colors bool
}

// NewRenderer creates a Renderer for w, auto-detecting color support when w
// is *os.File by checking isatty; other writers (files, buffers) get plain
// text.
func NewRenderer(w io.Writer) *Renderer {
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{w: w, colors: colors}
}

// Render writes one report as a single diagnostic block.
func (rd *Renderer) Render(r *Report) {
	if rd.colors {
		fmt.Fprintf(rd.w, "%s %s: %s\n", red("error["+r.Code+"]"), cyan(posString(r)), r.Message)
	} else {
		fmt.Fprintf(rd.w, "error[%s] %s: %s\n", r.Code, posString(r), r.Message)
	}
	if r.Suggestion != "" {
		if rd.colors {
			fmt.Fprintf(rd.w, "  %s %s\n", yellow("help:"), r.Suggestion)
		} else {
			fmt.Fprintf(rd.w, "  help: %s\n", r.Suggestion)
		}
	}
	if rd.colors {
		fmt.Fprintf(rd.w, "  %s\n", dim(r.Phase))
	}
}

// RenderAll writes every report in sink, in order.
func (rd *Renderer) RenderAll(sink *Sink) {
	for _, r := range sink.All() {
		rd.Render(r)
	}
}

func posString(r *Report) string {
	if r.Pos == nil {
		return "<unknown>"
	}
	return r.Pos.String()
}
