// Package typecheck wires the three passes of the semantic core —
// constraint generation, solving, and dispatch — into the single
// TypeCheck entrypoint a driver (the CLI, the REPL, a test) calls once a
// file has been lexed, parsed, and bound.
package typecheck

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/constraint"
	"github.com/nodalang/semcore/internal/constraintgen"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/dispatch"
	"github.com/nodalang/semcore/internal/solver"
	"github.com/nodalang/semcore/internal/types"
)

// Result is the outcome of type-checking one file: the file itself,
// mutated in place (every TypeCell reified, every overloaded Ident/Select
// dispatched to a Symbol), plus whatever diagnostics were raised along
// the way. OK is true only when Diagnostics is empty — a file with
// diagnostics is not safe for a downstream codegen pass to consume, even
// if dispatch ran to completion on the parts that did solve.
type Result struct {
	File        *ast.File
	Diagnostics []*diagnostic.Report
	OK          bool
}

// Options configures the passes TypeCheck runs. A zero Options is valid:
// MaxBranches <= 0 falls back to solver.DefaultMaxBranches.
type Options struct {
	MaxBranches int
}

// TypeCheck runs constraint generation, solving, and dispatch over file in
// sequence. Generation short-circuits the later passes: there is no point
// solving a constraint set built against unresolved names. Solving does
// not — a solver failure is, by construction, already isolated to the
// constraints it touched (see solver.Solver.localFailure), so the nodes it
// left alone still reify and dispatch normally. Running dispatch
// unconditionally is what makes a single ill-typed binding not cascade
// into every other declaration in the file.
func TypeCheck(file *ast.File, ctx *types.CompilerContext, opts Options) *Result {
	sink := diagnostic.NewSink()
	set := constraint.NewSet()

	gen := constraintgen.New(ctx, set, sink)
	gen.Generate(file)
	if sink.HasErrors() {
		return &Result{File: file, Diagnostics: sink.All(), OK: false}
	}

	sv := solver.New(ctx, sink, opts.MaxBranches)
	subst, _ := sv.Solve(set)

	disp := dispatch.New(ctx, subst, sink)
	disp.Dispatch(file)

	return &Result{File: file, Diagnostics: sink.All(), OK: !sink.HasErrors()}
}
