package constraintgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/binder"
	"github.com/nodalang/semcore/internal/constraint"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
	"github.com/nodalang/semcore/internal/parser"
	"github.com/nodalang/semcore/internal/solver"
	"github.com/nodalang/semcore/internal/types"
)

func parseBindGenerate(t *testing.T, src string) (*ast.File, *constraint.Set, *types.CompilerContext, *diagnostic.Sink) {
	t.Helper()
	sink := diagnostic.NewSink()
	p := parser.New(lexer.New(src, "test.sc"), sink)
	file := p.ParseFile("test.sc")
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.All())

	ctx := types.NewCompilerContext()
	b := binder.New(ctx, sink)
	b.Bind(file)
	require.False(t, sink.HasErrors(), "bind errors: %v", sink.All())

	set := constraint.NewSet()
	New(ctx, set, sink).Generate(file)
	return file, set, ctx, sink
}

// A monomorphic call site emits an Equality constraint directly — no
// Disjunction is needed since there is only one candidate declaration.
func TestGenerateMonomorphicCallEmitsDirectEquality(t *testing.T) {
	_, set, _, sink := parseBindGenerate(t, `
		fun mono(x: Int) -> Int { x }
		fun use() -> Int { mono(x: 0) }
	`)
	require.False(t, sink.HasErrors())

	found := false
	for _, c := range set.All() {
		if c.Kind == constraint.KindEquality {
			if _, ok := c.U.(*types.FunctionType); ok {
				found = true
			}
		}
	}
	assert.True(t, found, "expected an Equality constraint binding the call's Ident to a FunctionType")
}

// Two overloaded declarations produce a Disjunction at the identifier, one
// branch per candidate.
func TestGenerateOverloadedCallEmitsDisjunction(t *testing.T) {
	_, set, _, sink := parseBindGenerate(t, `
		fun over(x: Int) -> Int { x }
		fun over(x: Bool) -> Bool { x }
		fun use() -> Int { over(x: 0) }
	`)
	require.False(t, sink.HasErrors())

	found := false
	for _, c := range set.All() {
		if c.Kind == constraint.KindDisjunction && len(c.Branches) == 2 {
			found = true
		}
	}
	assert.True(t, found, "expected a 2-branch Disjunction for the overloaded identifier")
}

// Two references to the same generic function instantiate independently:
// each genIdent call opens fresh type variables, so the two call sites'
// Equality constraints name distinct FunctionType instances.
func TestGenerateGenericReferencesInstantiateIndependently(t *testing.T) {
	_, set, _, sink := parseBindGenerate(t, `
		fun poly[T](x: T) -> T { x }
		fun useA() -> Int { poly(x: 0) }
		fun useB() -> Bool { poly(x: true) }
	`)
	require.False(t, sink.HasErrors())

	var opened []*types.FunctionType
	for _, c := range set.All() {
		if c.Kind == constraint.KindEquality {
			if ft, ok := c.U.(*types.FunctionType); ok {
				opened = append(opened, ft)
			}
		}
	}
	require.Len(t, opened, 2)
	assert.NotSame(t, opened[0], opened[1])
}

// An explicit specialization constrains the opened placeholder's fresh
// variable to the resolved annotation via an ordinary Equality constraint,
// which the solver then treats exactly like any other binding.
func TestGenerateExplicitSpecializationEmitsEqualityToResolvedType(t *testing.T) {
	file, set, ctx, sink := parseBindGenerate(t, `
		fun poly[T](x: T) -> T { x }
		fun use() -> Bool { poly[T: Bool](x: true) }
	`)
	require.False(t, sink.HasErrors())

	useFn := file.Decls[1].(*ast.FunDecl)
	call := useFn.Body.(*ast.BlockExpr).Tail.(*ast.CallExpr)
	ident := call.Func.(*ast.Ident)
	require.NotNil(t, ident.Specializations)

	subst, ok := solver.New(ctx, sink, 0).Solve(set)
	require.True(t, ok, "%v", sink.All())

	boolT := ctx.GetBuiltinType(types.BoolName)

	reified := subst.Reify(ident.TypeSlot().Type().(types.Type))
	tv, isVar := reified.(*types.TypeVariable)
	require.False(t, isVar, "expected the call-site identifier's type to resolve past its own variable, got %v", tv)
	ft, ok := reified.(*types.FunctionType)
	require.True(t, ok, "expected a FunctionType, got %T", reified)
	assert.True(t, ft.Params[0].Type.Equals(boolT))
	assert.True(t, ft.Codomain.Equals(boolT))
}

// Specializing a placeholder the function does not declare raises RES002
// instead of silently ignoring the mistake.
func TestGenerateSpecializationOfUnknownPlaceholderRaisesRES002(t *testing.T) {
	_, _, _, sink := parseBindGenerate(t, `
		fun mono(x: Int) -> Int { x }
		fun use() -> Int { mono[U: Int](x: 0) }
	`)
	found := false
	for _, r := range sink.All() {
		if r.Code == diagnostic.RES002 {
			found = true
		}
	}
	assert.True(t, found, "expected RES002 for a specialization naming a placeholder the callee doesn't declare")
}
