package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/constraint"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

func loc() constraint.Location {
	return constraint.Location{Node: &ast.Literal{Pos: ast.Pos{File: "t", Line: 1}}, Anchor: constraint.AnchorRvalue}
}

func newSolver(ctx *types.CompilerContext) (*Solver, *diagnostic.Sink) {
	sink := diagnostic.NewSink()
	return New(ctx, sink, 0), sink
}

// Equality between two identical builtins unifies with no diagnostic.
func TestEqualityOfIdenticalBuiltinsSucceeds(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	set := constraint.NewSet()
	set.Add(constraint.Equality(ctx.GetBuiltinType(types.IntName), ctx.GetBuiltinType(types.IntName), loc()))
	_, ok := s.Solve(set)
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())
}

// A variable equated with Int reifies to Int.
func TestEqualityBindsVariableAndReifies(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	v := ctx.NewTypeVariable()
	intT := ctx.GetBuiltinType(types.IntName)
	set := constraint.NewSet()
	set.Add(constraint.Equality(v, intT, loc()))
	subst, ok := s.Solve(set)
	require.True(t, ok)
	assert.False(t, sink.HasErrors())
	assert.True(t, subst.Reify(v).Equals(intT))
}

// A member lookup that fails on a still-bare TypeVariable member type pins
// that variable to ErrorType rather than leaving it dangling.
func TestMemberMismatchRecordsDiagnosticAndAbsorbsAsError(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	memberScope := ast.NewScope(nil, ast.ScopeMembers)
	owner := &types.BuiltinType{Name: types.IntName, MemberScope: memberScope}
	memberT := ctx.NewTypeVariable()

	set := constraint.NewSet()
	set.Add(constraint.Member(owner, "noSuchMember", memberT, loc()))
	subst, ok := s.Solve(set)
	assert.False(t, ok)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diagnostic.SLV003, sink.All()[0].Code)
	_, isErr := subst.Reify(memberT).(*types.ErrorType)
	assert.True(t, isErr)
}

// A constraint that reuses an already-resolved variable on one side keeps
// that variable's earlier concrete binding after the later conflict fails —
// a single local error does not retroactively erase prior successful work.
func TestConflictingEqualityKeepsEarlierConcreteBinding(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	v := ctx.NewTypeVariable()
	intT := ctx.GetBuiltinType(types.IntName)
	boolT := ctx.GetBuiltinType(types.BoolName)

	set := constraint.NewSet()
	set.Add(constraint.Equality(v, intT, loc()))
	set.Add(constraint.Equality(v, boolT, loc()))
	subst, ok := s.Solve(set)
	assert.False(t, ok)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diagnostic.SLV001, sink.All()[0].Code)
	assert.True(t, subst.Reify(v).Equals(intT))
}

// Occurs-check: the solver never binds v to a type that contains v.
func TestOccursCheckRejectsSelfReferentialBinding(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	v := ctx.NewTypeVariable()
	fn := ctx.GetFunctionType([]FuncParamOf(v), v, nil)
	set := constraint.NewSet()
	set.Add(constraint.Equality(v, fn, loc()))
	_, ok := s.Solve(set)
	assert.False(t, ok)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diagnostic.SLV002, sink.All()[0].Code)
}

// FuncParamOf is a tiny helper building a single unlabeled FuncParam slice,
// avoiding an import of internal/types' unexported constructors from the
// test.
func FuncParamOf(t types.Type) []types.FuncParam {
	return []types.FuncParam{{Type: t}}
}

// ErrorType absorbs: unifying it with anything succeeds without binding.
func TestErrorTypeAbsorbsUnification(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	v := ctx.NewTypeVariable()
	set := constraint.NewSet()
	set.Add(constraint.Equality(v, types.TheErrorType, loc()))
	set.Add(constraint.Equality(v, ctx.GetBuiltinType(types.IntName), loc()))
	_, ok := s.Solve(set)
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())
}

// Disjunction determinism: the first viable branch wins, ties broken by
// source order, even when a later branch would also unify trivially on its
// own — the remainder of the worklist is bundled into the trial so a
// downstream constraint can veto an earlier branch.
func TestDisjunctionPicksFirstViableBranchInSourceOrder(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	v := ctx.NewTypeVariable()
	intT := ctx.GetBuiltinType(types.IntName)
	boolT := ctx.GetBuiltinType(types.BoolName)

	set := constraint.NewSet()
	set.Add(constraint.Disjunction([]*constraint.Constraint{
		constraint.Equality(v, intT, loc()),
		constraint.Equality(v, boolT, loc()),
	}, loc()))
	subst, ok := s.Solve(set)
	require.True(t, ok)
	assert.False(t, sink.HasErrors())
	assert.True(t, subst.Reify(v).Equals(intT))
}

// A downstream constraint vetoes an otherwise-trivial first branch, sending
// the solver back to the next alternative rather than committing greedily.
func TestDisjunctionBacktracksWhenLaterConstraintVetoesFirstBranch(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	v := ctx.NewTypeVariable()
	intT := ctx.GetBuiltinType(types.IntName)
	boolT := ctx.GetBuiltinType(types.BoolName)

	set := constraint.NewSet()
	set.Add(constraint.Disjunction([]*constraint.Constraint{
		constraint.Equality(v, intT, loc()),
		constraint.Equality(v, boolT, loc()),
	}, loc()))
	// This downstream constraint is only satisfiable if v == Bool.
	set.Add(constraint.Equality(v, boolT, loc()))

	subst, ok := s.Solve(set)
	require.True(t, ok)
	assert.False(t, sink.HasErrors())
	assert.True(t, subst.Reify(v).Equals(boolT))
}

// A Disjunction with no viable branch fails with a single diagnostic and
// absorbs the target into ErrorType.
func TestDisjunctionNoViableBranchFails(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	intT := ctx.GetBuiltinType(types.IntName)
	boolT := ctx.GetBuiltinType(types.BoolName)
	stringT := ctx.GetBuiltinType(types.StringName)

	set := constraint.NewSet()
	set.Add(constraint.Disjunction([]*constraint.Constraint{
		constraint.Equality(intT, boolT, loc()),
		constraint.Equality(intT, stringT, loc()),
	}, loc()))
	_, ok := s.Solve(set)
	assert.False(t, ok)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diagnostic.SLV005, sink.All()[0].Code)
}

// Conformance under `move` requires both sides to carry the val qualifier
// and the unqualified types to match.
func TestConformanceMoveRequiresValOnBothSides(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	intT := ctx.GetBuiltinType(types.IntName)
	rvalue := ctx.GetQualified(intT, types.QualifierSet(0).With(types.Cst).With(types.Stk).With(types.Val))
	lvalue := ctx.GetQualified(intT, types.QualifierSet(0).With(types.Mut).With(types.Stk).With(types.Val))

	set := constraint.NewSet()
	set.Add(constraint.ConformanceWithOp(rvalue, lvalue, ast.OpMove, loc()))
	_, ok := s.Solve(set)
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())
}

func TestConformanceMoveFailsWithoutValOnRvalue(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	intT := ctx.GetBuiltinType(types.IntName)
	rvalue := ctx.GetQualified(intT, types.QualifierSet(0).With(types.Cst).With(types.Stk).With(types.Ref))
	lvalue := ctx.GetQualified(intT, types.QualifierSet(0).With(types.Mut).With(types.Stk).With(types.Val))

	set := constraint.NewSet()
	set.Add(constraint.ConformanceWithOp(rvalue, lvalue, ast.OpMove, loc()))
	_, ok := s.Solve(set)
	assert.False(t, ok)
	require.Len(t, sink.All(), 1)
}

// Conformance permits the Anything/Nothing subtype rule outside any
// binding-operator context.
func TestConformancePermitsAnythingSubtyping(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	intT := ctx.GetBuiltinType(types.IntName)
	anything := ctx.GetBuiltinType(types.AnythingName)

	set := constraint.NewSet()
	set.Add(constraint.Conformance(intT, anything, loc()))
	_, ok := s.Solve(set)
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())
}

// A Member constraint on a still-unresolved owner variable defers rather
// than failing immediately, and only fails once the whole worklist stalls.
func TestMemberConstraintDefersOnUnresolvedOwnerThenFails(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	owner := ctx.NewTypeVariable()
	memberT := ctx.NewTypeVariable()

	set := constraint.NewSet()
	set.Add(constraint.Member(owner, "missing", memberT, loc()))
	_, ok := s.Solve(set)
	assert.False(t, ok)
	require.Len(t, sink.All(), 1)
	assert.Equal(t, diagnostic.SLV003, sink.All()[0].Code)
}

// A single local failure does not cascade: an unrelated, independent
// constraint in the same solve still succeeds.
func TestLocalFailureDoesNotCascadeToUnrelatedConstraints(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, sink := newSolver(ctx)
	bad := ctx.NewTypeVariable()
	good := ctx.NewTypeVariable()
	intT := ctx.GetBuiltinType(types.IntName)
	boolT := ctx.GetBuiltinType(types.BoolName)

	set := constraint.NewSet()
	set.Add(constraint.Equality(bad, intT, loc()))
	set.Add(constraint.Equality(bad, boolT, loc()))  // fails
	set.Add(constraint.Equality(good, intT, loc())) // unrelated, must still succeed

	subst, ok := s.Solve(set)
	assert.False(t, ok)
	require.Len(t, sink.All(), 1)
	assert.True(t, subst.Reify(good).Equals(intT))
}

// Reification is idempotent.
func TestReificationIsIdempotent(t *testing.T) {
	ctx := types.NewCompilerContext()
	s, _ := newSolver(ctx)
	v := ctx.NewTypeVariable()
	intT := ctx.GetBuiltinType(types.IntName)
	set := constraint.NewSet()
	set.Add(constraint.Equality(v, intT, loc()))
	subst, ok := s.Solve(set)
	require.True(t, ok)

	first := subst.Reify(v)
	second := subst.Reify(first)
	assert.Equal(t, first, second)
}

// The branch budget aborts with a dedicated diagnostic rather than hanging.
func TestBranchBudgetExceededAborts(t *testing.T) {
	ctx := types.NewCompilerContext()
	sink := diagnostic.NewSink()
	s := New(ctx, sink, 1)

	intT := ctx.GetBuiltinType(types.IntName)
	boolT := ctx.GetBuiltinType(types.BoolName)
	stringT := ctx.GetBuiltinType(types.StringName)
	v := ctx.NewTypeVariable()

	set := constraint.NewSet()
	// Nested disjunctions chew through the tiny branch budget.
	set.Add(constraint.Disjunction([]*constraint.Constraint{
		constraint.Disjunction([]*constraint.Constraint{
			constraint.Equality(v, intT, loc()),
			constraint.Equality(v, boolT, loc()),
		}, loc()),
		constraint.Equality(v, stringT, loc()),
	}, loc()))

	_, ok := s.Solve(set)
	assert.False(t, ok)
	require.NotEmpty(t, sink.All())
	assert.Equal(t, diagnostic.SLV006, sink.All()[len(sink.All())-1].Code)
}
