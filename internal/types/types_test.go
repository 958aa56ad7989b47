package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interning law: two independently constructed FunctionTypes with equal
// parameter labels, parameter types, and codomain (and equal placeholder
// lists) are the same pointer.
func TestFunctionTypeInterningLaw(t *testing.T) {
	ctx := NewCompilerContext()
	intT := ctx.GetBuiltinType(IntName)
	boolT := ctx.GetBuiltinType(BoolName)

	a := ctx.GetFunctionType([]FuncParam{{Label: "x", Type: intT}}, boolT, nil)
	b := ctx.GetFunctionType([]FuncParam{{Label: "x", Type: intT}}, boolT, nil)
	assert.Same(t, a, b)

	// A different codomain must not collide.
	c := ctx.GetFunctionType([]FuncParam{{Label: "x", Type: intT}}, intT, nil)
	assert.NotSame(t, a, c)
}

func TestBuiltinTypeIdentity(t *testing.T) {
	ctx := NewCompilerContext()
	assert.Same(t, ctx.GetBuiltinType(IntName), ctx.GetBuiltinType(IntName))
}

func TestNominalTypeIdentityKeyedByDecl(t *testing.T) {
	ctx := NewCompilerContext()
	var declA, declB int
	a1 := ctx.GetNominalType(&declA, "Box", nil, []string{"T"})
	a2 := ctx.GetNominalType(&declA, "Box", nil, []string{"T"})
	b := ctx.GetNominalType(&declB, "Box", nil, []string{"T"})
	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
}

func TestTypeVariablesAreNeverInternedAndIDsAreMonotonic(t *testing.T) {
	ctx := NewCompilerContext()
	v1 := ctx.NewTypeVariable()
	v2 := ctx.NewTypeVariable()
	assert.NotSame(t, v1, v2)
	assert.Less(t, v1.ID, v2.ID)
}

func TestBoundGenericInterningLaw(t *testing.T) {
	ctx := NewCompilerContext()
	var decl int
	nom := ctx.GetNominalType(&decl, "Box", nil, []string{"T"})
	intT := ctx.GetBuiltinType(IntName)

	a := ctx.GetBoundGeneric(nom, map[string]Type{"T": intT})
	b := ctx.GetBoundGeneric(nom, map[string]Type{"T": intT})
	assert.Same(t, a, b)
}

func TestMetatypeInterningLaw(t *testing.T) {
	ctx := NewCompilerContext()
	a := ctx.GetMetatype(ctx.GetBuiltinType(IntName))
	b := ctx.GetMetatype(ctx.GetBuiltinType(IntName))
	assert.Same(t, a, b)
}

func TestErrorTypeAbsorbsUnderEquals(t *testing.T) {
	assert.True(t, TheErrorType.Equals(TheErrorType))
	assert.True(t, TheErrorType.Equals(&ErrorType{}))
}

func TestPlaceholderGetUnboundPlaceholdersIsSelf(t *testing.T) {
	owner := struct{}{}
	p := &PlaceholderType{Name: "T", Owner: &owner}
	free := GetUnboundPlaceholders(p)
	assert.Equal(t, map[string]bool{"T": true}, free)
}

func TestBoundGenericSubtractsBoundKeysFromUnbound(t *testing.T) {
	var decl int
	nom := &NominalType{Name: "Pair", Decl: &decl, Placeholders: []string{"T", "U"}}
	bg := &BoundGenericType{Underlying: nom, Bindings: map[string]Type{"T": &BuiltinType{Name: IntName}}}
	assert.Equal(t, map[string]bool{"U": true}, bg.GetUnboundPlaceholders())
}

// Open/close round trip: opening a FunctionType with fresh variables, then
// closing with the inverse bindings, yields a type structurally equal to
// the original.
func TestOpenCloseRoundTripOnFunctionType(t *testing.T) {
	ctx := NewCompilerContext()
	var decl int
	intT := ctx.GetBuiltinType(IntName)
	ownerKey := &decl
	ph := ctx.GetPlaceholder("T", ownerKey)

	original := ctx.GetFunctionType([]FuncParam{{Label: "x", Type: ph}}, ph, []string{"T"})

	opened := ctx.Open(original, nil).(*FunctionType)
	require.Len(t, opened.Params, 1)
	freshVar, ok := opened.Params[0].Type.(*TypeVariable)
	require.True(t, ok)
	assert.Same(t, freshVar, opened.Codomain)

	closed := ctx.Close(original, map[string]Type{"T": intT})
	closedFn, ok := closed.(*FunctionType)
	require.True(t, ok)
	assert.True(t, closedFn.Params[0].Type.Equals(intT))
	assert.True(t, closedFn.Codomain.Equals(intT))
}

func TestOpenNominalWrapsRatherThanRecurses(t *testing.T) {
	ctx := NewCompilerContext()
	var decl int
	nom := ctx.GetNominalType(&decl, "Box", nil, []string{"T"})

	opened := ctx.Open(nom, nil)
	boxed, ok := opened.(*OpenedNominalType)
	require.True(t, ok)
	assert.Same(t, nom, boxed.Underlying)
	_, hasT := boxed.FreshVars["T"]
	assert.True(t, hasT)
}

func TestCloseWrapsNominalInBoundGenericRatherThanReifying(t *testing.T) {
	ctx := NewCompilerContext()
	var decl int
	nom := ctx.GetNominalType(&decl, "Box", nil, []string{"T"})
	intT := ctx.GetBuiltinType(IntName)

	closed := ctx.Close(nom, map[string]Type{"T": intT})
	bg, ok := closed.(*BoundGenericType)
	require.True(t, ok)
	assert.Same(t, nom, bg.Underlying)
	assert.True(t, bg.Bindings["T"].Equals(intT))
}

func TestQualifierSetValidation(t *testing.T) {
	ctx := NewCompilerContext()
	valid := QualifierSet(0).With(Cst).With(Stk).With(Val)
	invalid := QualifierSet(0).With(Cst).With(Shd)
	assert.True(t, ctx.IsValidQualifierSet(valid))
	assert.False(t, ctx.IsValidQualifierSet(invalid))
}

func TestParseQualifierSetIgnoresUnknownNames(t *testing.T) {
	q := ParseQualifierSet([]string{"mut", "ref", "bogus"})
	assert.True(t, q.Has(Mut))
	assert.True(t, q.Has(Ref))
	assert.False(t, q.Has(Val))
}

func TestUnqualifyStripsWrapperAndIsNoOpOtherwise(t *testing.T) {
	ctx := NewCompilerContext()
	intT := ctx.GetBuiltinType(IntName)
	q := ctx.GetQualified(intT, QualifierSet(0).With(Mut).With(Val))
	inner, qualifiers := Unqualify(q)
	assert.Same(t, intT, inner)
	assert.True(t, qualifiers.Has(Mut))

	plainInner, plainQual := Unqualify(intT)
	assert.Same(t, intT, plainInner)
	assert.Zero(t, plainQual)
}

func TestGetQualifiedWithEmptySetReturnsInnerUnwrapped(t *testing.T) {
	ctx := NewCompilerContext()
	intT := ctx.GetBuiltinType(IntName)
	assert.Same(t, intT, ctx.GetQualified(intT, 0))
}

func TestFunctionTypeEqualsIgnoresIncomparableFieldOrder(t *testing.T) {
	// go-cmp over the exported fields of two structurally-equal function
	// types, confirming Equals and reflective structural comparison agree.
	ctx := NewCompilerContext()
	intT := ctx.GetBuiltinType(IntName)
	boolT := ctx.GetBuiltinType(BoolName)
	a := &FunctionType{Params: []FuncParam{{Label: "x", Type: intT}}, Codomain: boolT}
	b := &FunctionType{Params: []FuncParam{{Label: "x", Type: intT}}, Codomain: boolT}
	assert.True(t, a.Equals(b))
	diff := cmp.Diff(a, b)
	assert.Empty(t, diff)
}
