// Package solver implements the worklist-driven unification engine that
// consumes a constraint.Set and produces a types.SubstitutionTable,
// forking over Disjunction constraints and deferring Member/Construction
// constraints whose owner type is not yet resolved.
package solver

import (
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/constraint"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

// DefaultMaxBranches is the maximum-explored-branches budget used when no
// project configuration overrides it.
const DefaultMaxBranches = 10000

// Solver runs one solving pass over a constraint set.
type Solver struct {
	ctx         *types.CompilerContext
	sink        *diagnostic.Sink
	subst       *types.SubstitutionTable
	maxBranches int
	branches    int

	lastFailCode string
	lastFailMsg  string

	// trialDepth is >0 while resolveDisjunction is exploring a branch.
	// fail/failStuck suppress diagnostics at this depth: only the branch
	// the solver ultimately commits to (or a disjunction whose every
	// branch failed) should be visible to the user.
	trialDepth int
}

// New creates a Solver sharing ctx's interning tables and raising
// diagnostics into sink. maxBranches <= 0 uses DefaultMaxBranches.
func New(ctx *types.CompilerContext, sink *diagnostic.Sink, maxBranches int) *Solver {
	if maxBranches <= 0 {
		maxBranches = DefaultMaxBranches
	}
	return &Solver{ctx: ctx, sink: sink, maxBranches: maxBranches}
}

type stepResult int

const (
	stepOK stepResult = iota
	stepDeferred
	stepFailed
	// stepAbort is stepFailed's unconditional sibling: it propagates past
	// run()'s top-level failure tolerance regardless of trialDepth. Only the
	// branch-budget-exceeded path uses it — there is no "next alternative"
	// to fall back to once the budget itself is gone.
	stepAbort
)

// Solve drains set, returning the resulting substitution table and whether
// solving succeeded (a false return means at least one diagnostic was
// raised while solving).
func (s *Solver) Solve(set *constraint.Set) (*types.SubstitutionTable, bool) {
	s.subst = types.NewSubstitutionTable(s.ctx)
	worklist := append([]*constraint.Constraint{}, set.All()...)
	before := len(s.sink.All())
	ok := s.run(worklist)
	return s.subst, ok && len(s.sink.All()) == before
}

func (s *Solver) run(worklist []*constraint.Constraint) bool {
	for {
		var deferred []*constraint.Constraint
		resolved := 0
		for len(worklist) > 0 {
			if s.branches > s.maxBranches {
				s.sink.Add(diagnostic.New(diagnostic.SLV006, ast.Pos{}, "type checking gave up: branch budget exceeded", nil))
				return false
			}
			c := worklist[0]
			worklist = worklist[1:]
			switch s.step(c, &worklist) {
			case stepOK:
				resolved++
			case stepDeferred:
				deferred = append(deferred, c)
			case stepFailed:
				// Inside a disjunction trial this constraint's failure must
				// reject the branch. At the top level the diagnostic is
				// already raised and the error already absorbed (see
				// localFailure) — nothing more to undo, so keep draining the
				// rest of the worklist rather than abandoning unrelated,
				// independent declarations.
				if s.trialDepth > 0 {
					return false
				}
				resolved++
			case stepAbort:
				return false
			}
		}
		if len(deferred) == 0 {
			return true
		}
		if resolved == 0 {
			for _, c := range deferred {
				s.failStuck(c)
			}
			return false
		}
		worklist = deferred
	}
}

func (s *Solver) step(c *constraint.Constraint, worklist *[]*constraint.Constraint) stepResult {
	switch c.Kind {
	case constraint.KindEquality:
		if s.unify(c.T, c.U) {
			return stepOK
		}
		s.fail(c, diagnostic.SLV001, "type mismatch")
		return s.localFailure(c.T, c.U)

	case constraint.KindConformance:
		if s.conform(c) {
			return stepOK
		}
		s.fail(c, diagnostic.SLV001, "value does not conform to the expected type")
		return s.localFailure(c.T, c.U)

	case constraint.KindMember:
		return s.resolveMember(c, worklist)

	case constraint.KindConstruction:
		return s.resolveConstruction(c, worklist)

	case constraint.KindDisjunction:
		return s.resolveDisjunction(c, worklist)

	default:
		return stepOK
	}
}

func (s *Solver) fail(c *constraint.Constraint, code, fallback string) {
	if s.trialDepth > 0 {
		s.lastFailCode, s.lastFailMsg = "", ""
		return
	}
	msg := s.lastFailMsg
	if msg == "" {
		msg = fallback
	}
	usedCode := code
	if s.lastFailCode != "" {
		usedCode = s.lastFailCode
	}
	pos := ast.Pos{}
	if c.Loc.Node != nil {
		pos = c.Loc.Node.Position()
	}
	s.sink.Add(diagnostic.New(usedCode, pos, msg, nil))
	s.lastFailCode, s.lastFailMsg = "", ""
}

// localFailure records that a single, non-disjunction constraint could not
// be satisfied. Inside a disjunction branch trial (trialDepth > 0) it must
// propagate as stepFailed so resolveDisjunction's caller backtracks to the
// next alternative. At the top level there is no alternative to backtrack
// into: the diagnostic is already raised, and per the absorbing ErrorType
// rule a single failure should not cascade, so any side of the constraint
// still a bare, unbound TypeVariable is pinned to ErrorType — giving
// downstream reification a concrete result instead of a dangling variable —
// and the rest of the worklist keeps draining.
func (s *Solver) localFailure(sides ...types.Type) stepResult {
	if s.trialDepth > 0 {
		return stepFailed
	}
	for _, side := range sides {
		if side == nil {
			continue
		}
		if tv, ok := s.subst.Walk(side).(*types.TypeVariable); ok {
			s.subst.Bind(tv, types.TheErrorType)
		}
	}
	return stepOK
}

func (s *Solver) failStuck(c *constraint.Constraint) {
	if s.trialDepth > 0 {
		return
	}
	pos := ast.Pos{}
	if c.Loc.Node != nil {
		pos = c.Loc.Node.Position()
	}
	code := diagnostic.SLV003
	if c.Kind == constraint.KindConstruction {
		code = diagnostic.SLV004
	}
	s.sink.Add(diagnostic.New(code, pos, "could not resolve the owner type to look up this member", nil))
}

// unify walks both sides through the current substitution, then either
// binds a free variable or decomposes structurally. Occurs-check failures
// and structural mismatches record a reason in s.lastFailCode/lastFailMsg
// for the caller to surface as a single diagnostic.
func (s *Solver) unify(t, u types.Type) bool {
	t = s.subst.Walk(t)
	u = s.subst.Walk(u)

	if _, ok := t.(*types.ErrorType); ok {
		return true
	}
	if _, ok := u.(*types.ErrorType); ok {
		return true
	}

	if tv, ok := t.(*types.TypeVariable); ok {
		if uv, ok2 := u.(*types.TypeVariable); ok2 && uv.ID == tv.ID {
			return true
		}
		if s.subst.Occurs(tv, u) {
			s.lastFailCode = diagnostic.SLV002
			s.lastFailMsg = fmt.Sprintf("%s occurs in %s", tv, u)
			return false
		}
		s.subst.Bind(tv, u)
		return true
	}
	if uv, ok := u.(*types.TypeVariable); ok {
		if s.subst.Occurs(uv, t) {
			s.lastFailCode = diagnostic.SLV002
			s.lastFailMsg = fmt.Sprintf("%s occurs in %s", uv, t)
			return false
		}
		s.subst.Bind(uv, t)
		return true
	}

	switch tt := t.(type) {
	case *types.BuiltinType:
		ub, ok := u.(*types.BuiltinType)
		return ok && ub.Name == tt.Name

	case *types.PlaceholderType:
		up, ok := u.(*types.PlaceholderType)
		return ok && tt.Equals(up)

	case *types.NominalType:
		un, ok := u.(*types.NominalType)
		return ok && tt.Equals(un)

	case *types.FunctionType:
		uf, ok := u.(*types.FunctionType)
		if !ok || len(uf.Params) != len(tt.Params) {
			return false
		}
		for i := range tt.Params {
			if tt.Params[i].Label != uf.Params[i].Label {
				return false
			}
			if !s.unify(tt.Params[i].Type, uf.Params[i].Type) {
				return false
			}
		}
		return s.unify(tt.Codomain, uf.Codomain)

	case *types.BoundGenericType:
		ub, ok := u.(*types.BoundGenericType)
		if !ok || len(ub.Bindings) != len(tt.Bindings) {
			return false
		}
		if !s.unify(tt.Underlying, ub.Underlying) {
			return false
		}
		for k, v := range tt.Bindings {
			ov, ok := ub.Bindings[k]
			if !ok || !s.unify(v, ov) {
				return false
			}
		}
		return true

	case *types.OpenedNominalType:
		uo, ok := u.(*types.OpenedNominalType)
		if !ok || uo.Underlying != tt.Underlying {
			return false
		}
		for k, v := range tt.FreshVars {
			ov, ok := uo.FreshVars[k]
			if !ok || !s.unify(v, ov) {
				return false
			}
		}
		return true

	case *types.Metatype:
		um, ok := u.(*types.Metatype)
		return ok && s.unify(tt.Underlying, um.Underlying)

	case *types.QualifiedType:
		uq, ok := u.(*types.QualifiedType)
		return ok && tt.Qualifiers == uq.Qualifiers && s.unify(tt.Inner, uq.Inner)

	default:
		return false
	}
}

// conform implements the Conformance(rvalue, lvalue) relation: attempt an
// unqualified unification of the two sides, falling back to the
// Anything/Nothing subtype rule; if a binding operator produced the
// constraint, additionally check its qualifier predicate (table 4.3.1).
func (s *Solver) conform(c *constraint.Constraint) bool {
	rInner, rQual := types.Unqualify(s.subst.Walk(c.T))
	lInner, lQual := types.Unqualify(s.subst.Walk(c.U))

	ok := s.unify(rInner, lInner)
	if !ok {
		rInner = s.subst.Walk(rInner)
		lInner = s.subst.Walk(lInner)
		if isAnything(lInner) || isNothing(rInner) {
			ok = true
		}
	}
	if !ok {
		return false
	}
	if !c.HasOp {
		return true
	}
	switch c.Op {
	case ast.OpCopy:
		return true
	case ast.OpMove:
		return rQual.Has(types.Val) && lQual.Has(types.Val)
	case ast.OpRef:
		return lQual.Has(types.Ref)
	default:
		return true
	}
}

func isAnything(t types.Type) bool {
	b, ok := t.(*types.BuiltinType)
	return ok && b.Name == types.AnythingName
}

func isNothing(t types.Type) bool {
	b, ok := t.(*types.BuiltinType)
	return ok && b.Name == types.NothingName
}

// isSelfCurried reports whether ft is the outer wrapper the constraint
// generator builds around a method/constructor/destructor's signature:
// `(self: Owner) -> (params...) -> codomain`.
func isSelfCurried(ft *types.FunctionType) bool {
	return len(ft.Params) == 1 && ft.Params[0].Label == "self"
}

// symType resolves a Symbol's semantic type, type-asserting the narrow
// ast.SemType view back into a concrete types.Type.
func symType(sym *ast.Symbol) (types.Type, bool) {
	st := sym.ResolvedType()
	if st == nil {
		return nil, false
	}
	t, ok := st.(types.Type)
	return t, ok
}

// ownerMemberInfo extracts the member-lookup scope (an opaque *ast.Scope)
// and the placeholder->type bindings in effect for owner, covering every
// shape a Member or Construction constraint's owner can take: a bare
// nominal (no generic context), a mid-inference opened nominal (fresh
// variables), a closed bound generic (concrete or partially-concrete
// bindings), a metatype (static access), or a builtin (operator methods).
func ownerMemberInfo(owner types.Type) (scope interface{}, bindings map[string]types.Type, ok bool) {
	switch t := owner.(type) {
	case *types.NominalType:
		return t.MemberScope, nil, true

	case *types.OpenedNominalType:
		b := make(map[string]types.Type, len(t.FreshVars))
		for k, v := range t.FreshVars {
			b[k] = v
		}
		return t.Underlying.MemberScope, b, true

	case *types.BoundGenericType:
		switch u := t.Underlying.(type) {
		case *types.NominalType:
			return u.MemberScope, t.Bindings, true
		case *types.OpenedNominalType:
			return u.Underlying.MemberScope, t.Bindings, true
		default:
			return nil, nil, false
		}

	case *types.Metatype:
		if nt, ok := t.Underlying.(*types.NominalType); ok {
			return nt.MemberScope, nil, true
		}
		return nil, nil, false

	case *types.BuiltinType:
		return t.MemberScope, nil, true

	default:
		return nil, nil, false
	}
}

// resolveMember implements constraint-kind Member: owner must have a member
// named c.Name whose type is unifiable with c.MemberType.
func (s *Solver) resolveMember(c *constraint.Constraint, worklist *[]*constraint.Constraint) stepResult {
	owner := s.subst.Walk(c.Owner)
	inner, _ := types.Unqualify(owner)

	if _, ok := inner.(*types.ErrorType); ok {
		return stepOK
	}
	if _, ok := inner.(*types.TypeVariable); ok {
		return stepDeferred
	}

	scope, bindings, ok := ownerMemberInfo(inner)
	if !ok {
		s.fail(c, diagnostic.SLV003, fmt.Sprintf("type %s has no members", owner))
		return s.localFailure(c.MemberType)
	}
	return s.resolveMemberOn(c, scope, bindings, worklist)
}

// resolveMemberOn looks up c.Name in scopeOpaque (an *ast.Scope, searched
// locally — member scopes do not chain to an enclosing lexical scope),
// opening each candidate's type through bindings (the owner's placeholder
// substitution, nil for a non-generic owner) and unwrapping the
// self-currying wrapper methods carry.
func (s *Solver) resolveMemberOn(c *constraint.Constraint, scopeOpaque interface{}, bindings map[string]types.Type, worklist *[]*constraint.Constraint) stepResult {
	scope, ok := scopeOpaque.(*ast.Scope)
	if !ok || scope == nil {
		s.fail(c, diagnostic.SLV003, fmt.Sprintf("no member named %q", c.Name))
		return s.localFailure(c.MemberType)
	}
	syms := scope.Local(c.Name)
	if len(syms) == 0 {
		s.fail(c, diagnostic.SLV003, fmt.Sprintf("no member named %q", c.Name))
		return s.localFailure(c.MemberType)
	}

	var candidates []types.Type
	for _, sym := range syms {
		t, ok := symType(sym)
		if !ok {
			continue
		}
		if ft, ok := t.(*types.FunctionType); ok && isSelfCurried(ft) {
			if inner, ok := ft.Codomain.(*types.FunctionType); ok {
				t = s.ctx.Open(inner, bindings)
			} else {
				t = s.ctx.Open(ft.Codomain, bindings)
			}
		} else {
			t = s.ctx.Open(t, bindings)
		}
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		s.fail(c, diagnostic.SLV003, fmt.Sprintf("no member named %q", c.Name))
		return s.localFailure(c.MemberType)
	}
	if len(candidates) == 1 {
		if s.unify(candidates[0], c.MemberType) {
			return stepOK
		}
		s.fail(c, diagnostic.SLV001, fmt.Sprintf("member %q has type %s, incompatible with %s", c.Name, candidates[0], c.MemberType))
		return s.localFailure(c.MemberType)
	}

	branches := make([]*constraint.Constraint, len(candidates))
	for i, cand := range candidates {
		branches[i] = constraint.Equality(cand, c.MemberType, c.Loc)
	}
	*worklist = append(*worklist, constraint.Disjunction(branches, c.Loc))
	return stepOK
}

// resolveConstruction implements constraint-kind Construction: callee must
// be a metatype of a nominal type with at least one "new" constructor whose
// (freshly opened) signature is unifiable with c.Fn.
func (s *Solver) resolveConstruction(c *constraint.Constraint, worklist *[]*constraint.Constraint) stepResult {
	callee := s.subst.Walk(c.Callee)
	inner, _ := types.Unqualify(callee)

	if _, ok := inner.(*types.ErrorType); ok {
		return stepOK
	}
	if _, ok := inner.(*types.TypeVariable); ok {
		return stepDeferred
	}

	mt, ok := inner.(*types.Metatype)
	if !ok {
		s.fail(c, diagnostic.SLV004, fmt.Sprintf("%s is not a constructible type", callee))
		return s.localFailure(c.Fn)
	}
	nt, ok := mt.Underlying.(*types.NominalType)
	if !ok {
		s.fail(c, diagnostic.SLV004, fmt.Sprintf("%s has no constructors", mt.Underlying))
		return s.localFailure(c.Fn)
	}
	scope, ok := nt.MemberScope.(*ast.Scope)
	if !ok || scope == nil {
		s.fail(c, diagnostic.SLV004, fmt.Sprintf("%s has no constructor", nt.Name))
		return s.localFailure(c.Fn)
	}
	ctors := scope.Local("new")
	if len(ctors) == 0 {
		s.fail(c, diagnostic.SLV004, fmt.Sprintf("%s has no constructor", nt.Name))
		return s.localFailure(c.Fn)
	}

	opened := s.ctx.OpenNominalType(nt)
	bindings := make(map[string]types.Type, len(opened.FreshVars))
	for k, v := range opened.FreshVars {
		bindings[k] = v
	}

	var openedResult types.Type = opened
	var candidates []types.Type
	for _, ctor := range ctors {
		t, ok := symType(ctor)
		if !ok {
			continue
		}
		ft, ok := t.(*types.FunctionType)
		if !ok {
			continue
		}
		innerFn := ft
		if isSelfCurried(ft) {
			innerFn, ok = ft.Codomain.(*types.FunctionType)
			if !ok {
				continue
			}
		}
		params := make([]types.FuncParam, len(innerFn.Params))
		for i, p := range innerFn.Params {
			params[i] = types.FuncParam{Label: p.Label, Type: s.ctx.Open(p.Type, bindings)}
		}
		candidates = append(candidates, s.ctx.GetFunctionType(params, openedResult, nil))
	}
	if len(candidates) == 0 {
		s.fail(c, diagnostic.SLV004, fmt.Sprintf("%s has no matching constructor", nt.Name))
		return s.localFailure(c.Fn)
	}
	if len(candidates) == 1 {
		if s.unify(candidates[0], c.Fn) {
			return stepOK
		}
		s.fail(c, diagnostic.SLV004, fmt.Sprintf("no constructor of %s matches this call", nt.Name))
		return s.localFailure(c.Fn)
	}

	branches := make([]*constraint.Constraint, len(candidates))
	for i, cand := range candidates {
		branches[i] = constraint.Equality(cand, c.Fn, c.Loc)
	}
	*worklist = append(*worklist, constraint.Disjunction(branches, c.Loc))
	return stepOK
}

// resolveDisjunction tries each branch in source order against a snapshot
// of the substitution, keeping the first that succeeds and restoring state
// between failed attempts (first viable branch wins, ties broken by source
// order). Diagnostics from failed trial branches never reach the sink —
// only the final "every branch failed" outcome does.
//
// A branch is tried together with the rest of the pending worklist, not in
// isolation: an overload-resolution branch (e.g. one arm of an Ident's own
// Disjunction over its overload set) can unify trivially on its own while
// still being the wrong choice once the call site's argument/codomain
// constraints further downstream are taken into account. Bundling the
// remaining worklist into the trial run lets those later constraints veto
// an otherwise-trivial branch and send the solver back to try the next one
// — true backtracking, not a greedy first-fit.
func (s *Solver) resolveDisjunction(c *constraint.Constraint, worklist *[]*constraint.Constraint) stepResult {
	rest := *worklist
	for _, branch := range c.Branches {
		s.branches++
		if s.branches > s.maxBranches {
			s.sink.Add(diagnostic.New(diagnostic.SLV006, ast.Pos{}, "type checking gave up: branch budget exceeded", nil))
			return stepAbort
		}
		snap := s.subst.Snapshot()
		trial := append([]*constraint.Constraint{branch}, rest...)
		s.trialDepth++
		ok := s.run(trial)
		s.trialDepth--
		if ok {
			*worklist = nil
			return stepOK
		}
		s.subst.Restore(snap)
	}
	s.fail(c, diagnostic.SLV005, "no alternative in this disjunction is satisfiable")
	return s.localFailure()
}
