package types

// SubstitutionTable is the solver's output: a map from TypeVariable to
// Type, implemented as union-find with path compression.
// It is append-only while a solver pass is running and is
// snapshot-restorable so the solver can back out of a failed disjunction
// branch.
type SubstitutionTable struct {
	ctx      *CompilerContext
	bindings map[uint64]Type
}

// NewSubstitutionTable creates an empty table bound to ctx (needed so
// Reify can re-intern composite results through the same tables every
// other type in the compilation was interned into).
func NewSubstitutionTable(ctx *CompilerContext) *SubstitutionTable {
	return &SubstitutionTable{ctx: ctx, bindings: make(map[uint64]Type)}
}

// Walk follows chained substitutions for a TypeVariable to its root,
// compressing the path it traversed. Non-variable types are returned
// unchanged.
func (s *SubstitutionTable) Walk(t Type) Type {
	v, ok := t.(*TypeVariable)
	if !ok {
		return t
	}
	var visited []uint64
	cur := v
	for {
		next, bound := s.bindings[cur.ID]
		if !bound {
			break
		}
		visited = append(visited, cur.ID)
		nextVar, isVar := next.(*TypeVariable)
		if !isVar {
			for _, id := range visited {
				s.bindings[id] = next
			}
			return next
		}
		if nextVar.ID == cur.ID {
			break // defensive: a variable bound to itself terminates
		}
		cur = nextVar
	}
	for _, id := range visited {
		if id != cur.ID {
			s.bindings[id] = cur
		}
	}
	return cur
}

// Bind records v := t. Callers are responsible for having already run the
// occurs check.
func (s *SubstitutionTable) Bind(v *TypeVariable, t Type) {
	s.bindings[v.ID] = t
}

// Snapshot captures the table's current state for later Restore, used when
// the solver forks over a Disjunction constraint.
func (s *SubstitutionTable) Snapshot() map[uint64]Type {
	cp := make(map[uint64]Type, len(s.bindings))
	for k, v := range s.bindings {
		cp[k] = v
	}
	return cp
}

// Restore replaces the table's bindings with a previously captured
// snapshot, discarding everything bound since.
func (s *SubstitutionTable) Restore(snap map[uint64]Type) {
	s.bindings = snap
}

// Occurs reports whether v occurs free in t, after walking t through the
// current substitution.
func (s *SubstitutionTable) Occurs(v *TypeVariable, t Type) bool {
	t = s.Walk(t)
	switch t := t.(type) {
	case *TypeVariable:
		return t.ID == v.ID
	case *FunctionType:
		for _, p := range t.Params {
			if s.Occurs(v, p.Type) {
				return true
			}
		}
		return s.Occurs(v, t.Codomain)
	case *BoundGenericType:
		if s.Occurs(v, t.Underlying) {
			return true
		}
		for _, bv := range t.Bindings {
			if s.Occurs(v, bv) {
				return true
			}
		}
		return false
	case *OpenedNominalType:
		for _, fv := range t.FreshVars {
			if fv.ID == v.ID {
				return true
			}
		}
		return false
	case *Metatype:
		return s.Occurs(v, t.Underlying)
	case *QualifiedType:
		return s.Occurs(v, t.Inner)
	default:
		return false
	}
}

// Reify walks t to a fixed point and recursively substitutes inside
// composite types, producing a type with no remaining TypeVariable.
// Composite results are re-interned through ctx so identity comparisons
// keep holding after reification.
func (s *SubstitutionTable) Reify(t Type) Type {
	t = s.Walk(t)
	switch t := t.(type) {
	case *FunctionType:
		params := make([]FuncParam, len(t.Params))
		for i, p := range t.Params {
			params[i] = FuncParam{Label: p.Label, Type: s.Reify(p.Type)}
		}
		return s.ctx.GetFunctionType(params, s.Reify(t.Codomain), t.Placeholders)

	case *BoundGenericType:
		newBindings := make(map[string]Type, len(t.Bindings))
		for k, v := range t.Bindings {
			newBindings[k] = s.Reify(v)
		}
		return s.ctx.GetBoundGeneric(s.Reify(t.Underlying), newBindings)

	case *OpenedNominalType:
		bound := make(map[string]Type, len(t.FreshVars))
		for p, v := range t.FreshVars {
			bound[p] = s.Reify(v)
		}
		return s.ctx.GetBoundGeneric(t.Underlying, bound)

	case *Metatype:
		return s.ctx.GetMetatype(s.Reify(t.Underlying))

	case *QualifiedType:
		return s.ctx.GetQualified(s.Reify(t.Inner), t.Qualifiers)

	case *TypeVariable:
		// Still unresolved after walking: reification cannot produce a
		// concrete type. Callers (the dispatcher) treat this as an error.
		return t

	default:
		return t
	}
}
