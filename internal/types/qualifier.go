package types

import "strings"

// Qualifier is a single bitflag modifying the memory/ownership semantics of
// a type.
type Qualifier uint8

const (
	Cst Qualifier = 1 << iota
	Mut
	Stk
	Shd
	Val
	Ref
)

// QualifierSet is a small bitset of Qualifier flags.
type QualifierSet uint8

// Has reports whether q contains every flag in want.
func (q QualifierSet) Has(want Qualifier) bool {
	return QualifierSet(want)&q == QualifierSet(want)
}

// With returns q with flag added.
func (q QualifierSet) With(flag Qualifier) QualifierSet {
	return q | QualifierSet(flag)
}

func (q QualifierSet) String() string {
	names := []struct {
		flag Qualifier
		name string
	}{
		{Cst, "cst"}, {Mut, "mut"}, {Stk, "stk"}, {Shd, "shd"}, {Val, "val"}, {Ref, "ref"},
	}
	var parts []string
	for _, n := range names {
		if q.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// DefaultQualifierSets is the language-level list of admissible qualifier
// combinations. internal/config may replace
// this via CompilerContext.SetValidQualifierSets.
func DefaultQualifierSets() []QualifierSet {
	return []QualifierSet{
		QualifierSet(0).With(Cst).With(Stk).With(Val),
		QualifierSet(0).With(Cst).With(Stk).With(Ref),
		QualifierSet(0).With(Mut).With(Stk).With(Val),
		QualifierSet(0).With(Mut).With(Stk).With(Ref),
		QualifierSet(0).With(Mut).With(Shd).With(Val),
	}
}

// IsValidQualifierSet reports whether q is one of the sets this context
// currently considers legal.
func (ctx *CompilerContext) IsValidQualifierSet(q QualifierSet) bool {
	for _, v := range ctx.validQualifierSets {
		if v == q {
			return true
		}
	}
	return false
}

// SetValidQualifierSets overrides the legal-combination table; used by
// internal/config to load a project's semcore.yaml.
func (ctx *CompilerContext) SetValidQualifierSets(sets []QualifierSet) {
	ctx.validQualifierSets = sets
}

// ParseQualifierSet converts parsed qualifier names (as found on a
// QualifiedTypeAnnotation) into a QualifierSet. Unknown names are ignored by
// the caller's validation step, not here — this is a pure syntactic mapping.
func ParseQualifierSet(names []string) QualifierSet {
	var q QualifierSet
	for _, n := range names {
		switch n {
		case "cst":
			q = q.With(Cst)
		case "mut":
			q = q.With(Mut)
		case "stk":
			q = q.With(Stk)
		case "shd":
			q = q.With(Shd)
		case "val":
			q = q.With(Val)
		case "ref":
			q = q.With(Ref)
		}
	}
	return q
}
