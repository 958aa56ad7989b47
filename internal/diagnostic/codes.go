// Package diagnostic provides centralized diagnostic kind definitions and a
// structured report type for the type checker.
package diagnostic

// Kind constants organized by phase. Each constant names one error
// condition the checker can raise.
const (
	// Lexical / syntactic (SYN###)
	SYN001 = "SYN001" // unexpected token
	SYN002 = "SYN002" // missing closing delimiter
	SYN003 = "SYN003" // invalid type annotation syntax

	// Name resolution (RES###)
	RES001 = "RES001" // unbound identifier
	RES002 = "RES002" // unbound type name
	RES003 = "RES003" // duplicate declaration in scope

	// Qualifiers (QUAL###)
	QUAL001 = "QUAL001" // invalidQualifierCombination

	// Constraint generation (GEN###)
	GEN001 = "GEN001" // binding operator incompatible with rvalue qualifiers
	GEN002 = "GEN002" // destructor declared with parameters

	// Solving (SLV###)
	SLV001 = "SLV001" // unification mismatch
	SLV002 = "SLV002" // occurs check failed
	SLV003 = "SLV003" // no member of the given name
	SLV004 = "SLV004" // no matching constructor
	SLV005 = "SLV005" // all disjunction branches failed
	SLV006 = "SLV006" // branch budget exceeded

	// Dispatch (DSP###)
	DSP001 = "DSP001" // ambiguous overload after solving
	DSP002 = "DSP002" // unresolved type variable after reification
)

// Info describes a diagnostic kind for catalog lookup and for building
// the suggestion text shown alongside a Report.
type Info struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps diagnostic codes to their catalog entry.
var Registry = map[string]Info{
	SYN001: {SYN001, "parse", "syntax", "Unexpected token"},
	SYN002: {SYN002, "parse", "syntax", "Missing closing delimiter"},
	SYN003: {SYN003, "parse", "syntax", "Invalid type annotation"},

	RES001: {RES001, "resolve", "scope", "Unbound identifier"},
	RES002: {RES002, "resolve", "scope", "Unbound type name"},
	RES003: {RES003, "resolve", "scope", "Duplicate declaration"},

	QUAL001: {QUAL001, "resolve", "qualifier", "Invalid qualifier combination"},

	GEN001: {GEN001, "generate", "binding", "Binding operator incompatible with rvalue"},
	GEN002: {GEN002, "generate", "declaration", "Destructor declared with parameters"},

	SLV001: {SLV001, "solve", "unification", "Type mismatch"},
	SLV002: {SLV002, "solve", "unification", "Occurs check failed"},
	SLV003: {SLV003, "solve", "member", "No such member"},
	SLV004: {SLV004, "solve", "construction", "No matching constructor"},
	SLV005: {SLV005, "solve", "overload", "No viable overload"},
	SLV006: {SLV006, "solve", "budget", "Branch budget exceeded"},

	DSP001: {DSP001, "dispatch", "overload", "Ambiguous overload"},
	DSP002: {DSP002, "dispatch", "reify", "Unresolved type variable"},
}

// Lookup returns the catalog entry for code.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}
