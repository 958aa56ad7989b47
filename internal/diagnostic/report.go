package diagnostic

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
)

// Report is the canonical structured diagnostic produced by every phase of
// the checker, from parsing through dispatch.
type Report struct {
	Schema     string         `json:"schema"` // always "semcore.diagnostic/v1"
	Code       string         `json:"code"`
	Phase      string         `json:"phase"`
	Message    string         `json:"message"`
	Pos        *ast.Pos       `json:"pos,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// ReportError wraps a Report as an error so it can travel through ordinary
// error-returning APIs and still be recovered with AsReport.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report for code at pos, filling in phase/description from
// the catalog.
func New(code string, pos ast.Pos, message string, data map[string]any) *Report {
	phase := "unknown"
	if info, ok := Lookup(code); ok {
		phase = info.Phase
	}
	return &Report{
		Schema:  "semcore.diagnostic/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Pos:     &pos,
		Data:    data,
	}
}

// WithSuggestion attaches suggestion text and returns r for chaining.
func (r *Report) WithSuggestion(s string) *Report {
	r.Suggestion = s
	return r
}

// ToJSON renders the report as JSON, indented unless compact is set.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
