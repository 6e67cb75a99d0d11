package pmmif

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostic codes carried by Diagnostic.Code.
const (
	CodeUnsupportedVersion = "unsupported_version"
	CodeNegativeRecords    = "negative_recordcount"
	CodeNoFields           = "no_fields"
	CodeFieldCountMismatch = "fieldcount_mismatch"
	CodeMissingName        = "missing_name"
	CodeUnknownType        = "unknown_type"
	CodeUnknownRole        = "unknown_role"
	CodeMissingRole        = "missing_role"
	CodeMissingFormat      = "missing_format"
	CodeBadOrdinal         = "bad_ordinal"
	CodeOrdinalValues      = "ordinal_values_mismatch"
	CodeDuplicateName      = "duplicate_name"
	CodeNameCaseCollision  = "name_case_collision"
	CodeBadEncoding        = "bad_encoding"
	CodeBadDateFormat      = "bad_datetagformat"
	CodeUnknownKey         = "unknown_key"
	CodeDuplicateKey       = "duplicate_key"
)

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Path     string   `json:"path" yaml:"path"` // JSON Pointer (for example: /fields/2/format)
	Code     string   `json:"code" yaml:"code"` // one of the codes listed above
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at %s: %s", d.Severity, d.Code, d.Path, d.Message)
}

// Diagnostics is a collection of findings. It implements error so a caller
// that wants hard failure can return it directly; severity filtering decides
// whether that is appropriate.
type Diagnostics []Diagnostic

// Error summarizes the first few diagnostics.
func (ds Diagnostics) Error() string {
	if len(ds) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(ds)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", ds[i].Code, ds[i].Path)
	}
	if n := len(ds); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasErrors reports whether any finding is error-level.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// HasProblems reports whether any finding reaches the given severity. Strict
// callers pass Warning to promote warnings to failures.
func (ds Diagnostics) HasProblems(min Severity) bool {
	for _, d := range ds {
		if d.Severity >= min {
			return true
		}
	}
	return false
}

// Errors returns only the error-level findings.
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// Worst returns the highest severity present, or Info for an empty list.
func (ds Diagnostics) Worst() Severity {
	worst := Info
	for _, d := range ds {
		if d.Severity > worst {
			worst = d.Severity
		}
	}
	return worst
}

// AsDiagnostics extracts Diagnostics from an error using errors.As.
func AsDiagnostics(err error) (Diagnostics, bool) {
	if err == nil {
		return nil, false
	}
	var ds Diagnostics
	if errors.As(err, &ds) {
		return ds, true
	}
	return nil, false
}

// FormatError is the fatal parse-time failure: malformed encoding, malformed
// JSON, a non-object top level, or a missing/mistyped mandatory key. Semantic
// problems never produce a FormatError; they come back from Validate.
type FormatError struct {
	Path    string // JSON Pointer of the offending key; "/" for whole-input failures
	Message string
	Cause   error // optional underlying decode error
}

func (e *FormatError) Error() string {
	if e.Path == "" || e.Path == "/" {
		return "pmmif: " + e.Message
	}
	return fmt.Sprintf("pmmif: %s at %s", e.Message, e.Path)
}

func (e *FormatError) Unwrap() error { return e.Cause }

func formatErrorf(path string, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Message: fmt.Sprintf(format, args...)}
}

func diagf(sev Severity, code, path, format string, args ...any) Diagnostic {
	return Diagnostic{Path: path, Code: code, Severity: sev, Message: fmt.Sprintf(format, args...)}
}
