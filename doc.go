// Package pmmif implements the Predictive Modelling Metadata Interchange
// Format (PMMIF): JSON metadata describing tabular datasets for predictive
// modelling (per-column names, types, modelling roles, tags and summary
// statistics, plus an optional description of a companion flat file).
//
// It provides:
//
// - A typed document model (Document/Field and the flat-file data description)
// - Parsing with strict structural checks (Parse/ParseReader/Load -> *FormatError)
// - A pure validator returning every finding as a Diagnostic (code, JSON Pointer, severity)
// - A canonical serializer with deterministic key order (Serialize/Save)
// - Datetime-valued tag conversion via the document's date tag format (codec/)
//
// Design policy:
// - Keep only public APIs in the root package; put token-level plumbing under internal/.
// - Place wire/domain conversions under codec/, and the CLI under cmd/pmmcheck.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := pmmif.Load("hillstrom.pmm")
//	diags := pmmif.Validate(doc)
//	if diags.HasErrors() { ... }
//
//	out, err := pmmif.Serialize(doc)
package pmmif
