package pmmif

import (
	"sort"
	"strings"
)

// Validate checks doc against the PMMIF 0.1 rules and returns every finding
// in one pass. It is pure: semantically wrong documents produce error-level
// diagnostics, never a panic or an early return. Advisory findings collected
// at parse time (Doc.ParseDiagnostics) are included first.
func Validate(doc *Document) Diagnostics {
	var ds Diagnostics
	ds = append(ds, doc.ParseDiagnostics...)

	if !SupportedVersion(doc.PMMVersion) {
		ds = append(ds, diagf(Error, CodeUnsupportedVersion, "/pmmversion",
			"unsupported pmmversion %q (this implementation handles %s)", doc.PMMVersion, SpecVersion))
	}
	if doc.RecordCount < 0 {
		ds = append(ds, diagf(Error, CodeNegativeRecords, "/recordcount",
			"recordcount must be non-negative, got %d", doc.RecordCount))
	}
	if len(doc.Fields) == 0 {
		ds = append(ds, diagf(Error, CodeNoFields, "/fields", "fields must not be empty"))
	}
	if doc.FieldCount != nil && *doc.FieldCount != len(doc.Fields) {
		ds = append(ds, diagf(Error, CodeFieldCountMismatch, "/fieldcount",
			"fieldcount is %d but fields has %d entries", *doc.FieldCount, len(doc.Fields)))
	}

	for i := range doc.Fields {
		ds = append(ds, validateField(&doc.Fields[i], fieldPath(i, ""))...)
	}
	ds = append(ds, validateNames(doc)...)

	if doc.Data != nil {
		if enc := doc.Data.FlatFile.Format.Encoding; !strings.EqualFold(enc, "UTF-8") {
			ds = append(ds, diagf(Error, CodeBadEncoding, "/data/flatfile/format/encoding",
				"flat file encoding must be UTF-8, got %q", enc))
		}
	}

	ds = append(ds, unknownKeyInfo(doc.Extra, "")...)
	return ds
}

func validateField(f *Field, path string) Diagnostics {
	var ds Diagnostics

	if f.Name == "" {
		ds = append(ds, diagf(Error, CodeMissingName, path+"/name", "field has no name"))
	}
	switch {
	case f.Type == "":
		ds = append(ds, diagf(Error, CodeUnknownType, path+"/type", "field has no type"))
	case !f.Type.Known():
		ds = append(ds, diagf(Error, CodeUnknownType, path+"/type",
			"unrecognized type %q (one of %s expected)", f.Type, enumList(FieldTypes)))
	}
	switch {
	case f.Role == RoleUnspecified:
		ds = append(ds, diagf(Warning, CodeMissingRole, path+"/role", "field has no role"))
	case !f.Role.Known():
		ds = append(ds, diagf(Error, CodeUnknownRole, path+"/role",
			"unrecognized role %q (one of %s expected)", f.Role, enumList(Roles)))
	}
	if f.Type == TypeDatestamp && f.Format == "" {
		ds = append(ds, diagf(Error, CodeMissingFormat, path+"/format",
			"datestamp field %q requires a format", f.Name))
	}

	if raw, ok := f.Tags[TagOrdinal]; ok {
		labels, ok := stringSlice(raw)
		switch {
		case !ok:
			ds = append(ds, diagf(Error, CodeBadOrdinal, path+"/tags/ordinal",
				"ordinal tag must be an array of strings"))
		case len(labels) == 0:
			ds = append(ds, diagf(Error, CodeBadOrdinal, path+"/tags/ordinal",
				"ordinal tag must not be empty"))
		case f.Values != nil && !sameStringSet(labels, f.Values):
			ds = append(ds, diagf(Warning, CodeOrdinalValues, path+"/values",
				"values differs from the ordinal category set"))
		}
	}

	ds = append(ds, unknownKeyInfo(f.Extra, path)...)
	return ds
}

// validateNames warns on duplicate field names and, separately, on names that
// collide only once case is ignored.
func validateNames(doc *Document) Diagnostics {
	var ds Diagnostics
	seen := map[string]int{}     // exact name -> first index
	folded := map[string][]int{} // lowercased name -> indices
	for i := range doc.Fields {
		name := doc.Fields[i].Name
		if name == "" {
			continue
		}
		if first, dup := seen[name]; dup {
			ds = append(ds, diagf(Warning, CodeDuplicateName, fieldPath(i, "/name"),
				"field name %q duplicates field %d", name, first))
		} else {
			seen[name] = i
		}
		folded[strings.ToLower(name)] = append(folded[strings.ToLower(name)], i)
	}
	for _, idxs := range folded {
		if len(idxs) < 2 {
			continue
		}
		distinct := map[string]struct{}{}
		for _, i := range idxs {
			distinct[doc.Fields[i].Name] = struct{}{}
		}
		if len(distinct) > 1 {
			last := idxs[len(idxs)-1]
			ds = append(ds, diagf(Warning, CodeNameCaseCollision, fieldPath(last, "/name"),
				"field names %s differ only in case", quotedNames(doc, idxs)))
		}
	}
	return ds
}

func unknownKeyInfo(extra map[string]any, base string) Diagnostics {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ds := make(Diagnostics, 0, len(keys))
	for _, k := range keys {
		ds = append(ds, diagf(Info, CodeUnknownKey, base+"/"+k,
			"unrecognized key %q preserved", k))
	}
	return ds
}

func sameStringSet(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	other := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
		other[s] = struct{}{}
	}
	return len(other) == len(set)
}

func quotedNames(doc *Document, idxs []int) string {
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		parts[i] = `"` + doc.Fields[idx].Name + `"`
	}
	return strings.Join(parts, ", ")
}

func enumList[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}
