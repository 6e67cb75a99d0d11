package pmmif

// Document is the in-memory form of a .pmm file. Wire keys are all-lowercase;
// the mapping is handled by Parse and Serialize rather than struct tags so
// that unknown keys can be preserved in Extra.
type Document struct {
	PMMVersion  string // wire key "pmmversion"; required
	RecordCount int64  // wire key "recordcount"; required, >= 0
	Fields      []Field

	// FieldCount mirrors the optional "fieldcount" key. Nil means the key
	// was absent; when present it must equal len(Fields).
	FieldCount *int

	Name          string
	Description   string
	Creator       string
	Contributor   string
	Permissions   string
	DateTagFormat string // strftime-style layout for datetime-valued tags

	Data *Data

	// Tags holds document-level annotations. Values are arbitrary JSON
	// values; datetime tags surface as time.Time when DateTagFormat applies.
	Tags map[string]any

	// Extra preserves unknown top-level keys verbatim.
	Extra map[string]any

	// ParseDiagnostics carries advisory findings produced while parsing,
	// such as duplicate JSON keys. Validate prepends them to its result.
	ParseDiagnostics Diagnostics
}

// Field describes one column of the dataset.
type Field struct {
	Name   string
	Type   FieldType
	Role   Role
	Format string // required iff Type == TypeDatestamp

	Tags   map[string]any
	Values []string // enumerated legal values, ordered
	Stats  *Stats

	LongName    string
	Description string

	Extra map[string]any
}

// Stats holds per-field summary statistics. Min and Max keep whatever JSON
// value the file carried (their type depends on the field type); numbers are
// json.Number.
type Stats struct {
	NNulls   *int64
	NUniques *int64
	Min      any
	Max      any
	Mean     *float64

	Extra map[string]any
}

// Data describes where the records themselves live. Only the flat-file
// representation is defined at format version 0.1.
type Data struct {
	FlatFile FlatFile
	Extra    map[string]any
}

// FlatFile names a companion delimited text file and its format.
type FlatFile struct {
	Name   string
	Format FlatFileFormat
	Extra  map[string]any
}

// FlatFileFormat carries the dialect of the companion flat file. The encoding
// must be UTF-8; other keys pass through as strings and integers.
type FlatFileFormat struct {
	Encoding       string
	Separator      string
	Quote          string
	Escape         string
	NullMarker     string
	HeaderRowCount int
	DateFormat     string // optional; empty means unset
	Extra          map[string]any
}

// DefaultFlatFileFormat returns the format the reference implementation
// assumes when keys are omitted: UTF-8, comma-separated, double-quoted,
// backslash-escaped, empty null marker, one header row.
func DefaultFlatFileFormat() FlatFileFormat {
	return FlatFileFormat{
		Encoding:       "UTF-8",
		Separator:      ",",
		Quote:          `"`,
		Escape:         `\`,
		NullMarker:     "",
		HeaderRowCount: 1,
	}
}

// New builds a Document for the given dataset name, record count and fields,
// filling in PMMVersion and FieldCount.
func New(name string, recordCount int64, fields []Field) *Document {
	n := len(fields)
	return &Document{
		PMMVersion:  SpecVersion,
		RecordCount: recordCount,
		Name:        name,
		Fields:      fields,
		FieldCount:  &n,
	}
}

// Field returns the field with the given name, or false when absent. Lookup
// is linear; field order is significant and documents are small.
func (d *Document) Field(name string) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns the field names in declaration order.
func (d *Document) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i := range d.Fields {
		names[i] = d.Fields[i].Name
	}
	return names
}

// SetField replaces the field with the same name, or appends when no field
// has that name. FieldCount is kept in step when present.
func (d *Document) SetField(f Field) {
	for i := range d.Fields {
		if d.Fields[i].Name == f.Name {
			d.Fields[i] = f
			return
		}
	}
	d.Fields = append(d.Fields, f)
	if d.FieldCount != nil {
		n := len(d.Fields)
		d.FieldCount = &n
	}
}

// Clone returns a deep copy, so a validated Document can be edited and
// revalidated without disturbing the original.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.FieldCount != nil {
		n := *d.FieldCount
		out.FieldCount = &n
	}
	out.Fields = make([]Field, len(d.Fields))
	for i := range d.Fields {
		out.Fields[i] = d.Fields[i].clone()
	}
	if d.Data != nil {
		data := *d.Data
		data.Extra = cloneMap(d.Data.Extra)
		data.FlatFile.Extra = cloneMap(d.Data.FlatFile.Extra)
		data.FlatFile.Format.Extra = cloneMap(d.Data.FlatFile.Format.Extra)
		out.Data = &data
	}
	out.Tags = cloneMap(d.Tags)
	out.Extra = cloneMap(d.Extra)
	out.ParseDiagnostics = append(Diagnostics(nil), d.ParseDiagnostics...)
	return &out
}

func (f Field) clone() Field {
	out := f
	out.Tags = cloneMap(f.Tags)
	out.Extra = cloneMap(f.Extra)
	out.Values = append([]string(nil), f.Values...)
	if f.Stats != nil {
		s := *f.Stats
		if f.Stats.NNulls != nil {
			v := *f.Stats.NNulls
			s.NNulls = &v
		}
		if f.Stats.NUniques != nil {
			v := *f.Stats.NUniques
			s.NUniques = &v
		}
		if f.Stats.Mean != nil {
			v := *f.Stats.Mean
			s.Mean = &v
		}
		s.Extra = cloneMap(f.Stats.Extra)
		out.Stats = &s
	}
	return out
}

// Ordinal returns the ordered category labels from the ordinal tag, when the
// tag is present and well-formed.
func (f Field) Ordinal() ([]string, bool) {
	v, ok := f.Tags[TagOrdinal]
	if !ok {
		return nil, false
	}
	labels, ok := stringSlice(v)
	return labels, ok
}

// stringSlice accepts both []string (programmatic construction) and []any of
// strings (parsed JSON).
func stringSlice(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, len(vv))
		for i, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the value shapes a decoded JSON document can hold;
// scalars and anything else are copied by value.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
