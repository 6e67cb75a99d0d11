package pmmif

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/stochasticsolutions/pmmif-go/codec"
	"github.com/stochasticsolutions/pmmif-go/internal/jsonwire"
)

// Parse converts .pmm bytes into a Document. It fails with *FormatError when
// the input is not UTF-8, not JSON, the top level is not an object, or one of
// the mandatory keys (pmmversion, recordcount, fields) is missing or
// mistyped. Everything semantic is left to Validate; advisory findings made
// while parsing (duplicate JSON keys) land in Doc.ParseDiagnostics.
func Parse(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, formatErrorf("/", "input is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &FormatError{Path: "/", Message: "invalid JSON", Cause: err}
	}
	if dec.More() {
		return nil, formatErrorf("/", "trailing data after JSON document")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, formatErrorf("/", "top-level value is not an object")
	}

	doc, err := decodeDocument(obj)
	if err != nil {
		return nil, err
	}
	for _, dup := range jsonwire.DetectDuplicateKeys(data, 0) {
		doc.ParseDiagnostics = append(doc.ParseDiagnostics,
			diagf(Warning, CodeDuplicateKey, dup.Path, "key %q duplicated; the last value wins", dup.Key))
	}
	interpretDateTags(doc)
	return doc, nil
}

// ParseReader reads the whole reader and parses it.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Path: "/", Message: "reading input", Cause: err}
	}
	return Parse(data)
}

// Load reads and parses the .pmm file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func decodeDocument(obj map[string]any) (*Document, error) {
	doc := &Document{}

	v, ok := obj["pmmversion"]
	if !ok {
		return nil, formatErrorf("/pmmversion", "missing mandatory key")
	}
	if doc.PMMVersion, ok = v.(string); !ok {
		return nil, formatErrorf("/pmmversion", "expected string")
	}

	if v, ok = obj["recordcount"]; !ok {
		return nil, formatErrorf("/recordcount", "missing mandatory key")
	}
	n, err := asInt(v)
	if err != nil {
		return nil, formatErrorf("/recordcount", "expected integer")
	}
	doc.RecordCount = n

	rawFields, ok := obj["fields"]
	if !ok {
		return nil, formatErrorf("/fields", "missing mandatory key")
	}
	arr, ok := rawFields.([]any)
	if !ok {
		return nil, formatErrorf("/fields", "expected array")
	}
	doc.Fields = make([]Field, 0, len(arr))
	for i, e := range arr {
		f, err := decodeField(e, fieldPath(i, ""))
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, f)
	}

	for key, v := range obj {
		switch key {
		case "pmmversion", "recordcount", "fields":
			// handled above
		case "fieldcount":
			n, err := asInt(v)
			if err != nil {
				return nil, formatErrorf("/fieldcount", "expected integer")
			}
			c := int(n)
			doc.FieldCount = &c
		case "name":
			if doc.Name, err = asString(v, "/name"); err != nil {
				return nil, err
			}
		case "description":
			if doc.Description, err = asString(v, "/description"); err != nil {
				return nil, err
			}
		case "creator":
			if doc.Creator, err = asString(v, "/creator"); err != nil {
				return nil, err
			}
		case "contributor":
			if doc.Contributor, err = asString(v, "/contributor"); err != nil {
				return nil, err
			}
		case "permissions":
			if doc.Permissions, err = asString(v, "/permissions"); err != nil {
				return nil, err
			}
		case "datetagformat":
			if doc.DateTagFormat, err = asString(v, "/datetagformat"); err != nil {
				return nil, err
			}
		case "tags":
			m, ok := v.(map[string]any)
			if !ok {
				return nil, formatErrorf("/tags", "expected object")
			}
			doc.Tags = m
		case "data":
			data, err := decodeData(v)
			if err != nil {
				return nil, err
			}
			doc.Data = data
		default:
			if doc.Extra == nil {
				doc.Extra = map[string]any{}
			}
			doc.Extra[key] = v
		}
	}
	return doc, nil
}

func decodeField(v any, path string) (Field, error) {
	var f Field
	obj, ok := v.(map[string]any)
	if !ok {
		return f, formatErrorf(path, "expected object")
	}
	for key, v := range obj {
		var err error
		switch key {
		case "name":
			if f.Name, err = asString(v, path+"/name"); err != nil {
				return f, err
			}
		case "type":
			s, err := asString(v, path+"/type")
			if err != nil {
				return f, err
			}
			f.Type = FieldType(s)
		case "role":
			s, err := asString(v, path+"/role")
			if err != nil {
				return f, err
			}
			f.Role = Role(s)
		case "format":
			if f.Format, err = asString(v, path+"/format"); err != nil {
				return f, err
			}
		case "longname":
			if f.LongName, err = asString(v, path+"/longname"); err != nil {
				return f, err
			}
		case "description":
			if f.Description, err = asString(v, path+"/description"); err != nil {
				return f, err
			}
		case "tags":
			m, ok := v.(map[string]any)
			if !ok {
				return f, formatErrorf(path+"/tags", "expected object")
			}
			f.Tags = m
		case "values":
			vals, ok := stringSlice(v)
			if !ok {
				return f, formatErrorf(path+"/values", "expected array of string")
			}
			f.Values = vals
		case "stats":
			stats, err := decodeStats(v, path+"/stats")
			if err != nil {
				return f, err
			}
			f.Stats = stats
		default:
			if f.Extra == nil {
				f.Extra = map[string]any{}
			}
			f.Extra[key] = v
		}
	}
	return f, nil
}

func decodeStats(v any, path string) (*Stats, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, formatErrorf(path, "expected object")
	}
	s := &Stats{}
	for key, v := range obj {
		switch key {
		case "nnulls", "nuniques":
			n, err := asInt(v)
			if err != nil {
				return nil, formatErrorf(path+"/"+key, "expected integer")
			}
			if key == "nnulls" {
				s.NNulls = &n
			} else {
				s.NUniques = &n
			}
		case "mean":
			num, ok := v.(json.Number)
			if !ok {
				return nil, formatErrorf(path+"/mean", "expected number")
			}
			mean, err := num.Float64()
			if err != nil {
				return nil, formatErrorf(path+"/mean", "expected number")
			}
			s.Mean = &mean
		case "min":
			s.Min = v
		case "max":
			s.Max = v
		default:
			if s.Extra == nil {
				s.Extra = map[string]any{}
			}
			s.Extra[key] = v
		}
	}
	return s, nil
}

func decodeData(v any) (*Data, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, formatErrorf("/data", "expected object")
	}
	data := &Data{}
	for key, v := range obj {
		switch key {
		case "flatfile":
			ff, err := decodeFlatFile(v)
			if err != nil {
				return nil, err
			}
			data.FlatFile = *ff
		default:
			if data.Extra == nil {
				data.Extra = map[string]any{}
			}
			data.Extra[key] = v
		}
	}
	return data, nil
}

func decodeFlatFile(v any) (*FlatFile, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, formatErrorf("/data/flatfile", "expected object")
	}
	ff := &FlatFile{Format: DefaultFlatFileFormat()}
	for key, v := range obj {
		var err error
		switch key {
		case "name":
			if ff.Name, err = asString(v, "/data/flatfile/name"); err != nil {
				return nil, err
			}
		case "format":
			if err := decodeFlatFileFormat(v, &ff.Format); err != nil {
				return nil, err
			}
		default:
			if ff.Extra == nil {
				ff.Extra = map[string]any{}
			}
			ff.Extra[key] = v
		}
	}
	return ff, nil
}

func decodeFlatFileFormat(v any, out *FlatFileFormat) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return formatErrorf("/data/flatfile/format", "expected object")
	}
	for key, v := range obj {
		path := "/data/flatfile/format/" + key
		var err error
		switch key {
		case "encoding":
			out.Encoding, err = asString(v, path)
		case "separator":
			out.Separator, err = asString(v, path)
		case "quote":
			out.Quote, err = asString(v, path)
		case "escape":
			out.Escape, err = asString(v, path)
		case "nullmarker":
			out.NullMarker, err = asString(v, path)
		case "dateformat":
			out.DateFormat, err = asString(v, path)
		case "headerrowcount":
			var n int64
			n, err = asInt(v)
			if err != nil {
				err = formatErrorf(path, "expected integer")
			}
			out.HeaderRowCount = int(n)
		default:
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra[key] = v
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// interpretDateTags materializes string tag values as time.Time when the
// document declares a date tag format and the string parses under it.
func interpretDateTags(doc *Document) {
	if doc.DateTagFormat == "" {
		return
	}
	layout, err := codec.LayoutFromStrftime(doc.DateTagFormat)
	if err != nil {
		doc.ParseDiagnostics = append(doc.ParseDiagnostics,
			diagf(Warning, CodeBadDateFormat, "/datetagformat", "unusable date tag format %q: %v", doc.DateTagFormat, err))
		return
	}
	interpretTagMap(doc.Tags, layout)
	for i := range doc.Fields {
		interpretTagMap(doc.Fields[i].Tags, layout)
	}
}

func interpretTagMap(tags map[string]any, layout string) {
	for k, v := range tags {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			tags[k] = t
		}
	}
}

var errNotInt = errors.New("not an integer")

func asInt(v any) (int64, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, errNotInt
	}
	return num.Int64()
}

func asString(v any, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", formatErrorf(path, "expected string")
	}
	return s, nil
}

func fieldPath(i int, rest string) string {
	return "/fields/" + strconv.Itoa(i) + rest
}
