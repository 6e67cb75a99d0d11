package pmmif

import (
	"bytes"
	"os"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/stochasticsolutions/pmmif-go/codec"
)

// Serialize renders doc as canonical .pmm text: mandatory keys first in
// declared order, optional keys alphabetically, 4-space indentation, and a
// trailing newline. Round-tripping through Parse preserves all informational
// content; byte-for-byte layout of arbitrary hand-written input does not
// survive, by contract.
func Serialize(doc *Document) ([]byte, error) {
	root, err := documentObject(doc)
	if err != nil {
		return nil, err
	}
	compact, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "    "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Save writes the canonical form of doc to path.
func Save(doc *Document, path string) error {
	out, err := Serialize(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// omap is a JSON object with explicit member order.
type omap []member

type member struct {
	k string
	v any
}

func (m omap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, kv := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(kv.k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(kv.v)
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func documentObject(doc *Document) (omap, error) {
	fields := make([]any, len(doc.Fields))
	dateFmt := doc.DateTagFormat

	docTags, converted, err := encodeTags(doc.Tags, dateFmt)
	if err != nil {
		return nil, err
	}
	for i := range doc.Fields {
		f := &doc.Fields[i]
		tags, conv, err := encodeTags(f.Tags, dateFmt)
		if err != nil {
			return nil, err
		}
		converted = converted || conv
		fields[i] = fieldObject(f, tags)
	}
	// A document carrying datetime tags must say how they were rendered.
	if converted && dateFmt == "" {
		dateFmt = codec.DefaultDateTagFormat
	}

	out := omap{
		{"pmmversion", doc.PMMVersion},
		{"recordcount", doc.RecordCount},
		{"fields", fields},
	}

	var opt omap
	if doc.Contributor != "" {
		opt = append(opt, member{"contributor", doc.Contributor})
	}
	if doc.Creator != "" {
		opt = append(opt, member{"creator", doc.Creator})
	}
	if doc.Data != nil {
		opt = append(opt, member{"data", dataObject(doc.Data)})
	}
	if dateFmt != "" {
		opt = append(opt, member{"datetagformat", dateFmt})
	}
	if doc.Description != "" {
		opt = append(opt, member{"description", doc.Description})
	}
	if doc.FieldCount != nil {
		opt = append(opt, member{"fieldcount", *doc.FieldCount})
	}
	if doc.Name != "" {
		opt = append(opt, member{"name", doc.Name})
	}
	if doc.Permissions != "" {
		opt = append(opt, member{"permissions", doc.Permissions})
	}
	if docTags != nil {
		opt = append(opt, member{"tags", docTags})
	}
	return append(out, sortedWithExtra(opt, doc.Extra)...), nil
}

func fieldObject(f *Field, tags omap) omap {
	out := omap{
		{"name", f.Name},
		{"type", string(f.Type)},
		{"role", string(f.Role)},
	}
	var opt omap
	if f.Description != "" {
		opt = append(opt, member{"description", f.Description})
	}
	if f.Format != "" {
		opt = append(opt, member{"format", f.Format})
	}
	if f.LongName != "" {
		opt = append(opt, member{"longname", f.LongName})
	}
	if f.Stats != nil {
		opt = append(opt, member{"stats", statsObject(f.Stats)})
	}
	if tags != nil {
		opt = append(opt, member{"tags", tags})
	}
	if f.Values != nil {
		opt = append(opt, member{"values", f.Values})
	}
	return append(out, sortedWithExtra(opt, f.Extra)...)
}

func statsObject(s *Stats) omap {
	var opt omap
	if s.Max != nil {
		opt = append(opt, member{"max", s.Max})
	}
	if s.Mean != nil {
		opt = append(opt, member{"mean", *s.Mean})
	}
	if s.Min != nil {
		opt = append(opt, member{"min", s.Min})
	}
	if s.NNulls != nil {
		opt = append(opt, member{"nnulls", *s.NNulls})
	}
	if s.NUniques != nil {
		opt = append(opt, member{"nuniques", *s.NUniques})
	}
	return sortedWithExtra(opt, s.Extra)
}

func dataObject(d *Data) omap {
	out := omap{{"flatfile", flatFileObject(&d.FlatFile)}}
	return append(out, sortedWithExtra(nil, d.Extra)...)
}

func flatFileObject(ff *FlatFile) omap {
	out := omap{
		{"name", ff.Name},
		{"format", flatFileFormatObject(&ff.Format)},
	}
	return append(out, sortedWithExtra(nil, ff.Extra)...)
}

func flatFileFormatObject(f *FlatFileFormat) omap {
	opt := omap{
		{"encoding", f.Encoding},
		{"escape", f.Escape},
		{"headerrowcount", f.HeaderRowCount},
		{"nullmarker", f.NullMarker},
		{"quote", f.Quote},
		{"separator", f.Separator},
	}
	if f.DateFormat != "" {
		opt = append(opt, member{"dateformat", f.DateFormat})
	}
	return sortedWithExtra(opt, f.Extra)
}

// encodeTags returns the tag map as an alphabetically ordered object, with
// time.Time values rendered under the date tag format. The second result
// reports whether any datetime was converted.
func encodeTags(tags map[string]any, format string) (omap, bool, error) {
	if tags == nil {
		return nil, false, nil
	}
	if format == "" {
		format = codec.DefaultDateTagFormat
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(omap, 0, len(keys))
	converted := false
	for _, k := range keys {
		v := tags[k]
		if t, ok := v.(time.Time); ok {
			s, err := codec.FormatDateTag(format, t)
			if err != nil {
				return nil, false, err
			}
			v = s
			converted = true
		}
		out = append(out, member{k, v})
	}
	return out, converted, nil
}

// sortedWithExtra merges the optional members with the unknown-key map and
// returns them in alphabetical key order.
func sortedWithExtra(opt omap, extra map[string]any) omap {
	for k, v := range extra {
		opt = append(opt, member{k, v})
	}
	sort.Slice(opt, func(i, j int) bool { return opt[i].k < opt[j].k })
	return opt
}
