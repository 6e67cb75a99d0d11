// Package codec converts between PMMIF wire representations and Go domain
// values. At format version 0.1 the only non-trivial conversion is the date
// tag codec: document and field tags may carry datetimes, rendered on the
// wire with the strftime-style layout named by the document's datetagformat
// key.
package codec

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateTagFormat is assumed when a document carries datetime tags but
// no datetagformat key.
const DefaultDateTagFormat = "%Y-%m-%d %H:%M:%S"

// strftime directives understood by this codec, mapped to Go reference-time
// layout fragments.
var directives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'j': "002",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'Z': "MST",
	'z': "-0700",
}

// LayoutFromStrftime translates a strftime-style format descriptor into a Go
// time layout. Directives outside the supported set are an error; literal
// text passes through, with %% producing a literal percent sign.
func LayoutFromStrftime(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("codec: trailing %% in format %q", format)
		}
		d := format[i]
		if d == '%' {
			b.WriteByte('%')
			continue
		}
		frag, ok := directives[d]
		if !ok {
			return "", fmt.Errorf("codec: unsupported directive %%%c in format %q", d, format)
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}

// ParseDateTag parses s under the strftime-style format.
func ParseDateTag(format, s string) (time.Time, error) {
	layout, err := LayoutFromStrftime(format)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(layout, s)
}

// FormatDateTag renders t under the strftime-style format.
func FormatDateTag(format string, t time.Time) (string, error) {
	layout, err := LayoutFromStrftime(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
