// Package jsonwire holds token-level JSON plumbing shared by the pmmif root
// package: duplicate object key detection with JSON Pointer paths.
package jsonwire

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Duplicate records one repeated object key.
type Duplicate struct {
	Path string // JSON Pointer of the repeated key
	Key  string
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// DetectDuplicateKeys walks the JSON value in data and reports every object
// key that appears more than once within the same object. maxHits <= 0 means
// unlimited. Decode errors end the walk silently; the caller surfaces them
// through its own decode pass.
func DetectDuplicateKeys(data []byte, maxHits int) []Duplicate {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var dups []Duplicate
	var stack []frame
	for {
		tok, err := dec.Token()
		if err != nil {
			return dups
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{
					kind:         kindObject,
					keys:         make(map[string]struct{}),
					expectingKey: true,
					path:         valuePath(stack),
				})
			case '[':
				stack = append(stack, frame{kind: kindArray, path: valuePath(stack)})
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
				endContainer(stack)
			}
		case string:
			if n := len(stack); n > 0 {
				top := &stack[n-1]
				if top.kind == kindObject && top.expectingKey {
					if _, seen := top.keys[v]; seen {
						dups = append(dups, Duplicate{Path: JoinPointer(top.path, v), Key: v})
						if maxHits > 0 && len(dups) >= maxHits {
							return dups
						}
					}
					top.keys[v] = struct{}{}
					top.expectingKey = false
					top.pendingKey = v
					continue
				}
			}
			endScalar(stack)
		default:
			endScalar(stack)
		}
	}
}

// valuePath returns the pointer for the value about to begin, advancing array
// indices as a side effect.
func valuePath(stack []frame) string {
	if len(stack) == 0 {
		return ""
	}
	top := &stack[len(stack)-1]
	if top.kind == kindArray {
		p := JoinPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	return JoinPointer(top.path, top.pendingKey)
}

// endScalar finishes a scalar value: arrays advance their index, objects go
// back to expecting a key.
func endScalar(stack []frame) {
	if n := len(stack); n > 0 {
		top := &stack[n-1]
		if top.kind == kindArray {
			top.nextIndex++
		} else if !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

// endContainer finishes a nested object or array; the enclosing array index
// was already advanced when the container began.
func endContainer(stack []frame) {
	if n := len(stack); n > 0 {
		top := &stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends an escaped token to a JSON Pointer base.
func JoinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
