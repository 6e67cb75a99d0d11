package jsonwire_test

import (
	"testing"

	"github.com/stochasticsolutions/pmmif-go/internal/jsonwire"
)

func paths(dups []jsonwire.Duplicate) []string {
	out := make([]string, len(dups))
	for i, d := range dups {
		out[i] = d.Path
	}
	return out
}

func TestDetectDuplicateKeys_TopLevel(t *testing.T) {
	dups := jsonwire.DetectDuplicateKeys([]byte(`{"a":1,"b":2,"a":3}`), 0)
	if len(dups) != 1 || dups[0].Path != "/a" || dups[0].Key != "a" {
		t.Fatalf("got %v", dups)
	}
}

func TestDetectDuplicateKeys_Nested(t *testing.T) {
	dups := jsonwire.DetectDuplicateKeys([]byte(`{"outer":{"x":1,"x":2}}`), 0)
	if len(dups) != 1 || dups[0].Path != "/outer/x" {
		t.Fatalf("got %v", dups)
	}
}

func TestDetectDuplicateKeys_InsideArray(t *testing.T) {
	input := []byte(`{"fields":[{"a":1},{"b":1,"b":2},3,{"c":1,"c":2}]}`)
	dups := jsonwire.DetectDuplicateKeys(input, 0)
	got := paths(dups)
	want := []string{"/fields/1/b", "/fields/3/c"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDetectDuplicateKeys_SameKeyDifferentObjects(t *testing.T) {
	if dups := jsonwire.DetectDuplicateKeys([]byte(`[{"a":1},{"a":2}]`), 0); len(dups) != 0 {
		t.Fatalf("keys in sibling objects are not duplicates: %v", dups)
	}
}

func TestDetectDuplicateKeys_PointerEscaping(t *testing.T) {
	dups := jsonwire.DetectDuplicateKeys([]byte(`{"a/b":1,"a/b":2}`), 0)
	if len(dups) != 1 || dups[0].Path != "/a~1b" {
		t.Fatalf("got %v", dups)
	}
}

func TestDetectDuplicateKeys_MaxHits(t *testing.T) {
	input := []byte(`{"a":1,"a":2,"a":3,"a":4}`)
	if dups := jsonwire.DetectDuplicateKeys(input, 2); len(dups) != 2 {
		t.Fatalf("expected cap at 2, got %v", dups)
	}
}
