package pmmif_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pmmif "github.com/stochasticsolutions/pmmif-go"
)

func TestSerialize_RoundTripsTestdata(t *testing.T) {
	for _, name := range []string{"hillstrom.pmm", "victorlo.pmm"} {
		t.Run(name, func(t *testing.T) {
			doc := loadTestFile(t, name)
			out, err := pmmif.Serialize(doc)
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			doc2, err := pmmif.Parse(out)
			if err != nil {
				t.Fatalf("reparse: %v", err)
			}
			if diff := cmp.Diff(doc, doc2); diff != "" {
				t.Fatalf("round trip changed the document (-first +second):\n%s", diff)
			}
		})
	}
}

func TestSerialize_CanonicalFilesAreFixed(t *testing.T) {
	// The testdata files are stored canonically, so parse-then-serialize
	// must reproduce them byte for byte.
	for _, name := range []string{"hillstrom.pmm", "victorlo.pmm"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("testdata", name)
			original, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			doc, err := pmmif.Parse(original)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			out, err := pmmif.Serialize(doc)
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if !bytes.Equal(original, out) {
				t.Fatalf("canonical output drifted:\n%s", cmp.Diff(string(original), string(out)))
			}
		})
	}
}

func TestSerialize_NormalizesNonCanonicalInput(t *testing.T) {
	// Same document with shuffled keys and compact layout: serialization
	// must differ from the input and agree with the canonical bytes. This
	// is the comparison behind `pmmcheck fmt --check`.
	input := []byte(`{"name": "victorlo", "fields": [` +
		`{"role": "independent", "name": "x1", "type": "real"},` +
		`{"type": "boolean", "name": "y", "role": "dependent"}],` +
		`"recordcount": 10, "pmmversion": "0.1"}`)
	doc, err := pmmif.Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := pmmif.Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if bytes.Equal(input, out) {
		t.Fatalf("non-canonical input reported as canonical")
	}
	doc2, err := pmmif.Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	out2, err := pmmif.Serialize(doc2)
	if err != nil {
		t.Fatalf("reserialize: %v", err)
	}
	if !bytes.Equal(out, out2) {
		t.Fatalf("canonical form is not a fixed point:\n%s", cmp.Diff(string(out), string(out2)))
	}
}

func TestSerialize_KeyOrder(t *testing.T) {
	doc := pmmif.New("tiny", 2, []pmmif.Field{
		{Name: "a", Type: pmmif.TypeInteger, Role: pmmif.RoleIndependent},
	})
	doc.Contributor = "someone"
	doc.Description = "a tiny dataset"

	out, err := pmmif.Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	text := string(out)
	// Mandatory keys in declared order, optional keys alphabetical after.
	order := []string{`"pmmversion"`, `"recordcount"`, `"fields"`, `"contributor"`, `"description"`, `"fieldcount"`, `"name"`}
	last := -1
	for _, key := range order {
		i := strings.Index(text, key)
		if i < 0 {
			t.Fatalf("missing key %s in output:\n%s", key, text)
		}
		if i < last {
			t.Fatalf("key %s out of order:\n%s", key, text)
		}
		last = i
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Fatalf("output should end with a newline")
	}
}

func TestSerialize_ProgrammaticRoundTrip(t *testing.T) {
	nn := int64(3)
	mean := 41.5
	doc := pmmif.New("built", 1000, []pmmif.Field{
		{
			Name: "age",
			Type: pmmif.TypeInteger,
			Role: pmmif.RoleIndependent,
			Stats: &pmmif.Stats{
				NNulls: &nn,
				Mean:   &mean,
			},
		},
		{
			Name:   "grade",
			Type:   pmmif.TypeString,
			Role:   pmmif.RoleDependent,
			Tags:   map[string]any{"ordinal": []string{"low", "mid", "high"}},
			Values: []string{"low", "mid", "high"},
		},
		{
			Name:   "joined",
			Type:   pmmif.TypeDatestamp,
			Role:   pmmif.RoleAuxiliary,
			Format: "%Y-%m-%d",
		},
	})

	out, err := pmmif.Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	doc2, err := pmmif.Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diags := pmmif.Validate(doc2); diags.HasProblems(pmmif.Warning) {
		t.Fatalf("expected clean document, got %v", diags)
	}
	if doc2.FieldCount == nil || *doc2.FieldCount != 3 {
		t.Fatalf("fieldcount: got %v", doc2.FieldCount)
	}
	f, ok := doc2.Field("grade")
	if !ok {
		t.Fatalf("grade missing after round trip")
	}
	labels, ok := f.Ordinal()
	if !ok || strings.Join(labels, ",") != "low,mid,high" {
		t.Fatalf("ordinal labels: got %v", labels)
	}
	if f.Values[0] != "low" || len(f.Values) != 3 {
		t.Fatalf("values: got %v", f.Values)
	}
	age, _ := doc2.Field("age")
	if age.Stats == nil || age.Stats.NNulls == nil || *age.Stats.NNulls != 3 {
		t.Fatalf("stats.nnulls: got %+v", age.Stats)
	}
	if age.Stats.Mean == nil || *age.Stats.Mean != 41.5 {
		t.Fatalf("stats.mean: got %+v", age.Stats)
	}
}

func TestSerialize_DateTags(t *testing.T) {
	doc := pmmif.New("dated", 1, []pmmif.Field{
		{Name: "x", Type: pmmif.TypeInteger, Role: pmmif.RoleIndependent,
			Tags: map[string]any{"refreshed": time.Date(2016, 5, 1, 9, 30, 0, 0, time.UTC)}},
	})
	out, err := pmmif.Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, `"refreshed": "2016-05-01 09:30:00"`) {
		t.Fatalf("date tag not rendered:\n%s", text)
	}
	if !strings.Contains(text, `"datetagformat": "%Y-%m-%d %H:%M:%S"`) {
		t.Fatalf("datetagformat not emitted:\n%s", text)
	}

	doc2, err := pmmif.Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	got, ok := doc2.Fields[0].Tags["refreshed"].(time.Time)
	if !ok {
		t.Fatalf("expected time.Time after reparse, got %T", doc2.Fields[0].Tags["refreshed"])
	}
	if !got.Equal(time.Date(2016, 5, 1, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("date tag drifted: %v", got)
	}
}

func TestSave_WritesCanonicalFile(t *testing.T) {
	doc := pmmif.New("saved", 5, []pmmif.Field{
		{Name: "x", Type: pmmif.TypeInteger, Role: pmmif.RoleIndependent},
	})
	path := filepath.Join(t.TempDir(), "saved.pmm")
	if err := pmmif.Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc2, err := pmmif.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(doc, doc2); diff != "" {
		t.Fatalf("saved document changed (-built +loaded):\n%s", diff)
	}
}
