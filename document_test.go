package pmmif_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	pmmif "github.com/stochasticsolutions/pmmif-go"
)

func TestNew_FillsVersionAndCount(t *testing.T) {
	doc := pmmif.New("d", 10, []pmmif.Field{
		{Name: "a", Type: pmmif.TypeInteger, Role: pmmif.RoleIndependent},
		{Name: "b", Type: pmmif.TypeReal, Role: pmmif.RoleDependent},
	})
	if doc.PMMVersion != pmmif.SpecVersion {
		t.Fatalf("pmmversion: got %q", doc.PMMVersion)
	}
	if doc.FieldCount == nil || *doc.FieldCount != 2 {
		t.Fatalf("fieldcount: got %v", doc.FieldCount)
	}
	if diags := pmmif.Validate(doc); diags.HasProblems(pmmif.Warning) {
		t.Fatalf("fresh document should validate cleanly: %v", diags)
	}
}

func TestSetField_ReplacesByName(t *testing.T) {
	doc := pmmif.New("d", 10, []pmmif.Field{
		{Name: "a", Type: pmmif.TypeInteger, Role: pmmif.RoleIndependent},
	})
	doc.SetField(pmmif.Field{Name: "a", Type: pmmif.TypeReal, Role: pmmif.RoleIndependent})
	if len(doc.Fields) != 1 || doc.Fields[0].Type != pmmif.TypeReal {
		t.Fatalf("replace failed: %+v", doc.Fields)
	}

	doc.SetField(pmmif.Field{Name: "b", Type: pmmif.TypeString, Role: pmmif.RoleIgnore})
	if len(doc.Fields) != 2 {
		t.Fatalf("append failed: %+v", doc.Fields)
	}
	if doc.FieldCount == nil || *doc.FieldCount != 2 {
		t.Fatalf("fieldcount not maintained: %v", doc.FieldCount)
	}
}

func TestField_Lookup(t *testing.T) {
	doc := loadTestFile(t, "hillstrom.pmm")
	if _, ok := doc.Field("recency"); !ok {
		t.Fatalf("recency should be present")
	}
	if _, ok := doc.Field("nope"); ok {
		t.Fatalf("lookup of absent field should fail")
	}
}

func TestClone_IsDeep(t *testing.T) {
	doc := loadTestFile(t, "hillstrom.pmm")
	dup := doc.Clone()
	if diff := cmp.Diff(doc, dup); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	dup.Fields[0].Name = "renamed"
	dup.Tags["added"] = true
	if doc.Fields[0].Name == "renamed" {
		t.Fatalf("clone shares field storage")
	}
	if _, ok := doc.Tags["added"]; ok {
		t.Fatalf("clone shares tag map")
	}

	f, _ := dup.Field("history_segment")
	f.Tags["ordinal"].([]any)[0] = "mutated"
	orig, _ := doc.Field("history_segment")
	if orig.Tags["ordinal"].([]any)[0] == "mutated" {
		t.Fatalf("clone shares ordinal tag storage")
	}
}

func TestOrdinal(t *testing.T) {
	doc := loadTestFile(t, "hillstrom.pmm")
	f, _ := doc.Field("history_segment")
	labels, ok := f.Ordinal()
	if !ok || len(labels) != 7 {
		t.Fatalf("ordinal: got ok=%v labels=%v", ok, labels)
	}
	if labels[0] != "1) $0 - $100" || labels[6] != "7) $1,000 +" {
		t.Fatalf("ordinal order wrong: %v", labels)
	}

	plain, _ := doc.Field("recency")
	if _, ok := plain.Ordinal(); ok {
		t.Fatalf("recency has no ordinal tag")
	}
}

func TestVersionAccessors(t *testing.T) {
	if pmmif.Version() == "" {
		t.Fatalf("library version must be set")
	}
	if !pmmif.SupportedVersion("0.1") || pmmif.SupportedVersion("0.2") {
		t.Fatalf("version support check broken")
	}
}
