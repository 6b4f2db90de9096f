package filings

import (
	"reflect"
	"testing"
)

func TestSectionScope_SortsInput(t *testing.T) {
	a := SectionScope([]string{"Risk Factors", "Business", "MD&A"})
	b := SectionScope([]string{"Business", "MD&A", "Risk Factors"})
	if a != b {
		t.Fatalf("scope depends on input order: %q vs %q", a, b)
	}
	if a != "Business|MD&A|Risk Factors" {
		t.Fatalf("scope = %q", a)
	}
}

func TestSectionScope_DoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a"}
	_ = SectionScope(in)
	if in[0] != "b" {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestScopeSections_Roundtrip(t *testing.T) {
	keys := []string{"Business", "MD&A"}
	got := ScopeSections(SectionScope(keys))
	if !reflect.DeepEqual(got, keys) {
		t.Fatalf("roundtrip = %v", got)
	}
	if ScopeSections("") != nil {
		t.Fatalf("empty scope must yield nil")
	}
}

func TestSummaryStatusValid(t *testing.T) {
	for _, s := range []SummaryStatus{StatusReduceComplete, StatusMapFailed, StatusReduceFailed} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if SummaryStatus("pending").Valid() {
		t.Fatalf("unknown status must be invalid")
	}
}
