package diagnostics

import (
	"errors"
	"strings"
	"testing"
)

func TestDumpIncludesLabelAndValue(t *testing.T) {
	out := Dump("ir", struct{ Name string }{Name: "main"})
	if !strings.HasPrefix(out, "ir:\n") {
		t.Fatalf("expected output to start with label, got %q", out)
	}
	if !strings.Contains(out, "main") {
		t.Fatalf("expected output to contain dumped value, got %q", out)
	}
}

func TestSortByFileNatural(t *testing.T) {
	diags := []FileDiagnostics{
		{File: "file10.jsnc", Errors: []error{errors.New("e")}},
		{File: "file2.jsnc", Errors: []error{errors.New("e")}},
		{File: "file1.jsnc", Errors: []error{errors.New("e")}},
	}

	SortByFileNatural(diags)

	want := []string{"file1.jsnc", "file2.jsnc", "file10.jsnc"}
	for i, f := range want {
		if diags[i].File != f {
			t.Fatalf("expected order %v, got %v at index %d", want, diags, i)
		}
	}
}
