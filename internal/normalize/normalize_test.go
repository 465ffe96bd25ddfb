package normalize

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSentenceCase(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"SUPPORT SERVICES FOR THE PROGRAM", "Support services for the program"},
		{"  trimmed  ", "Trimmed"},
		{"", ""},
		{"WORK IN THE U.S. FOR FY25", "Work in the U.S. for FY25"},
		{"PHASE II EXTENSION", "Phase II extension"},
		{"PHASE III AWARD", "Phase III award"},
	}
	for _, tc := range cases {
		if got := sentenceCase(tc.in); got != tc.out {
			t.Fatalf("sentenceCase(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestNormalizerWithReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acronyms.csv")
	csv := "Acronym,Definition\nJPL,Jet Propulsion Laboratory\nISS,International Space Station\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("write reference: %v", err)
	}

	n, err := NewNormalizer(path)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	got := n.Normalize("SUPPORT FOR JPL AND THE INTERNATIONAL SPACE STATION")
	want := "Support for JPL and the International Space Station"
	if got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizerWithoutReference(t *testing.T) {
	n, err := NewNormalizer("")
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	if got := n.Normalize("PLAIN TEXT"); got != "Plain text" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestSanitizeRow(t *testing.T) {
	fields := []string{
		`"ACME ROCKET CORP"`, // 0 contractor
		"NNX12345",           // 1
		"x", `"HOUSTON, TX 0734"`, "x", "x",
		"CONTRACT",                       // 6 (arrives as award type, swapped to 7)
		"Small Business",                 // 7 (arrives as indicators, swapped to 6)
		`"$1,234"`,                       // 8
		`"$0"`,                           // 9
		"x", "x", "x", `"POC"`,           // 10-13
		`"ENGINEERING SUPPORT SERVICES"`, // 14
	}

	SanitizeRow(fields, mustNormalizer(t))

	want := []string{
		"Acme Rocket Corp",
		"NNX12345",
		"x", "HOUSTON, TX 0734", "x", "x",
		"Small Business",
		"CONTRACT",
		"$1,234",
		"$0",
		"x", "x", "x", "POC",
		"Engineering support services",
	}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
}

func TestSanitizeRowShort(t *testing.T) {
	// Short rows must not panic; nothing to swap or case.
	fields := []string{`"ACME"`, "N1"}
	SanitizeRow(fields, nil)
	if fields[0] != "Acme" {
		t.Fatalf("fields = %v", fields)
	}
}

func mustNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer("")
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}
