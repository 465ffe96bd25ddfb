package report

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"awardstats/internal/aggregate"
	"awardstats/internal/core"
)

func TestFormatDollars(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "$0"},
		{1234567, "$1234567"}, // no thousands separators, no decimals
		{-45, "-$45"},
	}
	for _, tc := range cases {
		if got := FormatDollars(tc.in); got != tc.out {
			t.Fatalf("FormatDollars(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestStateSummaryRowColumnOrder(t *testing.T) {
	sc := aggregate.NewScope("CA FY2024")
	aggregate.Fold(core.ClassifiedRecord{
		Recipient:  "ACME UNIV",
		Obligation: 150,
		Categories: core.NewCategorySet(core.SmallBusiness, core.Educational, core.StateUniversity),
	}, sc)

	row := StateSummaryRow("CA", sc.Totals())
	want := []string{
		"CA", "1", "$150",
		"1", "$150", // small business
		"0", "$0", // woman owned
		"0", "$0", // minority owned
		"1", "$150", // educational
		"1", "$150", // public university
		"0", "$0", // hbcu
		"0", "$0", // non-profit
		"0", "$0", // research grant
	}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("row = %v, want %v", row, want)
	}
	if len(row) != len(StateSummaryHeader()) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(StateSummaryHeader()))
	}
}

func TestGrandTotalRowOmitsNonProfit(t *testing.T) {
	header := GrandTotalHeader()
	for _, col := range header {
		if strings.Contains(col, "Non-Profit") {
			t.Fatalf("grand total header must not carry non-profit: %v", header)
		}
	}

	sc := aggregate.NewScope("FY2023-FY2024")
	aggregate.Fold(core.ClassifiedRecord{
		Recipient:  "HELPERS INC",
		Obligation: 99,
		Categories: core.NewCategorySet(core.NonProfit),
	}, sc)
	row := GrandTotalRow("FY2023-FY2024", sc.Totals())
	if len(row) != len(header) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(header))
	}
}

func TestEmissionIsIdempotent(t *testing.T) {
	sc := aggregate.NewScope("CA FY2024")
	aggregate.Fold(core.ClassifiedRecord{Recipient: "A", Obligation: 10}, sc)

	first := StateSummaryRow("CA", sc.Totals())
	second := StateSummaryRow("CA", sc.Totals())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("emitting twice differs: %v vs %v", first, second)
	}
}

func TestRenderTSV(t *testing.T) {
	got := RenderTSV([][]string{{"a", "b"}, {"c"}})
	if got != "a\tb\nc\n" {
		t.Fatalf("RenderTSV = %q", got)
	}
}

func TestRawDump(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	d, err := w.OpenRawDump("dump.tsv")
	if err != nil {
		t.Fatalf("OpenRawDump: %v", err)
	}
	if err := d.WriteHeader([]string{"Contractor", "Award"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	// Second header call is a no-op: one header per fiscal year.
	if err := d.WriteHeader([]string{"other"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := d.WriteRow("CA", "CA-12", []string{"Acme", "N1"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(w.Dir(), "dump.tsv"))
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	want := "State\tDistrict\tContractor\tAward\nCA\tCA-12\tAcme\tN1\n"
	if string(data) != want {
		t.Fatalf("dump = %q, want %q", string(data), want)
	}
}
