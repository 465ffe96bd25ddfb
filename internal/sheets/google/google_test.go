package google

import (
	"context"
	"testing"
)

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), "", "Grand Totals"); err == nil {
		t.Fatal("expected error for empty spreadsheet ID")
	}
	if _, err := New(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for blank spreadsheet ID")
	}
}
