package main

import (
	"strings"
	"testing"
)

func TestRootCmdRequiresFiscalYear(t *testing.T) {
	cmd, err := newRootCmd()
	if err != nil {
		t.Fatalf("newRootCmd: %v", err)
	}

	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})
	err = cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "fiscal-year") {
		t.Fatalf("expected missing fiscal-year error, got %v", err)
	}
}
