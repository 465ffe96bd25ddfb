package npdv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchExport(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Write([]byte("line1\nline2\n"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{URL: srv.URL, RequestsPerSecond: 1000, Burst: 10})
	text, err := c.FetchExport(context.Background(), 2025, State{Code: "CA", Name: "California"})
	if err != nil {
		t.Fatalf("FetchExport: %v", err)
	}
	if text != "line1\nline2\n" {
		t.Fatalf("unexpected body %q", text)
	}

	want := map[string]string{
		"fy":           "FY 25",
		"v_database":   "FY25",
		"v_start_date": "2024-10-01",
		"v_end_date":   "2025-09-30",
		"v_state":      "CALIFORNIA",
		"v_state2":     "CA",
		"v_code":       "53",
		"action":       "Export to Excel",
	}
	for k, v := range want {
		if gotForm[k] != v {
			t.Fatalf("form[%s] = %q, want %q", k, gotForm[k], v)
		}
	}
}

func TestFetchExportInvalidCombination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Invalid Entry"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{URL: srv.URL, RequestsPerSecond: 1000, Burst: 10})
	_, err := c.FetchExport(context.Background(), 2025, State{Code: "VI", Name: "Virgin Islands"})
	if !errors.Is(err, ErrInvalidCombination) {
		t.Fatalf("expected ErrInvalidCombination, got %v", err)
	}
}

func TestFetchExportBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{URL: srv.URL, RequestsPerSecond: 1000, Burst: 10})
	if _, err := c.FetchExport(context.Background(), 2025, State{Code: "CA", Name: "California"}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
