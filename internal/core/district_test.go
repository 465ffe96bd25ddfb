package core

import "testing"

func TestResolveDistrict(t *testing.T) {
	cases := []struct {
		state string
		place string
		out   string
	}{
		{"AK", "ANCHORAGE, AK 99501", "AK-00"}, // at-large ignores the token
		{"WY", "", "WY-00"},
		{"MT", "anything", "MT-00"},
		{"CA", "SAN JOSE, CA 1215", "CA-12"},
		{"WA", "SEATTLE, WA 0734", "WA-07"},
		{"CA", "LOS ANGELES 0099", ""}, // zero district is unassigned
		{"CA", "0000", ""},
		{"CA", "ab", ""},   // too short
		{"CA", "xxyy", ""}, // not digits
		{"CA", "", ""},
	}
	for _, tc := range cases {
		if got := ResolveDistrict(tc.state, tc.place); got != tc.out {
			t.Fatalf("ResolveDistrict(%q, %q) = %q, want %q", tc.state, tc.place, got, tc.out)
		}
	}
}
