package core

import "strconv"

// States and territories with a single at-large congressional district.
// Their exports carry no usable district number, so the label is fixed.
var atLargeStates = map[string]struct{}{
	"AK": {},
	"WY": {},
	"MT": {},
	"ND": {},
	"SD": {},
	"VT": {},
	"DE": {},
}

// ResolveDistrict derives a display district label ("WA-07", "MT-00") from
// the place-of-performance field. At-large states always resolve to "XX-00"
// regardless of the token. For every other state the two digits at
// place[len-4:len-2] are read; zero or unparsable digits yield the empty
// label (district unknown). Never fails.
func ResolveDistrict(state, place string) string {
	if _, ok := atLargeStates[state]; ok {
		return state + "-00"
	}

	if len(place) >= 4 {
		number := place[len(place)-4 : len(place)-2]
		if isDigits(number) {
			if n, _ := strconv.Atoi(number); n != 0 {
				return state + "-" + number
			}
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
