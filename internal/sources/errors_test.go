package sources

import "testing"

func TestIsConstraintViolation(t *testing.T) {
	cases := []struct {
		e    vendorError
		want bool
	}{
		{vendorError{Code: "too_big", Message: "", }, true},
		{vendorError{Code: "", Message: "Number must be less than or equal to 2"}, true},
		{vendorError{Code: "not_found", Message: "no such host"}, false},
	}
	for _, c := range cases {
		if got := isConstraintViolation(c.e); got != c.want {
			t.Fatalf("isConstraintViolation(%+v) = %v, want %v", c.e, got, c.want)
		}
	}
}

func TestIsEndOfData(t *testing.T) {
	if !isEndOfData("Error invalid skip/limit combo (>number of hosts)") {
		t.Fatalf("expected end-of-data sentinel to match")
	}
	if isEndOfData("some other error") {
		t.Fatalf("expected no match")
	}
}

func TestIsInvalidCursor(t *testing.T) {
	if !isInvalidCursor("Invalid cursor") {
		t.Fatalf("expected invalid cursor sentinel to match")
	}
	if isInvalidCursor("totally fine") {
		t.Fatalf("expected no match")
	}
}
