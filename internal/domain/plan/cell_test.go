package plan

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseCell_AcceptsBothOrders(t *testing.T) {
	for letter := 'A'; letter <= 'J'; letter++ {
		for number := 1; number <= 10; number++ {
			want := Cell{Column: int(letter - 'A'), Row: number - 1}

			forward := fmt.Sprintf("%c%d", letter, number)
			got, err := ParseCell(forward)
			if err != nil {
				t.Fatalf("ParseCell(%q) error: %v", forward, err)
			}
			if got != want {
				t.Fatalf("ParseCell(%q) = %+v, want %+v", forward, got, want)
			}

			reversed := fmt.Sprintf("%d%c", number, letter)
			got, err = ParseCell(reversed)
			if err != nil {
				t.Fatalf("ParseCell(%q) error: %v", reversed, err)
			}
			if got != want {
				t.Fatalf("ParseCell(%q) = %+v, want %+v", reversed, got, want)
			}
		}
	}
}

func TestParseCell_IsCaseInsensitive(t *testing.T) {
	got, err := ParseCell("b3")
	if err != nil {
		t.Fatalf("ParseCell error: %v", err)
	}
	if got != (Cell{Column: 1, Row: 2}) {
		t.Fatalf("unexpected cell: %+v", got)
	}
	got, err = ParseCell("10j")
	if err != nil {
		t.Fatalf("ParseCell error: %v", err)
	}
	if got != (Cell{Column: 9, Row: 9}) {
		t.Fatalf("unexpected cell: %+v", got)
	}
}

func TestParseCell_AcceptsPlusSign(t *testing.T) {
	for _, token := range []string{"+5A", "A+5", "+5a"} {
		got, err := ParseCell(token)
		if err != nil {
			t.Fatalf("ParseCell(%q) error: %v", token, err)
		}
		if got != (Cell{Column: 0, Row: 4}) {
			t.Fatalf("ParseCell(%q) = %+v, want A5", token, got)
		}
	}
}

func TestParseCell_Rejects(t *testing.T) {
	cases := []struct {
		token string
		kind  error
	}{
		{"A", ErrBadFormat},
		{"", ErrBadFormat},
		{"A100", ErrBadFormat},
		{"10", ErrBadFormat},
		{"55", ErrBadFormat},
		{"AB", ErrBadFormat},
		{"A-1", ErrBadFormat},
		{"ı5", ErrBadFormat},
		{"5ı", ErrBadFormat},
		{"ß5", ErrBadFormat},
		{"+A", ErrBadFormat},
		{"A++", ErrBadFormat},
		{"A11", ErrOutOfBounds},
		{"K5", ErrOutOfBounds},
		{"5K", ErrOutOfBounds},
		{"A0", ErrOutOfBounds},
		{"Z99", ErrOutOfBounds},
	}
	for _, tc := range cases {
		_, err := ParseCell(tc.token)
		if err == nil {
			t.Fatalf("ParseCell(%q) expected error", tc.token)
		}
		if !errors.Is(err, tc.kind) {
			t.Fatalf("ParseCell(%q) error = %v, want kind %v", tc.token, err, tc.kind)
		}
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Token != tc.token {
			t.Fatalf("ParseCell(%q) expected *ParseError with token, got %#v", tc.token, err)
		}
	}
}

func TestParseError_OutOfBoundsMessageCarriesRanges(t *testing.T) {
	_, err := ParseCell("K5")
	if got, want := err.Error(), `position out of bounds: "K5", valid range is A-J, 1-10`; got != want {
		t.Fatalf("message mismatch: got=%q want=%q", got, want)
	}
}

func TestCell_String(t *testing.T) {
	if got := (Cell{Column: 0, Row: 0}).String(); got != "A1" {
		t.Fatalf("expected A1, got %s", got)
	}
	if got := (Cell{Column: 9, Row: 9}).String(); got != "J10" {
		t.Fatalf("expected J10, got %s", got)
	}
	c, _ := ParseCell("3b")
	if c.String() != "B3" {
		t.Fatalf("expected B3, got %s", c)
	}
}

func TestCell_Valid(t *testing.T) {
	if !(Cell{Column: 9, Row: 9}).Valid() {
		t.Fatalf("J10 should be valid")
	}
	if (Cell{Column: 10, Row: 0}).Valid() || (Cell{Column: 0, Row: -1}).Valid() {
		t.Fatalf("cells outside the grid should be invalid")
	}
}
