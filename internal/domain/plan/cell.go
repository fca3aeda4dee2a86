package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// Grid bounds as presented to users. Columns are letters, rows are numbers.
const (
	MinLetter = 'A'
	MaxLetter = 'J'
	MinNumber = 1
	MaxNumber = 10

	Columns = int(MaxLetter-MinLetter) + 1
	Rows    = MaxNumber - MinNumber + 1
)

// Cell is a zero-based grid coordinate. Values outside the grid are never
// produced by ParseCell.
type Cell struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

func (c Cell) Valid() bool {
	return c.Column >= 0 && c.Column < Columns && c.Row >= 0 && c.Row < Rows
}

// String renders the one-based user form, e.g. "B3".
func (c Cell) String() string {
	return fmt.Sprintf("%c%d", rune(MinLetter+c.Column), c.Row+MinNumber)
}

// ParseCell accepts "A5" as well as "5A", case-insensitive for ASCII
// letters only. The number may carry a leading '+'.
func ParseCell(token string) (Cell, error) {
	if len(token) < 2 || len(token) > 3 {
		return Cell{}, &ParseError{Token: token, Kind: ErrBadFormat, Reason: "expected 2-3 characters"}
	}

	upper := asciiUpper(token)
	var letter byte
	var rest string
	switch {
	case isASCIILetter(upper[0]):
		letter, rest = upper[0], upper[1:]
	case isASCIILetter(upper[len(upper)-1]):
		letter, rest = upper[len(upper)-1], upper[:len(upper)-1]
	default:
		return Cell{}, &ParseError{Token: token, Kind: ErrBadFormat, Reason: "no letter"}
	}

	number, err := strconv.ParseUint(strings.TrimPrefix(rest, "+"), 10, 8)
	if err != nil {
		return Cell{}, &ParseError{Token: token, Kind: ErrBadFormat, Reason: "not a number", Err: err}
	}

	if letter < MinLetter || letter > MaxLetter || number < MinNumber || number > MaxNumber {
		return Cell{}, &ParseError{Token: token, Kind: ErrOutOfBounds}
	}

	return Cell{Column: int(letter - MinLetter), Row: int(number) - MinNumber}, nil
}

// asciiUpper folds a-z only, so the byte length never changes.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func isASCIILetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
