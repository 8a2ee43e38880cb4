package gtp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Columns is the wire coordinate alphabet. The letter I is skipped by
// long-standing Go convention.
const Columns = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

var ErrBadVertex = errors.New("gtp: malformed vertex")

// ParseVertex decodes a wire vertex like "Q16" into zero-based column
// and row indices, the row counted from the top of the board. The wire
// form counts rows from the bottom starting at 1, so the mapping
// depends on the board size.
func ParseVertex(vertex string, size int) (col, row int, err error) {
	if size < 1 || size > len(Columns) || len(vertex) < 2 {
		return 0, 0, ErrBadVertex
	}

	vertex = strings.ToUpper(vertex)

	col = strings.IndexByte(Columns[:size], vertex[0])
	number, atoiErr := strconv.Atoi(vertex[1:])
	if col == -1 || atoiErr != nil || number < 1 || number > size {
		return 0, 0, ErrBadVertex
	}

	return col, size - number, nil
}

// FormatVertex is the inverse of ParseVertex: it encodes zero-based
// column and top-counted row indices back into the wire form.
func FormatVertex(col, row, size int) string {
	return fmt.Sprintf("%c%d", Columns[col], size-row)
}
