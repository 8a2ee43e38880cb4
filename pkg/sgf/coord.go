package sgf

import (
	"strings"

	"laptudirm.com/x/twogtp/pkg/gtp"
)

// letters is the persisted coordinate alphabet. Unlike the wire
// alphabet it is contiguous: the letter I is not skipped.
const letters = "abcdefghijklmnopqrstuvwxyz"

// FromVertex converts a wire vertex into the persisted letter pair,
// column letter first, both zero-based and counted from the top left.
func FromVertex(vertex string, size int) (string, error) {
	col, row, err := gtp.ParseVertex(vertex, size)
	if err != nil {
		return "", err
	}

	return string([]byte{letters[col], letters[row]}), nil
}

// ToVertex converts a persisted letter pair back into its wire form.
func ToVertex(coord string, size int) (string, error) {
	if len(coord) != 2 || size < 1 || size > len(letters) {
		return "", gtp.ErrBadVertex
	}

	col := strings.IndexByte(letters[:size], coord[0])
	row := strings.IndexByte(letters[:size], coord[1])
	if col == -1 || row == -1 {
		return "", gtp.ErrBadVertex
	}

	return gtp.FormatVertex(col, row, size), nil
}
