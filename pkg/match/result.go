package match

import "laptudirm.com/x/twogtp/pkg/sgf"

// ResultVoid is recorded when a game ends without a resignation or a
// mutual pass inside the ply budget. It is a deliberate no-result,
// distinct from any score the referee could report.
const ResultVoid = "Void"

// Resigned returns the result string for a game the given color
// resigned: the opposite color wins by resignation.
func Resigned(color sgf.Color) string {
	if color == sgf.Black {
		return "W+R"
	}

	return "B+R"
}
