// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sgf encodes finished games as Smart Game Format records: a
// root node carrying the game metadata followed by one node per move.
package sgf

import (
	"fmt"
	"strings"
)

// Color identifies the player a move or result belongs to.
type Color string

const (
	Black Color = "B"
	White Color = "W"
)

// Move is one recorded ply. Coord holds the persisted letter-pair
// coordinate; a pass is stored with an empty Coord, never omitted.
type Move struct {
	Color Color
	Coord string
}

// Record is the game record of a single game. It is built up move by
// move while the game runs and serialized once the result is known.
type Record struct {
	Size int
	Komi float64

	Date   string
	Black  string
	White  string
	Result string

	moves []Move
}

func New(size int, komi float64) *Record {
	return &Record{Size: size, Komi: komi}
}

// AddMove records one ply from its wire token. Resignations must not be
// recorded; they only ever set the result.
func (record *Record) AddMove(color Color, token string) error {
	if strings.EqualFold(token, "pass") {
		record.moves = append(record.moves, Move{Color: color})
		return nil
	}

	coord, err := FromVertex(token, record.Size)
	if err != nil {
		return err
	}

	record.moves = append(record.moves, Move{Color: color, Coord: coord})
	return nil
}

// Moves returns the moves that survive serialization, with the
// terminating passes already trimmed.
func (record *Record) Moves() []Move {
	return record.trimmed()
}

// trimmed drops the trailing run of passes when it is two or more moves
// long. A mutual pass only signals the end of the game; the record
// keeps just the moves played before it.
func (record *Record) trimmed() []Move {
	passes := 0
	for i := len(record.moves) - 1; i >= 0 && record.moves[i].Coord == ""; i-- {
		passes++
	}

	if passes >= 2 {
		return record.moves[:len(record.moves)-passes]
	}

	return record.moves
}

// Serialize renders the record as a single SGF game tree.
func (record *Record) Serialize() string {
	var document strings.Builder

	document.WriteString("(;GM[1]FF[4]CA[utf-8]")
	fmt.Fprintf(&document, "SZ[%d]", record.Size)

	if record.Date != "" {
		fmt.Fprintf(&document, "DT[%s]", record.Date)
	}
	if record.Black != "" {
		fmt.Fprintf(&document, "PB[%s]", record.Black)
	}
	if record.White != "" {
		fmt.Fprintf(&document, "PW[%s]", record.White)
	}

	fmt.Fprintf(&document, "KM[%v]", record.Komi)

	if record.Result != "" {
		fmt.Fprintf(&document, "RE[%s]", record.Result)
	}

	for _, move := range record.trimmed() {
		fmt.Fprintf(&document, ";%s[%s]", move.Color, move.Coord)
	}

	document.WriteString(")\n")
	return document.String()
}
