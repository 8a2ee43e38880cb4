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

package match

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/twogtp/pkg/sgf"
)

// Session is the part of a GTP engine the game loop drives. Stub
// sessions stand in for real engines in tests.
type Session interface {
	Name() string
	Send(command string) []string
}

// Game plays a single game between the Black and White sessions,
// asking the Referee session for the score once both sides pass.
type Game struct {
	Black, White, Referee Session

	Size     int
	Komi     float64
	MaxMoves int
	Delay    time.Duration
}

// wireMove keeps the raw wire token of a ply for the referee replay.
type wireMove struct {
	color sgf.Color
	token string
}

// Play runs one game to completion and returns its finished record.
// The loop strictly alternates one mover per ply, which is why a
// single "last move was a pass" flag is enough to detect a mutual
// pass: two consecutive passes are necessarily one per side.
func (game *Game) Play(ctx context.Context) (*sgf.Record, error) {
	game.setup(game.Black, game.White)

	record := sgf.New(game.Size, game.Komi)
	record.Black = game.Black.Name()
	record.White = game.White.Name()

	var history []wireMove
	lastMoveWasPass := false

	for ply := 1; ply <= game.MaxMoves; ply++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		color, mover, opponent := sgf.Black, game.Black, game.White
		if ply%2 == 0 {
			color, mover, opponent = sgf.White, game.White, game.Black
		}

		token := game.genmove(mover, color)

		switch {
		case strings.EqualFold(token, "resign"):
			record.Result = Resigned(color)

		case strings.EqualFold(token, "pass"):
			_ = record.AddMove(color, token)
			history = append(history, wireMove{color, token})

			if lastMoveWasPass {
				// A mutual pass always ends the game, even when the
				// referee's answer degrades to nothing: the referee
				// is asked exactly once.
				if record.Result = game.score(history); record.Result == "" {
					record.Result = ResultVoid
				}
			}
			lastMoveWasPass = true

		default:
			if err := record.AddMove(color, token); err != nil {
				return nil, fmt.Errorf("game: %s answered genmove with %q: %w", mover.Name(), token, err)
			}
			history = append(history, wireMove{color, token})

			opponent.Send(playCommand(color, token))
			lastMoveWasPass = false
		}

		if record.Result != "" {
			break
		}

		logrus.Tracef("record preview: %s", record.Serialize())

		if game.Delay > 0 {
			time.Sleep(game.Delay)
		}
	}

	if record.Result == "" {
		record.Result = ResultVoid
	}

	record.Date = sgf.Now().Format("2006-01-02")
	return record, nil
}

// setup prepares the given sessions for a fresh game. The board must
// be cleared before the size and komi are set.
func (game *Game) setup(sessions ...Session) {
	for _, command := range []string{
		"clear_board",
		fmt.Sprintf("boardsize %d", game.Size),
		fmt.Sprintf("komi %v", game.Komi),
	} {
		for _, session := range sessions {
			session.Send(command)
		}
	}
}

// genmove asks the session to generate a move for the given color and
// extracts the move token from its response.
func (game *Game) genmove(session Session, color sgf.Color) string {
	var indicator *spinner.Spinner
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		indicator = spinner.New(spinner.CharSets[11], 100*time.Millisecond)
		indicator.Suffix = " " + session.Name() + " is thinking"
		indicator.Start()
	}

	response := session.Send(fmt.Sprintf("genmove %s", wireColor(color)))

	if indicator != nil {
		indicator.Stop()
	}

	return firstLine(response)
}

// score resets the referee to this game's board and replays the
// accumulated moves into it before asking for the final score. Passes
// are skipped during the replay: they leave no stones to reproduce.
// The referee's answer is used verbatim, uppercased.
func (game *Game) score(history []wireMove) string {
	game.setup(game.Referee)

	for _, move := range history {
		if strings.EqualFold(move.token, "pass") {
			continue
		}

		game.Referee.Send(playCommand(move.color, move.token))
	}

	return strings.ToUpper(firstLine(game.Referee.Send("final_score")))
}

// playCommand builds a play command in canonical wire form.
func playCommand(color sgf.Color, token string) string {
	return fmt.Sprintf("play %s %s", wireColor(color), strings.ToUpper(token))
}

func wireColor(color sgf.Color) string {
	return strings.ToLower(string(color))
}

var responsePrefix = regexp.MustCompile(`^[\s=]*`)

// firstLine extracts the value of a single-value response. Only the
// first line matters; any further lines are protocol noise. An empty
// response yields an empty token, which no branch of the game loop
// accepts.
func firstLine(response []string) string {
	if len(response) == 0 {
		return ""
	}

	return responsePrefix.ReplaceAllString(strings.TrimSpace(response[0]), "")
}
