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

// Package match drives head to head matches between two GTP engines
// and records every game as an SGF file.
package match

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/twogtp/pkg/gtp"
)

type Config struct {
	Black   gtp.EngineConfig `yaml:"black"`
	White   gtp.EngineConfig `yaml:"white"`
	Referee gtp.EngineConfig `yaml:"referee"`

	Alternate bool    `yaml:"alternate"`
	BoardSize int     `yaml:"size"`
	Komi      float64 `yaml:"komi"`
	Games     int     `yaml:"games"`
	MaxMoves  int     `yaml:"maxmoves"`

	MoveDelay time.Duration `yaml:"delay"`

	SGFDir string `yaml:"sgfs-dir"`
}

type Match struct {
	config Config

	// engines[0] plays Black in the first game.
	engines [2]Session
	referee Session

	// The live engine processes, for lifecycle handling.
	procs []*gtp.Engine
}

// New starts the configured engines. When no referee command is given
// the first engine doubles as the referee; the referee binding never
// alternates between games.
func New(config Config) (*Match, error) {
	var m Match
	m.config = config

	for i, engineConfig := range []gtp.EngineConfig{config.Black, config.White} {
		engine, err := gtp.Start(engineConfig)
		if err != nil {
			m.KillAll()
			return nil, err
		}

		m.engines[i] = engine
		m.procs = append(m.procs, engine)
	}

	m.referee = m.engines[0]
	if config.Referee.Cmd != "" {
		referee, err := gtp.Start(config.Referee)
		if err != nil {
			m.KillAll()
			return nil, err
		}

		m.referee = referee
		m.procs = append(m.procs, referee)
	}

	return &m, nil
}

// Run plays the configured number of games, persisting each record
// into the SGF directory. It stops between plies as soon as the
// context is cancelled, in which case no record is written for the
// aborted game.
func (m *Match) Run(ctx context.Context) error {
	black, white := 0, 1

	for number := 1; number <= m.config.Games; number++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		logrus.Infof(
			"\x1b[33mStarting\x1b[0m Game #%d: %s (B) vs %s (W)\n",
			number, m.engines[black].Name(), m.engines[white].Name(),
		)

		game := &Game{
			Black:   m.engines[black],
			White:   m.engines[white],
			Referee: m.referee,

			Size:     m.config.BoardSize,
			Komi:     m.config.Komi,
			MaxMoves: m.config.MaxMoves,
			Delay:    m.config.MoveDelay,
		}

		record, err := game.Play(ctx)
		if err != nil {
			return err
		}

		path, err := record.WriteDir(m.config.SGFDir)
		if err != nil {
			return err
		}

		logrus.Infof(
			"\x1b[32mFinished\x1b[0m Game #%d: %s (%s)\n",
			number, record.Result, path,
		)

		if m.config.Alternate {
			black, white = white, black
		}
	}

	return nil
}

// Quit sends quit to every engine and waits for each process to exit
// on its own. This is the normal completion path.
func (m *Match) Quit() {
	for _, engine := range m.procs {
		if err := engine.Quit(); err != nil {
			logrus.Warnf("quit %s: %v", engine.Name(), err)
		}
	}
}

// Interrupt asks every engine process to stop, then force-kills any
// that outlives the grace period.
func (m *Match) Interrupt() {
	for _, engine := range m.procs {
		_ = engine.Interrupt()
	}

	for _, engine := range m.procs {
		if err := engine.WaitTimeout(5 * time.Second); err != nil {
			_ = engine.Kill()
		}
	}
}

// KillAll force-kills every live engine process. It is the backstop
// against orphaned subprocesses after an internal fault.
func (m *Match) KillAll() {
	for _, engine := range m.procs {
		_ = engine.Kill()
	}
}
