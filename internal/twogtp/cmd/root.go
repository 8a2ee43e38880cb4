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

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	twogtp "laptudirm.com/x/twogtp/pkg/common"
	"laptudirm.com/x/twogtp/pkg/match"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "twogtp --black cmd --white cmd",
		Short: "Play matches between two GTP Go engines",
		Args:  cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		Long: heredoc.Doc(`twogtp plays one or more games between two Go engines which
			speak the Go Text Protocol on their standard input and
			output, and records every finished game as an SGF file.

			The --black and --white flags give the launch commands of
			the two engines. When both sides pass, the engine given
			with --referee is asked for the final score; without a
			referee the black engine scores its own games. A game that
			reaches --maxmoves plies without a mutual pass or a
			resignation is recorded with the result Void.

			A full match configuration can also be kept in a YAML file
			and loaded with --config; flags given explicitly on the
			command line override the file.`),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flag("debug").Changed {
				logrus.SetLevel(logrus.DebugLevel)
			}

			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},

		RunE: run,
	}

	// global flags
	root.PersistentFlags().BoolP("help", "h", false, "Show Help Information")
	root.PersistentFlags().BoolP("debug", "d", false, "Show the Engine Communication")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

	flags := root.Flags()
	flags.String("config", "", "YAML file holding the full match configuration")
	flags.String("black", "", "launch command of the Black engine")
	flags.String("white", "", "launch command of the White engine")
	flags.String("referee", "", "launch command of the referee engine")
	flags.String("black-name", "b", "display name of the Black engine")
	flags.String("white-name", "w", "display name of the White engine")
	flags.Bool("alternate", false, "swap sides after every game")
	flags.Int("size", 19, "board size")
	flags.Float64("komi", 6.5, "komi")
	flags.Int("games", 1, "number of games to play")
	flags.Int("maxmoves", 1000, "maximum number of plies per game")
	flags.Duration("delay", 0, "delay between moves")
	flags.String("sgfs-dir", twogtp.SGFDirectory, "directory the SGF files are written into")

	return root
}

func run(cmd *cobra.Command, args []string) error {
	config, err := configure(cmd)
	if err != nil {
		return err
	}

	m, err := match.New(config)
	if err != nil {
		return err
	}

	// Whatever goes wrong, engine processes must not be orphaned.
	defer func() {
		if fault := recover(); fault != nil {
			m.KillAll()
			logrus.Error(fault)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch err := m.Run(ctx); {
	case errors.Is(err, context.Canceled):
		logrus.Info("interrupted")
		m.Interrupt()
		os.Exit(130)

	case err != nil:
		m.KillAll()
		return err
	}

	m.Quit()
	return nil
}
