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
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"laptudirm.com/x/twogtp/pkg/match"
)

// configure builds the match configuration: a --config YAML file gives
// the base values and any flag set explicitly on the command line wins
// over it. Unset values fall back to the flag defaults.
func configure(cmd *cobra.Command) (match.Config, error) {
	flags := cmd.Flags()

	var config match.Config
	if path, _ := flags.GetString("config"); path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return config, err
		}

		if err := yaml.Unmarshal(file, &config); err != nil {
			return config, err
		}
	}

	overrideString(flags, "black", &config.Black.Cmd)
	overrideString(flags, "white", &config.White.Cmd)
	overrideString(flags, "referee", &config.Referee.Cmd)
	overrideString(flags, "black-name", &config.Black.Name)
	overrideString(flags, "white-name", &config.White.Name)
	overrideString(flags, "sgfs-dir", &config.SGFDir)

	overrideInt(flags, "size", &config.BoardSize)
	overrideInt(flags, "games", &config.Games)
	overrideInt(flags, "maxmoves", &config.MaxMoves)
	overrideFloat(flags, "komi", &config.Komi)

	if flags.Changed("alternate") {
		config.Alternate, _ = flags.GetBool("alternate")
	}

	if flags.Changed("delay") || config.MoveDelay == 0 {
		config.MoveDelay, _ = flags.GetDuration("delay")
	}

	if config.Black.Cmd == "" {
		return config, errors.New("no launch command configured for the black engine")
	}

	if config.White.Cmd == "" {
		return config, errors.New("no launch command configured for the white engine")
	}

	if config.Referee.Cmd != "" && config.Referee.Name == "" {
		config.Referee.Name = "referee"
	}

	return config, nil
}

func overrideString(flags *pflag.FlagSet, name string, target *string) {
	if flags.Changed(name) || *target == "" {
		*target, _ = flags.GetString(name)
	}
}

func overrideInt(flags *pflag.FlagSet, name string, target *int) {
	if flags.Changed(name) || *target == 0 {
		*target, _ = flags.GetInt(name)
	}
}

func overrideFloat(flags *pflag.FlagSet, name string, target *float64) {
	if flags.Changed(name) || *target == 0 {
		*target, _ = flags.GetFloat64(name)
	}
}
