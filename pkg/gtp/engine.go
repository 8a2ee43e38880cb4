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

// Package gtp talks to external Go engines over the Go Text Protocol.
// The protocol is strictly request/response: a single command goes out
// on the engine's standard input and a single framed response comes
// back on its standard output. Pipelining is undefined and never done.
package gtp

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type EngineConfig struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
}

// Start launches the engine process described by the given config. The
// engine's standard error is inherited so its diagnostics stay visible.
func Start(config EngineConfig) (*Engine, error) {
	fields := strings.Fields(config.Cmd)
	if len(fields) == 0 {
		return nil, errors.New("gtp: empty engine command")
	}

	var engine Engine
	engine.config = config

	process := exec.Command(fields[0], fields[1:]...)
	process.Stderr = os.Stderr

	stdin, _ := process.StdinPipe()
	stdout, _ := process.StdoutPipe()

	engine.writer = bufio.NewWriter(stdin)
	engine.reader = bufio.NewReader(stdout)
	engine.lines = make(chan string)

	engine.Cmd = process

	if err := engine.Cmd.Start(); err != nil {
		return nil, err
	}

	go func() {
		for {
			line, err := engine.reader.ReadString('\n')
			if err != nil {
				engine.err = err
				close(engine.lines)
				return
			}

			line = strings.TrimRight(line, "\r\n")

			logrus.Debugf("info: ("+engine.config.Name+")> %s\n", line)
			engine.lines <- line
		}
	}()

	return &engine, nil
}

type Engine struct {
	config EngineConfig

	*exec.Cmd

	writer *bufio.Writer
	reader *bufio.Reader

	lines chan string

	err error
}

func (engine *Engine) Name() string {
	return engine.config.Name
}

// Send issues one command to the engine and blocks until its complete
// response has been read. The write happens on its own goroutine so a
// stalled input pipe cannot wedge anything but this call; its
// completion is still awaited before the response is read.
func (engine *Engine) Send(command string) []string {
	logrus.Debugf("info: ("+engine.config.Name+")< %s\n", command)

	written := make(chan error, 1)
	go func() {
		if _, err := fmt.Fprintf(engine.writer, "%s\n", command); err != nil {
			written <- err
			return
		}

		written <- engine.writer.Flush()
	}()

	if err := <-written; err != nil {
		logrus.Warnf("write to %s failed: %v", engine.config.Name, err)
	}

	return engine.readResponse()
}

// readResponse frames a single GTP response. Lines before the marker
// line (one starting with "=" or "?") are stray noise and dropped. From
// the marker onwards every line is collected until the empty terminator
// line, which is consumed but not returned. A closed stream yields
// whatever was collected, usually nothing.
func (engine *Engine) readResponse() []string {
	var response []string
	started := false

	for line := range engine.lines {
		if strings.HasPrefix(line, "=") || strings.HasPrefix(line, "?") {
			started = true
		}

		if !started {
			continue
		}

		if line == "" {
			return response
		}

		response = append(response, line)
	}

	logrus.Warnf("output stream of %s closed: %v", engine.config.Name, engine.err)
	return response
}

// Quit asks the engine to exit on its own and waits for the process.
func (engine *Engine) Quit() error {
	engine.Send("quit")
	return engine.Wait()
}

// Interrupt asks the engine's process to stop.
func (engine *Engine) Interrupt() error {
	return engine.Process.Signal(os.Interrupt)
}

// Kill force-kills the engine's process.
func (engine *Engine) Kill() error {
	return engine.Process.Kill()
}

var ErrQuitTimeout = errors.New("gtp: engine did not exit within the grace period")

// WaitTimeout waits for the engine's process to exit, giving up after
// the grace period so a hung engine cannot stall shutdown forever.
func (engine *Engine) WaitTimeout(grace time.Duration) error {
	exited := make(chan error, 1)
	go func() { exited <- engine.Wait() }()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-exited:
		return err
	case <-timer.C:
		return ErrQuitTimeout
	}
}
