package match

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/twogtp/pkg/sgf"
)

func TestMain(m *testing.M) {
	// Debug level keeps the thinking spinner out of the test output.
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// stubSession replays a scripted list of genmove answers, repeating
// the last one forever, and logs every command it receives.
type stubSession struct {
	name  string
	moves []string
	score string

	generated int
	log       []string
}

func (stub *stubSession) Name() string { return stub.name }

func (stub *stubSession) Send(command string) []string {
	stub.log = append(stub.log, command)

	switch {
	case strings.HasPrefix(command, "genmove "):
		move := stub.moves[len(stub.moves)-1]
		if stub.generated < len(stub.moves) {
			move = stub.moves[stub.generated]
		}
		stub.generated++
		return []string{"= " + move}

	case command == "final_score":
		return []string{"= " + stub.score}

	default:
		return []string{"="}
	}
}

func (stub *stubSession) received(prefix string) []string {
	var matched []string
	for _, command := range stub.log {
		if strings.HasPrefix(command, prefix) {
			matched = append(matched, command)
		}
	}
	return matched
}

func play(t *testing.T, game *Game) *sgf.Record {
	t.Helper()

	record, err := game.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	return record
}

func TestMutualPassTriggersScoring(t *testing.T) {
	black := &stubSession{name: "b", moves: []string{"pass"}}
	white := &stubSession{name: "w", moves: []string{"pass"}}
	referee := &stubSession{name: "referee", score: "b+2.5"}

	record := play(t, &Game{
		Black: black, White: white, Referee: referee,
		Size: 9, Komi: 6.5, MaxMoves: 100,
	})

	if record.Result != "B+2.5" {
		t.Fatalf("result = %q, want the referee's answer uppercased", record.Result)
	}

	if got := len(record.Moves()); got != 0 {
		t.Fatalf("record keeps %d moves, want 0 after the mutual pass trim", got)
	}

	// The referee was reset and asked to score without any replay:
	// both recorded moves were passes.
	want := []string{"clear_board", "boardsize 9", "komi 6.5", "final_score"}
	if len(referee.log) != len(want) {
		t.Fatalf("referee saw %q, want %q", referee.log, want)
	}
	for i, command := range want {
		if referee.log[i] != command {
			t.Fatalf("referee saw %q, want %q", referee.log, want)
		}
	}
}

func TestMutualPassEndsGameWithoutScore(t *testing.T) {
	black := &stubSession{name: "b", moves: []string{"pass"}}
	white := &stubSession{name: "w", moves: []string{"pass"}}

	// The referee's output stream is gone: final_score degrades to an
	// empty answer. The mutual pass must still end the game.
	referee := &stubSession{name: "referee", score: ""}

	record := play(t, &Game{
		Black: black, White: white, Referee: referee,
		Size: 9, Komi: 6.5, MaxMoves: 10,
	})

	if record.Result != ResultVoid {
		t.Fatalf("result = %q, want %q", record.Result, ResultVoid)
	}

	if scores := referee.received("final_score"); len(scores) != 1 {
		t.Fatalf("final_score asked %d times, want exactly once", len(scores))
	}

	if genmoves := black.received("genmove "); len(genmoves) != 1 {
		t.Fatalf("black generated %d moves after the mutual pass, want 1", len(genmoves))
	}

	if genmoves := white.received("genmove "); len(genmoves) != 1 {
		t.Fatalf("white generated %d moves after the mutual pass, want 1", len(genmoves))
	}
}

func TestResignation(t *testing.T) {
	t.Run("black resigns immediately", func(t *testing.T) {
		black := &stubSession{name: "b", moves: []string{"resign"}}
		white := &stubSession{name: "w", moves: []string{"pass"}}

		record := play(t, &Game{
			Black: black, White: white, Referee: black,
			Size: 19, Komi: 6.5, MaxMoves: 100,
		})

		if record.Result != "W+R" {
			t.Fatalf("result = %q, want W+R", record.Result)
		}

		if got := len(record.Moves()); got != 0 {
			t.Fatalf("record keeps %d moves, want 0: a resignation is not a move", got)
		}

		if plays := white.received("play "); len(plays) != 0 {
			t.Fatalf("white was sent %q after a resignation", plays)
		}
	})

	t.Run("white resigns after one move", func(t *testing.T) {
		black := &stubSession{name: "b", moves: []string{"D4"}}
		white := &stubSession{name: "w", moves: []string{"resign"}}

		record := play(t, &Game{
			Black: black, White: white, Referee: black,
			Size: 19, Komi: 6.5, MaxMoves: 100,
		})

		if record.Result != "B+R" {
			t.Fatalf("result = %q, want B+R", record.Result)
		}

		if got := len(record.Moves()); got != 1 {
			t.Fatalf("record keeps %d moves, want 1", got)
		}
	})
}

func TestPlyBudgetExhaustion(t *testing.T) {
	black := &stubSession{name: "b", moves: []string{"D4"}}
	white := &stubSession{name: "w", moves: []string{"Q16"}}

	record := play(t, &Game{
		Black: black, White: white, Referee: black,
		Size: 19, Komi: 6.5, MaxMoves: 6,
	})

	if record.Result != ResultVoid {
		t.Fatalf("result = %q, want %q", record.Result, ResultVoid)
	}

	if got := len(record.Moves()); got != 6 {
		t.Fatalf("record keeps %d moves, want exactly the ply budget", got)
	}
}

func TestMoveRelay(t *testing.T) {
	black := &stubSession{name: "b", moves: []string{"d4", "pass"}}
	white := &stubSession{name: "w", moves: []string{"c3", "pass"}}
	referee := &stubSession{name: "referee", score: "W+0.5"}

	record := play(t, &Game{
		Black: black, White: white, Referee: referee,
		Size: 9, Komi: 6.5, MaxMoves: 100,
	})

	if record.Result != "W+0.5" {
		t.Fatalf("result = %q, want W+0.5", record.Result)
	}

	// Each move reaches only the opponent, in canonical uppercase.
	if plays := white.received("play "); len(plays) != 1 || plays[0] != "play b D4" {
		t.Fatalf("white was sent %q, want [play b D4]", plays)
	}

	if plays := black.received("play "); len(plays) != 1 || plays[0] != "play w C3" {
		t.Fatalf("black was sent %q, want [play w C3]", plays)
	}

	// The referee replay skips the passes.
	want := []string{"play b D4", "play w C3"}
	plays := referee.received("play ")
	if len(plays) != len(want) || plays[0] != want[0] || plays[1] != want[1] {
		t.Fatalf("referee replay %q, want %q", plays, want)
	}
}

func TestRunAlternatesSides(t *testing.T) {
	one := &stubSession{name: "one", moves: []string{"pass"}, score: "b+1.5"}
	two := &stubSession{name: "two", moves: []string{"pass"}}

	m := &Match{
		config: Config{
			Games:     3,
			Alternate: true,
			BoardSize: 9,
			Komi:      6.5,
			MaxMoves:  10,
			SGFDir:    filepath.Join(t.TempDir(), "sgfs"),
		},
		engines: [2]Session{one, two},
		referee: one,
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Engine one holds Black in games 1 and 3, White in game 2. The
	// engine bound to Black in game i+1 is the one that held White in
	// game i.
	wantOne := []string{"genmove b", "genmove w", "genmove b"}
	wantTwo := []string{"genmove w", "genmove b", "genmove w"}

	gotOne := one.received("genmove ")
	gotTwo := two.received("genmove ")

	for i := range wantOne {
		if i >= len(gotOne) || gotOne[i] != wantOne[i] {
			t.Fatalf("engine one generated %q, want %q", gotOne, wantOne)
		}
		if i >= len(gotTwo) || gotTwo[i] != wantTwo[i] {
			t.Fatalf("engine two generated %q, want %q", gotTwo, wantTwo)
		}
	}
}

func TestRunWritesRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sgfs")

	one := &stubSession{name: "one", moves: []string{"E5", "pass"}, score: "b+7.5"}
	two := &stubSession{name: "two", moves: []string{"pass"}}

	m := &Match{
		config: Config{
			Games:     1,
			BoardSize: 9,
			Komi:      6.5,
			MaxMoves:  10,
			SGFDir:    dir,
		},
		engines: [2]Session{one, two},
		referee: one,
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}

	if len(entries) != 1 {
		t.Fatalf("found %d records, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("reading record: %v", err)
	}

	document := string(data)
	if !strings.Contains(document, "RE[B+7.5]") || !strings.Contains(document, ";B[ee]") {
		t.Fatalf("unexpected record %q", document)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	one := &stubSession{name: "one", moves: []string{"pass"}}
	two := &stubSession{name: "two", moves: []string{"pass"}}

	m := &Match{
		config: Config{Games: 1, BoardSize: 9, Komi: 6.5, MaxMoves: 10, SGFDir: t.TempDir()},

		engines: [2]Session{one, two},
		referee: one,
	}

	if err := m.Run(ctx); err != context.Canceled {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}

	if len(one.log) != 0 {
		t.Fatalf("engine one saw %q after cancellation", one.log)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		response []string
		want     string
	}{
		{response: []string{"=  pass", "noise"}, want: "pass"},
		{response: []string{"= B+2.5"}, want: "B+2.5"},
		{response: []string{"="}, want: ""},
		{response: nil, want: ""},
	}

	for _, test := range tests {
		if got := firstLine(test.response); got != test.want {
			t.Fatalf("firstLine(%q) = %q, want %q", test.response, got, test.want)
		}
	}
}

func TestResigned(t *testing.T) {
	if got := Resigned(sgf.Black); got != "W+R" {
		t.Fatalf("Resigned(Black) = %q", got)
	}

	if got := Resigned(sgf.White); got != "B+R" {
		t.Fatalf("Resigned(White) = %q", got)
	}
}
