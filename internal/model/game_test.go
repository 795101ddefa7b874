package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/plychess-backend/internal/chess"
	"github.com/benbeisheim/plychess-backend/internal/ws"
)

type fakeConn struct {
	messages chan ws.Message
	err      error
}

func newFakeConn() *fakeConn {
	return &fakeConn{messages: make(chan ws.Message, 32)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.err != nil {
		return c.err
	}
	c.messages <- v.(ws.Message)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) next(t *testing.T) GameState {
	t.Helper()
	select {
	case msg := <-c.messages:
		if msg.Type != ws.MessageTypeGameState {
			t.Fatalf("message type = %s, want %s", msg.Type, ws.MessageTypeGameState)
		}
		var state GameState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return state
	case <-time.After(2 * time.Second):
		t.Fatal("no state broadcast")
	}
	return GameState{}
}

func newPvPGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Mode = ModePvP
	g := NewGame("pvp-game", opts)
	if color, err := g.AddPlayer("alice"); err != nil || color != chess.White {
		t.Fatalf("AddPlayer(alice) = %s, %v", color, err)
	}
	if color, err := g.AddPlayer("bob"); err != nil || color != chess.Black {
		t.Fatalf("AddPlayer(bob) = %s, %v", color, err)
	}
	return g
}

func play(t *testing.T, g *Game, playerID, from, to string) {
	t.Helper()
	if err := g.MakeMove(playerID, WSMove{From: from, To: to}); err != nil {
		t.Fatalf("%s %s%s: %v", playerID, from, to, err)
	}
}

func TestAddPlayer(t *testing.T) {
	g := newPvPGame(t, Options{})
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player: err = %v, want ErrGameFull", err)
	}
	if color, err := g.AddPlayer("alice"); err != nil || color != chess.White {
		t.Errorf("rejoin = %s, %v; want white", color, err)
	}
	if players := g.State().Players; players.White.ID != "alice" || players.Black.ID != "bob" {
		t.Errorf("seats = %+v", players)
	}
}

func TestMakeMoveValidation(t *testing.T) {
	g := newPvPGame(t, Options{})

	tests := []struct {
		name   string
		player string
		move   WSMove
		want   error
	}{
		{"out of turn", "bob", WSMove{From: "e7", To: "e5"}, ErrNotYourTurn},
		{"spectator", "carol", WSMove{From: "e2", To: "e4"}, ErrNotInGame},
		{"bad square", "alice", WSMove{From: "e2", To: "e9"}, ErrInvalidMove},
		{"illegal", "alice", WSMove{From: "e2", To: "e5"}, ErrIllegalMove},
		{"empty origin", "alice", WSMove{From: "e4", To: "e5"}, ErrIllegalMove},
	}
	for _, tc := range tests {
		if err := g.MakeMove(tc.player, tc.move); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if got := g.State().FEN; got != chess.StartFEN {
		t.Errorf("rejected moves changed the board: %s", got)
	}
}

func TestMakeMoveRecordsHistory(t *testing.T) {
	g := newPvPGame(t, Options{})
	play(t, g, "alice", "e2", "e4")
	play(t, g, "bob", "d7", "d5")
	play(t, g, "alice", "e4", "d5")

	state := g.State()
	if state.ToMove != "black" {
		t.Errorf("ToMove = %s, want black", state.ToMove)
	}
	if len(state.MoveHistory) != 2 {
		t.Fatalf("history has %d moves, want 2", len(state.MoveHistory))
	}
	if got := state.MoveHistory[0].BlackPly.Notation; got != "d5" {
		t.Errorf("black reply notation = %q, want d5", got)
	}
	last := state.MoveHistory[1].WhitePly
	if last.Notation != "exd5" || last.CapturedPiece == nil || last.CapturedPiece.Kind != chess.Pawn {
		t.Errorf("capture ply = %+v", last)
	}
	if state.MoveHistory[1].BlackPly != nil {
		t.Error("black reply recorded before it was played")
	}
	if len(state.CapturedPieces.White) != 1 || state.Sound != "capture" {
		t.Errorf("captured = %v, sound = %q", state.CapturedPieces, state.Sound)
	}
	if state.LastMove == nil || state.LastMove.To.String() != "d5" {
		t.Errorf("LastMove = %+v", state.LastMove)
	}
}

func TestFoolsMateEndsGame(t *testing.T) {
	var finished []GameState
	g := newPvPGame(t, Options{OnFinish: func(s GameState) { finished = append(finished, s) }})
	play(t, g, "alice", "f2", "f3")
	play(t, g, "bob", "e7", "e5")
	play(t, g, "alice", "g2", "g4")
	play(t, g, "bob", "d8", "h4")

	state := g.State()
	if state.Status != chess.Checkmate || !state.IsCheck {
		t.Fatalf("status = %s, check = %v", state.Status, state.IsCheck)
	}
	if state.Resolve == nil || *state.Resolve != "checkmate" {
		t.Errorf("Resolve = %v, want checkmate", state.Resolve)
	}
	if state.Winner == nil || *state.Winner != "black" {
		t.Errorf("Winner = %v, want black", state.Winner)
	}
	if got := state.MoveHistory[1].BlackPly.Notation; got != "Qh4#" {
		t.Errorf("mating move notation = %q, want Qh4#", got)
	}
	if len(finished) != 1 {
		t.Fatalf("OnFinish called %d times, want 1", len(finished))
	}
	if err := g.MakeMove("alice", WSMove{From: "a2", To: "a3"}); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate: err = %v, want ErrGameOver", err)
	}
}

func TestComputerRepliesInline(t *testing.T) {
	g := NewGame("bot-game", Options{Mode: ModeComputer, HumanColor: chess.White})
	if color, err := g.AddPlayer("alice"); err != nil || color != chess.White {
		t.Fatalf("AddPlayer = %s, %v", color, err)
	}
	if _, err := g.AddPlayer("bob"); !errors.Is(err, ErrGameFull) {
		t.Errorf("second human: err = %v, want ErrGameFull", err)
	}
	if err := g.MakeMove(ComputerID, WSMove{From: "e7", To: "e5"}); !errors.Is(err, ErrNotInGame) {
		t.Errorf("moving for the computer: err = %v, want ErrNotInGame", err)
	}

	play(t, g, "alice", "e2", "e4")
	state := g.State()
	if state.ToMove != "white" {
		t.Fatalf("ToMove = %s, computer did not reply", state.ToMove)
	}
	reply := state.MoveHistory[0].BlackPly
	if reply == nil || reply.UCI != "b8c6" {
		t.Errorf("computer reply = %+v, want b8c6", reply)
	}
	if !state.Players.Black.Computer || state.Players.Black.ID != ComputerID {
		t.Errorf("black seat = %+v, want the computer", state.Players.Black)
	}
}

func TestComputerOpensAsWhite(t *testing.T) {
	g := NewGame("bot-white", Options{Mode: ModeComputer, HumanColor: chess.Black})
	if color, err := g.AddPlayer("bob"); err != nil || color != chess.Black {
		t.Fatalf("AddPlayer = %s, %v", color, err)
	}
	state := g.State()
	if state.ToMove != "black" || len(state.MoveHistory) != 1 {
		t.Fatalf("computer did not open: %+v", state)
	}
	if got := state.MoveHistory[0].WhitePly.UCI; got != "a2a3" {
		t.Errorf("opening move = %s, want a2a3", got)
	}

	if err := g.Reset("bob"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	state = g.State()
	if len(state.MoveHistory) != 1 || state.ToMove != "black" {
		t.Errorf("after reset the computer should have opened again: %+v", state.MoveHistory)
	}
}

func TestComputerRepliesAfterDelay(t *testing.T) {
	g := NewGame("slow-bot", Options{Mode: ModeComputer, HumanColor: chess.White, BotDelay: 10 * time.Millisecond})
	if _, err := g.AddPlayer("alice"); err != nil {
		t.Fatal(err)
	}
	play(t, g, "alice", "e2", "e4")

	deadline := time.Now().Add(2 * time.Second)
	for g.State().ToMove != "white" {
		if time.Now().After(deadline) {
			t.Fatal("computer never replied")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestReset(t *testing.T) {
	g := newPvPGame(t, Options{})
	play(t, g, "alice", "e2", "e4")

	if err := g.Reset("carol"); !errors.Is(err, ErrNotInGame) {
		t.Errorf("outsider reset: err = %v, want ErrNotInGame", err)
	}
	if err := g.Reset("bob"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	state := g.State()
	if state.FEN != chess.StartFEN || len(state.MoveHistory) != 0 || state.LastMove != nil {
		t.Errorf("state after reset = %+v", state)
	}
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Errorf("reset dropped the players: %+v", state.Players)
	}
}

func TestLegalMovesFrom(t *testing.T) {
	g := newPvPGame(t, Options{})
	hints, err := g.LegalMovesFrom("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hints) != 2 || hints[0].To != "f3" || hints[1].To != "h3" {
		t.Errorf("hints for g1 = %+v, want f3 and h3", hints)
	}
	if hints, _ := g.LegalMovesFrom("g8"); len(hints) != 0 {
		t.Errorf("hints for the side not on move = %+v", hints)
	}
	if _, err := g.LegalMovesFrom("j1"); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("bad square: err = %v", err)
	}
}

func TestStateSnapshotIsIsolated(t *testing.T) {
	g := newPvPGame(t, Options{})
	play(t, g, "alice", "e2", "e4")
	before := g.State()
	play(t, g, "bob", "e7", "e5")
	if before.MoveHistory[0].BlackPly != nil {
		t.Error("earlier snapshot observed a later move")
	}
}

func TestBroadcastToConnections(t *testing.T) {
	g := newPvPGame(t, Options{})
	conn := newFakeConn()
	if err := g.RegisterConnection("alice", conn); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if state := conn.next(t); state.FEN != chess.StartFEN {
		t.Errorf("initial state FEN = %s", state.FEN)
	}

	if err := g.RegisterConnection("alice", newFakeConn()); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("duplicate connection: err = %v", err)
	}
	if err := g.RegisterConnection("mallory", newFakeConn()); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("outsider on a full game: err = %v", err)
	}

	play(t, g, "alice", "d2", "d4")
	if state := conn.next(t); state.ToMove != "black" || state.LastMove == nil {
		t.Errorf("broadcast after move = %+v", state)
	}

	g.UnregisterConnection("alice", conn)
	if n := g.ConnectionCount(); n != 0 {
		t.Errorf("ConnectionCount = %d after unregister", n)
	}
}

func TestBroadcastDropsFailingConnection(t *testing.T) {
	g := newPvPGame(t, Options{})
	broken := &fakeConn{err: errors.New("broken pipe")}
	if err := g.RegisterConnection("bob", broken); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for g.ConnectionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("failing connection was never dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastSkipsOlderStates(t *testing.T) {
	g := newPvPGame(t, Options{})
	conn := newFakeConn()
	if err := g.RegisterConnection("alice", conn); err != nil {
		t.Fatal(err)
	}
	conn.next(t)

	play(t, g, "alice", "e2", "e4")
	latest := conn.next(t)

	stale := g.State()
	stale.Version = latest.Version - 1
	g.broadcastState(stale)
	g.broadcastState(g.State())
	select {
	case msg := <-conn.messages:
		t.Errorf("connection received %s for a version it already had", msg.Type)
	default:
	}

	play(t, g, "bob", "e7", "e5")
	if state := conn.next(t); state.Version != latest.Version+1 || state.ToMove != "white" {
		t.Errorf("next broadcast: version %d, to move %s", state.Version, state.ToMove)
	}
}

func TestResetOrphansScheduledReply(t *testing.T) {
	g := NewGame("timed-bot", Options{Mode: ModeComputer, HumanColor: chess.Black, BotDelay: time.Hour})
	defer g.Stop()
	if _, err := g.AddPlayer("bob"); err != nil {
		t.Fatal(err)
	}
	scheduled := g.botGen

	if err := g.Reset("bob"); err != nil {
		t.Fatal(err)
	}
	// The first timer fired just before the reset took the lock.
	g.playDelayedBot(scheduled)
	if n := len(g.State().MoveHistory); n != 0 {
		t.Fatalf("reply scheduled before the reset was played: %d moves", n)
	}
	if g.botTimer == nil {
		t.Fatal("reset did not schedule a new reply")
	}

	g.playDelayedBot(g.botGen)
	if state := g.State(); len(state.MoveHistory) != 1 || state.ToMove != "black" {
		t.Errorf("current reply not played: %+v", state.MoveHistory)
	}
}

func TestStopCancelsComputer(t *testing.T) {
	g := NewGame("stopped-bot", Options{Mode: ModeComputer, HumanColor: chess.Black, BotDelay: time.Hour})
	if _, err := g.AddPlayer("bob"); err != nil {
		t.Fatal(err)
	}
	g.Stop()
	if g.botTimer != nil {
		t.Error("Stop left the reply timer in place")
	}

	g.playDelayedBot(g.botGen)
	if n := len(g.State().MoveHistory); n != 0 {
		t.Errorf("computer moved after Stop: %d moves", n)
	}
	if err := g.Reset("bob"); err != nil {
		t.Fatal(err)
	}
	if g.botTimer != nil {
		t.Error("reset after Stop scheduled the computer again")
	}
}
