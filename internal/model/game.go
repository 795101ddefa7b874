package model

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/plychess-backend/internal/chess"
	"github.com/benbeisheim/plychess-backend/internal/ws"
)

// StateWriter is the part of a websocket connection a game pushes state through.
type StateWriter interface {
	WriteJSON(v interface{}) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*gameConn // playerID -> connection
	mu          sync.RWMutex
	// sendMu orders deliveries; sent is only touched while holding it.
	sendMu sync.Mutex
}

type gameConn struct {
	writer StateWriter
	sent   uint64 // last GameState.Version written
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*gameConn),
	}
}

type Options struct {
	Mode GameMode
	// HumanColor is the side the human plays in computer games.
	HumanColor chess.Color
	// BotDelay holds back the computer's reply; zero replies inline.
	BotDelay time.Duration
	// OnFinish is called once, outside the game lock, when a game ends.
	OnFinish func(GameState)
}

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID          string
	mu          sync.Mutex
	mode        GameMode
	position    chess.Position
	state       GameState
	connections *GameConnections
	botColor    chess.Color
	botDelay    time.Duration
	botTimer    *time.Timer
	botGen      uint64 // bumped to orphan scheduled bot replies
	stopped     bool
	onFinish    func(GameState)
}

type GameState struct {
	ID             string         `json:"id"`
	Version        uint64         `json:"version"`
	Mode           GameMode       `json:"mode"`
	Sound          string         `json:"sound"`
	Board          *BoardState    `json:"boardState"`
	FEN            string         `json:"fen"`
	ToMove         string         `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Status         chess.Status   `json:"status"`
	StatusText     string         `json:"statusText"`
	Resolve        *string        `json:"resolve"`
	Winner         *string        `json:"winner"`
	Players        Players        `json:"players"`
	LastMove       *SimpleMove    `json:"lastMove"`
}

// CapturedPieces lists, per color, the enemy pieces that side has taken.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func NewGame(id string, opts Options) *Game {
	g := &Game{
		ID:          id,
		mode:        opts.Mode,
		connections: NewGameConnections(),
		botColor:    opts.HumanColor.Opponent(),
		botDelay:    opts.BotDelay,
		onFinish:    opts.OnFinish,
	}
	if g.mode == "" {
		g.mode = ModeComputer
	}
	g.mu.Lock()
	g.resetLocked()
	if g.mode == ModeComputer {
		seat := g.state.Players.seat(g.botColor)
		*seat = ClientPlayer{ID: ComputerID, Color: g.botColor.String(), Computer: true}
	}
	g.startBotLocked()
	g.mu.Unlock()
	return g
}

// resetLocked puts the board back to the start, keeping the seated players.
func (g *Game) resetLocked() {
	players := g.state.Players
	g.position = chess.NewGame()
	g.state = GameState{
		ID:          g.ID,
		Version:     g.state.Version,
		Mode:        g.mode,
		MoveHistory: make([]Move, 0),
		CapturedPieces: CapturedPieces{
			White: make([]chess.Piece, 0),
			Black: make([]chess.Piece, 0),
		},
		Players: players,
	}
	g.refreshLocked()
}

func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.state.Players.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []chess.Color{chess.White, chess.Black} {
		seat := g.state.Players.seat(color)
		if seat.ID == "" {
			*seat = ClientPlayer{ID: playerID, Color: color.String()}
			return color, nil
		}
	}
	return chess.White, ErrGameFull
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshotLocked()
}

func (g *Game) hasOpenSeat() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// snapshotLocked copies the state so callers never share slices the game appends to.
func (g *Game) snapshotLocked() GameState {
	s := g.state
	s.MoveHistory = append(make([]Move, 0, len(g.state.MoveHistory)), g.state.MoveHistory...)
	s.CapturedPieces.White = append(make([]chess.Piece, 0, len(g.state.CapturedPieces.White)), g.state.CapturedPieces.White...)
	s.CapturedPieces.Black = append(make([]chess.Piece, 0, len(g.state.CapturedPieces.Black)), g.state.CapturedPieces.Black...)
	return s
}

// LegalMovesFrom lists where the piece on from may go, for the side to move.
func (g *Game) LegalMovesFrom(from string) ([]MoveHint, error) {
	sq, err := chess.ParseSquare(from)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	g.mu.Lock()
	pos := g.position
	g.mu.Unlock()

	hints := make([]MoveHint, 0)
	for _, m := range chess.LegalMoves(pos, pos.SideToMove()) {
		if m.From != sq {
			continue
		}
		hints = append(hints, MoveHint{
			From:      m.From.String(),
			To:        m.To.String(),
			Capture:   m.IsCapture(),
			Promotion: m.Promotion != chess.NoKind,
		})
	}
	return hints, nil
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	from, to, err := move.squares()
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.state.Status.IsOver() {
		g.mu.Unlock()
		return ErrGameOver
	}
	color, ok := g.state.Players.colorOf(playerID)
	if !ok || playerID == ComputerID {
		g.mu.Unlock()
		return ErrNotInGame
	}
	if color != g.position.SideToMove() {
		g.mu.Unlock()
		return ErrNotYourTurn
	}

	var chosen *chess.Move
	for _, m := range chess.LegalMoves(g.position, color) {
		if m.From == from && m.To == to {
			chosen = &m
			break
		}
	}
	if chosen == nil {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s%s", ErrIllegalMove, move.From, move.To)
	}

	finished := g.playLocked(*chosen)
	if !finished {
		finished = g.startBotLocked()
	}
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.publish(snap, finished)
	return nil
}

// Reset restarts the game from the initial position with the same players.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	if _, ok := g.state.Players.colorOf(playerID); !ok {
		g.mu.Unlock()
		return ErrNotInGame
	}
	g.cancelBotLocked()
	g.resetLocked()
	finished := g.startBotLocked()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.publish(snap, finished)
	return nil
}

// playLocked applies m and records it. It reports whether the game ended.
func (g *Game) playLocked(m chess.Move) bool {
	ply := newPly(g.position, m)

	if m.IsCapture() {
		g.state.Sound = "capture"
		if m.Piece.Color == chess.White {
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, m.Captured)
		} else {
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, m.Captured)
		}
	} else {
		g.state.Sound = "move"
	}

	if m.Piece.Color == chess.White {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: &ply})
	} else if n := len(g.state.MoveHistory); n > 0 && g.state.MoveHistory[n-1].BlackPly == nil {
		g.state.MoveHistory[n-1].BlackPly = &ply
	} else {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{BlackPly: &ply})
	}

	g.position = g.position.Apply(m)
	g.state.LastMove = &SimpleMove{From: m.From, To: m.To}
	g.refreshLocked()
	return g.state.Status.IsOver()
}

// refreshLocked derives the display fields from the current position.
func (g *Game) refreshLocked() {
	pos := g.position
	g.state.Version++
	g.state.Board = newBoardState(pos)
	g.state.FEN = pos.FEN()
	g.state.ToMove = pos.SideToMove().String()
	g.state.Status = chess.StatusOf(pos)
	g.state.StatusText = chess.StatusText(pos)
	g.state.IsCheck = g.state.Status == chess.Check || g.state.Status == chess.Checkmate
	g.state.Resolve = nil
	g.state.Winner = nil

	if g.state.IsCheck {
		g.state.Sound = "check"
	}
	if g.state.Status.IsOver() {
		result := g.state.Status.String()
		g.state.Resolve = &result
	}
	if g.state.Status == chess.Checkmate {
		winner := pos.SideToMove().Opponent().String()
		g.state.Winner = &winner
	}
}

func (g *Game) botToMoveLocked() bool {
	return g.mode == ModeComputer && !g.stopped && !g.state.Status.IsOver() && g.position.SideToMove() == g.botColor
}

// startBotLocked lets the computer reply when it is on move, inline when there
// is no delay. It reports whether an inline reply ended the game.
func (g *Game) startBotLocked() bool {
	if !g.botToMoveLocked() {
		return false
	}
	if g.botDelay <= 0 {
		return g.playBotLocked()
	}
	gen := g.botGen
	g.botTimer = time.AfterFunc(g.botDelay, func() { g.playDelayedBot(gen) })
	return false
}

// cancelBotLocked drops a scheduled reply, including one whose timer already
// fired and is waiting for the lock.
func (g *Game) cancelBotLocked() {
	if g.botTimer != nil {
		g.botTimer.Stop()
		g.botTimer = nil
	}
	g.botGen++
}

// Stop cancels any scheduled computer reply and keeps the computer from moving again.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopped = true
	g.cancelBotLocked()
}

func (g *Game) playBotLocked() bool {
	m, ok := chess.ChooseMove(g.position, g.botColor)
	if !ok {
		return false
	}
	log.Printf("game %s: computer plays %s", g.ID, m)
	return g.playLocked(m)
}

func (g *Game) playDelayedBot(gen uint64) {
	g.mu.Lock()
	if gen != g.botGen || !g.botToMoveLocked() {
		g.mu.Unlock()
		return
	}
	g.botTimer = nil
	finished := g.playBotLocked()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.publish(snap, finished)
}

func (g *Game) publish(snap GameState, finished bool) {
	if finished && g.onFinish != nil {
		g.onFinish(snap)
	}
	go g.broadcastState(snap)
}

func (g *Game) RegisterConnection(playerID string, conn StateWriter) error {
	g.mu.Lock()
	_, inGame := g.state.Players.colorOf(playerID)
	isAuthorized := inGame || g.hasOpenSeat()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	g.connections.connections[playerID] = &gameConn{writer: conn}
	g.connections.mu.Unlock()
	log.Printf("game %s: registered connection for player %s", g.ID, playerID)

	go g.broadcastState(snap)
	return nil
}

// UnregisterConnection drops playerID's connection if conn is still the registered one.
func (g *Game) UnregisterConnection(playerID string, conn StateWriter) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current.writer == conn {
		delete(g.connections.connections, playerID)
		log.Printf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// broadcastState writes state to every connection that has not yet seen it
// or a later version, so a client never steps back to an older position.
func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()

	g.connections.mu.RLock()
	activeConnections := make(map[string]*gameConn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if conn.sent >= state.Version {
			continue
		}
		if err := conn.writer.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID, conn.writer)
			continue
		}
		conn.sent = state.Version
	}
}
