// service/game_manager.go
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/plychess-backend/internal/model"
	"github.com/benbeisheim/plychess-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrArchiveMissing = errors.New("game archive is not configured")
)

// Archive is where finished games are kept; *store.Storage implements it.
type Archive interface {
	SaveGame(rec store.GameRecord) error
	LoadGame(id string) (store.GameRecord, error)
	ListGames(limit int) ([]store.GameRecord, error)
	LoadStats() (store.Stats, error)
}

type ManagerOptions struct {
	BotDelay      time.Duration
	MatchInterval time.Duration
	Archive       Archive
}

type GameManager struct {
	games    map[string]*model.Game
	queue    *model.Queue
	matches  map[string]model.MatchFoundEvent // playerID -> pairing not yet collected
	archive  Archive
	botDelay time.Duration
	mu       sync.RWMutex
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewGameManager starts the matchmaking loop; it runs until ctx is done or Close is called.
func NewGameManager(ctx context.Context, opts ManagerOptions) *GameManager {
	if opts.MatchInterval <= 0 {
		opts.MatchInterval = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	gm := &GameManager{
		games:    make(map[string]*model.Game),
		queue:    model.NewQueue(),
		matches:  make(map[string]model.MatchFoundEvent),
		archive:  opts.Archive,
		botDelay: opts.BotDelay,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go gm.processMatchmaking(ctx, opts.MatchInterval)

	return gm
}

// Close stops matchmaking, waits for the loop to exit and cancels pending
// computer replies, so nothing reaches the archive afterwards.
func (gm *GameManager) Close() {
	gm.cancel()
	<-gm.done

	gm.mu.RLock()
	defer gm.mu.RUnlock()
	for _, game := range gm.games {
		game.Stop()
	}
}

func (gm *GameManager) processMatchmaking(ctx context.Context, interval time.Duration) {
	defer close(gm.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchOnce() {
			}
		}
	}
}

// matchOnce pairs the two longest-waiting players into a new game. It
// reports whether a pair was made.
func (gm *GameManager) matchOnce() bool {
	queued1, queued2, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}
	player1, player2 := queued1.Player, queued2.Player

	gameID := uuid.New().String()
	game := gm.newGame(gameID, model.Options{Mode: model.ModePvP})
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Printf("matchmaking: adding %s to %s: %v", player1.ID, gameID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Printf("matchmaking: adding %s to %s: %v", player2.ID, gameID, err)
		return true
	}

	gm.mu.Lock()
	gm.games[gameID] = game
	gm.matches[player1.ID] = model.MatchFoundEvent{GameID: gameID, Color: p1Color.String()}
	gm.matches[player2.ID] = model.MatchFoundEvent{GameID: gameID, Color: p2Color.String()}
	gm.mu.Unlock()

	log.Printf("matchmaking: paired %s and %s in game %s after %s", player1.ID, player2.ID, gameID,
		time.Since(queued1.JoinedAt).Round(time.Millisecond))
	return true
}

func (gm *GameManager) newGame(gameID string, opts model.Options) *model.Game {
	opts.BotDelay = gm.botDelay
	opts.OnFinish = gm.archiveGame
	return model.NewGame(gameID, opts)
}

func (gm *GameManager) archiveGame(state model.GameState) {
	if gm.archive == nil {
		return
	}
	rec := store.GameRecord{
		ID:         state.ID,
		Mode:       string(state.Mode),
		Result:     state.Status.String(),
		FinalFEN:   state.FEN,
		White:      state.Players.White.ID,
		Black:      state.Players.Black.ID,
		FinishedAt: time.Now().UTC(),
	}
	if state.Winner != nil {
		rec.Winner = *state.Winner
	}
	for _, move := range state.MoveHistory {
		if move.WhitePly != nil {
			rec.Moves = append(rec.Moves, move.WhitePly.Notation)
		}
		if move.BlackPly != nil {
			rec.Moves = append(rec.Moves, move.BlackPly.Notation)
		}
	}
	if err := gm.archive.SaveGame(rec); err != nil {
		log.Printf("game %s: archive failed: %v", state.ID, err)
	}
}

func (gm *GameManager) CreateGame(gameID string, opts model.Options) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	game := gm.newGame(gameID, opts)
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchStatus hands out playerID's pairing once; queued reports whether the
// player is still waiting.
func (gm *GameManager) MatchStatus(playerID string) (event model.MatchFoundEvent, found, queued bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if event, found = gm.matches[playerID]; found {
		delete(gm.matches, playerID)
		return event, true, false
	}
	return event, false, gm.queue.Contains(playerID)
}

func (gm *GameManager) ArchivedGame(gameID string) (store.GameRecord, error) {
	if gm.archive == nil {
		return store.GameRecord{}, ErrArchiveMissing
	}
	return gm.archive.LoadGame(gameID)
}

func (gm *GameManager) ArchivedGames(limit int) ([]store.GameRecord, error) {
	if gm.archive == nil {
		return nil, ErrArchiveMissing
	}
	return gm.archive.ListGames(limit)
}

func (gm *GameManager) Stats() (store.Stats, error) {
	if gm.archive == nil {
		return store.Stats{}, ErrArchiveMissing
	}
	return gm.archive.LoadStats()
}
