package service

import (
	"fmt"

	"github.com/benbeisheim/plychess-backend/internal/chess"
	"github.com/benbeisheim/plychess-backend/internal/model"
	"github.com/benbeisheim/plychess-backend/internal/store"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGameRequest selects the mode and, against the computer, the human's side.
type CreateGameRequest struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
}

// CreateGame opens a new game and seats playerID in it.
func (gs *GameService) CreateGame(playerID string, req CreateGameRequest) (string, chess.Color, error) {
	mode, err := model.ParseGameMode(req.Mode)
	if err != nil {
		return "", chess.White, err
	}
	humanColor := chess.White
	if req.Color != "" {
		if humanColor, err = chess.ParseColor(req.Color); err != nil {
			return "", chess.White, fmt.Errorf("%w: %v", model.ErrInvalidColor, err)
		}
	}

	gameID := uuid.New().String()
	game, err := gs.gameManager.CreateGame(gameID, model.Options{Mode: mode, HumanColor: humanColor})
	if err != nil {
		return "", chess.White, fmt.Errorf("failed to create game: %w", err)
	}

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return "", chess.White, err
	}
	return gameID, color, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return chess.White, err
	}
	return game.AddPlayer(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (model.MatchFoundEvent, bool, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gs *GameService) LegalMoves(gameID string, from string) ([]model.MoveHint, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMovesFrom(from)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gs *GameService) ResetGame(gameID string, playerID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.Reset(playerID); err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.StateWriter) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.StateWriter) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gs *GameService) ArchivedGame(gameID string) (store.GameRecord, error) {
	return gs.gameManager.ArchivedGame(gameID)
}

func (gs *GameService) ArchivedGames(limit int) ([]store.GameRecord, error) {
	return gs.gameManager.ArchivedGames(limit)
}

func (gs *GameService) Stats() (store.Stats, error) {
	return gs.gameManager.Stats()
}
