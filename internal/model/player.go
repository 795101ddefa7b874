package model

import "github.com/benbeisheim/plychess-backend/internal/chess"

// ComputerID is the player ID occupying the bot's seat in computer games.
const ComputerID = "computer"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    string `json:"color"`
	Computer bool   `json:"computer"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c chess.Color) *ClientPlayer {
	if c == chess.White {
		return &p.White
	}
	return &p.Black
}

// colorOf reports which side playerID sits on.
func (p *Players) colorOf(playerID string) (chess.Color, bool) {
	switch playerID {
	case "":
		return chess.White, false
	case p.White.ID:
		return chess.White, true
	case p.Black.ID:
		return chess.Black, true
	}
	return chess.White, false
}

type GameMode string

const (
	ModeComputer GameMode = "computer"
	ModePvP      GameMode = "pvp"
)

func ParseGameMode(s string) (GameMode, error) {
	switch GameMode(s) {
	case "", ModeComputer:
		return ModeComputer, nil
	case ModePvP:
		return ModePvP, nil
	}
	return "", ErrUnknownMode
}
