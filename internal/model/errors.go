package model

import "errors"

var (
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("player not in game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrGameOver         = errors.New("game is over")
	ErrInvalidMove      = errors.New("invalid move")
	ErrIllegalMove      = errors.New("invalid move, not legal")
	ErrUnknownMode      = errors.New("unknown game mode")
	ErrInvalidColor     = errors.New("invalid color")
	ErrPlayerQueued     = errors.New("player already in queue")
	ErrNotAuthorized    = errors.New("not authorized to join this game")
	ErrAlreadyConnected = errors.New("connection already exists")
)
