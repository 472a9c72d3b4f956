package service

import "errors"

var (
	ErrNoPlayers      = errors.New("a competitor needs at least one player")
	ErrTooManyPlayers = errors.New("too many players for one competitor")
	ErrTurnNotFound   = errors.New("the tournament has no such turn")
)
