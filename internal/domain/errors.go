package domain

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidVote         = errors.New("invalid vote")
	ErrRoomAlreadyRevealed = errors.New("room already revealed")
	ErrNotAllVoted         = errors.New("not all players have voted")
	ErrAlreadyExists       = errors.New("already exists")
	ErrRoomFull            = errors.New("room is full")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrRoomNotFound, "RoomNotFound"},
	{ErrPlayerNotFound, "PlayerNotFound"},
	{ErrInvalidInput, "InvalidInput"},
	{ErrInvalidVote, "InvalidVote"},
	{ErrRoomAlreadyRevealed, "RoomAlreadyRevealed"},
	{ErrNotAllVoted, "NotAllVoted"},
	{ErrAlreadyExists, "AlreadyExists"},
	{ErrRoomFull, "RoomFull"},
	{ErrStorageUnavailable, "StorageUnavailable"},
}

// Code maps an error to its wire signal name. Unknown errors are "Internal".
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "Internal"
}
