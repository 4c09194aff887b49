package domain

type Vote string

const (
	VoteUnsure Vote = "?"
	VoteBreak  Vote = "☕"
)

// VoteCards is the fixed deck, in display order.
var VoteCards = []Vote{
	"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", "89",
	VoteUnsure, VoteBreak,
}

func IsValidVote(v Vote) bool {
	for _, c := range VoteCards {
		if c == v {
			return true
		}
	}
	return false
}
