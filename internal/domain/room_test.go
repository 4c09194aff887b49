package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voter(id string, vote string) Player {
	p := Player{ID: PlayerID(id), Name: id}
	if vote != "" {
		v := Vote(vote)
		p.Vote = &v
	}
	return p
}

func spectator(id string) Player {
	return Player{ID: PlayerID(id), Name: id, IsSpectator: true}
}

func TestNewRoomValidatesNames(t *testing.T) {
	now := time.Now()
	alice, err := NewPlayer("p1", "  Alice ", false)
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Name)

	_, err = NewPlayer("p2", "   ", false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewPlayer("p3", "abcdefghijklmnopqrstuvwxyzabcdefghijk", false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewRoom("R1", " ", alice, now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	r, err := NewRoom("R1", "Sprint 1", alice, now)
	require.NoError(t, err)
	assert.Equal(t, RoomName("Sprint 1"), r.Name)
	assert.False(t, r.Revealed)
	require.Len(t, r.Players, 1)
	assert.False(t, r.Players[0].IsSpectator)
}

func TestCloneIsDeep(t *testing.T) {
	r := &Room{ID: "R", Players: []Player{voter("a", "5")}}
	c := r.Clone()
	*c.Players[0].Vote = "8"
	c.Players = append(c.Players, voter("b", ""))

	assert.Equal(t, Vote("5"), *r.Players[0].Vote)
	assert.Len(t, r.Players, 1)
}

func TestAddRemovePlayer(t *testing.T) {
	r := &Room{}
	require.NoError(t, r.AddPlayer(voter("a", "")))
	assert.ErrorIs(t, r.AddPlayer(voter("a", "")), ErrAlreadyExists)
	require.NoError(t, r.AddPlayer(voter("b", "")))

	assert.True(t, r.RemovePlayer("a"))
	assert.False(t, r.RemovePlayer("a"))
	require.Len(t, r.Players, 1)
	assert.Equal(t, PlayerID("b"), r.Players[0].ID)
}

func TestAllVoted(t *testing.T) {
	assert.False(t, (&Room{}).AllVoted())
	assert.False(t, (&Room{Players: []Player{spectator("s")}}).AllVoted())
	assert.False(t, (&Room{Players: []Player{voter("a", "1"), voter("b", "")}}).AllVoted())
	assert.True(t, (&Room{Players: []Player{voter("a", "1"), spectator("s")}}).AllVoted())
}

func TestVotesSkipsSpectatorsAndUnset(t *testing.T) {
	s := spectator("s")
	v := Vote("13")
	s.Vote = &v
	r := &Room{Players: []Player{voter("a", "5"), s, voter("b", ""), voter("c", "?")}}
	assert.Equal(t, []Vote{"5", "?"}, r.Votes())
}

func TestClearVotes(t *testing.T) {
	r := &Room{Revealed: true, Players: []Player{voter("a", "5"), voter("b", "8")}}
	r.ClearVotes()
	assert.False(t, r.Revealed)
	for _, p := range r.Players {
		assert.Nil(t, p.Vote)
	}
}

func TestViewHidesVotesUntilRevealed(t *testing.T) {
	r := &Room{ID: "R", Players: []Player{voter("a", "5"), voter("b", "")}}
	v := r.View()
	assert.Nil(t, v.Players[0].Vote)
	assert.True(t, v.Players[0].HasVoted)
	assert.False(t, v.Players[1].HasVoted)
	assert.Nil(t, v.Stats)

	r.Revealed = true
	v = r.View()
	require.NotNil(t, v.Players[0].Vote)
	assert.Equal(t, Vote("5"), *v.Players[0].Vote)
	assert.NotNil(t, v.Stats)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	r := &Room{CreatedAt: now.Add(-25 * time.Hour)}
	assert.True(t, r.IsExpired(now, 24*time.Hour))
	assert.False(t, r.IsExpired(now.Add(-2*time.Hour), 24*time.Hour))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "RoomNotFound", Code(ErrRoomNotFound))
	assert.Equal(t, "StorageUnavailable", Code(errors.Join(ErrStorageUnavailable, errors.New("dial"))))
	assert.Equal(t, "Internal", Code(errors.New("boom")))
}

func TestIsValidVote(t *testing.T) {
	assert.True(t, IsValidVote("89"))
	assert.True(t, IsValidVote(VoteBreak))
	assert.False(t, IsValidVote("4"))
	assert.False(t, IsValidVote(""))
}
