package domain

// PlayerView is what leaves the server. Vote is only set after reveal.
type PlayerView struct {
	ID          PlayerID `json:"id"`
	Name        string   `json:"name"`
	Vote        *Vote    `json:"vote,omitempty"`
	HasVoted    bool     `json:"hasVoted"`
	IsSpectator bool     `json:"isSpectator"`
}

type RoomView struct {
	ID        RoomID       `json:"id"`
	Name      RoomName     `json:"name"`
	Players   []PlayerView `json:"players"`
	Revealed  bool         `json:"revealed"`
	AllVoted  bool         `json:"allVoted"`
	CreatedAt int64        `json:"createdAt"`
	Version   uint64       `json:"version"`
	Stats     *Stats       `json:"stats,omitempty"`
}

// View hides individual votes until the room is revealed.
func (r *Room) View() RoomView {
	v := RoomView{
		ID:        r.ID,
		Name:      r.Name,
		Players:   make([]PlayerView, 0, len(r.Players)),
		Revealed:  r.Revealed,
		AllVoted:  r.AllVoted(),
		CreatedAt: r.CreatedAt.UnixMilli(),
		Version:   r.Version,
		Stats:     Summarize(r),
	}
	for _, p := range r.Players {
		pv := PlayerView{
			ID:          p.ID,
			Name:        p.Name,
			HasVoted:    p.HasVoted(),
			IsSpectator: p.IsSpectator,
		}
		if r.Revealed && p.Vote != nil {
			vote := *p.Vote
			pv.Vote = &vote
		}
		v.Players = append(v.Players, pv)
	}
	return v
}
