package http

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/domain"
)

type roomHandlers struct {
	Orch *orch.Orchestrator
}

type createRoomRequest struct {
	RoomName   string `json:"roomName" binding:"required"`
	PlayerName string `json:"playerName" binding:"required"`
}

type joinRoomRequest struct {
	RoomID      domain.RoomID `json:"roomId" binding:"required"`
	PlayerName  string        `json:"playerName" binding:"required"`
	IsSpectator bool          `json:"isSpectator"`
}

type voteRequest struct {
	PlayerID domain.PlayerID `json:"playerId"`
	Vote     domain.Vote     `json:"vote" binding:"required"`
}

type playerResponse struct {
	RoomID   domain.RoomID   `json:"roomId"`
	PlayerID domain.PlayerID `json:"playerId"`
	Room     domain.RoomView `json:"room"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidVote):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRoomAlreadyRevealed), errors.Is(err, domain.ErrNotAllVoted),
		errors.Is(err, domain.ErrRoomFull), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: domain.Code(err), Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: domain.Code(domain.ErrInvalidInput), Error: err.Error()})
}

func (h *roomHandlers) cards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": domain.VoteCards})
}

func (h *roomHandlers) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, pid, err := h.Orch.CreateRoom(c.Request.Context(), req.RoomName, req.PlayerName)
	if err != nil {
		fail(c, err)
		return
	}
	rememberPlayer(sessions.Default(c), room.ID, pid)
	c.JSON(http.StatusCreated, playerResponse{RoomID: room.ID, PlayerID: pid, Room: room.View()})
}

func (h *roomHandlers) joinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, pid, err := h.Orch.JoinRoom(c.Request.Context(), req.RoomID, req.PlayerName, req.IsSpectator)
	if err != nil {
		fail(c, err)
		return
	}
	rememberPlayer(sessions.Default(c), room.ID, pid)
	c.JSON(http.StatusOK, playerResponse{RoomID: room.ID, PlayerID: pid, Room: room.View()})
}

func (h *roomHandlers) getRoom(c *gin.Context) {
	room, err := h.Orch.Room(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room.View())
}

// castVote falls back to the player remembered in the session.
func (h *roomHandlers) castVote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id := domain.RoomID(c.Param("id"))
	if req.PlayerID == "" {
		req.PlayerID = rememberedPlayer(sessions.Default(c), id)
	}
	if req.PlayerID == "" {
		fail(c, domain.ErrPlayerNotFound)
		return
	}
	room, err := h.Orch.CastVote(c.Request.Context(), id, req.PlayerID, req.Vote)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room.View())
}

func (h *roomHandlers) reveal(c *gin.Context) {
	room, err := h.Orch.RevealVotes(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room.View())
}

func (h *roomHandlers) reset(c *gin.Context) {
	room, err := h.Orch.ResetVotes(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room.View())
}

func (h *roomHandlers) removePlayer(c *gin.Context) {
	room, err := h.Orch.RemovePlayer(c.Request.Context(), domain.RoomID(c.Param("id")), domain.PlayerID(c.Param("pid")))
	if err != nil {
		fail(c, err)
		return
	}
	if room == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, room.View())
}
