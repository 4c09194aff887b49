package signal

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/domain"
)

var ErrRateLimited = errors.New("too many messages")

type errorMsg struct {
	Type  string `json:"type"`
	Op    string `json:"op"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackMsg struct {
	Type string `json:"type"`
	Op   string `json:"op"`
}

type playerMsg struct {
	Type   string          `json:"type"`
	Room   domain.RoomID   `json:"room"`
	Player domain.PlayerID `json:"player"`
}

func errorCode(err error) string {
	if errors.Is(err, ErrRateLimited) {
		return "RateLimited"
	}
	return domain.Code(err)
}

func badPayload(err error) error {
	return fmt.Errorf("bad payload: %w: %w", domain.ErrInvalidInput, err)
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, op string, err error) {
	code := errorCode(err)
	if code == "Internal" {
		log.Error().Err(err).Str("module", "signal").Str("op", op).Msg("command failed")
	}
	ctl.sendJSON(c, errorMsg{Type: "error", Op: op, Code: code, Error: err.Error()})
}

func (ctl *SignalWSController) sendAck(c *WsSignalConn, op string) {
	ctl.sendJSON(c, ackMsg{Type: "ack", Op: op})
}

// decode fills p from data, replying with an error on failure.
func (ctl *SignalWSController) decode(c *WsSignalConn, op string, data []byte, p any) bool {
	if err := json.Unmarshal(data, p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("op", op).Msg("bad payload")
		ctl.sendError(c, op, badPayload(err))
		return false
	}
	return true
}
