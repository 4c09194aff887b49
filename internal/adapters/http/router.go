package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/adapters/signal"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/config"
	"github.com/dkeye/Poker/internal/domain"
)

const sessionName = "PokerSessions"

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: int(cfg.Retention.Seconds()), HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &roomHandlers{Orch: orch}
	ctrl := signal.NewSignalWSController(orch, cfg)

	api := r.Group("/api")
	api.GET("/cards", h.cards)
	api.POST("/rooms", h.createRoom)
	api.POST("/rooms/join", h.joinRoom)
	api.GET("/rooms/:id", h.getRoom)
	api.POST("/rooms/:id/vote", h.castVote)
	api.POST("/rooms/:id/reveal", h.reveal)
	api.POST("/rooms/:id/reset", h.reset)
	api.DELETE("/rooms/:id/players/:pid", h.removePlayer)

	api.GET("/ws", func(c *gin.Context) {
		room := domain.RoomID(c.Query("room"))
		player := rememberedPlayer(sessions.Default(c), room)
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Str("room", string(room)).Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c, room, player)
	})

	return r
}

func playerKey(room domain.RoomID) string {
	return "player:" + string(room)
}

// rememberPlayer stores the identity created by this browser so a later
// WebSocket can bind to it.
func rememberPlayer(s sessions.Session, room domain.RoomID, pid domain.PlayerID) {
	s.Set(playerKey(room), string(pid))
	if err := s.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
	}
}

func rememberedPlayer(s sessions.Session, room domain.RoomID) domain.PlayerID {
	if room == "" {
		return ""
	}
	pid, _ := s.Get(playerKey(room)).(string)
	return domain.PlayerID(pid)
}
