package server

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/controller"
	"ctchen222/minimax-tic-tac-toe/internal/api/middleware"
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/validator"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Registrar accepts new websocket players. The hub implements it.
type Registrar interface {
	Register() chan<- *types.RegistrationRequest
}

// Options wires the HTTP server to the hub and the API services.
type Options struct {
	Hub               Registrar
	Users             service.UserService
	Moves             service.MoveService
	History           service.HistoryService
	DefaultDifficulty bot.Difficulty
	WebDir            string // empty disables the static client
}

type Server struct {
	opts     Options
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

func NewServer(opts Options) (*Server, error) {
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = bot.Easy
	}
	if err := validator.BindGin(); err != nil {
		return nil, fmt.Errorf("failed to register request validators: %w", err)
	}

	s := &Server{
		opts:   opts,
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery())
	s.registerHandlers()
	return s, nil
}

// Engine returns the gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped with HTTP tracing and metrics.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "tic-tac-toe")
}

func (s *Server) registerHandlers() {
	userController := controller.NewUserController(s.opts.Users)
	moveController := controller.NewMoveController(s.opts.Moves, s.opts.DefaultDifficulty)
	difficultyController := controller.NewDifficultyController(s.opts.DefaultDifficulty)
	historyController := controller.NewHistoryController(s.opts.History)

	s.engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponseContent(c, "ok")
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	{
		api.POST("/register", userController.Register)
		api.POST("/login", userController.Login)
		api.POST("/guest", userController.GuestLogin)

		api.POST("/evaluate", moveController.Evaluate)
		api.POST("/move", moveController.Move)

		api.GET("/difficulty", difficultyController.Get)
		api.PUT("/difficulty", difficultyController.Set)
	}

	history := api.Group("", middleware.PlayerIdentity(s.opts.Users))
	{
		history.GET("/history", historyController.List)
		history.DELETE("/history", historyController.Reset)
		history.GET("/history/export", historyController.Export)
		history.POST("/history/import", historyController.Import)
		history.GET("/summary", historyController.Summary)
	}

	if s.opts.WebDir != "" {
		s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.opts.WebDir))))
	}
}

// handleWebSocket checks the session parameters, upgrades the connection and
// hands a registration request to the hub. The hub decides between a new game
// and a reconnection.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	req, err := s.registrationFromQuery(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid session parameters")
		response.ErrorResponse(c, statusFor(err), err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("player.id", req.PlayerID),
		attribute.String("game.mode", string(req.Mode)),
		attribute.String("game.difficulty", req.Difficulty),
	)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	req.Player = player.NewPlayer(req.PlayerID, conn)
	req.Ctx = ctx
	s.opts.Hub.Register() <- req
}

func (s *Server) registrationFromQuery(c *gin.Context) (*types.RegistrationRequest, error) {
	query := c.Request.URL.Query()

	playerID := strings.TrimSpace(query.Get("playerId"))
	if token := query.Get("token"); token != "" {
		id, err := s.opts.Users.Authenticate(token)
		if err != nil {
			return nil, err
		}
		playerID = id
	}
	if playerID == "" {
		playerID = uuid.New().String()
	}

	mode := game.ModeBot
	switch m := strings.ToLower(query.Get("mode")); m {
	case "", string(game.ModeBot):
	case string(game.ModeLocal):
		mode = game.ModeLocal
	default:
		return nil, fmt.Errorf("%w: %q", errInvalidMode, m)
	}

	difficulty := s.opts.DefaultDifficulty
	if raw := query.Get("difficulty"); raw != "" {
		d, err := bot.ParseDifficulty(raw)
		if err != nil {
			return nil, err
		}
		difficulty = d
	} else if d, ok := controller.DifficultyFromCookie(c); ok {
		difficulty = d
	}

	mark := game.PlayerX
	if raw := query.Get("mark"); raw != "" {
		m, err := game.ParseMark(raw)
		if err != nil {
			return nil, err
		}
		mark = m
	}

	req := &types.RegistrationRequest{
		PlayerID: playerID,
		Mode:     mode,
		Mark:     mark,
	}
	if mode == game.ModeBot {
		req.Difficulty = string(difficulty)
	}
	return req, nil
}
