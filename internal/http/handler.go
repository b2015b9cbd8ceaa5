// FILE: internal/http/handler.go
package http

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"tilechess/internal/core"
	"tilechess/internal/processor"
	"tilechess/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

const rateLimitRate = 10 // req/sec

// Config tunes the HTTP surface
type Config struct {
	DevMode   bool
	RateLimit int       // requests per second per client; 0 uses the default
	AccessLog io.Writer // access log destination; nil writes to stdout
	Log       zerolog.Logger
}

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
	log  zerolog.Logger
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc, log: log.With().Str("component", "http").Logger()}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, cfg Config) *fiber.App {
	h := NewHTTPHandler(proc, svc, cfg.Log)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // longer than the long-poll wait
		IdleTimeout:  60 * time.Second,
	})

	accessLog := cfg.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
		Output: accessLog,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	// Game stream
	app.Get("/ws/games/:gameId", gameIDRequired, websocketUpgrade, websocket.New(h.GameStream))

	api := app.Group("/api/v1")

	maxReq := cfg.RateLimit
	if maxReq <= 0 {
		maxReq = rateLimitRate
		if cfg.DevMode {
			maxReq = rateLimitRate * 2
		}
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)

	games := api.Group("/games/:gameId", gameIDRequired)
	games.Get("", h.GetGame)
	games.Delete("", h.DeleteGame)
	games.Post("/moves", h.MakeMove)
	games.Post("/undo", h.UndoMove)
	games.Get("/board", h.GetBoard)
	games.Get("/tiles/:tile/moves", h.GetTileMoves)
	games.Get("/control", h.GetControl)

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest, fiber.StatusUpgradeRequired:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps an error code to its HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrGameOver, core.ErrNotYourTurn:
		return fiber.StatusConflict
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// reply writes a processor response
func reply(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

func bypass(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: err.Error(),
		Code:  core.ErrInternalError,
	})
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame starts a game, optionally from an encoded history
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return bypass(c, err)
	}

	return reply(c, h.proc.Execute(processor.NewCreateGameCommand(*req)), fiber.StatusCreated)
}

// GetGame retrieves current game state. With wait=true and a moveCount
// matching the current ply it blocks until the history changes.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	resp := h.proc.Execute(processor.NewGetGameCommand(gameID))
	if c.Query("wait", "false") != "true" || !resp.Success {
		return reply(c, resp, fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	if current := resp.Data.(core.GameResponse).Ply; moveCount != current {
		return reply(c, resp, fiber.StatusOK)
	}

	ctx := c.Context()
	notify := h.svc.RegisterWait(ctx, gameID, moveCount)

	select {
	case <-notify:
		// State changed, timeout or deletion; the game may be gone
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

// MakeMove submits a coordinate move such as "e2e4"
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return bypass(c, err)
	}

	return reply(c, h.proc.Execute(processor.NewMakeMoveCommand(c.Params("gameId"), *req)), fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	req, err := validatedBody[core.UndoRequest](c)
	if err != nil {
		return bypass(c, err)
	}

	return reply(c, h.proc.Execute(processor.NewUndoMoveCommand(c.Params("gameId"), *req)), fiber.StatusOK)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	return reply(c, h.proc.Execute(processor.NewDeleteGameCommand(c.Params("gameId"))), fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	return reply(c, h.proc.Execute(processor.NewGetBoardCommand(c.Params("gameId"))), fiber.StatusOK)
}

// GetTileMoves lists legal destinations for the piece on a tile
func (h *HTTPHandler) GetTileMoves(c *fiber.Ctx) error {
	cmd := processor.NewTileMovesCommand(c.Params("gameId"), c.Params("tile"))
	return reply(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// GetControl returns per-tile attack counts for ?color=w|b
func (h *HTTPHandler) GetControl(c *fiber.Ctx) error {
	color, ok := core.ParseColor(c.Query("color", "w"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid color",
			Code:    core.ErrInvalidRequest,
			Details: "color must be w or b",
		})
	}

	return reply(c, h.proc.Execute(processor.NewControlCommand(c.Params("gameId"), color)), fiber.StatusOK)
}
