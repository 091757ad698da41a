package http

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
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
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/restart", h.Restart)
	api.Put("/games/:gameId/difficulty", h.SetDifficulty)
	api.Post("/games/:gameId/select", h.SelectPiece)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
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
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound, core.ErrPieceNotFound:
		return fiber.StatusNotFound
	case core.ErrComputerThinking, core.ErrGameStuck:
		return fiber.StatusConflict
	case core.ErrRateLimitExceeded:
		return fiber.StatusTooManyRequests
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// validatedBody returns the request parsed by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, error) {
	var zero T

	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation bypass detected")
	}

	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation data missing")
	}
	return *body, nil
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
		"games":   h.svc.GameCount(),
	})
}

func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewCreateGameCommand(req)), fiber.StatusCreated)
}

// GetGame returns the game; with wait=true it blocks until the version moves
// past the one the client already has, the wait times out, or the game is gone
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, ok := h.requireGameID(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
	}

	known, err := strconv.Atoi(c.Query("version", "-1"))
	if err != nil {
		known = -1
	}

	view, err := h.svc.GetGame(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	if view.Snapshot.Version == known {
		ctx, cancel := context.WithCancel(context.Background())
		notify := h.svc.RegisterWait(ctx, id, known)

		// Re-read after registering so a change in between is not missed
		if current, err := h.svc.GetGame(id); err == nil && current.Snapshot.Version == known {
			<-notify
		}
		cancel()
	}

	return respond(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, ok := h.requireGameID(c)
	if !ok {
		return nil
	}

	return respond(c, h.proc.Execute(processor.NewDeleteGameCommand(id)), fiber.StatusNoContent)
}

func (h *HTTPHandler) Restart(c *fiber.Ctx) error {
	id, ok := h.requireGameID(c)
	if !ok {
		return nil
	}

	req, err := validatedBody[core.RestartRequest](c)
	if err != nil {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewRestartCommand(id, req)), fiber.StatusOK)
}

func (h *HTTPHandler) SetDifficulty(c *fiber.Ctx) error {
	id, ok := h.requireGameID(c)
	if !ok {
		return nil
	}

	req, err := validatedBody[core.DifficultyRequest](c)
	if err != nil {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewSetDifficultyCommand(id, req)), fiber.StatusOK)
}

// SelectPiece lists the legal destinations of a player piece
func (h *HTTPHandler) SelectPiece(c *fiber.Ctx) error {
	id, ok := h.requireGameID(c)
	if !ok {
		return nil
	}

	req, err := validatedBody[core.SelectRequest](c)
	if err != nil {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewSelectPieceCommand(id, req)), fiber.StatusOK)
}

// MakeMove submits a player move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, ok := h.requireGameID(c)
	if !ok {
		return nil
	}

	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewMakeMoveCommand(id, req)), fiber.StatusOK)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := h.requireGameID(c)
	if !ok {
		return nil
	}

	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(id)), fiber.StatusOK)
}

// requireGameID writes a 400 response when :gameId is not a UUID
func (h *HTTPHandler) requireGameID(c *fiber.Ctx) (string, bool) {
	id := c.Params("gameId")
	if isValidUUID(id) {
		return id, true
	}

	c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
	return "", false
}
