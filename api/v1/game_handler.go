package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/CodeClash/api/middleware"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/game"
	"github.com/thesrcielos/CodeClash/internal/round"
)

type GameAPI interface {
	StartSession(ctx context.Context, userID uint, cfg round.Config) (*game.Session, error)
	SubmitRound(ctx context.Context, userID, sessionID uint, code string) (*game.SubmitResult, error)
	TerminateSession(ctx context.Context, userID, sessionID uint) error
	ActiveState(ctx context.Context, userID uint) (*game.StateView, error)
	Results(ctx context.Context, userID, sessionID uint, isAdmin bool) (*game.ResultsView, error)
	History(ctx context.Context, userID uint, page int) (*game.HistoryPage, error)
}

type GameHandler struct {
	games GameAPI
}

func NewGameHandler(games GameAPI) *GameHandler {
	return &GameHandler{games: games}
}

func RegisterGameRoutes(g *echo.Group, h *GameHandler) {
	g.POST("", h.StartGameHandler)
	g.GET("/state", h.StateHandler)
	g.GET("/history", h.HistoryHandler)
	g.GET("/results", h.LatestResultsHandler)
	g.POST("/:id/submissions", h.SubmitHandler)
	g.POST("/:id/terminate", h.TerminateHandler)
	g.GET("/:id/results", h.ResultsHandler)
}

// StartGameHandler leaves config validation to the engine so every invalid
// setup reports the same reason.
func (h *GameHandler) StartGameHandler(c echo.Context) error {
	var cfg round.Config
	if err := c.Bind(&cfg); err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, INVALID_REQUEST, ErrInvalidRequest)
	}
	session, err := h.games.StartSession(c.Request().Context(), api_middleware.UserID(c), cfg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

func (h *GameHandler) StateHandler(c echo.Context) error {
	state, err := h.games.ActiveState(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (h *GameHandler) SubmitHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req game.SubmitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.games.SubmitRound(c.Request().Context(), api_middleware.UserID(c), id, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *GameHandler) TerminateHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.games.TerminateSession(c.Request().Context(), api_middleware.UserID(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"terminated": true})
}

func (h *GameHandler) HistoryHandler(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	history, err := h.games.History(c.Request().Context(), api_middleware.UserID(c), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

func (h *GameHandler) LatestResultsHandler(c echo.Context) error {
	return h.results(c, 0)
}

func (h *GameHandler) ResultsHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.results(c, id)
}

func (h *GameHandler) results(c echo.Context, sessionID uint) error {
	results, err := h.games.Results(c.Request().Context(), api_middleware.UserID(c), sessionID, api_middleware.IsAdmin(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
