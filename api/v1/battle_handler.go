package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/CodeClash/api/middleware"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/battle"
	"github.com/thesrcielos/CodeClash/internal/round"
)

type BattleAPI interface {
	StartBattle(ctx context.Context, hostID, lobbyID uint, cfg round.Config) (*battle.Battle, error)
	SubmitRound(ctx context.Context, userID, lobbyID uint, code string) (*battle.SubmitResult, error)
	State(ctx context.Context, userID, lobbyID uint) (*battle.StateView, error)
	Results(ctx context.Context, userID, lobbyID uint) (*battle.ResultsView, error)
	History(ctx context.Context, userID uint, page int) (*battle.HistoryPage, error)
}

type BattleHandler struct {
	battles BattleAPI
}

func NewBattleHandler(battles BattleAPI) *BattleHandler {
	return &BattleHandler{battles: battles}
}

func RegisterBattleRoutes(g *echo.Group, h *BattleHandler) {
	g.GET("/history", h.HistoryHandler)
	g.POST("/:lobbyId", h.StartBattleHandler)
	g.GET("/:lobbyId/state", h.StateHandler)
	g.POST("/:lobbyId/submissions", h.SubmitHandler)
	g.GET("/:lobbyId/results", h.ResultsHandler)
}

func (h *BattleHandler) StartBattleHandler(c echo.Context) error {
	lobbyID, err := pathID(c, "lobbyId")
	if err != nil {
		return err
	}
	var cfg round.Config
	if err := c.Bind(&cfg); err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, INVALID_REQUEST, ErrInvalidRequest)
	}
	started, err := h.battles.StartBattle(c.Request().Context(), api_middleware.UserID(c), lobbyID, cfg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, started)
}

func (h *BattleHandler) StateHandler(c echo.Context) error {
	lobbyID, err := pathID(c, "lobbyId")
	if err != nil {
		return err
	}
	state, err := h.battles.State(c.Request().Context(), api_middleware.UserID(c), lobbyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (h *BattleHandler) SubmitHandler(c echo.Context) error {
	lobbyID, err := pathID(c, "lobbyId")
	if err != nil {
		return err
	}
	var req battle.SubmitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.battles.SubmitRound(c.Request().Context(), api_middleware.UserID(c), lobbyID, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *BattleHandler) ResultsHandler(c echo.Context) error {
	lobbyID, err := pathID(c, "lobbyId")
	if err != nil {
		return err
	}
	results, err := h.battles.Results(c.Request().Context(), api_middleware.UserID(c), lobbyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

func (h *BattleHandler) HistoryHandler(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	history, err := h.battles.History(c.Request().Context(), api_middleware.UserID(c), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}
