package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/CodeClash/api/middleware"
	"github.com/thesrcielos/CodeClash/internal/battle"
)

type LobbyAPI interface {
	CreateLobby(ctx context.Context, hostID uint) (*battle.LobbyView, error)
	JoinLobby(ctx context.Context, userID uint, code string) (*battle.LobbyView, error)
	LeaveLobby(ctx context.Context, userID uint) error
	StartLobby(ctx context.Context, hostID uint) (*battle.LobbyView, error)
	CurrentLobby(ctx context.Context, userID uint) (*battle.LobbyView, error)
}

type LobbyHandler struct {
	lobbies LobbyAPI
}

func NewLobbyHandler(lobbies LobbyAPI) *LobbyHandler {
	return &LobbyHandler{lobbies: lobbies}
}

func RegisterLobbyRoutes(g *echo.Group, h *LobbyHandler) {
	g.GET("/current", h.CurrentLobbyHandler)
	g.POST("", h.CreateLobbyHandler)
	g.POST("/join", h.JoinLobbyHandler)
	g.DELETE("/current", h.LeaveLobbyHandler)
	g.POST("/start", h.StartLobbyHandler)
}

// CurrentLobbyHandler answers {"lobby": null} when the caller sits in no lobby.
func (h *LobbyHandler) CurrentLobbyHandler(c echo.Context) error {
	lobby, err := h.lobbies.CurrentLobby(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"lobby": lobby})
}

func (h *LobbyHandler) CreateLobbyHandler(c echo.Context) error {
	lobby, err := h.lobbies.CreateLobby(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"lobby": lobby})
}

func (h *LobbyHandler) JoinLobbyHandler(c echo.Context) error {
	var req battle.JoinRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	lobby, err := h.lobbies.JoinLobby(c.Request().Context(), api_middleware.UserID(c), req.InviteCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"lobby": lobby})
}

func (h *LobbyHandler) LeaveLobbyHandler(c echo.Context) error {
	if err := h.lobbies.LeaveLobby(c.Request().Context(), api_middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"left": true})
}

func (h *LobbyHandler) StartLobbyHandler(c echo.Context) error {
	lobby, err := h.lobbies.StartLobby(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"lobby": lobby})
}
