package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/CodeClash/api/middleware"
	"github.com/thesrcielos/CodeClash/internal/round"
	"github.com/thesrcielos/CodeClash/internal/user"
)

type Handlers struct {
	Users   *UserHandler
	Games   *GameHandler
	Lobbies *LobbyHandler
	Battles *BattleHandler
	Admin   *AdminHandler
}

// RegisterRoutes mounts the whole v1 API on api. Only signup and login are
// reachable without a token.
func RegisterRoutes(api *echo.Group, h Handlers) {
	auth := api_middleware.SetupJWTMiddleware()

	RegisterUserRoutes(api.Group("/users"), h.Users, auth)
	RegisterGameRoutes(api.Group("/games", auth), h.Games)
	RegisterLobbyRoutes(api.Group("/lobbies", auth), h.Lobbies)
	RegisterBattleRoutes(api.Group("/battles", auth), h.Battles)
	RegisterAdminRoutes(api.Group("/admin", auth, api_middleware.RequireRole(user.RoleAdmin)), h.Admin)

	api.GET("/languages", LanguagesHandler, auth)
}

func LanguagesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, round.Languages)
}
