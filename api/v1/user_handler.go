package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/CodeClash/api/middleware"
	"github.com/thesrcielos/CodeClash/internal/user"
)

type UserAPI interface {
	Signup(req user.SignupRequest) (string, error)
	Login(req user.LoginRequest) (string, error)
	GetUser(id uint) (*user.User, error)
	GetUserStats(userID uint) (*user.UserStatsResponse, error)
	UpdateProfile(userID uint, req user.ProfileRequest) (*user.User, error)
}

type UserHandler struct {
	users UserAPI
}

func NewUserHandler(users UserAPI) *UserHandler {
	return &UserHandler{users: users}
}

func RegisterUserRoutes(g *echo.Group, h *UserHandler, auth echo.MiddlewareFunc) {
	g.POST("/signup", h.SignupHandler)
	g.POST("/login", h.LoginHandler)
	g.GET("/me", h.MeHandler, auth)
	g.PUT("/me", h.UpdateProfileHandler, auth)
	g.GET("/stats/:id", h.GetUserStatsHandler, auth)
}

func (h *UserHandler) SignupHandler(c echo.Context) error {
	var req user.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, err := h.users.Signup(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}

func (h *UserHandler) LoginHandler(c echo.Context) error {
	var req user.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, err := h.users.Login(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (h *UserHandler) MeHandler(c echo.Context) error {
	u, err := h.users.GetUser(api_middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateProfileHandler(c echo.Context) error {
	var req user.ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.users.UpdateProfile(api_middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) GetUserStatsHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.users.GetUserStats(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
