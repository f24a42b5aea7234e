package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/CodeClash/api/middleware"
	"github.com/thesrcielos/CodeClash/internal/dashboard"
	"github.com/thesrcielos/CodeClash/internal/prompt"
	"github.com/thesrcielos/CodeClash/internal/user"
)

type AdminUserAPI interface {
	ListUsers(page, size int) (*user.UserPage, error)
	GetUser(id uint) (*user.User, error)
	CreateUser(req user.AdminUserRequest) (*user.User, error)
	UpdateUser(id uint, req user.AdminUserRequest) (*user.User, error)
	DeleteUser(actorID, id uint) error
}

type PromptAPI interface {
	List(ctx context.Context) ([]prompt.Prompt, error)
	Get(ctx context.Context, id uint) (*prompt.Prompt, error)
	Create(ctx context.Context, req prompt.PromptRequest) (*prompt.Prompt, error)
	Update(ctx context.Context, id uint, req prompt.PromptRequest) (*prompt.Prompt, error)
	Delete(ctx context.Context, id uint) error
}

type DashboardAPI interface {
	Overview(ctx context.Context) (*dashboard.Dashboard, error)
}

type AdminHandler struct {
	users     AdminUserAPI
	prompts   PromptAPI
	dashboard DashboardAPI
}

func NewAdminHandler(users AdminUserAPI, prompts PromptAPI, dash DashboardAPI) *AdminHandler {
	return &AdminHandler{users: users, prompts: prompts, dashboard: dash}
}

func RegisterAdminRoutes(g *echo.Group, h *AdminHandler) {
	g.GET("/dashboard", h.DashboardHandler)

	g.GET("/users", h.ListUsersHandler)
	g.POST("/users", h.CreateUserHandler)
	g.GET("/users/:id", h.GetUserHandler)
	g.PUT("/users/:id", h.UpdateUserHandler)
	g.DELETE("/users/:id", h.DeleteUserHandler)

	g.GET("/prompts", h.ListPromptsHandler)
	g.POST("/prompts", h.CreatePromptHandler)
	g.GET("/prompts/:id", h.GetPromptHandler)
	g.PUT("/prompts/:id", h.UpdatePromptHandler)
	g.DELETE("/prompts/:id", h.DeletePromptHandler)
}

func (h *AdminHandler) DashboardHandler(c echo.Context) error {
	overview, err := h.dashboard.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overview)
}

func (h *AdminHandler) ListUsersHandler(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", user.DefaultPageSize)
	if err != nil {
		return err
	}
	users, err := h.users.ListUsers(page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetUserHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.users.GetUser(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) CreateUserHandler(c echo.Context) error {
	var req user.AdminUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.users.CreateUser(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *AdminHandler) UpdateUserHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req user.AdminUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.users.UpdateUser(id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) DeleteUserHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(api_middleware.UserID(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListPromptsHandler(c echo.Context) error {
	prompts, err := h.prompts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prompts)
}

func (h *AdminHandler) GetPromptHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.prompts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) CreatePromptHandler(c echo.Context) error {
	var req prompt.PromptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.prompts.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminHandler) UpdatePromptHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req prompt.PromptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.prompts.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DeletePromptHandler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.prompts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
