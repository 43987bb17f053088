package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

// UserHandler handles account administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(svc ports.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List handles GET /api/users.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Success: true, Count: len(users), Users: users})
}

// UpdateProfile handles PUT /api/users/:id.
//
// @Summary      Update profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "User ID"
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.service.UpdateProfile(c.Request().Context(), caller, id, domain.Profile{
		Phone:     req.Phone,
		StudyYear: req.StudyYear,
		Branch:    req.Branch,
		Section:   req.Section,
		Residency: req.Residency,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "User updated successfully"})
}

// Delete handles DELETE /api/users/:id.
//
// @Summary      Delete an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "User deleted successfully"})
}
