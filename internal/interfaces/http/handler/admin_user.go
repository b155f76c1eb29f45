package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/storefront/backend/internal/application/identity"
)

// AdminUserHandler manages customer accounts
type AdminUserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewAdminUserHandler creates a new AdminUserHandler
func NewAdminUserHandler(userService *appidentity.UserService) *AdminUserHandler {
	return &AdminUserHandler{userService: userService}
}

// List godoc
// @Summary      Customer accounts
// @Tags         admin-users
// @Produce      json
// @Param        search    query string false "Name or email contains"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]appidentity.UserResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminUserHandler) List(c *gin.Context) {
	var filter appidentity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.userService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Activate godoc
// @Summary      Activate an account
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=appidentity.UserResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/activate [post]
func (h *AdminUserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate godoc
// @Summary      Deactivate an account
// @Description  Administrators cannot deactivate themselves
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=appidentity.UserResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/deactivate [post]
func (h *AdminUserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AdminUserHandler) setActive(c *gin.Context, active bool) {
	actorID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		user *appidentity.UserResponse
		err  error
	)
	if active {
		user, err = h.userService.Activate(ctx, actorID, userID)
	} else {
		user, err = h.userService.Deactivate(ctx, actorID, userID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
// @Summary      Delete an account
// @Description  Administrators cannot delete themselves
// @Tags         admin-users
// @Param        id path string true "User ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id} [delete]
func (h *AdminUserHandler) Delete(c *gin.Context) {
	actorID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), actorID, userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
