package httpHandler

import (
	"net/http"

	"recipe-server/usecases"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the staff-only user browser mounted under /admin.
type AdminHandler struct {
	useCase *usecases.UserUseCase
}

func NewAdminHandler(useCase *usecases.UserUseCase) *AdminHandler {
	return &AdminHandler{useCase: useCase}
}

type AdminCreateUserRequest struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,min=5"`
	Name        string `json:"name" form:"name"`
	IsStaff     bool   `json:"is_staff" form:"is_staff"`
	IsSuperuser bool   `json:"is_superuser" form:"is_superuser"`
}

type AdminUpdateUserRequest struct {
	Email       *string `json:"email" form:"email" binding:"omitempty,email"`
	Password    *string `json:"password" form:"password" binding:"omitempty,min=5"`
	Name        *string `json:"name" form:"name"`
	IsActive    *bool   `json:"is_active" form:"is_active"`
	IsStaff     *bool   `json:"is_staff" form:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser" form:"is_superuser"`
}

// GetAllUsers handles GET /admin/users/
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.useCase.GetAllUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]adminUserResponse, 0, len(users))
	for i := range users {
		out = append(out, newAdminUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /admin/users/:id/
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.useCase.GetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAdminUserResponse(user))
}

// CreateUser handles POST /admin/users/
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.useCase.CreateAccount(usecases.NewUser{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAdminUserResponse(user))
}

// UpdateUser handles PATCH /admin/users/:id/
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AdminUpdateUserRequest
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.useCase.UpdateUser(id, usecases.UserChanges{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		IsActive:    req.IsActive,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAdminUserResponse(user))
}
