package httpHandler

import (
	"net/http"

	"recipe-server/usecases"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	useCase *usecases.UserUseCase
}

func NewUserHandler(useCase *usecases.UserUseCase) *UserHandler {
	return &UserHandler{useCase: useCase}
}

type CreateUserRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=5"`
	Name     string `json:"name" form:"name"`
}

type ProfileRequest struct {
	Email    *string `json:"email" form:"email" binding:"omitempty,email"`
	Password *string `json:"password" form:"password" binding:"omitempty,min=5"`
	Name     *string `json:"name" form:"name"`
}

// CreateUser handles POST /user/create/
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.useCase.CreateUser(req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// GetProfile handles GET /user/me/
func (h *UserHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(currentUser(c)))
}

// UpdateProfile handles PATCH and PUT /user/me/. PUT needs email and password.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return
	}
	if c.Request.Method == http.MethodPut {
		verr := &usecases.ValidationError{}
		if req.Email == nil {
			verr.Add("email", msgRequired)
		}
		if req.Password == nil {
			verr.Add("password", msgRequired)
		}
		if err := verr.Err(); err != nil {
			respondError(c, err)
			return
		}
	}

	user, err := h.useCase.UpdateUser(currentUser(c).ID, usecases.UserChanges{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
