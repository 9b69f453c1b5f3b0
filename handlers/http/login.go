package httpHandler

import (
	"errors"
	"net/http"

	"recipe-server/usecases"

	"github.com/gin-gonic/gin"
)

type LoginHandler struct {
	useCase *usecases.UserUseCase
}

func NewLoginHandler(useCase *usecases.UserUseCase) *LoginHandler {
	return &LoginHandler{useCase: useCase}
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// CreateToken handles POST /user/token/
func (h *LoginHandler) CreateToken(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.useCase.IssueToken(req.Email, req.Password)
	if errors.Is(err, usecases.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, fieldErrors(map[string][]string{
			"non_field_errors": {"Unable to authenticate with provided credentials."},
		}))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token.Key})
}
