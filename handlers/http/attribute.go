package httpHandler

import (
	"net/http"
	"strconv"

	"recipe-server/usecases"

	"github.com/gin-gonic/gin"
)

// AttributeHandler serves /recipe/tags/ or /recipe/ingredients/, depending on
// the use case it wraps.
type AttributeHandler struct {
	useCase *usecases.AttributeUseCase
}

func NewAttributeHandler(useCase *usecases.AttributeUseCase) *AttributeHandler {
	return &AttributeHandler{useCase: useCase}
}

type AttributeRequest struct {
	Name *string `json:"name" form:"name"`
}

// GetAll handles GET with an optional assigned_only=<int> query.
func (h *AttributeHandler) GetAll(c *gin.Context) {
	assignedOnly := false
	if raw, ok := c.GetQuery("assigned_only"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, usecases.NewValidationError("assigned_only", msgNotInteger))
			return
		}
		assignedOnly = n != 0
	}

	attrs, err := h.useCase.List(currentUser(c).ID, assignedOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAttributeList(attrs))
}

func (h *AttributeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	attr, err := h.useCase.Get(currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAttributeResponse(*attr))
}

func (h *AttributeHandler) Create(c *gin.Context) {
	var req AttributeRequest
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Name == nil {
		respondError(c, usecases.NewValidationError("name", msgRequired))
		return
	}

	attr, err := h.useCase.Create(currentUser(c).ID, *req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAttributeResponse(*attr))
}

// Update handles PUT and PATCH. Only PUT requires a name.
func (h *AttributeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AttributeRequest
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	userID := currentUser(c).ID
	if req.Name == nil {
		if c.Request.Method == http.MethodPut {
			respondError(c, usecases.NewValidationError("name", msgRequired))
			return
		}
		current, err := h.useCase.Get(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newAttributeResponse(*current))
		return
	}

	updated, err := h.useCase.Rename(userID, id, *req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAttributeResponse(*updated))
}

func (h *AttributeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.useCase.Delete(currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
