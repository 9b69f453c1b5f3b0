package httpHandler

import (
	"net/http"
	"strconv"
	"strings"

	"recipe-server/entities"
	"recipe-server/repositories"
	"recipe-server/usecases"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	useCase  *usecases.RecipeUseCase
	mediaURL string
}

func NewRecipeHandler(useCase *usecases.RecipeUseCase, mediaURL string) *RecipeHandler {
	return &RecipeHandler{useCase: useCase, mediaURL: mediaURL}
}

// GetRecipes handles GET /recipe/recipes/?tags=1,2&ingredients=3
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	verr := &usecases.ValidationError{}
	filter := repositories.RecipeFilter{
		TagIDs:        queryIDs(c, verr, "tags"),
		IngredientIDs: queryIDs(c, verr, "ingredients"),
	}
	if err := verr.Err(); err != nil {
		respondError(c, err)
		return
	}

	recipes, err := h.useCase.GetRecipes(currentUser(c).ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecipeList(recipes))
}

// GetRecipe handles GET /recipe/recipes/:id/
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.useCase.GetRecipe(currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.detail(c, recipe))
}

// CreateRecipe handles POST /recipe/recipes/
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	in, ok := bindRecipe(c)
	if !ok {
		return
	}

	recipe, err := h.useCase.CreateRecipe(currentUser(c).ID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.detail(c, recipe))
}

// UpdateRecipe handles PUT and PATCH /recipe/recipes/:id/
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := bindRecipe(c)
	if !ok {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	recipe, err := h.useCase.UpdateRecipe(currentUser(c).ID, id, in, partial)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.detail(c, recipe))
}

// DeleteRecipe handles DELETE /recipe/recipes/:id/
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteRecipe(currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /recipe/recipes/:id/upload-image/ with a
// multipart "image" field.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, usecases.NewValidationError("image", "No file was submitted."))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	recipe, err := h.useCase.UploadImage(currentUser(c).ID, id, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipeImageResponse{
		ID:    recipe.ID,
		Image: mediaURL(c, h.mediaURL, recipe.Image),
	})
}

func (h *RecipeHandler) detail(c *gin.Context, recipe *entities.Recipe) recipeDetailResponse {
	return recipeDetailResponse{
		recipeResponse: newRecipeResponse(recipe),
		Description:    recipe.Description,
		Image:          mediaURL(c, h.mediaURL, recipe.Image),
	}
}

func bindRecipe(c *gin.Context) (usecases.RecipeInput, bool) {
	var req recipeRequest
	if isFormBody(c) {
		req = recipeFromForm(c)
	} else if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return usecases.RecipeInput{}, false
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return usecases.RecipeInput{}, false
	}
	return in, true
}

// pathID reads the :id parameter. Anything but a positive integer is a 404,
// as no such resource can exist.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, usecases.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// queryIDs parses a comma separated id list from the query string.
func queryIDs(c *gin.Context, verr *usecases.ValidationError, key string) []uint {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			verr.Add(key, msgNotInteger)
			return nil
		}
		ids = append(ids, uint(id))
	}
	return ids
}
