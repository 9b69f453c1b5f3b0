package httpHandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"recipe-server/entities"
	"recipe-server/usecases"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

// bindBody binds a JSON, urlencoded or multipart body by content type. A body
// without content type is read as JSON and an empty one as an empty object.
func bindBody(c *gin.Context, obj interface{}) error {
	b := binding.Default(c.Request.Method, c.ContentType())
	if c.ContentType() == "" {
		b = binding.JSON
	}
	err := c.ShouldBindWith(obj, b)
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(obj)
	}
	return err
}

func isFormBody(c *gin.Context) bool {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

type nameRequest struct {
	Name string `json:"name"`
}

// recipeRequest keeps the numeric fields raw so that numbers and numeric
// strings are both accepted.
type recipeRequest struct {
	Title       *string         `json:"title"`
	TimeMinutes json.RawMessage `json:"time_minutes"`
	Price       json.RawMessage `json:"price"`
	Description *string         `json:"description"`
	Link        *string         `json:"link"`
	Tags        *[]nameRequest  `json:"tags"`
	Ingredients *[]nameRequest  `json:"ingredients"`
}

// recipeFromForm reads a flat form body. Tags and ingredients are repeated
// fields holding one name each.
func recipeFromForm(c *gin.Context) recipeRequest {
	var r recipeRequest
	if v, ok := c.GetPostForm("title"); ok {
		r.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		r.Description = &v
	}
	if v, ok := c.GetPostForm("link"); ok {
		r.Link = &v
	}
	if v, ok := c.GetPostForm("time_minutes"); ok {
		r.TimeMinutes = formScalar(v)
	}
	if v, ok := c.GetPostForm("price"); ok {
		r.Price = formScalar(v)
	}
	if vs, ok := c.GetPostFormArray("tags"); ok {
		r.Tags = formNames(vs)
	}
	if vs, ok := c.GetPostFormArray("ingredients"); ok {
		r.Ingredients = formNames(vs)
	}
	return r
}

func formScalar(v string) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}

func formNames(values []string) *[]nameRequest {
	out := make([]nameRequest, len(values))
	for i, v := range values {
		out[i] = nameRequest{Name: v}
	}
	return &out
}

func (r *recipeRequest) input() (usecases.RecipeInput, error) {
	in := usecases.RecipeInput{
		Title:       r.Title,
		Description: r.Description,
		Link:        r.Link,
		Tags:        names(r.Tags),
		Ingredients: names(r.Ingredients),
	}
	verr := &usecases.ValidationError{}

	if raw, ok := scalar(r.TimeMinutes); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add("time_minutes", msgNotInteger)
		} else {
			in.TimeMinutes = &n
		}
	}
	if raw, ok := scalar(r.Price); ok {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add("price", msgNotNumber)
		} else {
			in.Price = &d
		}
	}
	return in, verr.Err()
}

// scalar unwraps a JSON number or string. Absent and null values report false.
func scalar(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), true
	}
	return string(raw), true
}

func names(items *[]nameRequest) *[]string {
	if items == nil {
		return nil
	}
	out := make([]string, len(*items))
	for i, item := range *items {
		out[i] = item.Name
	}
	return &out
}

type attributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type recipeResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
	Tags        []attributeResponse `json:"tags"`
	Ingredients []attributeResponse `json:"ingredients"`
}

type recipeDetailResponse struct {
	recipeResponse
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

type recipeImageResponse struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type adminUserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAttributeResponse(attr entities.Attribute) attributeResponse {
	return attributeResponse{ID: attr.ID, Name: attr.Name}
}

func newAttributeList(attrs []entities.Attribute) []attributeResponse {
	out := make([]attributeResponse, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, newAttributeResponse(attr))
	}
	return out
}

func newRecipeResponse(recipe *entities.Recipe) recipeResponse {
	return recipeResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price.StringFixed(2),
		Link:        recipe.Link,
		Tags:        newAttributeList(entities.TagsAsAttributes(recipe.Tags)),
		Ingredients: newAttributeList(entities.IngredientsAsAttributes(recipe.Ingredients)),
	}
}

func newRecipeList(recipes []entities.Recipe) []recipeResponse {
	out := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, newRecipeResponse(&recipes[i]))
	}
	return out
}

func newUserResponse(user *entities.User) userResponse {
	return userResponse{Email: user.Email, Name: user.Name}
}

func newAdminUserResponse(user *entities.User) adminUserResponse {
	return adminUserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
	}
}

// mediaURL turns a stored media path into an absolute URL on the requesting host.
func mediaURL(c *gin.Context, prefix, rel string) *string {
	if rel == "" {
		return nil
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	switch proto := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto"))); proto {
	case "http", "https":
		scheme = proto
	}
	u := scheme + "://" + c.Request.Host + strings.TrimSuffix(prefix, "/") + "/" + rel
	return &u
}
