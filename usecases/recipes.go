package usecases

import (
	"io"
	"log"
	"net/url"
	"strings"
	"unicode/utf8"

	"recipe-server/entities"
	"recipe-server/repositories"

	"github.com/shopspring/decimal"
)

const (
	maxTextLength  = 255
	maxPriceDigits = 5
	priceDecimals  = 2
)

var maxPrice = decimal.New(1, maxPriceDigits-priceDecimals)

// ImageStorage persists uploaded images and returns their media-relative path.
type ImageStorage interface {
	Save(r io.Reader) (string, error)
	Remove(path string) error
}

// RecipeInput carries the writable fields of a recipe. Nil fields are not
// part of the request.
type RecipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

type RecipeUseCase struct {
	RecipeRepo repositories.RecipeRepository
	Images     ImageStorage
}

func NewRecipeUseCase(recipeRepo repositories.RecipeRepository, images ImageStorage) *RecipeUseCase {
	return &RecipeUseCase{RecipeRepo: recipeRepo, Images: images}
}

// GetRecipes lists the user's recipes, newest first.
func (uc *RecipeUseCase) GetRecipes(userID uint, filter repositories.RecipeFilter) ([]entities.Recipe, error) {
	return uc.RecipeRepo.GetByUserID(userID, filter)
}

func (uc *RecipeUseCase) GetRecipe(userID, id uint) (*entities.Recipe, error) {
	recipe, err := uc.RecipeRepo.GetByID(userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return recipe, nil
}

func (uc *RecipeUseCase) CreateRecipe(userID uint, in RecipeInput) (*entities.Recipe, error) {
	if err := validateRecipe(in, true); err != nil {
		return nil, err
	}
	recipe := &entities.Recipe{UserID: userID}
	applyRecipe(recipe, in)
	if err := uc.RecipeRepo.Create(recipe, linksOf(in)); err != nil {
		return nil, err
	}
	return uc.GetRecipe(userID, recipe.ID)
}

// UpdateRecipe changes a recipe. A full update requires the same fields as a
// create; a partial one requires none. Omitted tag or ingredient lists keep
// the current links.
func (uc *RecipeUseCase) UpdateRecipe(userID, id uint, in RecipeInput, partial bool) (*entities.Recipe, error) {
	recipe, err := uc.GetRecipe(userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateRecipe(in, !partial); err != nil {
		return nil, err
	}
	applyRecipe(recipe, in)
	if err := uc.RecipeRepo.Update(recipe, linksOf(in)); err != nil {
		return nil, err
	}
	return uc.GetRecipe(userID, id)
}

// DeleteRecipe removes the recipe, its links and its image file.
func (uc *RecipeUseCase) DeleteRecipe(userID, id uint) error {
	recipe, err := uc.GetRecipe(userID, id)
	if err != nil {
		return err
	}
	if err := uc.RecipeRepo.Delete(recipe); err != nil {
		return notFound(err)
	}
	if err := uc.Images.Remove(recipe.Image); err != nil {
		log.Printf("Failed to remove image of deleted recipe %d: %v", recipe.ID, err)
	}
	return nil
}

// UploadImage stores a new image for the recipe and drops the previous file.
// The recipe is left untouched when the payload is not an image.
func (uc *RecipeUseCase) UploadImage(userID, id uint, r io.Reader) (*entities.Recipe, error) {
	recipe, err := uc.GetRecipe(userID, id)
	if err != nil {
		return nil, err
	}

	path, err := uc.Images.Save(r)
	if err != nil {
		return nil, err
	}
	previous := recipe.Image
	recipe.Image = path
	if err := uc.RecipeRepo.Update(recipe, repositories.RecipeLinks{}); err != nil {
		if rmErr := uc.Images.Remove(path); rmErr != nil {
			log.Printf("Failed to remove orphaned image %s: %v", path, rmErr)
		}
		return nil, err
	}
	if err := uc.Images.Remove(previous); err != nil {
		log.Printf("Failed to remove replaced image %s: %v", previous, err)
	}
	return recipe, nil
}

func validateRecipe(in RecipeInput, requireAll bool) error {
	v := &ValidationError{}

	if in.Title == nil {
		if requireAll {
			v.Add("title", "This field is required.")
		}
	} else if strings.TrimSpace(*in.Title) == "" {
		v.Add("title", "This field may not be blank.")
	} else if utf8.RuneCountInString(*in.Title) > maxTextLength {
		v.Add("title", "Ensure this field has no more than 255 characters.")
	}

	if in.TimeMinutes == nil {
		if requireAll {
			v.Add("time_minutes", "This field is required.")
		}
	} else if *in.TimeMinutes < 0 {
		v.Add("time_minutes", "Ensure this value is greater than or equal to 0.")
	}

	if in.Price == nil {
		if requireAll {
			v.Add("price", "This field is required.")
		}
	} else {
		validatePrice(v, *in.Price)
	}

	if in.Link != nil && *in.Link != "" {
		if utf8.RuneCountInString(*in.Link) > maxTextLength {
			v.Add("link", "Ensure this field has no more than 255 characters.")
		} else if u, err := url.ParseRequestURI(*in.Link); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			v.Add("link", "Enter a valid URL.")
		}
	}

	validateNames(v, "tags", in.Tags)
	validateNames(v, "ingredients", in.Ingredients)
	return v.Err()
}

func validatePrice(v *ValidationError, price decimal.Decimal) {
	if price.IsNegative() {
		v.Add("price", "Ensure this value is greater than or equal to 0.")
		return
	}
	if !price.Equal(price.Truncate(priceDecimals)) {
		v.Add("price", "Ensure that there are no more than 2 decimal places.")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		v.Add("price", "Ensure that there are no more than 5 digits in total.")
	}
}

func validateNames(v *ValidationError, field string, names *[]string) {
	if names == nil {
		return
	}
	for _, name := range *names {
		if strings.TrimSpace(name) == "" {
			v.Add(field, "Names may not be blank.")
			return
		}
		if utf8.RuneCountInString(name) > maxTextLength {
			v.Add(field, "Ensure names have no more than 255 characters.")
			return
		}
	}
}

func applyRecipe(recipe *entities.Recipe, in RecipeInput) {
	if in.Title != nil {
		recipe.Title = strings.TrimSpace(*in.Title)
	}
	if in.TimeMinutes != nil {
		recipe.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		recipe.Price = *in.Price
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}
}

func linksOf(in RecipeInput) repositories.RecipeLinks {
	return repositories.RecipeLinks{
		Tags:        trimNames(in.Tags),
		Ingredients: trimNames(in.Ingredients),
	}
}

func trimNames(names *[]string) *[]string {
	if names == nil {
		return nil
	}
	out := make([]string, len(*names))
	for i, name := range *names {
		out[i] = strings.TrimSpace(name)
	}
	return &out
}
