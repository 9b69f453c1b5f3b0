package repositories

import "recipe-server/entities"

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id uint) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	GetAll() ([]entities.User, error)
	Update(user *entities.User) error
}

type TokenRepository interface {
	GetOrCreate(userID uint) (*entities.Token, error)
	GetByKey(key string) (*entities.Token, error)
}

// RecipeFilter restricts a recipe listing to recipes linked to ANY of the
// given tag ids and ANY of the given ingredient ids.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeLinks carries the attribute names a recipe should be linked to.
// A nil pointer leaves the links of that kind untouched; an empty list clears them.
type RecipeLinks struct {
	Tags        *[]string
	Ingredients *[]string
}

type RecipeRepository interface {
	Create(recipe *entities.Recipe, links RecipeLinks) error
	GetByID(userID, id uint) (*entities.Recipe, error)
	GetByUserID(userID uint, filter RecipeFilter) ([]entities.Recipe, error)
	Update(recipe *entities.Recipe, links RecipeLinks) error
	Delete(recipe *entities.Recipe) error
}

// AttributeRepository stores one kind of attribute (tags or ingredients).
type AttributeRepository interface {
	Kind() entities.AttributeKind
	Create(attr *entities.Attribute) error
	GetByID(userID, id uint) (*entities.Attribute, error)
	GetByUserID(userID uint, assignedOnly bool) ([]entities.Attribute, error)
	Update(attr *entities.Attribute) error
	Delete(attr *entities.Attribute) error
}
