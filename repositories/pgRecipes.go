package repositories

import (
	"errors"
	"fmt"

	"recipe-server/db"
	"recipe-server/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type recipePgRepository struct {
	db db.Database
}

func NewRecipePgRepository(database db.Database) RecipeRepository {
	return &recipePgRepository{db: database}
}

// Create stores the recipe and its links in one transaction.
func (r *recipePgRepository) Create(recipe *entities.Recipe, links RecipeLinks) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return saveLinks(tx, recipe, links)
	})
}

func (r *recipePgRepository) GetByID(userID, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := preloadAttributes(r.db.GetDB()).
		Where("id = ? AND user_id = ?", id, userID).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipePgRepository) GetByUserID(userID uint, filter RecipeFilter) ([]entities.Recipe, error) {
	query := preloadAttributes(r.db.GetDB()).Where("user_id = ?", userID)
	if len(filter.TagIDs) > 0 {
		query = query.Where("id IN (?)", r.linkedRecipes(entities.TagKind, filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.Where("id IN (?)", r.linkedRecipes(entities.IngredientKind, filter.IngredientIDs))
	}

	var recipes []entities.Recipe
	err := query.Order("id DESC").Find(&recipes).Error
	return recipes, err
}

func (r *recipePgRepository) Update(recipe *entities.Recipe, links RecipeLinks) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		return saveLinks(tx, recipe, links)
	})
}

// Delete removes the recipe and its links. Linked tags and ingredients stay.
func (r *recipePgRepository) Delete(recipe *entities.Recipe) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		for _, kind := range []entities.AttributeKind{entities.TagKind, entities.IngredientKind} {
			if err := clearLinks(tx, kind, recipe.ID); err != nil {
				return err
			}
		}
		result := tx.Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).Delete(&entities.Recipe{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *recipePgRepository) linkedRecipes(kind entities.AttributeKind, ids []uint) *gorm.DB {
	return r.db.GetDB().Table(kind.JoinTable).Select("recipe_id").Where(kind.JoinColumn+" IN ?", ids)
}

func preloadAttributes(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.id ASC") })
}

func saveLinks(tx *gorm.DB, recipe *entities.Recipe, links RecipeLinks) error {
	if links.Tags != nil {
		if err := replaceLinks(tx, entities.TagKind, recipe, *links.Tags); err != nil {
			return err
		}
	}
	if links.Ingredients != nil {
		if err := replaceLinks(tx, entities.IngredientKind, recipe, *links.Ingredients); err != nil {
			return err
		}
	}
	return nil
}

// replaceLinks resolves names to attributes owned by the recipe's user,
// creating missing ones, and makes them the recipe's only links of that kind.
func replaceLinks(tx *gorm.DB, kind entities.AttributeKind, recipe *entities.Recipe, names []string) error {
	ids := make([]uint, 0, len(names))
	seen := make(map[uint]bool, len(names))
	for _, name := range names {
		attr, err := getOrCreateAttribute(tx, kind, recipe.UserID, name)
		if err != nil {
			return err
		}
		if !seen[attr.ID] {
			seen[attr.ID] = true
			ids = append(ids, attr.ID)
		}
	}

	if err := clearLinks(tx, kind, recipe.ID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]interface{}{
			"recipe_id":     recipe.ID,
			kind.JoinColumn: id,
		})
	}
	if err := tx.Table(kind.JoinTable).Create(rows).Error; err != nil {
		return fmt.Errorf("failed to link %ss to recipe %d: %w", kind.Name, recipe.ID, err)
	}
	return nil
}

func clearLinks(tx *gorm.DB, kind entities.AttributeKind, recipeID uint) error {
	err := tx.Exec("DELETE FROM "+kind.JoinTable+" WHERE recipe_id = ?", recipeID).Error
	if err != nil {
		return fmt.Errorf("failed to unlink %ss from recipe %d: %w", kind.Name, recipeID, err)
	}
	return nil
}

func getOrCreateAttribute(tx *gorm.DB, kind entities.AttributeKind, userID uint, name string) (*entities.Attribute, error) {
	attr, err := findAttributeByName(tx, kind, userID, name)
	if err == nil {
		return attr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attr = &entities.Attribute{UserID: userID, Name: name}
	// savepoint, so a lost race does not abort the surrounding transaction
	err = tx.Transaction(func(sp *gorm.DB) error {
		return sp.Table(kind.Table).Create(attr).Error
	})
	if db.IsUniqueViolation(err) {
		return findAttributeByName(tx, kind, userID, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %q: %w", kind.Name, name, err)
	}
	return attr, nil
}

func findAttributeByName(tx *gorm.DB, kind entities.AttributeKind, userID uint, name string) (*entities.Attribute, error) {
	var attr entities.Attribute
	err := tx.Table(kind.Table).Where("user_id = ? AND name = ?", userID, name).First(&attr).Error
	if err != nil {
		return nil, err
	}
	return &attr, nil
}
