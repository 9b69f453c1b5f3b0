// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"fmt"
	"testing"

	"recipe-server/confs"
	"recipe-server/db"
	"recipe-server/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewDatabase opens a migrated in-memory sqlite database private to the test.
func NewDatabase(t *testing.T) *db.GormDatabase {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	database, err := db.Connect(confs.DatabaseConfig{Driver: "sqlite", URL: dsn, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
	gormDB := database.(*db.GormDatabase)
	t.Cleanup(func() {
		if err := gormDB.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return gormDB
}

func CreateUser(t *testing.T, gdb *gorm.DB, email, password string) *entities.User {
	t.Helper()
	user := &entities.User{Email: email, Name: "Test User", IsActive: true}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("failed to hash password for %s: %v", email, err)
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

// CreateRecipe stores a recipe with sample values; title overrides the default when given.
func CreateRecipe(t *testing.T, gdb *gorm.DB, user *entities.User, title string) *entities.Recipe {
	t.Helper()
	if title == "" {
		title = "Sample recipe"
	}
	recipe := &entities.Recipe{
		UserID:      user.ID,
		Title:       title,
		TimeMinutes: 5,
		Price:       decimal.RequireFromString("5.50"),
		Description: "sample description",
		Link:        "http://example.com/recipe.pdf",
	}
	if err := gdb.Omit("User", "Tags", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe %s: %v", title, err)
	}
	return recipe
}

func CreateTag(t *testing.T, gdb *gorm.DB, user *entities.User, name string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{UserID: user.ID, Name: name}
	if err := gdb.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag %s: %v", name, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, gdb *gorm.DB, user *entities.User, name string) *entities.Ingredient {
	t.Helper()
	ingredient := &entities.Ingredient{UserID: user.ID, Name: name}
	if err := gdb.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient %s: %v", name, err)
	}
	return ingredient
}

// Attach links tags and ingredients to recipe.
func Attach(t *testing.T, gdb *gorm.DB, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.Ingredient) {
	t.Helper()
	for _, tag := range tags {
		if err := gdb.Model(recipe).Association("Tags").Append(tag); err != nil {
			t.Fatalf("failed to attach tag %s: %v", tag.Name, err)
		}
	}
	for _, ingredient := range ingredients {
		if err := gdb.Model(recipe).Association("Ingredients").Append(ingredient); err != nil {
			t.Fatalf("failed to attach ingredient %s: %v", ingredient.Name, err)
		}
	}
}
