package repositories

import (
	"recipe-server/db"
	"recipe-server/entities"

	"gorm.io/gorm"
)

type attributePgRepository struct {
	db   db.Database
	kind entities.AttributeKind
}

func NewTagPgRepository(database db.Database) AttributeRepository {
	return &attributePgRepository{db: database, kind: entities.TagKind}
}

func NewIngredientPgRepository(database db.Database) AttributeRepository {
	return &attributePgRepository{db: database, kind: entities.IngredientKind}
}

func (r *attributePgRepository) Kind() entities.AttributeKind { return r.kind }

func (r *attributePgRepository) Create(attr *entities.Attribute) error {
	return r.db.GetDB().Table(r.kind.Table).Create(attr).Error
}

func (r *attributePgRepository) GetByID(userID, id uint) (*entities.Attribute, error) {
	var attr entities.Attribute
	err := r.db.GetDB().Table(r.kind.Table).Where("id = ? AND user_id = ?", id, userID).First(&attr).Error
	if err != nil {
		return nil, err
	}
	return &attr, nil
}

// GetByUserID lists the user's attributes by descending name. With assignedOnly
// it keeps those linked to at least one of the user's recipes, each once.
func (r *attributePgRepository) GetByUserID(userID uint, assignedOnly bool) ([]entities.Attribute, error) {
	query := r.db.GetDB().Table(r.kind.Table).Where("user_id = ?", userID)
	if assignedOnly {
		linked := r.db.GetDB().
			Table(r.kind.JoinTable).
			Select(r.kind.JoinTable+"."+r.kind.JoinColumn).
			Joins("JOIN recipes ON recipes.id = "+r.kind.JoinTable+".recipe_id").
			Where("recipes.user_id = ?", userID)
		query = query.Where("id IN (?)", linked)
	}

	var attrs []entities.Attribute
	err := query.Order("name DESC").Order("id DESC").Find(&attrs).Error
	return attrs, err
}

func (r *attributePgRepository) Update(attr *entities.Attribute) error {
	result := r.db.GetDB().Table(r.kind.Table).
		Where("id = ? AND user_id = ?", attr.ID, attr.UserID).
		Update("name", attr.Name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the attribute and its recipe links. Recipes stay.
func (r *attributePgRepository) Delete(attr *entities.Attribute) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+r.kind.JoinTable+" WHERE "+r.kind.JoinColumn+" = ?", attr.ID).Error; err != nil {
			return err
		}
		result := tx.Table(r.kind.Table).Where("id = ? AND user_id = ?", attr.ID, attr.UserID).Delete(&entities.Attribute{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
