package repositories

import (
	"recipe-server/db"
	"recipe-server/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tokenPgRepository struct {
	db db.Database
}

func NewTokenPgRepository(database db.Database) TokenRepository {
	return &tokenPgRepository{db: database}
}

// GetOrCreate returns the token of the user, issuing one on first use.
func (r *tokenPgRepository) GetOrCreate(userID uint) (*entities.Token, error) {
	token, err := r.getByUserID(userID)
	if err == nil {
		return token, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	token = &entities.Token{UserID: userID}
	err = r.db.GetDB().Omit("User").Create(token).Error
	if db.IsUniqueViolation(err) {
		// a concurrent login issued it first
		return r.getByUserID(userID)
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (r *tokenPgRepository) GetByKey(key string) (*entities.Token, error) {
	if key == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var token entities.Token
	err := r.db.GetDB().Preload("User").
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenPgRepository) getByUserID(userID uint) (*entities.Token, error) {
	var token entities.Token
	err := r.db.GetDB().Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}
