package usecases

import (
	"strings"
	"unicode/utf8"

	"recipe-server/db"
	"recipe-server/entities"
	"recipe-server/repositories"
)

// AttributeUseCase manages one kind of recipe attribute, tags or ingredients.
type AttributeUseCase struct {
	Repo repositories.AttributeRepository
}

func NewAttributeUseCase(repo repositories.AttributeRepository) *AttributeUseCase {
	return &AttributeUseCase{Repo: repo}
}

func (uc *AttributeUseCase) Kind() entities.AttributeKind {
	return uc.Repo.Kind()
}

func (uc *AttributeUseCase) List(userID uint, assignedOnly bool) ([]entities.Attribute, error) {
	return uc.Repo.GetByUserID(userID, assignedOnly)
}

func (uc *AttributeUseCase) Get(userID, id uint) (*entities.Attribute, error) {
	attr, err := uc.Repo.GetByID(userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return attr, nil
}

func (uc *AttributeUseCase) Create(userID uint, name string) (*entities.Attribute, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	attr := &entities.Attribute{UserID: userID, Name: name}
	if err := uc.Repo.Create(attr); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewValidationError("name", "You already have a "+uc.Kind().Name+" with this name.")
		}
		return nil, err
	}
	return attr, nil
}

// Rename changes the name of an attribute owned by userID.
func (uc *AttributeUseCase) Rename(userID, id uint, name string) (*entities.Attribute, error) {
	attr, err := uc.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if attr.Name, err = validName(name); err != nil {
		return nil, err
	}
	if err := uc.Repo.Update(attr); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewValidationError("name", "You already have a "+uc.Kind().Name+" with this name.")
		}
		return nil, notFound(err)
	}
	return attr, nil
}

func (uc *AttributeUseCase) Delete(userID, id uint) error {
	attr, err := uc.Get(userID, id)
	if err != nil {
		return err
	}
	return notFound(uc.Repo.Delete(attr))
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", NewValidationError("name", "This field may not be blank.")
	case utf8.RuneCountInString(name) > maxTextLength:
		return "", NewValidationError("name", "Ensure this field has no more than 255 characters.")
	}
	return name, nil
}
