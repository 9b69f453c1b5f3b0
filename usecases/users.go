package usecases

import (
	"strings"

	"recipe-server/db"
	"recipe-server/entities"
	"recipe-server/repositories"
)

const (
	msgEmailRequired = "Users must have an email address."
	msgEmailTaken    = "user with this email already exists."
)

type UserUseCase struct {
	UserRepo  repositories.UserRepository
	TokenRepo repositories.TokenRepository
}

func NewUserUseCase(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository) *UserUseCase {
	return &UserUseCase{UserRepo: userRepo, TokenRepo: tokenRepo}
}

// NewUser holds the fields of an account to create.
type NewUser struct {
	Email       string
	Password    string
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// UserChanges lists the account fields to change; nil fields stay as they are.
type UserChanges struct {
	Email       *string
	Password    *string
	Name        *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// NormalizeEmail lowercases the domain part of an address and keeps the
// local part as written. Input without '@' is returned trimmed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// CreateUser creates an active regular account.
func (uc *UserUseCase) CreateUser(email, password, name string) (*entities.User, error) {
	return uc.CreateAccount(NewUser{Email: email, Password: password, Name: name})
}

// CreateSuperuser creates an active account with staff and superuser flags.
func (uc *UserUseCase) CreateSuperuser(email, password, name string) (*entities.User, error) {
	return uc.CreateAccount(NewUser{Email: email, Password: password, Name: name, IsStaff: true, IsSuperuser: true})
}

func (uc *UserUseCase) CreateAccount(in NewUser) (*entities.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, NewValidationError("email", msgEmailRequired)
	}

	user := &entities.User{
		Email:       email,
		Name:        in.Name,
		IsActive:    true,
		IsStaff:     in.IsStaff,
		IsSuperuser: in.IsSuperuser,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := uc.UserRepo.Create(user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}
	return user, nil
}

// IssueToken checks the credentials and returns the user's token, creating
// it on the first successful login.
func (uc *UserUseCase) IssueToken(email, password string) (*entities.Token, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := uc.UserRepo.GetByEmail(NormalizeEmail(email))
	if db.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return uc.TokenRepo.GetOrCreate(user.ID)
}

// Authenticate resolves a token key to its active user.
func (uc *UserUseCase) Authenticate(key string) (*entities.User, error) {
	token, err := uc.TokenRepo.GetByKey(key)
	if db.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !token.User.IsActive {
		return nil, ErrInvalidCredentials
	}
	return &token.User, nil
}

func (uc *UserUseCase) GetUser(id uint) (*entities.User, error) {
	user, err := uc.UserRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (uc *UserUseCase) GetAllUsers() ([]entities.User, error) {
	return uc.UserRepo.GetAll()
}

// UpdateUser applies changes to the account with the given id.
func (uc *UserUseCase) UpdateUser(id uint, changes UserChanges) (*entities.User, error) {
	user, err := uc.GetUser(id)
	if err != nil {
		return nil, err
	}

	if changes.Email != nil {
		email := NormalizeEmail(*changes.Email)
		if email == "" {
			return nil, NewValidationError("email", msgEmailRequired)
		}
		user.Email = email
	}
	if changes.Name != nil {
		user.Name = *changes.Name
	}
	if changes.Password != nil {
		if err := user.SetPassword(*changes.Password); err != nil {
			return nil, err
		}
	}
	if changes.IsActive != nil {
		user.IsActive = *changes.IsActive
	}
	if changes.IsStaff != nil {
		user.IsStaff = *changes.IsStaff
	}
	if changes.IsSuperuser != nil {
		user.IsSuperuser = *changes.IsSuperuser
	}

	if err := uc.UserRepo.Update(user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewValidationError("email", msgEmailTaken)
		}
		return nil, err
	}
	return user, nil
}
