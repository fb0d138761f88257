package service

import (
	"errors"
	"time"

	dmn "github.com/charlie572/Blind-Maze-Game/domain"
	"github.com/charlie572/Blind-Maze-Game/service/i"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

var errInvalidCredentials = errors.New("invalid username or password")

// Auth registers users and signs them in with a JWT.
type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
}

// NewAuthService creates an Auth backed by the given repo and tokenizer.
func NewAuthService(userRepo i.UserRepo, tokenizer i.Tokenizer) (i.Authenticator, error) {
	return &Auth{
		userRepo:  userRepo,
		tokenizer: tokenizer,
	}, nil
}

// Register creates a new user from the username and password.
func (a *Auth) Register(username, password string) error {
	userConfig := dmn.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	}

	user, err := dmn.NewUser(userConfig)
	if err != nil {
		return err
	}

	return a.userRepo.Save(user)
}

// SignIn verifies the credentials and returns the user with a fresh token.
func (a *Auth) SignIn(username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(username)
	if err != nil {
		return nil, "", errInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return nil, "", errInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"userID":   user.ID,
		"username": user.Username,
	}, tokenLifetime)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
