package service

import (
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid username or password")

type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
	tokenTTL  time.Duration
}

// NewAuth creates an Auth issuing tokens valid for tokenTTL, or a day when it is zero.
func NewAuth(userRepo i.UserRepo, tokenizer i.Tokenizer, tokenTTL time.Duration) *Auth {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &Auth{
		userRepo:  userRepo,
		tokenizer: tokenizer,
		tokenTTL:  tokenTTL,
	}
}

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

	if _, err := a.userRepo.ByUsername(username); err == nil {
		return dmn.ErrUsernameTaken
	} else if !errors.Is(err, dmn.ErrUserNotFound) {
		return err
	}

	return a.userRepo.Save(user)
}

func (a *Auth) SignIn(username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"userID":   user.ID.String(),
		"username": user.Username,
	}, a.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
