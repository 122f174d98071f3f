package service

import (
	"context"
	"errors"

	"yatube/internal/auth"
	"yatube/internal/model"
	"yatube/pkg/logger"
)

type TokenIssuer interface {
	Generate(user model.User) (string, error)
}

type UserService struct {
	userStorage UserStorage
	tokens      TokenIssuer
}

func NewUserService(userStorage UserStorage, tokens TokenIssuer) *UserService {
	return &UserService{
		userStorage: userStorage,
		tokens:      tokens,
	}
}

func (s *UserService) Signup(ctx context.Context, req SignupRequest) (model.User, error) {
	if err := validateStruct(req); err != nil {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.userStorage.CreateUser(ctx, model.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return model.User{}, err
	}

	logger.FromContext(ctx).Info("user signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, username, password string) (model.User, string, error) {
	user, err := s.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, "", ErrInvalidCredentials
		}
		return model.User{}, "", err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return model.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return model.User{}, "", err
	}
	return user, token, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.userStorage.GetUserByUsername(ctx, username)
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	return s.userStorage.GetUserByID(ctx, userID)
}
