package auth

import (
	"context"
	"regexp"
	"unicode/utf8"
)

var usernameFormat = regexp.MustCompile("^[a-z0-9_]{3,20}$")

type Service struct {
	userRepo       UserRepo
	passwordHasher PasswordHasher
	tokenManager   TokenManager
}

func NewService(userRepo UserRepo, passwordHasher PasswordHasher, tokenManager TokenManager) *Service {
	return &Service{userRepo, passwordHasher, tokenManager}
}

func (as *Service) Signup(ctx context.Context, username, password string) (string, error) {
	if !usernameFormat.MatchString(username) {
		return "", ErrInvalidUsernameFormat
	}
	if utf8.RuneCountInString(password) < 8 {
		return "", ErrWeakPassword
	}
	if utf8.RuneCountInString(password) > 128 {
		return "", ErrPasswordTooLong
	}

	passwordHash, err := as.passwordHasher.Hash(password)
	if err != nil {
		return "", err
	}

	if _, err := as.userRepo.CreateUser(ctx, username, passwordHash); err != nil {
		return "", err
	}

	return as.tokenManager.Generate(username)
}

func (as *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	match, err := as.passwordHasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrIncorrectPassword
	}

	return as.tokenManager.Generate(user.Username)
}

// Refresh re-validates a session token and issues a replacement, so
// cookies roll forward without re-entering the password. Accounts that
// no longer exist stop refreshing here.
func (as *Service) Refresh(ctx context.Context, token string) (string, error) {
	username, err := as.tokenManager.Verify(token)
	if err != nil {
		return "", err
	}

	user, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	return as.tokenManager.Generate(user.Username)
}

// VerifyToken returns the username if the token is valid.
func (as *Service) VerifyToken(token string) (string, error) {
	return as.tokenManager.Verify(token)
}
