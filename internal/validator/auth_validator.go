package validator

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// 英数字と . _ - のみ、3〜50文字
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", usecase.ErrValidation, msg)
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	username := strings.TrimSpace(in.Username)

	// 必須チェック
	if username == "" || in.Password == "" {
		return invalid("username and password are required")
	}
	if !usernamePattern.MatchString(username) {
		return invalid("invalid username")
	}

	// パスワード最低文字数（8）
	if len(in.Password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	if len(in.Password) > 72 {
		return invalid("password too long")
	}

	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return invalid("first_name and last_name are required")
	}
	if e := strings.TrimSpace(in.Email); e != "" {
		if _, err := mail.ParseAddress(e); err != nil {
			return invalid("invalid email")
		}
	}

	// username重複チェック（DBが必要）
	u, err := v.users.FindByUsername(ctx, username)
	if err == nil && u != nil {
		return fmt.Errorf("%w: username already used", usecase.ErrConflict)
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return invalid("username and password are required")
	}
	return nil
}
