package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// セッショントークン（cookie）の有効期限
const sessionTokenTTL = 8 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, username string, password string) error
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handlerがCookieに詰めるために必要な値
type LoginResult struct {
	User      UserDTO
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	customers repository.CustomerRepository
	sessions  repository.SessionStore
	validator AuthValidator
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	customers repository.CustomerRepository,
	sessions repository.SessionStore,
	validator AuthValidator,
	log zerolog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		customers: customers,
		sessions:  sessions,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}

// validatorのエラーを種類ごとにHTTPErrorへ
func fromValidator(err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, ErrConflict):
		return newError(ErrConflict, strings.TrimPrefix(msg, ErrConflict.Error()+": "))
	default:
		return newError(ErrValidation, strings.TrimPrefix(msg, ErrValidation.Error()+": "))
	}
}

// Register はアカウントと顧客レコードを作る。顧客のRowKeyはアカウントID。
// 顧客が作れなければアカウントも消す。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return UserDTO{}, fromValidator(err)
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(500, "internal error")
	}

	user := &model.User{
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return UserDTO{}, fromRepo(err, ErrNotFound)
	}

	customer := model.Customer{TableEntity: model.TableEntity{RowKey: strconv.FormatInt(user.ID, 10)}}
	applyCustomer(&customer, CustomerInput{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		City:        in.City,
	})
	if _, err := u.customers.Insert(ctx, customer); err != nil {
		if derr := u.users.Delete(ctx, user.ID); derr != nil {
			u.log.Error().Err(derr).Int64("user_id", user.ID).Msg("rollback of user after customer insert failure failed")
		}
		return UserDTO{}, fromRepo(err, ErrNotFound)
	}

	return toUserDTO(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if err := u.validator.ValidateLogin(ctx, in.Username, in.Password); err != nil {
		return LoginResult{}, fromValidator(err)
	}

	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return LoginResult{}, fromRepo(err, ErrNotFound)
	}
	if err != nil || user == nil {
		return LoginResult{}, newError(ErrUnauthorized, "invalid username or password")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginResult{}, newError(ErrUnauthorized, "invalid username or password")
	}

	token, exp, err := u.issueSessionToken(user, uuid.NewString())
	if err != nil {
		return LoginResult{}, NewHTTPError(500, "internal error")
	}
	return LoginResult{User: toUserDTO(user), Token: token, ExpiresAt: exp}, nil
}

// セッションの中身（カート）ごと捨てる
func (u *AuthUsecase) Logout(ctx context.Context, actor model.Identity) error {
	if actor.SessionID == "" {
		return nil
	}
	if err := u.sessions.Destroy(ctx, actor.SessionID); err != nil {
		u.log.Warn().Err(err).Int64("user_id", actor.UserID).Msg("session destroy failed")
	}
	return nil
}

func (u *AuthUsecase) Me(ctx context.Context, actor model.Identity) (UserDTO, error) {
	user, err := u.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserDTO{}, newError(ErrUnauthorized, "unauthorized")
		}
		return UserDTO{}, fromRepo(err, ErrNotFound)
	}
	return toUserDTO(user), nil
}

// EnsureAdmin は起動時に管理者アカウントを用意する。既にあれば何もしない。
func (u *AuthUsecase) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}

	existing, err := u.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		if existing.Role != model.RoleAdmin {
			return fmt.Errorf("bootstrap admin %q exists with role %s", username, existing.Role)
		}
		return nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = u.users.Create(ctx, &model.User{
		Username:     username,
		PasswordHash: string(pwHash),
		Role:         model.RoleAdmin,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil
	}
	return err
}

// jwt発行。subはアカウントID、sidはカートを持つセッションID。
func (u *AuthUsecase) issueSessionToken(user *model.User, sessionID string) (string, time.Time, error) {
	now := u.now()
	exp := now.Add(sessionTokenTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"name": user.Username,
		"role": string(user.Role),
		"sid":  sessionID,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
