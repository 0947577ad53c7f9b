package validator

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Delete(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func validInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username:  "alice",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
	}
}

func TestValidateRegister_OK(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByUsername", mock.Anything, "alice").Return(nil, repo.ErrNotFound)

	v := NewAuthValidator(users)
	assert.NoError(t, v.ValidateRegister(context.Background(), validInput()))
}

func TestValidateRegister_Invalid(t *testing.T) {
	cases := map[string]func(*usecase.RegisterInput){
		"short password": func(in *usecase.RegisterInput) { in.Password = "short" },
		"bad username":   func(in *usecase.RegisterInput) { in.Username = "a b" },
		"no last name":   func(in *usecase.RegisterInput) { in.LastName = " " },
		"bad email":      func(in *usecase.RegisterInput) { in.Email = "nope" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			v := NewAuthValidator(new(UserRepoMock))
			assert.ErrorIs(t, v.ValidateRegister(context.Background(), in), usecase.ErrValidation)
		})
	}
}

func TestValidateRegister_Duplicate(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

	v := NewAuthValidator(users)
	assert.ErrorIs(t, v.ValidateRegister(context.Background(), validInput()), usecase.ErrConflict)
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthValidator(new(UserRepoMock))
	assert.NoError(t, v.ValidateLogin(context.Background(), "alice", "x"))
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "", "x"), usecase.ErrValidation)
}
