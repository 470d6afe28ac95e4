package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func newUserInput(username string) CreateUserInput {
	return CreateUserInput{
		Username: username,
		Password: "supersecret",
		Name:     "Test " + username,
		Email:    username + "@example.com",
	}
}

func TestUserService_CreateUser(t *testing.T) {
	svc := NewUserService(repository.NewMemoryStore())

	user, err := svc.CreateUser(newUserInput("mike"))
	require.NoError(t, err)

	assert.EqualValues(t, 1, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
}

func TestUserService_CreateUserConflicts(t *testing.T) {
	svc := NewUserService(repository.NewMemoryStore())
	_, err := svc.CreateUser(newUserInput("mike"))
	require.NoError(t, err)

	_, err = svc.CreateUser(newUserInput("mike"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	other := newUserInput("other")
	other.Email = "mike@example.com"
	_, err = svc.CreateUser(other)
	assert.ErrorIs(t, err, ErrEmailTaken)

	short := newUserInput("shorty")
	short.Password = "abc"
	_, err = svc.CreateUser(short)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestUserService_UpdateUser(t *testing.T) {
	svc := NewUserService(repository.NewMemoryStore())
	mike, err := svc.CreateUser(newUserInput("mike"))
	require.NoError(t, err)
	jane, err := svc.CreateUser(newUserInput("jane"))
	require.NoError(t, err)

	name := "Mike W."
	role := models.RoleAgent
	updated, err := svc.UpdateUser(mike.ID, UpdateUserInput{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Mike W.", updated.Name)
	assert.Equal(t, models.RoleAgent, updated.Role)
	assert.Equal(t, mike.PasswordHash, updated.PasswordHash)

	taken := jane.Email
	_, err = svc.UpdateUser(mike.ID, UpdateUserInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateUser(99, UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteUser(t *testing.T) {
	svc := NewUserService(repository.NewMemoryStore())
	mike, err := svc.CreateUser(newUserInput("mike"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(mike.ID))
	assert.ErrorIs(t, svc.DeleteUser(mike.ID), ErrUserNotFound)

	next, err := svc.CreateUser(newUserInput("mike"))
	require.NoError(t, err)
	assert.Greater(t, next.ID, mike.ID)
}

func TestAuthService_Login(t *testing.T) {
	store := repository.NewMemoryStore()
	_, err := NewUserService(store).CreateUser(newUserInput("existing"))
	require.NoError(t, err)
	auth := NewAuthService(store)

	user, err := auth.Login(LoginInput{Username: "existing", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "existing", user.Username)

	_, err = auth.Login(LoginInput{Username: "existing", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(LoginInput{Username: "ghost", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.GetUser(42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCategoryService(t *testing.T) {
	svc := NewCategoryService(repository.NewMemoryStore())

	description := "Payment and subscription issues"
	billing, err := svc.CreateCategory("Billing", &description)
	require.NoError(t, err)

	_, err = svc.CreateCategory("Billing", nil)
	assert.ErrorIs(t, err, ErrCategoryNameTaken)

	name := "Payments"
	updated, err := svc.UpdateCategory(billing.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Payments", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, description, *updated.Description)

	require.NoError(t, svc.DeleteCategory(billing.ID))
	_, err = svc.GetCategory(billing.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
