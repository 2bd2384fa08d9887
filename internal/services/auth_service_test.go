package services

import (
	"testing"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthTestEnv(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db))
}

func TestRegister(t *testing.T) {
	svc := setupAuthTestEnv(t)

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Password: "supersecret",
		Org:      "Acme",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, models.RoleUser, user.Role)
	require.Equal(t, "Acme", user.Org)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
}

func TestRegisterValidation(t *testing.T) {
	svc := setupAuthTestEnv(t)

	_, err := svc.Register(RegisterInput{Username: "ab", Password: "supersecret", Org: "Acme"})
	require.ErrorIs(t, err, ErrUsernameLength)

	_, err = svc.Register(RegisterInput{Username: "alice", Password: "short", Org: "Acme"})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "  "})
	require.ErrorIs(t, err, ErrOrgRequired)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := setupAuthTestEnv(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "Acme"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "Globex"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	svc := setupAuthTestEnv(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "Acme"})
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Username: "alice", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Username: "nobody", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfilePassword(t *testing.T) {
	svc := setupAuthTestEnv(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "Acme"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile("alice", UpdateProfileInput{NewPassword: "evenmoresecret"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "evenmoresecret"})
	require.NoError(t, err)
	_, err = svc.Login(LoginInput{Username: "alice", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileRename(t *testing.T) {
	svc := setupAuthTestEnv(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "Acme"})
	require.NoError(t, err)

	user, err := svc.UpdateProfile("alice", UpdateProfileInput{NewUsername: "alice2"})
	require.NoError(t, err)
	require.Equal(t, "alice2", user.Username)
	require.Equal(t, "Acme", user.Org)

	_, err = svc.GetUser("alice")
	require.ErrorIs(t, err, ErrUserNotFound)

	// The old password survives the rename.
	_, err = svc.Login(LoginInput{Username: "alice2", Password: "supersecret"})
	require.NoError(t, err)
}

func TestUpdateProfileRenameCollision(t *testing.T) {
	svc := setupAuthTestEnv(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "Acme"})
	require.NoError(t, err)
	_, err = svc.Register(RegisterInput{Username: "bob", Password: "supersecret", Org: "Acme"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile("alice", UpdateProfileInput{NewUsername: "bob"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestDeleteAccount(t *testing.T) {
	svc := setupAuthTestEnv(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Password: "supersecret", Org: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount("alice"))
	require.ErrorIs(t, svc.DeleteAccount("alice"), ErrUserNotFound)
}
