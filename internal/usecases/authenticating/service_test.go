package authenticating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository/mocks"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{SecretKey: "segredo-de-teste"}
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.User{
		ID:           7,
		Name:         "Ana",
		Lastname:     "Souza",
		Email:        "ana@exemplo.com",
		PasswordHash: string(hash),
		Active:       true,
		RoleID:       1,
	}
}

func TestLoginUser_SucessoGeraTokenValido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := activeUser(t, "senha-correta")

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByEmail("ana@exemplo.com").Return(user, nil)

	service := NewService(userRepo, testConfig())

	// O e-mail é normalizado antes da consulta
	token, err := service.LoginUser("  Ana@Exemplo.com ", "senha-correta")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ana@exemplo.com", claims.UserEmail)
	assert.Equal(t, 1, claims.UserRoleID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestLoginUser_SenhaIncorreta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := activeUser(t, "senha-correta")

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByEmail("ana@exemplo.com").Return(user, nil)

	service := NewService(userRepo, testConfig())

	_, err := service.LoginUser("ana@exemplo.com", "senha-errada")
	require.Error(t, err)
	assert.True(t, IsCredentialsError(err))
}

func TestLoginUser_UsuarioDesativado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := activeUser(t, "senha-correta")
	user.Active = false

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByEmail("ana@exemplo.com").Return(user, nil)

	service := NewService(userRepo, testConfig())

	_, err := service.LoginUser("ana@exemplo.com", "senha-correta")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLoginUser_UsuarioNaoEncontrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByEmail("ninguem@exemplo.com").Return(nil, nil)

	service := NewService(userRepo, testConfig())

	_, err := service.LoginUser("ninguem@exemplo.com", "qualquer")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateToken_RejeitaTokenDeOutroSegredo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := activeUser(t, "senha-correta")

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByEmail("ana@exemplo.com").Return(user, nil)

	issuer := NewService(userRepo, &config.Config{SecretKey: "outro-segredo"})
	token, err := issuer.LoginUser("ana@exemplo.com", "senha-correta")
	require.NoError(t, err)

	verifier := NewService(mocks.NewMockUserRepository(ctrl), testConfig())
	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestUpdateUser_AtualizacaoParcial(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing := activeUser(t, "senha-correta")

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByID(7).Return(existing, nil)
	userRepo.EXPECT().UpdateUser(gomock.Any()).DoAndReturn(func(user *domain.User) error {
		assert.Equal(t, "Ana Paula", user.Name)
		assert.False(t, user.Active)
		// Campos ausentes na requisição não mudam
		assert.Equal(t, "ana@exemplo.com", user.Email)
		return nil
	})

	service := NewService(userRepo, testConfig())

	name := "Ana Paula"
	active := false
	err := service.UpdateUser(&domain.UpdateUserRequest{
		ID:     7,
		Name:   &name,
		Active: &active,
	})
	require.NoError(t, err)
}

func TestUpdateUser_UsuarioInexistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByID(99).Return(nil, nil)

	service := NewService(userRepo, testConfig())

	err := service.UpdateUser(&domain.UpdateUserRequest{ID: 99})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
