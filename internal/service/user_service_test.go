package service_test

import (
	"context"
	"testing"

	"secure-file-exchange/config"
	"secure-file-exchange/internal/model"
	"secure-file-exchange/internal/security"
	srv "secure-file-exchange/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository
type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	args := m.Called(ctx, exec, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, exec sqlx.ExtContext, login string) (*model.User, error) {
	args := m.Called(ctx, exec, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, uuid, newPasswordHash string) error {
	args := m.Called(ctx, exec, uuid, newPasswordHash)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	args := m.Called(ctx, exec, uuid)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error) {
	args := m.Called(ctx, exec, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]*model.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) Exists(ctx context.Context, exec sqlx.ExtContext, uuid string) (bool, error) {
	args := m.Called(ctx, exec, uuid)
	return args.Bool(0), args.Error(1)
}

// MockJWTService
type MockJWTService struct{ mock.Mock }

func (m *MockJWTService) GenerateAccessRefreshTokens(userUUID string, role model.Role) (*model.TokensPair, *model.RefreshToken, error) {
	args := m.Called(userUUID, role)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.TokensPair), args.Get(1).(*model.RefreshToken), args.Error(2)
}

func (m *MockJWTService) ValidateJWT(tokenString string, secret []byte) (*security.Claims, error) {
	args := m.Called(tokenString, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Claims), args.Error(1)
}

// MockJWTRepository
type MockJWTRepository struct{ mock.Mock }

func (m *MockJWTRepository) FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockJWTRepository) MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockJWTRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newTestUserService() (*srv.UserService, *MockUserRepository, *MockJWTService, *MockJWTRepository) {
	userRepo := new(MockUserRepository)
	jwtService := new(MockJWTService)
	jwtRepo := new(MockJWTRepository)
	service := srv.NewUserService(userRepo, jwtService, jwtRepo, &config.AdminConfig{AdminToken: "admin-secret"})
	return service, userRepo, jwtService, jwtRepo
}

func dbCtx() context.Context {
	return context.WithValue(context.Background(), "db", &config.Database{})
}

func TestUserService_Register(t *testing.T) {
	validLogin := "operator01"
	validPassword := "Str0ng!pass"

	expectCreated := func(userRepo *MockUserRepository, jwtService *MockJWTService, jwtRepo *MockJWTRepository, role model.Role) {
		userRepo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
			Return(&model.User{UUID: "user-1", Login: validLogin, Role: role}, nil)
		jwtService.On("GenerateAccessRefreshTokens", "user-1", role).
			Return(&model.TokensPair{AccessToken: "access", RefreshToken: "refresh"}, &model.RefreshToken{UUID: "rt-1"}, nil)
		jwtRepo.On("SaveRefreshToken", mock.Anything, mock.Anything).Return(nil)
	}

	t.Run("client registers without admin token", func(t *testing.T) {
		service, userRepo, jwtService, jwtRepo := newTestUserService()
		expectCreated(userRepo, jwtService, jwtRepo, model.RoleClient)

		tokens, err := service.Register(dbCtx(), "", validLogin, validPassword, model.RoleClient, "10.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, "access", tokens.AccessToken)
		userRepo.AssertExpectations(t)
		jwtRepo.AssertExpectations(t)
	})

	t.Run("operation role requires admin token", func(t *testing.T) {
		service, userRepo, _, _ := newTestUserService()

		tokens, err := service.Register(dbCtx(), "wrong-token", validLogin, validPassword, model.RoleOperation, "10.0.0.1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "неверный токен администратора")
		assert.Nil(t, tokens)
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("operation role with admin token", func(t *testing.T) {
		service, userRepo, jwtService, jwtRepo := newTestUserService()
		expectCreated(userRepo, jwtService, jwtRepo, model.RoleOperation)

		tokens, err := service.Register(dbCtx(), "admin-secret", validLogin, validPassword, model.RoleOperation, "10.0.0.1")

		require.NoError(t, err)
		assert.NotNil(t, tokens)
	})

	t.Run("unknown role", func(t *testing.T) {
		service, _, _, _ := newTestUserService()

		tokens, err := service.Register(dbCtx(), "", validLogin, validPassword, model.Role("superuser"), "10.0.0.1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "неизвестная роль")
		assert.Nil(t, tokens)
	})

	t.Run("ip address saved with refresh token", func(t *testing.T) {
		service, userRepo, jwtService, jwtRepo := newTestUserService()

		userRepo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
			Return(&model.User{UUID: "user-1", Login: validLogin, Role: model.RoleClient}, nil)
		jwtService.On("GenerateAccessRefreshTokens", "user-1", model.RoleClient).
			Return(&model.TokensPair{AccessToken: "access"}, &model.RefreshToken{UUID: "rt-1"}, nil)
		jwtRepo.On("SaveRefreshToken", mock.Anything, mock.MatchedBy(func(token *model.RefreshToken) bool {
			return token.IpAddress == "192.168.0.7"
		})).Return(nil)

		_, err := service.Register(dbCtx(), "", validLogin, validPassword, model.RoleClient, "192.168.0.7")

		require.NoError(t, err)
		jwtRepo.AssertExpectations(t)
	})

	invalidInputs := []struct {
		name     string
		login    string
		password string
		wantErr  string
	}{
		{"short login", "usr1", validPassword, "не меньше 8 символов"},
		{"login with symbols", "user@name!", validPassword, "только латинские буквы и цифры"},
		{"short password", validLogin, "S1!a", "минимум 8 символов"},
		{"password without digit", validLogin, "Password!!", "хотя бы одну цифру"},
		{"password without special", validLogin, "Password11", "специальный символ"},
		{"password single case", validLogin, "password1!", "в разных регистрах"},
	}

	for _, tt := range invalidInputs {
		t.Run(tt.name, func(t *testing.T) {
			service, userRepo, _, _ := newTestUserService()

			tokens, err := service.Register(dbCtx(), "", tt.login, tt.password, model.RoleClient, "10.0.0.1")

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, tokens)
			userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	t.Run("owner reads own profile", func(t *testing.T) {
		service, userRepo, _, _ := newTestUserService()

		ctx := context.WithValue(dbCtx(), security.UserContextKey, &security.Claims{UserUUID: "user-1", Role: model.RoleClient})
		userRepo.On("FindByUUID", mock.Anything, mock.Anything, "user-1").
			Return(&model.User{UUID: "user-1", Login: "clientuser"}, nil)

		user, err := service.GetUser(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "clientuser", user.Login)
	})

	t.Run("foreign profile denied", func(t *testing.T) {
		service, userRepo, _, _ := newTestUserService()

		ctx := context.WithValue(dbCtx(), security.UserContextKey, &security.Claims{UserUUID: "user-1", Role: model.RoleClient})

		user, err := service.GetUser(ctx, "user-2")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "доступ запрещён")
		assert.Nil(t, user)
		userRepo.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin reads any profile", func(t *testing.T) {
		service, userRepo, _, _ := newTestUserService()

		ctx := context.WithValue(dbCtx(), security.UserContextKey, &security.Claims{UserUUID: "admin", IsAdmin: true})
		userRepo.On("FindByUUID", mock.Anything, mock.Anything, "user-2").
			Return(&model.User{UUID: "user-2"}, nil)

		user, err := service.GetUser(ctx, "user-2")

		require.NoError(t, err)
		assert.Equal(t, "user-2", user.UUID)
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	t.Run("weak new password rejected", func(t *testing.T) {
		service, userRepo, _, _ := newTestUserService()

		ctx := context.WithValue(dbCtx(), security.UserContextKey, &security.Claims{UserUUID: "user-1", Role: model.RoleClient})

		err := service.UpdatePassword(ctx, "user-1", "weakpass")

		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		service, userRepo, _, _ := newTestUserService()

		ctx := context.WithValue(dbCtx(), security.UserContextKey, &security.Claims{UserUUID: "user-1", Role: model.RoleClient})
		userRepo.On("UpdatePassword", mock.Anything, mock.Anything, "user-1", mock.Anything).Return(nil)

		err := service.UpdatePassword(ctx, "user-1", "N3w!passw0rd")

		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})
}
