package user

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// mockGenerateJWT is a helper to override GenerateJWT in tests
var mockGenerateJWT func(id uint, role string) (string, error)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	orig := GenerateJWT
	GenerateJWT = func(id uint, role string) (string, error) {
		if mockGenerateJWT != nil {
			return mockGenerateJWT(id, role)
		}
		return orig(id, role)
	}
	code := m.Run()
	GenerateJWT = orig
	os.Exit(code)
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserService_Signup(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	mockRepo.On("UsernameTaken", "tester", uint(0)).Return(false, nil)
	mockRepo.On("EmailTaken", "t@example.com", uint(0)).Return(false, nil)
	mockRepo.On("CreateUser", mock.AnythingOfType("*user.User")).Run(func(args mock.Arguments) {
		u := args.Get(0).(*User)
		u.ID = 1
	}).Return(nil)
	mockGenerateJWT = func(id uint, role string) (string, error) {
		assert.Equal(t, uint(1), id)
		assert.Equal(t, RoleUser, role)
		return "token123", nil
	}

	token, err := service.Signup(SignupRequest{Username: "tester", Email: "t@example.com", Password: "password1"})
	assert.NoError(t, err)
	assert.Equal(t, "token123", token)

	created := mockRepo.Calls[2].Arguments.Get(0).(*User)
	assert.NotEqual(t, "password1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password1")))
	mockRepo.AssertExpectations(t)
}

func TestUserService_Signup_UsernameTaken(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("UsernameTaken", "taken", uint(0)).Return(true, nil)

	_, err := service.Signup(SignupRequest{Username: "taken", Password: "password1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 400, apperrors.Code(err))
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestUserService_Signup_Error(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("UsernameTaken", "err", uint(0)).Return(false, nil)
	mockRepo.On("CreateUser", mock.AnythingOfType("*user.User")).Return(errors.New("fail"))

	_, err := service.Signup(SignupRequest{Username: "err", Password: "password1"})
	assert.Error(t, err)
	assert.Equal(t, 500, apperrors.Code(err))
	mockRepo.AssertExpectations(t)
}

func TestUserService_Login(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	stored := &User{ID: 2, Username: "foo", Password: hash(t, "barbarbar"), Role: RoleAdmin}
	mockRepo.On("GetByUsername", "foo").Return(stored, nil)
	mockGenerateJWT = func(id uint, role string) (string, error) {
		assert.Equal(t, RoleAdmin, role)
		return "tok456", nil
	}

	token, err := service.Login(LoginRequest{Username: "foo", Password: "barbarbar"})
	assert.NoError(t, err)
	assert.Equal(t, "tok456", token)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	stored := &User{ID: 2, Username: "foo", Password: hash(t, "barbarbar")}
	mockRepo.On("GetByUsername", "foo").Return(stored, nil)
	mockRepo.On("GetByUsername", "ghost").Return(nil, nil)

	_, err := service.Login(LoginRequest{Username: "foo", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 401, apperrors.Code(err))

	_, err = service.Login(LoginRequest{Username: "ghost", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_GetUserStats(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	u := &User{ID: 3, Username: "alice", TotalMatches: 3, Wins: 2, Experience: 250, CurrentStreak: 2}
	mockRepo.On("GetUser", uint(3)).Return(u, nil)

	resp, err := service.GetUserStats(3)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, 3, resp.TotalMatches)
	assert.Equal(t, 2, resp.Wins)
	assert.Equal(t, 1, resp.Losses)
	assert.Equal(t, 2, resp.CurrentStreak)
	assert.Equal(t, 250, resp.Experience)
	assert.InDelta(t, 66.7, resp.WinRate, 0.01)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserStats_NoMatches(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("GetUser", uint(4)).Return(&User{ID: 4, Username: "new"}, nil)

	resp, err := service.GetUserStats(4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.WinRate)
}

func TestUserService_GetUserStats_NotFound(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("GetUser", uint(9)).Return(nil, nil)

	_, err := service.GetUserStats(9)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 404, apperrors.Code(err))
}

func TestUserService_UpdateProfile(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("GetUser", uint(5)).Return(&User{ID: 5, Username: "bob"}, nil)
	mockRepo.On("UpdateUser", mock.AnythingOfType("*user.User")).Return(nil)

	updated, err := service.UpdateProfile(5, ProfileRequest{Nickname: "  Bobby ", Bio: "gopher"})
	require.NoError(t, err)
	assert.Equal(t, "Bobby", updated.Nickname)
	assert.Equal(t, "gopher", updated.Bio)
	assert.Equal(t, "Bobby", updated.DisplayName())
	mockRepo.AssertExpectations(t)
}

func TestUserService_ListUsers(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("ListUsers", 20, 20).Return([]User{{ID: 21}}, int64(41), nil)

	page, err := service.ListUsers(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 20, page.PerPage)
	assert.Equal(t, int64(41), page.Total)
	assert.Len(t, page.Users, 1)
}

func TestUserService_CreateUser_RequiresPassword(t *testing.T) {
	service := NewUserService(&MockUserRepository{})

	_, err := service.CreateUser(AdminUserRequest{Username: "admin2", Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestUserService_UpdateUser_KeepsPasswordWhenEmpty(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	existing := &User{ID: 7, Username: "carol", Password: "hashed", Role: RoleUser}
	wins := 4
	mockRepo.On("GetUser", uint(7)).Return(existing, nil)
	mockRepo.On("UsernameTaken", "carol2", uint(7)).Return(false, nil)
	mockRepo.On("UpdateUser", existing).Return(nil)

	updated, err := service.UpdateUser(7, AdminUserRequest{Username: "carol2", Role: RoleAdmin, Wins: &wins})
	require.NoError(t, err)
	assert.Equal(t, "hashed", updated.Password)
	assert.Equal(t, "carol2", updated.Username)
	assert.Equal(t, RoleAdmin, updated.Role)
	assert.Equal(t, 4, updated.Wins)
	assert.Nil(t, updated.Email)
}

func TestUserService_DeleteUser_Self(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	err := service.DeleteUser(1, 1)
	assert.ErrorIs(t, err, ErrSelfDelete)
	assert.Equal(t, 400, apperrors.Code(err))
	mockRepo.AssertNotCalled(t, "DeleteUser", mock.Anything)
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("GetUser", uint(2)).Return(&User{ID: 2}, nil)
	mockRepo.On("DeleteUser", uint(2)).Return(nil)

	assert.NoError(t, service.DeleteUser(1, 2))
	mockRepo.AssertExpectations(t)
}

func TestJWT_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	mockGenerateJWT = nil

	token, err := GenerateJWT(42, RoleAdmin)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.Id)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
	_, err = ParseToken("")
	assert.Error(t, err)
}
