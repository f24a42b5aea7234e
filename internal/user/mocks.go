package user

import "github.com/stretchr/testify/mock"

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(u *User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(id uint) (*User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetUsers(ids []uint) (map[uint]User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(offset, limit int) ([]User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateUser(u *User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) UsernameTaken(username string, exceptID uint) (bool, error) {
	args := m.Called(username, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) EmailTaken(email string, exceptID uint) (bool, error) {
	args := m.Called(email, exceptID)
	return args.Bool(0), args.Error(1)
}
