package user

import (
	"errors"
	"strings"

	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user_not_found")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrPasswordRequired   = errors.New("password_required")
	ErrSelfDelete         = errors.New("self_delete")
)

const DefaultPageSize = 20

var passwordCost = 14

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (u *UserService) Signup(req SignupRequest) (string, error) {
	if err := u.ensureAvailable(req.Username, req.Email, 0); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		return "", apperrors.NewAppError(500, "error hashing password", err)
	}
	newUser := &User{
		Username: req.Username,
		Email:    optionalEmail(req.Email),
		Password: string(hashed),
		Role:     RoleUser,
	}
	if err := u.repo.CreateUser(newUser); err != nil {
		return "", apperrors.NewAppError(500, "error creating user", err)
	}

	token, errJWT := GenerateJWT(newUser.ID, newUser.Role)
	if errJWT != nil {
		return "", apperrors.NewAppError(500, "error creating jwt token", errJWT)
	}
	return token, nil
}

func (u *UserService) Login(req LoginRequest) (string, error) {
	userRetrieved, err := u.repo.GetByUsername(req.Username)
	if err != nil {
		return "", apperrors.NewAppError(500, "error fetching user", err)
	}
	if userRetrieved == nil {
		return "", apperrors.NewAppError(401, "invalid credentials", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userRetrieved.Password), []byte(req.Password)); err != nil {
		return "", apperrors.NewAppError(401, "invalid credentials", ErrInvalidCredentials)
	}
	token, errJWT := GenerateJWT(userRetrieved.ID, userRetrieved.Role)
	if errJWT != nil {
		return "", apperrors.NewAppError(500, "error creating jwt token", errJWT)
	}
	return token, nil
}

func (u *UserService) GetUser(id uint) (*User, error) {
	found, err := u.repo.GetUser(id)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error fetching user", err)
	}
	if found == nil {
		return nil, apperrors.NewAppError(404, "user not found", ErrUserNotFound)
	}
	return found, nil
}

func (u *UserService) GetUserStats(userID uint) (*UserStatsResponse, error) {
	user, err := u.GetUser(userID)
	if err != nil {
		return nil, err
	}

	return &UserStatsResponse{
		Username:      user.Username,
		Experience:    user.Experience,
		TotalMatches:  user.TotalMatches,
		Wins:          user.Wins,
		Losses:        user.TotalMatches - user.Wins,
		CurrentStreak: user.CurrentStreak,
		WinRate:       WinRate(user.Wins, user.TotalMatches),
	}, nil
}

func (u *UserService) UpdateProfile(userID uint, req ProfileRequest) (*User, error) {
	user, err := u.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.Nickname = strings.TrimSpace(req.Nickname)
	user.Bio = strings.TrimSpace(req.Bio)
	if err := u.repo.UpdateUser(user); err != nil {
		return nil, apperrors.NewAppError(500, "error updating profile", err)
	}
	return user, nil
}

// Profiles resolves public player info for the given ids. Unknown ids are
// skipped.
func (u *UserService) Profiles(ids ...uint) (map[uint]Profile, error) {
	users, err := u.repo.GetUsers(ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error fetching users", err)
	}
	out := make(map[uint]Profile, len(users))
	for id, usr := range users {
		out[id] = usr.Profile()
	}
	return out, nil
}

func (u *UserService) ListUsers(page, size int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = DefaultPageSize
	}
	users, total, err := u.repo.ListUsers((page-1)*size, size)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error listing users", err)
	}
	lastPage := int((total + int64(size) - 1) / int64(size))
	if lastPage < 1 {
		lastPage = 1
	}
	return &UserPage{
		Users:       users,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     size,
		Total:       total,
	}, nil
}

func (u *UserService) CreateUser(req AdminUserRequest) (*User, error) {
	if req.Password == "" {
		return nil, apperrors.NewAppError(400, "password is required", ErrPasswordRequired)
	}
	if err := u.ensureAvailable(req.Username, req.Email, 0); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error hashing password", err)
	}
	created := &User{Password: string(hashed)}
	applyAdminFields(created, req)
	if err := u.repo.CreateUser(created); err != nil {
		return nil, apperrors.NewAppError(500, "error creating user", err)
	}
	return created, nil
}

func (u *UserService) UpdateUser(id uint, req AdminUserRequest) (*User, error) {
	existing, err := u.GetUser(id)
	if err != nil {
		return nil, err
	}
	if err := u.ensureAvailable(req.Username, req.Email, id); err != nil {
		return nil, err
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
		if err != nil {
			return nil, apperrors.NewAppError(500, "error hashing password", err)
		}
		existing.Password = string(hashed)
	}
	applyAdminFields(existing, req)
	if err := u.repo.UpdateUser(existing); err != nil {
		return nil, apperrors.NewAppError(500, "error updating user", err)
	}
	return existing, nil
}

func (u *UserService) DeleteUser(actorID, id uint) error {
	if actorID == id {
		return apperrors.NewAppError(400, "cannot delete your own account", ErrSelfDelete)
	}
	if _, err := u.GetUser(id); err != nil {
		return err
	}
	if err := u.repo.DeleteUser(id); err != nil {
		return apperrors.NewAppError(500, "error deleting user", err)
	}
	return nil
}

func (u *UserService) ensureAvailable(username, email string, exceptID uint) error {
	taken, err := u.repo.UsernameTaken(username, exceptID)
	if err != nil {
		return apperrors.NewAppError(500, "error checking username", err)
	}
	if taken {
		return apperrors.NewAppError(400, "user already exists", ErrUsernameTaken)
	}
	if email == "" {
		return nil
	}
	taken, err = u.repo.EmailTaken(email, exceptID)
	if err != nil {
		return apperrors.NewAppError(500, "error checking email", err)
	}
	if taken {
		return apperrors.NewAppError(400, "email already in use", ErrEmailTaken)
	}
	return nil
}

func applyAdminFields(target *User, req AdminUserRequest) {
	target.Username = req.Username
	target.Email = optionalEmail(req.Email)
	target.Role = req.Role
	target.Nickname = req.Nickname
	target.Bio = req.Bio
	if req.Experience != nil {
		target.Experience = *req.Experience
	}
	if req.TotalMatches != nil {
		target.TotalMatches = *req.TotalMatches
	}
	if req.Wins != nil {
		target.Wins = *req.Wins
	}
	if req.CurrentStreak != nil {
		target.CurrentStreak = *req.CurrentStreak
	}
}

func optionalEmail(email string) *string {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	return &email
}
