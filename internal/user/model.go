package user

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email         *string   `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Password      string    `gorm:"not null" json:"-"`
	Role          string    `gorm:"size:16;not null;default:user" json:"role"`
	Nickname      string    `gorm:"size:255" json:"nickname,omitempty"`
	Bio           string    `gorm:"size:255" json:"bio,omitempty"`
	Experience    int       `gorm:"not null;default:0" json:"experience"`
	Wins          int       `gorm:"not null;default:0" json:"wins"`
	TotalMatches  int       `gorm:"not null;default:0" json:"total_matches"`
	CurrentStreak int       `gorm:"not null;default:0" json:"current_streak"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Profile is what other players get to see.
type Profile struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Nickname   string `json:"nickname,omitempty"`
	Experience int    `json:"experience"`
	Wins       int    `json:"wins"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Nickname:   u.Nickname,
		Experience: u.Experience,
		Wins:       u.Wins,
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileRequest struct {
	Nickname string `json:"nickname" validate:"max=255"`
	Bio      string `json:"bio" validate:"max=255"`
}

// AdminUserRequest creates or edits an account. Password is optional on
// update; nil stat fields are left untouched.
type AdminUserRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=255"`
	Email         string `json:"email" validate:"omitempty,email,max=255"`
	Password      string `json:"password" validate:"omitempty,min=8,max=100"`
	Role          string `json:"role" validate:"required,oneof=admin user"`
	Nickname      string `json:"nickname" validate:"max=255"`
	Bio           string `json:"bio" validate:"max=255"`
	Experience    *int   `json:"experience" validate:"omitempty,min=0"`
	TotalMatches  *int   `json:"total_matches" validate:"omitempty,min=0"`
	Wins          *int   `json:"wins" validate:"omitempty,min=0"`
	CurrentStreak *int   `json:"current_streak" validate:"omitempty,min=0"`
}

type UserStatsResponse struct {
	Username      string  `json:"username"`
	Experience    int     `json:"experience"`
	TotalMatches  int     `json:"totalMatches"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	CurrentStreak int     `json:"currentStreak"`
	WinRate       float64 `json:"winRate"`
}

type UserPage struct {
	Users       []User `json:"users"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Total       int64  `json:"total"`
}
