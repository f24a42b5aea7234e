package user

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	CreateUser(u *User) error
	GetUser(id uint) (*User, error)
	GetByUsername(username string) (*User, error)
	GetUsers(ids []uint) (map[uint]User, error)
	ListUsers(offset, limit int) ([]User, int64, error)
	UpdateUser(u *User) error
	DeleteUser(id uint) error
	UsernameTaken(username string, exceptID uint) (bool, error)
	EmailTaken(email string, exceptID uint) (bool, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(u *User) error {
	return r.db.Create(u).Error
}

// GetUser returns nil without an error when no row matches.
func (r *GormUserRepository) GetUser(id uint) (*User, error) {
	var u User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetByUsername(username string) (*User, error) {
	var u User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetUsers(ids []uint) (map[uint]User, error) {
	out := make(map[uint]User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *GormUserRepository) ListUsers(offset, limit int) ([]User, int64, error) {
	var total int64
	if err := r.db.Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []User
	err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *GormUserRepository) UpdateUser(u *User) error {
	return r.db.Save(u).Error
}

func (r *GormUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&User{}, id).Error
}

func (r *GormUserRepository) UsernameTaken(username string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.Model(&User{}).Where("username = ? AND id <> ?", username, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) EmailTaken(email string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.Model(&User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error
	return count > 0, err
}

// LockUser takes a row lock on the user inside tx. Engines use it to
// serialize "one open game per user" checks.
func LockUser(tx *gorm.DB, id uint) error {
	var u User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
