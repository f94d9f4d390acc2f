package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists  = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"size:150;unique;not null"`
	Email    string `gorm:"size:254"`
	Password string `gorm:"not null"`
	IsStaff  bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AfterCreate gives every new user its profile, in the insert's transaction.
func (u *User) AfterCreate(tx *gorm.DB) error {
	return tx.Create(&Profile{UserID: u.ID}).Error
}

// AfterUpdate re-saves the user's profile, creating it for rows that predate
// the hook.
func (u *User) AfterUpdate(tx *gorm.DB) error {
	var profile Profile
	err := tx.Where("user_id = ?", u.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&Profile{UserID: u.ID}).Error
	}
	if err != nil {
		return err
	}

	return tx.Save(&profile).Error
}

type Profile struct {
	ID      uint   `gorm:"primaryKey"`
	UserID  uint   `gorm:"uniqueIndex;not null"`
	User    *User  `gorm:"constraint:OnDelete:CASCADE"`
	FIO     string `gorm:"size:255"`
	Age     *int
	Photo   string
	Married bool `gorm:"not null;default:false"`
	License bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := conn(ctx, d.db).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUsernameExists
		}

		return User{}, result.Error
	}

	return user, nil
}

// isUniqueViolation reports whether err is PostgreSQL rejecting a duplicate
// key.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	result := conn(ctx, d.db).Model(&user).Select("Email", "Password", "IsStaff").Updates(&user)
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := conn(ctx, d.db).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User

	result := conn(ctx, d.db).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindProfileByUserID(ctx context.Context, userID uint) (Profile, error) {
	var profile Profile

	result := conn(ctx, d.db).Preload("User").First(&profile, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Profile{}, ErrProfileNotFound
		}

		return Profile{}, result.Error
	}

	return profile, nil
}

func (d *UserDAO) UpdateProfile(ctx context.Context, profile Profile) (Profile, error) {
	result := conn(ctx, d.db).Model(&profile).
		Select("FIO", "Age", "Photo", "Married", "License").
		Updates(&profile)
	if result.Error != nil {
		return Profile{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Profile{}, ErrProfileNotFound
	}

	return profile, nil
}

func (d *UserDAO) ListProfiles(ctx context.Context, search string, married, license *bool, offset, limit int) ([]Profile, int64, error) {
	q := conn(ctx, d.db).Model(&Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id")
	if search != "" {
		pattern := containsPattern(search)
		q = q.Where("(users.username ILIKE ? OR profiles.fio ILIKE ?)", pattern, pattern)
	}
	if married != nil {
		q = q.Where("profiles.married = ?", *married)
	}
	if license != nil {
		q = q.Where("profiles.license = ?", *license)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []Profile
	err := q.Preload("User").Order("profiles.id").Offset(offset).Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}
