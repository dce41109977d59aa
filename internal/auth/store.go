package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrUsernameTaken   = errors.New("username already exists")
)

// Store persists users and sessions.
type Store interface {
	FindUserByUsername(ctx context.Context, username string) (User, error)
	FindUserByID(ctx context.Context, userID string) (User, error)
	CreateUser(ctx context.Context, user User) error
	UpdatePassword(ctx context.Context, userID, hashed string) error

	// SaveSession replaces any existing session of the same user.
	SaveSession(ctx context.Context, s Session) error
	FindSession(ctx context.Context, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// GormStore is the Postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	return user, err
}

func (s *GormStore) FindUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	return user, err
}

func (s *GormStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.FindUserByUsername(ctx, user.Username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *GormStore) UpdatePassword(ctx context.Context, userID, hashed string) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).Update("hashed_password", hashed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *GormStore) SaveSession(ctx context.Context, sess Session) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_id", "expires_at"}),
	}).Create(&sess).Error
}

func (s *GormStore) FindSession(ctx context.Context, sessionID string) (Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).First(&sess, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrSessionNotFound
	}
	return sess, err
}

func (s *GormStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Delete(&Session{}, "session_id = ?", sessionID).Error
}
