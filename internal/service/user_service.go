package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"comm-service/internal/audit"
	"comm-service/internal/model"
	"comm-service/pkg/jwtutil"
)

// ResetMailer delivers password-reset tokens out-of-band. A nil mailer
// disables delivery; the token is still returned to the caller.
type ResetMailer interface {
	SendPasswordReset(email, token string) error
}

// UserService owns registration, login, profile updates and the
// password-reset flow.
type UserService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	mailer   ResetMailer
	log      *zap.Logger
}

// NewUserService creates a UserService. mailer may be nil.
func NewUserService(db *gorm.DB, recorder *audit.Recorder, mailer ResetMailer, log *zap.Logger) *UserService {
	return &UserService{db: db, recorder: recorder, mailer: mailer, log: log}
}

// Registration carries the fields for a new account.
type Registration struct {
	FullName        string
	Username        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

// ProfileUpdate carries optional replacement profile fields. Nil means
// "leave unchanged".
type ProfileUpdate struct {
	FullName    *string
	PhoneNumber *string
	Email       *string
}

const resetTokenTTL = time.Hour

// Register creates a new user with a hashed password.
func (s *UserService) Register(req Registration) (*model.User, error) {
	if req.Password != req.ConfirmPassword {
		s.log.Warn("Registration failed, passwords do not match", zap.String("username", req.Username))
		return nil, fmt.Errorf("passwords do not match: %w", ErrValidation)
	}

	var count int64
	if err := s.db.Model(&model.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		s.log.Error("Failed to check existing users", zap.Error(err))
		return nil, err
	}
	if count > 0 {
		s.log.Warn("Registration failed, user already exists",
			zap.String("username", req.Username),
			zap.String("email", req.Email))
		return nil, fmt.Errorf("username or email already taken: %w", ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := model.User{
		FullName:    req.FullName,
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    string(hashed),
		IsActive:    true,
		IsLoggedIn:  false,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, user.ID, audit.ActionUserRegistration)
		return err
	})
	if err != nil {
		s.log.Error("Failed to register user", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	s.log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return &user, nil
}

// Login authenticates by username or email and issues a session token. The
// token is stored on the user row; the auth middleware only accepts tokens
// that still match it. Failed attempts are recorded and never touch the
// user's login state.
func (s *UserService) Login(identifier, password, clientIP string) (*model.User, string, error) {
	var user model.User
	err := s.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailedAttempt(identifier, clientIP)
			return nil, "", fmt.Errorf("user %q: %w", identifier, ErrUnauthorized)
		}
		s.log.Error("Failed to look up user", zap.String("identifier", identifier), zap.Error(err))
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Warn("Login failed, incorrect password", zap.String("identifier", identifier))
		s.recordFailedAttempt(identifier, clientIP)
		return nil, "", fmt.Errorf("password mismatch: %w", ErrUnauthorized)
	}

	token, err := jwtutil.GenerateToken(user.Username, user.ID)
	if err != nil {
		s.log.Error("Failed to generate token", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"current_token": token,
			"is_logged_in":  true,
			"last_login":    now,
		}).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, user.ID, audit.ActionUserLogin)
		return err
	})
	if err != nil {
		s.log.Error("Failed to complete login", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	user.CurrentToken = &token
	user.IsLoggedIn = true
	user.LastLogin = &now

	s.log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return &user, token, nil
}

// UpdateProfile applies the provided profile fields. A new email must not
// collide with a different user.
func (s *UserService) UpdateProfile(userID uint, req ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		s.log.Error("Failed to fetch user", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.FullName != nil {
		changes["full_name"] = *req.FullName
		user.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		changes["phone_number"] = *req.PhoneNumber
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		var count int64
		if err := s.db.Model(&model.User{}).
			Where("email = ? AND id <> ?", *req.Email, userID).
			Count(&count).Error; err != nil {
			s.log.Error("Failed to check email", zap.Error(err))
			return nil, err
		}
		if count > 0 {
			s.log.Warn("Email already in use", zap.String("email", *req.Email))
			return nil, fmt.Errorf("email %q already in use: %w", *req.Email, ErrConflict)
		}
		changes["email"] = *req.Email
		user.Email = *req.Email
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if err := tx.Model(&user).Updates(changes).Error; err != nil {
				return err
			}
		}
		_, err := s.recorder.Record(tx, user.ID, audit.ActionUserUpdated)
		return err
	})
	if err != nil {
		s.log.Error("Failed to update user", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.log.Info("User updated", zap.Uint("user_id", user.ID))
	return &user, nil
}

// RequestPasswordReset issues a fresh single-use reset token with a one-hour
// expiry. When a mailer is configured the token is also delivered out-of-band
// after the commit.
func (s *UserService) RequestPasswordReset(email string) (string, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user with email %q: %w", email, ErrNotFound)
		}
		s.log.Error("Failed to look up user", zap.String("email", email), zap.Error(err))
		return "", err
	}

	reset := model.PasswordReset{
		UserID:      user.ID,
		ResetToken:  uuid.NewString(),
		TokenExpiry: time.Now().UTC().Add(resetTokenTTL),
		Used:        false,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reset).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, user.ID, audit.ActionPasswordResetRequested)
		return err
	})
	if err != nil {
		s.log.Error("Failed to create password reset", zap.Uint("user_id", user.ID), zap.Error(err))
		return "", err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(user.Email, reset.ResetToken); err != nil {
			// Delivery is best-effort; the token is already committed.
			s.log.Error("Failed to deliver reset token", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}

	s.log.Info("Password reset token generated", zap.Uint("user_id", user.ID))
	return reset.ResetToken, nil
}

// CompletePasswordReset consumes a reset token and overwrites the user's
// password. A token can be consumed exactly once.
func (s *UserService) CompletePasswordReset(token, newPassword, confirmPassword string) error {
	var reset model.PasswordReset
	err := s.db.Where("reset_token = ?", token).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("Invalid password reset token")
			return fmt.Errorf("invalid or used token: %w", ErrValidation)
		}
		s.log.Error("Failed to look up reset token", zap.Error(err))
		return err
	}
	if reset.Used {
		s.log.Warn("Password reset token already used", zap.Uint("user_id", reset.UserID))
		return fmt.Errorf("invalid or used token: %w", ErrValidation)
	}
	if reset.TokenExpiry.Before(time.Now().UTC()) {
		s.log.Warn("Password reset token expired", zap.Uint("user_id", reset.UserID))
		return fmt.Errorf("reset token: %w", ErrExpired)
	}
	if newPassword != confirmPassword {
		s.log.Warn("Password reset failed, passwords do not match", zap.Uint("user_id", reset.UserID))
		return fmt.Errorf("passwords do not match: %w", ErrValidation)
	}

	var user model.User
	if err := s.db.First(&user, reset.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", reset.UserID, ErrNotFound)
		}
		s.log.Error("Failed to fetch user", zap.Uint("user_id", reset.UserID), zap.Error(err))
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&reset).Updates(map[string]interface{}{"used": true}).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Updates(map[string]interface{}{"password": string(hashed)}).Error; err != nil {
			return err
		}
		_, err := s.recorder.Record(tx, user.ID, audit.ActionPasswordResetCompleted)
		return err
	})
	if err != nil {
		s.log.Error("Failed to complete password reset", zap.Uint("user_id", user.ID), zap.Error(err))
		return err
	}

	s.log.Info("Password reset successful", zap.Uint("user_id", user.ID))
	return nil
}

func (s *UserService) recordFailedAttempt(identifier, clientIP string) {
	attempt := model.FailedLoginAttempt{
		Username:  identifier,
		IPAddress: clientIP,
		Timestamp: time.Now().UTC(),
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		s.log.Error("Failed to record failed login attempt",
			zap.String("identifier", identifier),
			zap.Error(err))
	}
}
