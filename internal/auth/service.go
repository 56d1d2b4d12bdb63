package auth

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database/records"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	// ErrCredentials covers both unknown email and wrong password, so a
	// caller cannot tell the two apart.
	ErrCredentials      = errors.New("could not validate credentials")
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("invalid email format")
	ErrPasswordRequired = errors.New("password is required")
)

// TokenPair is the response body of /login and /refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service handles registration, authentication, and token issuance.
type Service struct {
	db       *gorm.DB
	users    *records.Store[entities.User, *entities.User]
	profiles *records.Store[entities.UserProfile, *entities.UserProfile]
	issuer   *TokenIssuer
	config   config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, issuer *TokenIssuer, cfg config.Auth) *Service {
	return &Service{
		db:       db,
		users:    records.NewStore[entities.User](db),
		profiles: records.NewStore[entities.UserProfile](db),
		issuer:   issuer,
		config:   cfg,
	}
}

// Issuer returns the token issuer, for middleware wiring.
func (s *Service) Issuer() *TokenIssuer {
	return s.issuer
}

// Register creates a new user. The password is hashed exactly once, here.
func (s *Service) Register(email, password, fullName string) (*entities.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	// RFC 5321 length limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	var existing entities.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Email:    email,
		Password: passwordHash,
		FullName: fullName,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials against the active user with the given
// email. Unknown email and wrong password fail identically.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	var user entities.User
	err := s.db.
		Where("email = ? AND is_deleted = ? AND is_active = ?", email, false, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.Password); err != nil {
		return nil, ErrCredentials
	}
	return &user, nil
}

// Login authenticates and issues an access+refresh token pair. The access
// token embeds the user's display preferences; users without a profile get
// dark_mode=false and an empty preference map.
func (s *Service) Login(email, password string) (*TokenPair, error) {
	user, err := s.Authenticate(email, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	subject, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.users.Get(subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	return s.issuePair(user)
}

func (s *Service) issuePair(user *entities.User) (*TokenPair, error) {
	darkMode := false
	preferences := entities.JSONMap{}
	if profile, err := s.ProfileForUser(user.ID); err == nil {
		darkMode = profile.DarkMode
		if profile.Preferences != nil {
			preferences = profile.Preferences
		}
	}

	access, err := s.issuer.IssueAccess(user.ID, darkMode, preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.issuer.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ProfileForUser returns the active profile of a user, or records.ErrNotFound.
func (s *Service) ProfileForUser(userID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	err := s.db.
		Where("user_id = ? AND is_deleted = ? AND is_active = ?", userID, false, true).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, records.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *Service) ChangePassword(userID, oldPassword, newPassword string) (*entities.User, error) {
	user, err := s.users.Get(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if err := CheckPassword(oldPassword, user.Password); err != nil {
		return nil, err
	}
	if newPassword == "" {
		return nil, ErrPasswordRequired
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}
	user.Password = newHash
	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return user, nil
}
