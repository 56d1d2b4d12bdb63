package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database/records"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// UsersController handles registration, login, and account operations.
type UsersController struct {
	authService *auth.Service
	users       *records.Store[entities.User, *entities.User]
	profiles    *records.Store[entities.UserProfile, *entities.UserProfile]
}

// NewUsersController creates a new UsersController.
func NewUsersController(authService *auth.Service, users *records.Store[entities.User, *entities.User], profiles *records.Store[entities.UserProfile, *entities.UserProfile]) *UsersController {
	return &UsersController{
		authService: authService,
		users:       users,
		profiles:    profiles,
	}
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login exchanges credentials for an access+refresh token pair. The
// username field carries the email, OAuth2 password-grant style. Accepts
// form or JSON bodies.
func (uc *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "validation_error", err.Error(), "body")
		return
	}

	pair, err := uc.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrCredentials) {
			respondUnauthorized(c, "Could not validate credentials")
			return
		}
		respondInternalError(c, err, "login")
		return
	}
	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new token pair.
func (uc *UsersController) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := uc.authService.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			respondBadRequest(c, "user.invalid_refresh_token", "Could not validate refresh token")
			return
		}
		respondInternalError(c, err, "refresh")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Me returns the caller's verified claim set.
func (uc *UsersController) Me(c *gin.Context) {
	claims := auth.CurrentClaims(c)
	if claims == nil {
		respondUnauthorized(c, "Could not validate credentials")
		return
	}
	c.JSON(http.StatusOK, claims)
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// Register creates a new user account.
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.authService.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondBadRequest(c, "user.already_exists", "User already exists", "email")
		case errors.Is(err, auth.ErrEmailInvalid), errors.Is(err, auth.ErrEmailRequired):
			respondBadRequest(c, "validation_error", err.Error(), "email")
		case errors.Is(err, auth.ErrPasswordRequired), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, "validation_error", err.Error(), "password")
		default:
			respondInternalError(c, err, "register")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser returns one active user when ?id is given, or all active users.
func (uc *UsersController) GetUser(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		user, err := uc.users.Get(id)
		if err != nil {
			if errors.Is(err, records.ErrNotFound) {
				respondNotFound(c, "User not found")
				return
			}
			respondInternalError(c, err, "get user")
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	users, err := uc.users.List()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

type passwordUpdateRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword updates the caller's password after verifying the old one.
func (uc *UsersController) ChangePassword(c *gin.Context) {
	var req passwordUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.authService.ChangePassword(auth.CurrentUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword), errors.Is(err, auth.ErrUserNotFound):
			respondUnauthorized(c, "Could not validate credentials")
		case errors.Is(err, auth.ErrPasswordRequired), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, "validation_error", err.Error(), "new_password")
		default:
			respondInternalError(c, err, "change password")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser soft-deletes the caller's own account. The row is retained.
func (uc *UsersController) DeleteUser(c *gin.Context) {
	user, err := uc.users.Get(auth.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			c.JSON(http.StatusOK, MessageResponse{Detail: "User not found"})
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}

	if err := uc.users.SoftDelete(user); err != nil {
		respondInternalError(c, err, "delete user")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Detail: "User deleted successfully"})
}

// GetProfile returns the caller's profile, creating nothing.
func (uc *UsersController) GetProfile(c *gin.Context) {
	profile, err := uc.authService.ProfileForUser(auth.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondNotFound(c, "Profile not found")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileUpdateRequest struct {
	DarkMode    bool             `json:"dark_mode"`
	Preferences entities.JSONMap `json:"preferences"`
}

// UpdateProfile upserts the caller's display preferences.
func (uc *UsersController) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := auth.CurrentUserID(c)
	profile, err := uc.authService.ProfileForUser(userID)
	if errors.Is(err, records.ErrNotFound) {
		profile = &entities.UserProfile{
			UserID:      userID,
			DarkMode:    req.DarkMode,
			Preferences: req.Preferences,
		}
		if err := uc.profiles.Create(profile); err != nil {
			respondInternalError(c, err, "create profile")
			return
		}
		c.JSON(http.StatusOK, profile)
		return
	}
	if err != nil {
		respondInternalError(c, err, "get profile")
		return
	}

	profile.DarkMode = req.DarkMode
	profile.Preferences = req.Preferences
	if err := uc.profiles.Update(profile); err != nil {
		respondInternalError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
