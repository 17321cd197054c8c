package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Misakaaaaaz/Parent-Portal/internal/account"
	"github.com/Misakaaaaaz/Parent-Portal/internal/auth"
	"github.com/Misakaaaaaz/Parent-Portal/internal/metrics"
)

// ListUsers returns every account; administrative/seed use only.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}
	if users == nil {
		users = []account.User{}
	}
	c.JSON(http.StatusOK, users)
}

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	LinkingCode string `json:"linkingCode" binding:"required"`
}

// RegisterUser creates a new parent account against a linking code.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := h.accounts.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.LinkingCode)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidLinkingCode):
			metrics.Registrations.WithLabelValues("invalid_code").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid linking code. Registration failed."})
		case errors.Is(err, account.ErrDuplicateEmail):
			metrics.Registrations.WithLabelValues("duplicate_email").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered."})
		default:
			metrics.Registrations.WithLabelValues("error").Inc()
			log.Printf("register failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	metrics.Registrations.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, resp)
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignIn verifies credentials and returns the full profile plus a token.
func (h *Handler) SignIn(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	profile, err := h.accounts.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			metrics.SigninAttempts.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		metrics.SigninAttempts.WithLabelValues("error").Inc()
		log.Printf("signin failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	metrics.SigninAttempts.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, profile)
}

// GetUser returns the stored account by id.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.accounts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User Not Found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial profile update for the signed-in user and
// returns the refreshed profile with a re-issued token.
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Token"})
		return
	}

	var upd account.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	profile, err := h.accounts.UpdateProfile(c.Request.Context(), claims.ID, upd)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("profile update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type changePasswordRequest struct {
	UserID      string `json:"userId" binding:"required"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword replaces the password after re-verifying the old one.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), req.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, account.ErrInvalidOldPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Old password is incorrect"})
			return
		}
		log.Printf("change password failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPassword overwrites the password for the given email. Ownership
// proof happens only through the notification email sent by the worker.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := h.accounts.ResetPassword(c.Request.Context(), req.Email, req.NewPassword)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found with this email."})
			return
		}
		log.Printf("reset password failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	metrics.PasswordResets.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully."})
}

// UserByLinkingCode returns the account carrying the code, children populated.
func (h *Handler) UserByLinkingCode(c *gin.Context) {
	profile, err := h.accounts.FindByLinkingCode(c.Request.Context(), c.Param("linkingCode"))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User Not Found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadAvatar stores a new avatar image in Cloudinary and saves its URL on
// the signed-in user's profile. Accepts multipart (field "file") or JSON
// with a base64 data URL.
func (h *Handler) UploadAvatar(c *gin.Context) {
	if h.cdn == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "image storage not configured"})
		return
	}
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Token"})
		return
	}

	var url string
	switch {
	case strings.Contains(c.ContentType(), "multipart/form-data"):
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "file field required"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "read file failed"})
			return
		}
		result, err := h.cdn.UploadBytes(data, header.Filename)
		if err != nil {
			log.Printf("avatar upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"message": "image upload failed"})
			return
		}
		url = result.SecureURL
	default:
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "provide {\"data\": \"<base64 data URL>\"}"})
			return
		}
		result, err := h.cdn.UploadBase64(body.Data)
		if err != nil {
			log.Printf("avatar upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"message": "image upload failed"})
			return
		}
		url = result.SecureURL
	}

	if _, err := h.accounts.UpdateProfile(c.Request.Context(), claims.ID, account.ProfileUpdate{Avatar: url}); err != nil {
		log.Printf("avatar save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
