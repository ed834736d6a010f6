package auth_controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/shared_models"
	"github.com/joy095/studio/models/user_models"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/validation"
)

type AuthController struct {
	DB *pgxpool.Pool
}

func NewAuthController(db *pgxpool.Pool) *AuthController {
	return &AuthController{DB: db}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const minPasswordLength = 8

// validateRegistration returns per-field messages for a sign-up form.
func validateRegistration(req RegisterRequest) map[string]string {
	details := validation.ValidateFields(map[string]string{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
	}, time.Now())
	if len(req.Password) < minPasswordLength {
		details["password"] = "Password must be at least 8 characters"
	}
	return details
}

func (ac *AuthController) issueToken(c *gin.Context, user *user_models.User, status int) {
	token, err := shared_models.GenerateAccessToken(user.ID, user.Role, user.TokenVersion, utils.GetJWTTTL())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to generate token for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, gin.H{
		"token":     token,
		"expiresIn": int(utils.GetJWTTTL().Seconds()),
		"user":      user,
	})
}

// Register creates a customer account and signs them in.
func (ac *AuthController) Register(c *gin.Context) {
	logger.InfoLogger.Info("Register controller called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if details := validateRegistration(req); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}

	user, err := user_models.CreateUser(c.Request.Context(), ac.DB,
		strings.TrimSpace(req.Name), req.Email, validation.FormatPhone(req.Phone), req.Password, shared_models.RoleUser)
	if err != nil {
		if errors.Is(err, user_models.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to register user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	logger.InfoLogger.Infof("User %s registered", user.ID)
	ac.issueToken(c, user, http.StatusCreated)
}

func (ac *AuthController) login(c *gin.Context, requireAdmin bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := user_models.Authenticate(c.Request.Context(), ac.DB, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user_models.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		logger.ErrorLogger.Errorf("Login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if requireAdmin && user.Role != shared_models.RoleAdmin {
		logger.WarnLogger.Warnf("Non-admin %s tried the admin login", user.ID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	ac.issueToken(c, user, http.StatusOK)
}

func (ac *AuthController) Login(c *gin.Context) {
	logger.InfoLogger.Info("Login controller called")
	ac.login(c, false)
}

func (ac *AuthController) AdminLogin(c *gin.Context) {
	logger.InfoLogger.Info("AdminLogin controller called")
	ac.login(c, true)
}

// Logout invalidates every token issued to the caller so far.
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := user_models.IncrementTokenVersion(c.Request.Context(), ac.DB, userID); err != nil {
		logger.ErrorLogger.Errorf("Failed to log out %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := user_models.GetUserByID(c.Request.Context(), ac.DB, userID)
	if err != nil {
		if errors.Is(err, user_models.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to load user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
