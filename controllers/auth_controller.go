package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"automarket-backend/middleware"
	"automarket-backend/services"
	"automarket-backend/utils"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. The failure message never says which
// of username/password was wrong.
func (ctl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	admin, err := ctl.auth.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.WithError(err).Error("login failed")
		utils.JSONError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := middleware.SignIn(c, admin.Username); err != nil {
		log.WithError(err).Error("failed to persist session")
		utils.JSONError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"username": admin.Username})
}

// Logout handles POST /api/auth/logout.
func (ctl *AuthController) Logout(c *gin.Context) {
	if err := middleware.SignOut(c); err != nil {
		log.WithError(err).Error("failed to clear session")
		utils.JSONError(c, http.StatusInternalServerError, "Logout failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Session handles GET /api/auth/session so the admin UI can restore state.
func (ctl *AuthController) Session(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, middleware.CurrentSession(c))
}
