package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/repodeck/repodeck/internal/middleware"
	"github.com/repodeck/repodeck/internal/services"
	"github.com/repodeck/repodeck/pkg/logger"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	userService   *services.UserService
	githubService *services.GitHubService
	sessionSecret string
}

func NewAuthHandler(userService *services.UserService, githubService *services.GitHubService, sessionSecret string) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		githubService: githubService,
		sessionSecret: sessionSecret,
	}
}

// Login handles the login page
func (h *AuthHandler) Login(c *gin.Context) {
	session := middleware.GetSession(c)
	errorMsg := c.Query("error")

	data := gin.H{
		"Title": "Sign In",
		"User":  session,
		"Error": errorMsg,
	}

	c.HTML(http.StatusOK, "login", data)
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSession(c)
	c.Redirect(http.StatusFound, "/")
}

// GitHubLogin initiates the GitHub OAuth flow
func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	state := uuid.New().String()
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)

	authURL := h.githubService.GetAuthURL(state)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GitHubCallback handles the GitHub OAuth callback
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/login?error=no_code")
		return
	}

	expectedState, err := c.Cookie(stateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.Redirect(http.StatusFound, "/login?error=invalid_state")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	// Exchange code for token
	token, err := h.githubService.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		logger.WithError(err).Error("OAuth code exchange failed")
		c.Redirect(http.StatusFound, "/login?error=token_exchange_failed")
		return
	}

	// Get user info from GitHub
	githubUser, err := h.githubService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch GitHub user")
		c.Redirect(http.StatusFound, "/login?error=user_info_failed")
		return
	}

	var name *string
	if githubUser.Name != "" {
		name = &githubUser.Name
	}

	user, err := h.userService.FindOrCreateUser(
		strconv.FormatInt(githubUser.ID, 10),
		githubUser.Email,
		name,
	)
	if err != nil {
		logger.WithError(err).Error("Failed to find or create user")
		c.Redirect(http.StatusFound, "/login?error=user_creation_failed")
		return
	}

	session := &middleware.SessionData{
		UserID:      user.ID,
		Login:       githubUser.Login,
		Email:       user.Email,
		AccessToken: token.AccessToken,
	}
	if err := middleware.SetSession(c, h.sessionSecret, session); err != nil {
		logger.WithError(err).Error("Failed to create session")
		c.Redirect(http.StatusFound, "/login?error=session_creation_failed")
		return
	}

	logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"login":   githubUser.Login,
	}).Info("User signed in")

	c.Redirect(http.StatusFound, "/dashboard")
}
