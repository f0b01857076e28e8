package api

import (
	"errors"
	"net/http"
	"strings"

	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/permissions"
	"reviewqr-backend/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

type AuthHandler struct {
	Sessions *session.Service
}

func NewAuthHandler(sessions *session.Service) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, user, err := h.Sessions.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       sess.Token,
		"expires_at":  sess.ExpiresAt,
		"role":        user.Role,
		"business_id": user.BusinessID,
		"email":       user.Email,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}
	if err := h.Sessions.Logout(sess.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	sess := CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":        sess.Role,
		"business_id": sess.BusinessID,
		"expires_at":  sess.ExpiresAt,
	})
}

// Nav returns the navigation sections the caller's role can see.
func (h *AuthHandler) Nav(c *gin.Context) {
	sess := CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}
	c.JSON(http.StatusOK, permissions.FilterNav(sess.Role))
}

// RequireSession resolves the bearer token to a server-side session and
// aborts with 401 otherwise.
func RequireSession(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" || token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		sess, err := sessions.Get(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequirePermission gates a route on the static role permission table.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}
		if !permissions.HasPermission(sess.Role, perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session set by RequireSession, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

// businessScopeOK reports whether the caller may touch businessID: platform
// roles may touch any tenant, client users only their own.
func businessScopeOK(c *gin.Context, businessID string) bool {
	sess := CurrentSession(c)
	if sess == nil {
		return false
	}
	switch sess.Role {
	case permissions.RoleSuperAdmin, permissions.RoleAdmin, permissions.RoleFSR:
		return true
	default:
		return sess.BusinessID == businessID
	}
}

func abortScope(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "Access denied for this business"})
}
