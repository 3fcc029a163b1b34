package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filedrop/dataroom-backend/auth"
	"github.com/filedrop/dataroom-backend/initializers"
	"github.com/filedrop/dataroom-backend/models"
)

// CurrentUserKey is the gin context key holding the resolved principal.
const CurrentUserKey = "currentUser"

// SessionUserKey is the session key holding the logged-in user id.
const SessionUserKey = "userID"

// AuthOptional resolves the acting principal from the browser session
// or a Bearer token and continues either way. Invalid credentials are
// ignored, the request just stays unauthenticated.
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := sessionUserID(c); ok {
			attachUser(c, id)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if sub, err := auth.ValidateToken(parts[1]); err == nil {
				if id, err := uuid.Parse(sub); err == nil {
					attachUser(c, id)
				}
			}
		}

		c.Next()
	}
}

// StaffRequired admits only authenticated staff users. Missing
// authentication redirects to the login page; an authenticated
// non-staff principal gets a 403. These are distinct outcomes.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !user.IsStaff {
			c.String(http.StatusForbidden, "Unauthorized: Staff access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the resolved principal, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	session := sessions.Default(c)
	raw, ok := session.Get(SessionUserKey).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func attachUser(c *gin.Context, id uuid.UUID) {
	var user models.User
	if err := initializers.DB.First(&user, "id = ?", id).Error; err != nil {
		return
	}
	c.Set(CurrentUserKey, &user)
}
