package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/filedrop/dataroom-backend/auth"
	"github.com/filedrop/dataroom-backend/auth/middleware"
	"github.com/filedrop/dataroom-backend/initializers"
	"github.com/filedrop/dataroom-backend/models"
)

// LoginPage renders the staff login form.
func LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"next": c.Query("next"),
	})
}

// Login authenticates a staff user against the identity table and
// establishes the browser session.
func Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	next := c.PostForm("next")
	if next == "" {
		next = "/"
	}

	var user models.User
	err := initializers.DB.First(&user, "email = ?", email).Error
	if err != nil || !user.CheckPassword(password) {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"next":  next,
			"error": "Invalid email or password.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID.String())
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout clears the session.
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}

// IssueAPIToken exchanges staff credentials for a bearer token, for
// clients that cannot hold a cookie session.
func IssueAPIToken(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var user models.User
	err := initializers.DB.First(&user, "email = ?", body.Email).Error
	if err != nil || !user.CheckPassword(body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.IssueToken(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}
