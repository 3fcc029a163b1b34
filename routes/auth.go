package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/filedrop/dataroom-backend/handlers"
)

func RegisterAuthRoutes(r *gin.Engine) {
	r.GET("/login", handlers.LoginPage)
	r.POST("/login", handlers.Login)
	r.POST("/logout", handlers.Logout)
	r.POST("/api/token", handlers.IssueAPIToken)
}
