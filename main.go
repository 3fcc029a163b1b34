package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/filedrop/dataroom-backend/auth/middleware"
	"github.com/filedrop/dataroom-backend/initializers"
	"github.com/filedrop/dataroom-backend/routes"
)

const defaultPort = "8080"

func main() {
	initializers.ConnectToDatabase()
	initializers.InitStorage()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	})

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(
		middleware.RequestID(),
		middleware.RateLimitMiddleware(),
		sessions.Sessions("dataroom_session", store),
		middleware.AuthOptional(),
	)

	router.LoadHTMLGlob("templates/*")

	routes.RegisterAuthRoutes(router)
	routes.RegisterDataroomRoutes(router)

	log.Printf("dataroom listening on http://localhost:%s/", port)
	log.Fatal(router.Run(":" + port))
}
