package main

import (
	"fmt"
	"log"
	"net/http"

	"transcendence/backend/internal/auth"
	"transcendence/backend/internal/config"
	"transcendence/backend/internal/database"
	"transcendence/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "transcendence/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Transcendence API
// @version         1.0
// @description     This is the API for the Transcendence game backend.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Landing stub, answers every verb
	router.Any("/", handler.Default)

	api := router.Group("/api")
	{
		// Core account and tournament endpoints. Registered for any verb:
		// the handlers answer 405 themselves so the error body stays JSON.
		api.Any("/users/add", handler.AddUser)
		api.Any("/users/delete", handler.DeleteUser)
		api.Any("/tournaments/add", handler.AddTournament)
		api.Any("/tournaments/delete", handler.DeleteTournament)

		v1 := api.Group("/v1")
		{
			v1.POST("/auth/login", handler.LoginUser)

			protected := v1.Group("")
			protected.Use(auth.AuthMiddleware())
			{
				protected.POST("/auth/logout", handler.LogoutUser)

				protected.GET("/users/me", handler.GetMe)

				protected.GET("/friends", handler.GetFriends)
				protected.POST("/friends/:id", handler.AddFriendHandler)
				protected.DELETE("/friends/:id", handler.RemoveFriendHandler)

				protected.POST("/matches", handler.CreateMatch)
				protected.GET("/matches", handler.GetMatches)
				protected.GET("/matches/:id", handler.GetMatchByID)

				protected.POST("/chats", handler.CreateChat)
				protected.GET("/chats", handler.GetChats)
				protected.DELETE("/chats/:id", handler.DeleteChat)
				protected.GET("/chats/:id/messages", handler.GetChatMessages)
				protected.POST("/chats/:id/messages", handler.SendMessage)
				protected.GET("/chats/:id/events", handler.ChatEvents)
			}
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddress)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddress))
}
