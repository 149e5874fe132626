package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/createex/circle/internal/handlers"
	"github.com/createex/circle/internal/middleware"
	"github.com/createex/circle/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	circleH *handlers.CircleHandler,
	messengerH *handlers.MessengerHandler,
	todoH *handlers.TodoHandler,
	planH *handlers.PlanHandler,
	storyH *handlers.StoryHandler,
	itineraryH *handlers.ItineraryHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authH.Signup)
		authGroup.POST("/verify", authH.Verify)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", middleware.AuthMiddleware(jwtMgr, rdb), authH.Logout)
	}

	// API endpoints
	api := r.Group("/api", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		circle := api.Group("/circle")
		{
			circle.POST("", circleH.CreateCircle)
			circle.GET("/mine", circleH.GetMyCircles)
		}

		messenger := api.Group("/messenger")
		{
			messenger.POST("/send", messengerH.SendMessage)
			messenger.GET("/conversations", messengerH.GetConversations)
			messenger.GET("/:circleId", messengerH.GetMessages)
			messenger.POST("/:circleId/pin/:messageId", messengerH.PinMessage)
			messenger.GET("/:circleId/pinned", messengerH.GetPinnedMessages)
		}

		todos := api.Group("/todos")
		{
			todos.POST("", todoH.CreateTodo)
			todos.GET("/:circleId", todoH.GetTodos)
			todos.GET("/:circleId/:todoId", todoH.GetTodo)
			todos.GET("/:circleId/:todoId/bill", todoH.GetBill)
			todos.PATCH("/:circleId/:todoId/bill", todoH.UpdateBill)
		}

		plan := api.Group("/plan")
		{
			plan.POST("/:circleId", planH.CreatePlan)
			plan.GET("/:circleId", planH.GetPlans)
			plan.GET("/:circleId/event-types", planH.GetEventTypes)
			plan.POST("/:circleId/event-types", planH.CreateEventType)
		}

		story := api.Group("/story")
		{
			story.POST("/:circleId", storyH.CreateStory)
			story.GET("/:circleId", storyH.GetStories)
		}

		itinerary := api.Group("/itinerary")
		{
			itinerary.POST("", itineraryH.CreateItinerary)
			itinerary.GET("", itineraryH.GetItineraries)
		}
	}

	// WebSocket endpoint, token comes from the Authorization header or ?token=
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}
