package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/tanmaybh/CityMate/internal/cache"
	"github.com/tanmaybh/CityMate/internal/config"
	"github.com/tanmaybh/CityMate/internal/db"
	"github.com/tanmaybh/CityMate/internal/handlers"
	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/middleware"
	"github.com/tanmaybh/CityMate/internal/realtime"
	"github.com/tanmaybh/CityMate/internal/services"
	"github.com/tanmaybh/CityMate/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Println("WARNING: JWT_SECRET is not set, tokens are signed with the insecure development default")
	}

	database, err := db.Connect(context.Background(), cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatalf("index creation failed: %v", err)
	}
	log.Println("Connected to MongoDB")

	// Media storage is optional in development; avatar uploads return 503
	// without it.
	media, err := storage.NewMediaStore(cfg)
	if err != nil {
		log.Printf("MinIO unavailable, media uploads disabled: %v", err)
		media = nil
	}

	hub := realtime.NewHub()
	store := cache.NewStore(cfg.CacheSweepInterval)
	defer store.Stop()
	batcher := cache.NewBatcher(cfg.BatchWindow)

	authSvc := services.NewAuthService(database, cfg.JWTSecret, cfg.JWTExpiresIn, cfg.BcryptRounds)
	userSvc := services.NewUserService(database, media)
	budgetSvc := services.NewBudgetService(database, hub)
	checklistSvc := services.NewChecklistService(database, hub)
	forumSvc := services.NewForumService(database, hub)
	contentSvc := services.NewContentService(database, store, batcher)
	eventSvc := services.NewEventService(database, hub)
	chatSvc := services.NewChatService(database, hub)
	adminSvc := services.NewAdminService(database, hub)

	authHandler := handlers.NewAuthHandler(authSvc, userSvc)
	budgetHandler := handlers.NewBudgetHandler(budgetSvc)
	checklistHandler := handlers.NewChecklistHandler(checklistSvc)
	forumHandler := handlers.NewForumHandler(forumSvc)
	contentHandler := handlers.NewContentHandler(contentSvc)
	eventHandler := handlers.NewEventHandler(eventSvc)
	chatHandler := handlers.NewChatHandler(chatSvc)
	adminHandler := handlers.NewAdminHandler(adminSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins()}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	requireAuth := middleware.Auth(authSvc)

	api := app.Group("/api")

	// Users
	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)
	users.Get("/profile", requireAuth, authHandler.Profile)
	users.Put("/profile", requireAuth, authHandler.UpdateProfile)
	users.Post("/avatar", requireAuth, authHandler.UploadAvatar)

	// Budget
	budget := api.Group("/budget", requireAuth)
	budget.Get("/", budgetHandler.List)
	budget.Get("/summary", budgetHandler.Summary)
	budget.Post("/", budgetHandler.Create)
	budget.Put("/:id", budgetHandler.Update)
	budget.Delete("/:id", budgetHandler.Delete)

	// Checklist
	checklist := api.Group("/checklist", requireAuth)
	checklist.Get("/", checklistHandler.List)
	checklist.Put("/:itemKey", checklistHandler.SetCompleted)
	checklist.Patch("/:itemKey", checklistHandler.SetCompleted)

	// Forums: reads are public, writes need a user.
	forums := api.Group("/forums")
	forums.Get("/", forumHandler.List)
	forums.Post("/", requireAuth, forumHandler.Create)
	forums.Get("/threads/:threadId", forumHandler.ThreadPosts)
	forums.Post("/threads/:threadId/posts", requireAuth, forumHandler.CreatePost)
	forums.Delete("/threads/:threadId", requireAuth, forumHandler.DeleteThread)
	forums.Get("/:id", forumHandler.Detail)
	forums.Post("/:id/threads", requireAuth, forumHandler.CreateThread)

	// Content
	content := api.Group("/content")
	content.Get("/guides", contentHandler.Guides)
	content.Get("/guides/:slug", contentHandler.GuideBySlug)
	content.Get("/directory", contentHandler.Directory)

	// Events
	events := api.Group("/events")
	events.Get("/", eventHandler.List)
	events.Get("/:id", eventHandler.Get)
	events.Post("/:id/rsvp", requireAuth, eventHandler.ToggleRSVP)

	// Chat
	chat := api.Group("/chat", requireAuth)
	chat.Get("/rooms", chatHandler.Rooms)
	chat.Get("/:room/messages", chatHandler.Messages)
	chat.Post("/:room/messages", chatHandler.Send)
	chat.Post("/:room/read", chatHandler.MarkRead)

	// Admin
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:userid", adminHandler.GetUser)
	admin.Get("/stats", adminHandler.Stats)
	admin.Post("/guides", contentHandler.CreateGuide)
	admin.Put("/guides/:id", contentHandler.UpdateGuide)
	admin.Delete("/guides/:id", contentHandler.DeleteGuide)
	admin.Post("/directory", contentHandler.CreateDirectoryEntry)
	admin.Put("/directory/:id", contentHandler.UpdateDirectoryEntry)
	admin.Delete("/directory/:id", contentHandler.DeleteDirectoryEntry)
	admin.Post("/events", eventHandler.Create)
	admin.Put("/events/:id", eventHandler.Update)
	admin.Delete("/events/:id", eventHandler.Delete)
	admin.Delete("/forums/:id", forumHandler.DeleteForum)

	// Realtime
	verify := func(token string) (string, error) {
		userID, _, err := authSvc.ParseToken(token)
		return userID, err
	}
	app.Use("/ws", realtime.UpgradeGate)
	app.Get("/ws", realtime.Handler(hub, verify))

	log.Fatal(app.Listen(":" + cfg.Port))
}
