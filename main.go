package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"tableau/config"
	"tableau/handlers/web"
	"tableau/middleware"
	"tableau/remote"
	"tableau/storage"
	"tableau/store"
	"tableau/utils"
	"tableau/views"
)

func main() {
	utils.Log.Info("Initializing Tableau...")

	// Load configuration
	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		return
	}

	// Initialize i18n system
	if err := utils.InitI18n(); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
	}

	// Open local durable storage
	db, err := storage.InitDB(cfg.Storage.Folder)
	if err != nil {
		utils.Log.Error("Failed to open local storage: %v", err)
		return
	}
	defer db.Close()
	local := storage.NewLocal(storage.NewBoltKV(db), utils.Log)

	// Remote collection client
	client := remote.NewClient(cfg.Remote.BaseURL, time.Duration(cfg.Remote.TimeoutSeconds)*time.Second, utils.Log)

	// Canonical store and derived views
	st := store.New(store.Options{
		Remote: client,
		Local:  local,
		Hasher: utils.NewHasher(cfg.Auth.HashScheme),
		Log:    utils.Log,
	})
	engine := views.NewEngine(st, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			if appErr, ok := err.(*utils.AppError); ok {
				code = appErr.Code
				utils.Log.Error("Application error: %v", appErr)
			} else if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Add global middleware
	app.Use(recover.New())  // Recover from panics
	app.Use(logger.New())   // Request logging
	app.Use(compress.New()) // Response compression
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "no-referrer",
	}))
	app.Use(middleware.LocaleMiddleware(st.Settings.Language))
	app.Use(middleware.RateLimiter(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	// Initialize handlers
	authHandler := web.NewAuthHandler(st)
	requestsHandler := web.NewRequestsHandler(st)
	usersHandler := web.NewUsersHandler(st)
	dashboardHandler := web.NewDashboardHandler(engine)
	socialHandler := web.NewSocialHandler(st, engine)
	settingsHandler := web.NewSettingsHandler(st)
	eventsHandler := web.NewEventsHandler(st.Events)

	// Public routes; login gets its own tighter rate limit
	loginLimiter := middleware.RateLimiter(cfg.RateLimit.LoginRequests, time.Duration(cfg.RateLimit.LoginWindowSecs)*time.Second)
	app.Post("/api/auth/login", loginLimiter, authHandler.HandleLogin)
	app.Post("/api/auth/register", loginLimiter, authHandler.HandleRegister)
	app.Post("/api/auth/logout", authHandler.HandleLogout)
	app.Get("/api/auth/me", authHandler.HandleMe)

	app.Get("/api/posts", socialHandler.HandlePosts)
	app.Get("/api/posts/:id/comments", socialHandler.HandleComments)
	app.Get("/api/settings", settingsHandler.HandleGet)
	app.Put("/api/settings", settingsHandler.HandleUpdate)

	// Authenticated routes
	authed := app.Group("/api", middleware.RequireAuth(st.Auth))
	{
		authed.Put("/auth/profile", authHandler.HandleUpdateProfile)
		authed.Put("/auth/color", authHandler.HandleUpdateColor)

		authed.Get("/requests", requestsHandler.HandleList)
		authed.Post("/requests", requestsHandler.HandleCreate)
		authed.Delete("/requests/:id", requestsHandler.HandleCancel)
		authed.Put("/requests/:id/content", requestsHandler.HandleUpdateContent)

		authed.Post("/posts/:id/like", socialHandler.HandleToggleLike)
		authed.Post("/posts/:id/comments", socialHandler.HandleAddComment)
		authed.Delete("/comments/:commentId", socialHandler.HandleDeleteComment)
	}

	// Admin routes
	admin := app.Group("/api/admin", middleware.RequireAdmin(st.Auth))
	{
		admin.Get("/requests", requestsHandler.HandleListPage)
		admin.Put("/requests/:id/approve", requestsHandler.HandleApprove)
		admin.Put("/requests/:id/reject", requestsHandler.HandleReject)
		admin.Delete("/requests", requestsHandler.HandleClear)

		admin.Get("/users", usersHandler.HandleList)
		admin.Get("/users/page", usersHandler.HandleListPage)
		admin.Put("/users/:id", usersHandler.HandleUpdate)
		admin.Delete("/users/:id", usersHandler.HandleDelete)

		admin.Get("/dashboard", dashboardHandler.HandleStats)
		admin.Get("/dashboard/activity", dashboardHandler.HandleActivity)
		admin.Get("/dashboard/requests", dashboardHandler.HandleFilteredRequests)
		admin.Put("/dashboard/filters", dashboardHandler.HandleSetFilters)
	}

	// Event stream for open dashboard views
	app.Use("/ws/events", eventsHandler.Upgrade)
	app.Get("/ws/events", eventsHandler.HandleStream())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		localizer := c.Locals("localizer").(*i18n.Localizer)
		return c.Status(404).JSON(fiber.Map{
			"error": utils.T(localizer, "error_404"),
		})
	})

	// Start server
	utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}
