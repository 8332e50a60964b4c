package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/community-api/configs"
	"github.com/maheshrc27/community-api/internal/api/handlers"
	"github.com/maheshrc27/community-api/internal/api/middleware"
	job "github.com/maheshrc27/community-api/internal/jobs"
	"github.com/maheshrc27/community-api/internal/media"
	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/queue"
	"github.com/maheshrc27/community-api/internal/realtime"
	"github.com/maheshrc27/community-api/internal/repository"
	"github.com/maheshrc27/community-api/internal/service"
	"github.com/maheshrc27/community-api/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	r2Service, err := service.NewR2Service(*cfg)
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}

	extractor := media.NewExtractor(cfg.Media.DomainMarker, cfg.Media.PlaceholderHosts)
	urls := media.NewURLBuilder(cfg.Media.PublicURL)
	janitor := service.NewMediaJanitor(r2Service, extractor, cfg.Media.StorageTimeout)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	contentRepo := repository.NewContentRepository(db)

	hub := realtime.NewHub(socketAuthenticator(*cfg), cfg.FrontendURL, slog.Default())
	broker := realtime.NewBroker(rdb, hub, slog.Default())

	notificationService := service.NewNotificationService(notificationRepo, userRepo, broker)
	postService := service.NewPostService(postRepo, commentRepo, notificationService, janitor)
	authService := service.NewAuthService(*cfg, userRepo, queue.NewEmailQueue(client))
	userService := service.NewUserService(userRepo, janitor)
	mediaService := service.NewMediaService(r2Service, urls, cfg.Media.StorageTimeout)
	announcementService := service.NewAnnouncementService(announcementRepo, notificationService)
	usageCollector := service.NewUsageCollector(postRepo, userRepo, announcementRepo, contentRepo, extractor)
	cleanupService := service.NewMediaCleanupService(usageCollector, r2Service, cfg.MediaCleanup.BatchSize,
		cfg.MediaCleanup.BatchPause, cfg.Media.StorageTimeout)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var ferr *fiber.Error
			if errors.As(err, &ferr) {
				code = ferr.Code
			}
			slog.Error("unhandled error", "path", c.Path(), "error", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Put("/user/picture", user.UpdateProfilePicture)

	handlers.NewPostHandler(postService).Register(api)
	handlers.NewNotificationHandler(notificationService).Register(api)

	mediaHandler := handlers.NewMediaHandler(mediaService, cleanupService, client)
	api.Post("/media/upload", mediaHandler.UploadMedia)

	admin := api.Group("/admin", middleware.RequireModerator())
	admin.Get("/media/orphans", mediaHandler.OrphanStats)
	admin.Post("/media/cleanup", mediaHandler.RunCleanup)
	admin.Post("/announcements", handlers.NewAnnouncementHandler(announcementService).CreateAnnouncement)
	admin.Put("/users/:id/role", user.SetRole)

	// cron jobs
	cleanupJob := job.NewMediaCleanupJob(cleanupService, cfg.MediaCleanup.MinAge)

	c := cron.New()
	if err := c.AddFunc(cfg.MediaCleanup.Schedule, cleanupJob.CleanupMedia); err != nil {
		log.Fatalf("Invalid media cleanup schedule %q: %v", cfg.MediaCleanup.Schedule, err)
	}
	c.Start()

	// queue
	queueW := queue.NewQueue(cleanupService)
	worker := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	go func() {
		mux := asynq.NewServeMux()
		queueW.Register(mux)

		log.Println("Starting the Asynq server...")
		if err := worker.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	// realtime
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := broker.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("notification broker stopped", "error", err)
		}
	}()

	socketMux := http.NewServeMux()
	socketMux.Handle("/ws", hub)
	socketServer := &http.Server{Addr: cfg.SocketAddr, Handler: socketMux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := socketServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start socket server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s, sockets on %s", cfg.HTTPAddr, cfg.SocketAddr)

	gracefulShutdown(app, socketServer, worker, c, cancel, db)
}

// socketAuthenticator accepts the session cookie or a token query parameter,
// since browsers cannot set headers on websocket upgrades.
func socketAuthenticator(cfg config.Config) realtime.Authenticator {
	return func(r *http.Request) (models.Identity, error) {
		token := r.URL.Query().Get("token")
		if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
			token = cookie.Value
		}
		if token == "" {
			return models.Identity{}, errors.New("missing token")
		}
		return utils.IdentityFromToken(cfg.SecretKey, token)
	}
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, socketServer *http.Server, worker *asynq.Server, c *cron.Cron,
	cancel context.CancelFunc, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	c.Stop()
	cancel()

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}

	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := socketServer.Shutdown(ctx); err != nil {
		log.Printf("Failed to shut down socket server: %v", err)
	}

	worker.Shutdown()
	closeDB(db)
	log.Println("Server shutdown complete.")
}
