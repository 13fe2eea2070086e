package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fitness-tracker-system/handlers"
	"fitness-tracker-system/models"
	"fitness-tracker-system/services"
	"fitness-tracker-system/utils"
	"fitness-tracker-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB, imports are JSON
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, X-User-ID, X-Requested-With, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition, X-Unlocked-Achievements",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store services.RemoteStore
	var rdb *redis.Client

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("⚠️  DATABASE_URL not set, running in local-only mode (data is lost on restart)")
		store = services.NewMemoryStore()
	} else {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatal("failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&models.UserRecord{}); err != nil {
			log.Fatal("failed to migrate database:", err)
		}

		if addr := os.Getenv("REDIS_ADDR"); addr != "" {
			rdb = redis.NewClient(&redis.Options{
				Addr:     addr,
				Password: os.Getenv("REDIS_PASSWORD"),
			})
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Printf("⚠️  Redis unreachable (%v), change notifications disabled", err)
				rdb = nil
			}
		} else {
			log.Println("⚠️  REDIS_ADDR not set, change notifications disabled")
		}

		store = services.NewGormStore(ctx, db, rdb)
	}

	sync := services.NewSynchronizer(store)
	if err := sync.Load(ctx); err != nil {
		log.Fatal("failed to load user store:", err)
	}

	sse := services.NewSSENotifier()
	sessionService := services.NewSessionService(sync, sse)
	scoreboardService := services.NewScoreboardService(sync, rdb, sse)
	adminService := services.NewUserAdminService(sync)
	exportService := services.NewExportService(sync)

	listener := workers.NewStoreListener(store, sync)
	listener.Start(ctx)

	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 not configured (%v), daily backups disabled", err)
	} else {
		sched := services.StartBackupScheduler(exportService)
		defer func() { _ = sched.Shutdown() }()
		log.Println("✅ Daily backup scheduler running")
	}

	handlers.SetupSessionRoutes(app, sessionService)
	handlers.SetupUserRoutes(app, scoreboardService, sse)
	handlers.SetupAdminRoutes(app, adminService)
	handlers.SetupDataRoutes(app, exportService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Store listener running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
