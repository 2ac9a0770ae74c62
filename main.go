package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kitab/internal/handlers"
	"kitab/internal/middleware"
	"kitab/internal/models"
	"kitab/internal/repositories"
	"kitab/internal/services"
	"kitab/pkg/cache"
	"kitab/pkg/imagestore"
	"kitab/pkg/mailer"
	"kitab/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SQLITE_PATH", "kitab.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "noreply@kitab.local")
	viper.SetDefault("ADMIN_EMAIL", "admin@kitab.local")
	viper.SetDefault("MAIL_WORKERS", 2)
	viper.SetDefault("STORAGE_DIR", "uploads")
	viper.SetDefault("STORAGE_BASE_URL", "/uploads")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_BUCKET", "")
	viper.SetDefault("S3_ACCESS_KEY", "")
	viper.SetDefault("S3_SECRET_KEY", "")
	viper.SetDefault("S3_USE_PATH_STYLE", true)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Author{}, &models.Publisher{},
		&models.Book{}, &models.Banner{}, &models.BookReview{},
		&models.User{}, &models.AnonymousUser{}, &models.Address{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{},
		&models.ContactMessage{}, &models.SiteSettings{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: Failed to initialize RabbitMQ client: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	// --- Mailer (optional) ---
	var mailPool *mailer.Pool
	if smtpHost := viper.GetString("SMTP_HOST"); smtpHost != "" {
		smtpMailer := mailer.NewSMTPMailer(mailer.Config{
			Host:     smtpHost,
			Port:     viper.GetString("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		})
		mailPool = mailer.NewPool(smtpMailer, viper.GetInt("MAIL_WORKERS"))
	}

	// --- Image storage ---
	var images imagestore.Store
	if bucket := viper.GetString("S3_BUCKET"); bucket != "" {
		s3Store, err := imagestore.NewS3Store(imagestore.S3Config{
			Endpoint:     viper.GetString("S3_ENDPOINT"),
			Region:       viper.GetString("S3_REGION"),
			Bucket:       bucket,
			AccessKey:    viper.GetString("S3_ACCESS_KEY"),
			SecretKey:    viper.GetString("S3_SECRET_KEY"),
			UsePathStyle: viper.GetBool("S3_USE_PATH_STYLE"),
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
		images = s3Store
	} else {
		images = imagestore.NewLocalStore(viper.GetString("STORAGE_DIR"), viper.GetString("STORAGE_BASE_URL"))
	}

	// --- Redis cache (optional) ---
	settingsCache := cache.New(viper.GetString("REDIS_ADDR"), 10*time.Minute)

	// --- Initialize Repositories ---
	bookRepo := repositories.NewGORMBookRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)
	settingsRepo := repositories.NewGORMSettingsRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	catalogService := services.NewCatalogService(bookRepo, images)
	reviewService := services.NewReviewService(reviewRepo, bookRepo, userRepo)
	cartService := services.NewCartService(cartRepo, bookRepo, userRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, mqClient, mailPool)
	contactService := services.NewContactService(contactRepo, userRepo, mailPool, viper.GetString("ADMIN_EMAIL"))
	settingsService := services.NewSettingsService(settingsRepo, settingsCache)

	// --- Initialize Handlers ---
	authRequired := middleware.AuthRequired(authService)
	bookHandler := handlers.NewBookHandler(catalogService, reviewService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService, authRequired)
	contactHandler := handlers.NewContactHandler(contactService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	// Resolve the caller on every route; anonymous requests pass through.
	apiV1.Use(middleware.AuthOptional(authService))

	bookHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)
	contactHandler.RegisterRoutes(apiV1)
	settingsHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event %s: %s", msg.Type, string(msg.Body))
				// Downstream processing (inventory sync, notifications) hooks
				// in here.
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase connects to Postgres when DATABASE_URL is set and falls back
// to a local SQLite file otherwise.
func openDatabase() (*gorm.DB, error) {
	if dsn := viper.GetString("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
}
