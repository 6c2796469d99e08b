package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shopapi/internal/handlers"
	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
	"shopapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	appEnv := viper.GetString("APP_ENV")
	databaseURL := viper.GetString("DATABASE_URL")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Database ---
	db, err := openDatabase(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Checkout works without a broker; order events are simply skipped.
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer mqClient.Close()
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	if appEnv == "development" {
		seedCatalog(productRepo)
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, mqClient)

	// --- Handlers ---
	secureCookies := appEnv != "development"
	authHandler := handlers.NewAuthHandler(authService, secureCookies)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	// Resolve identity from the access token cookie on every request;
	// invalid tokens fall through as anonymous.
	app.Use(middleware.CurrentUser(authService))

	authHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app)
	cartHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start order event consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", appPort)

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

// openDatabase connects to Postgres when DATABASE_URL is set, otherwise
// to a local SQLite file for development. TranslateError turns driver
// duplicate-key failures into gorm.ErrDuplicatedKey, which the
// repositories rely on for race-safe cart creation.
func openDatabase(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if databaseURL != "" {
		return gorm.Open(postgres.Open(databaseURL), cfg)
	}
	return gorm.Open(sqlite.Open("shop.db"), cfg)
}

// seedCatalog populates an empty development database with a few
// categories and products so the catalog endpoints have data.
func seedCatalog(repo repositories.ProductRepository) {
	existing, err := repo.GetAll(repositories.ProductFilter{})
	if err != nil || len(existing) > 0 {
		return
	}

	electronics := models.Category{Name: "Electronics", Slug: "electronics", Description: "Computers and accessories"}
	books := models.Category{Name: "Books", Slug: "books", Description: "Printed books"}
	for _, category := range []*models.Category{&electronics, &books} {
		if err := repo.CreateCategory(category); err != nil {
			log.Printf("Error seeding category %s: %v", category.Name, err)
		}
	}

	products := []models.Product{
		{Name: "Laptop", Slug: "laptop", Description: "High performance laptop", Price: 1200.00, Stock: 10, IsActive: true, CategoryID: electronics.ID},
		{Name: "Mechanical Keyboard", Slug: "mechanical-keyboard", Description: "Mechanical keyboard", Price: 75.00, Stock: 25, IsActive: true, CategoryID: electronics.ID},
		{Name: "Wireless Mouse", Slug: "wireless-mouse", Description: "Ergonomic wireless mouse", Price: 25.00, Stock: 50, IsActive: true, CategoryID: electronics.ID},
		{Name: "Go Programming", Slug: "go-programming", Description: "A book about writing servers in Go", Price: 40.00, Stock: 15, IsActive: true, CategoryID: books.ID},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
