package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/elearn-api/internal/config"
	"github.com/yourusername/elearn-api/internal/handler"
	"github.com/yourusername/elearn-api/internal/middleware"
	pgRepo "github.com/yourusername/elearn-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/elearn-api/internal/repository/redis"
	"github.com/yourusername/elearn-api/internal/service"
	"github.com/yourusername/elearn-api/internal/service/attemptengine"
	"github.com/yourusername/elearn-api/pkg/auth"
	"github.com/yourusername/elearn-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	unitRepo := pgRepo.NewUnitRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)
	inviteRepo := pgRepo.NewInviteRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем отправку писем
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		emailService = &service.NoopEmailService{}
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, inviteRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(unitRepo, categoryRepo, questionRepo)
	questionService := service.NewQuestionService(questionRepo, categoryRepo)
	inviteService := service.NewInviteService(inviteRepo, userRepo, emailService, cfg.Server.BaseURL)

	engineConfig := attemptengine.DefaultConfig()
	engineConfig.AttemptTTL = time.Duration(cfg.Quiz.AttemptTTLMinutes) * time.Minute
	selector := attemptengine.NewSelector(unitRepo, categoryRepo, questionRepo)
	attemptService := service.NewAttemptService(attemptRepo, questionRepo, cacheRepo, selector, engineConfig)

	// Инициализируем обработчики
	leaderboardTTL := time.Duration(cfg.Quiz.LeaderboardCacheTTLSec) * time.Second
	authHandler := handler.NewAuthHandler(authService, userService, inviteService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	questionHandler := handler.NewQuestionHandler(questionService)
	attemptHandler := handler.NewAttemptHandler(attemptService, leaderboardTTL)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()
	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам
		// Если используете load balancer, замените nil на []string{"IP_БАЛАНСИРОВЩИКА"}
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			strictLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strictLimit, authHandler.Register)
			authGroup.POST("/login", strictLimit, authHandler.Login)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/me", authHandler.Me)
				authedAuth.POST("/change-password", authHandler.ChangePassword)
			}
		}

		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", attemptHandler.GetLeaderboard)

		// Каталог разделов и категорий
		units := api.Group("/units")
		units.Use(authMiddleware.RequireAuth())
		{
			units.GET("", catalogHandler.ListUnits)

			unitWithID := units.Group("/:unit_id")
			unitWithID.Use(middleware.ExtractUintParam("unit_id", "unitID"))
			{
				unitWithID.GET("/categories", catalogHandler.ListCategories)
			}
		}

		// Попытки
		attempts := api.Group("/attempts")
		attempts.Use(authMiddleware.RequireAuth())
		{
			attempts.POST("", rateLimiter.Limit(middleware.AttemptRateLimitConfig()), attemptHandler.StartAttempt)
			attempts.GET("", attemptHandler.ListAttempts)
			attempts.POST("/:attempt_id/answers", attemptHandler.Answer)
			attempts.GET("/:attempt_id/result", attemptHandler.GetResult)
		}

		// Административные маршруты
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.POST("/invites", authHandler.CreateInvite)

			admin.POST("/units", catalogHandler.CreateUnit)
			adminUnit := admin.Group("/units/:unit_id")
			adminUnit.Use(middleware.ExtractUintParam("unit_id", "unitID"))
			{
				adminUnit.PUT("", catalogHandler.UpdateUnit)
				adminUnit.DELETE("", catalogHandler.DeleteUnit)
				adminUnit.POST("/categories", catalogHandler.CreateCategory)
			}

			adminCategory := admin.Group("/categories/:category_id")
			adminCategory.Use(middleware.ExtractUintParam("category_id", "categoryID"))
			{
				adminCategory.PUT("", catalogHandler.UpdateCategory)
				adminCategory.DELETE("", catalogHandler.DeleteCategory)
				adminCategory.GET("/questions", questionHandler.ListQuestions)
				adminCategory.POST("/questions", questionHandler.CreateQuestion)
				adminCategory.POST("/questions/import", questionHandler.ImportQuestions)
			}

			adminQuestion := admin.Group("/questions/:question_id")
			adminQuestion.Use(middleware.ExtractUintParam("question_id", "questionID"))
			{
				adminQuestion.GET("", questionHandler.GetQuestion)
				adminQuestion.PUT("", questionHandler.UpdateQuestion)
				adminQuestion.DELETE("", questionHandler.DeleteQuestion)
			}

			admin.GET("/attempts/:attempt_id/export", attemptHandler.ExportAttemptResult)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнала остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
