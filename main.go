package main

import (
	"context"
	"log"
	"time"

	"exam-service/internal/config"
	"exam-service/internal/db"
	"exam-service/internal/event"
	"exam-service/internal/handlers"
	"exam-service/internal/middleware"
	"exam-service/internal/models"
	"exam-service/internal/repository"
	"exam-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.New()
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db.InitMongo(cfg.MongoURI, cfg.MongoDatabase)
	defer db.Disconnect()

	// RabbitMQ event publisher
	var publisher *event.Publisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.Database)
	examRepo := repository.NewExamRepository(db.Database)
	submissionRepo := repository.NewSubmissionRepository(db.Database)
	resultRepo := repository.NewResultRepository(db.Database)

	indexCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	if err := resultRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create result indexes: %v", err)
	}

	// Services
	jwtService := service.NewJWTService(cfg.JWTSecret, cfg.TokenExpiryHours)
	authService := service.NewAuthService(userRepo, jwtService, publisher)
	examService := service.NewExamService(examRepo, submissionRepo, resultRepo, publisher)
	attemptService := service.NewAttemptService(examRepo, submissionRepo, resultRepo, publisher)
	resultService := service.NewResultService(resultRepo, examRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	examHandler := handlers.NewExamHandler(examService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	resultHandler := handlers.NewResultHandler(resultService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FEAddress},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.Auth(jwtService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	userOnly := middleware.RequireRole(models.RoleUser)

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.UserSignup)
		auth.POST("/login", authHandler.UserLogin)
		auth.POST("/admin/signup", authHandler.AdminSignup)
		auth.POST("/admin/login", authHandler.AdminLogin)
		auth.GET("/logout", authHandler.Logout)
		auth.GET("/me", authRequired, authHandler.Me)
	}

	// Exam detail stays public; discovery is only gated at attempt start.
	r.GET("/api/exam/:id", examHandler.GetExam)

	exam := r.Group("/api/exam", authRequired)
	{
		exam.POST("/", adminOnly, examHandler.CreateExam)
		exam.GET("/", examHandler.ListExams)
		exam.PUT("/:id", adminOnly, examHandler.UpdateExam)
		exam.DELETE("/:id", adminOnly, examHandler.DeleteExam)
		exam.PUT("/:id/publish", adminOnly, examHandler.TogglePublish)

		exam.POST("/:id/start", userOnly, attemptHandler.StartExam)
		exam.POST("/submission/:submissionId", userOnly, attemptHandler.SubmitExam)

		exam.GET("/result/my-results", userOnly, resultHandler.MyResults)
		exam.GET("/result/:resultId", resultHandler.GetResult)
		exam.GET("/:id/results", adminOnly, resultHandler.ExamResults)
	}

	log.Printf("exam-service listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
