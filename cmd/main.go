package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/vuminh/examplatform/config"
	"github.com/vuminh/examplatform/database"
	_ "github.com/vuminh/examplatform/docs" // Swagger docs - auto-generated
	adminctrl "github.com/vuminh/examplatform/internal/controller/admin"
	userctrl "github.com/vuminh/examplatform/internal/controller/user"
	"github.com/vuminh/examplatform/internal/exam"
	"github.com/vuminh/examplatform/internal/logger"
	"github.com/vuminh/examplatform/internal/middleware"
	"github.com/vuminh/examplatform/internal/model"
	"github.com/vuminh/examplatform/internal/repository"
	"github.com/vuminh/examplatform/internal/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Exam Platform API
// @version 1.0
// @description Multiple-choice exam platform with randomized attempts, countdown, suspend/resume and result history.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			func() *exam.Engine { return exam.NewEngine(nil) },
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCategoryRepository,
			repository.NewQuestionRepository,
			repository.NewResultRepository,
			repository.NewSessionRepository,
		),

		// Services layer
		fx.Provide(
			service.NewAuthService,
			service.NewCategoryService,
			service.NewQuestionService,
			service.NewUserService,
			service.NewResultService,
			service.NewExamService,
		),

		// API controllers layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewCategoryController,
			userctrl.NewExamController,
			userctrl.NewResultController,
			adminctrl.NewAdminCategoryController,
			adminctrl.NewAdminQuestionController,
			adminctrl.NewAdminUserController,
			adminctrl.NewAdminDashboardController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Request logging through zerolog instead of gin's default writer.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	examService service.ExamService,
	authCtrl *userctrl.AuthController,
	categoryCtrl *userctrl.CategoryController,
	examCtrl *userctrl.ExamController,
	resultCtrl *userctrl.ResultController,
	adminCategoryCtrl *adminctrl.AdminCategoryController,
	adminQuestionCtrl *adminctrl.AdminQuestionController,
	adminUserCtrl *adminctrl.AdminUserController,
	adminDashboardCtrl *adminctrl.AdminDashboardController,
) {
	api := router.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/login", authCtrl.Login)

	// Authenticated user routes
	authed := api.Group("", middleware.RequireAuth(authService))
	{
		authed.GET("/categories", categoryCtrl.GetCategories)

		authed.POST("/exams", examCtrl.StartExam)
		authed.POST("/exams/resume", examCtrl.ResumeExam)
		authed.GET("/exams/:id", examCtrl.GetExamState)
		authed.POST("/exams/:id/answers", examCtrl.SelectChoice)
		authed.PUT("/exams/:id/position", examCtrl.Navigate)
		authed.POST("/exams/:id/submit", examCtrl.SubmitExam)
		authed.POST("/exams/:id/retake", examCtrl.RetakeExam)
		authed.POST("/exams/:id/suspend", examCtrl.SuspendExam)
		authed.GET("/exams/:id/result", examCtrl.GetExamResult)

		authed.GET("/results", resultCtrl.GetHistory)
		authed.GET("/results/:id", resultCtrl.GetResultDetail)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.RequireAuth(authService), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", adminDashboardCtrl.GetDashboard)

		admin.GET("/categories", adminCategoryCtrl.GetCategories)
		admin.POST("/categories", adminCategoryCtrl.CreateCategory)
		admin.PUT("/categories/:id", adminCategoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:id", adminCategoryCtrl.DeleteCategory)

		admin.GET("/questions", adminQuestionCtrl.GetQuestions)
		admin.POST("/questions", adminQuestionCtrl.CreateQuestion)
		admin.POST("/questions/import", adminQuestionCtrl.ImportQuestions)
		admin.PUT("/questions/:id", adminQuestionCtrl.UpdateQuestion)
		admin.DELETE("/questions/:id", adminQuestionCtrl.DeleteQuestion)

		admin.GET("/users", adminUserCtrl.GetUsers)
		admin.POST("/users", adminUserCtrl.CreateUser)
		admin.PUT("/users/:id", adminUserCtrl.UpdateUser)
		admin.DELETE("/users/:id", adminUserCtrl.DeleteUser)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam platform API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			// Suspend live attempts first so no countdown outlives
			// the process and no in-flight exam is lost.
			examService.Shutdown()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Question{},
		&model.ExamResult{},
		&model.SavedSession{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
