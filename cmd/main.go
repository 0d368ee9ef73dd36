package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/cache"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/db"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/handlers"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/middleware"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/observability"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/server"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "skillmatrix-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(ctx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	bulkWorkers := utils.GetEnvAsInt("GAP_BULK_WORKERS", 8, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Cache
	appCache, err := cache.New(log)
	if err != nil {
		log.Warn("Redis unavailable, dashboards will be computed per request", "error", err)
	}
	defer appCache.Close()

	// Repos
	log.Info("Setting up Repos from main...")
	employeeRepo := repos.NewEmployeeRepo(thePG, log)
	teamRepo := repos.NewTeamRepo(thePG, log)
	jobRoleRepo := repos.NewJobRoleRepo(thePG, log)
	skillRepo := repos.NewSkillRepo(thePG, log)
	empSkillRepo := repos.NewEmployeeSkillRepo(thePG, log)
	gapRepo := repos.NewSkillGapRepo(thePG, log)
	templateRepo := repos.NewTestTemplateRepo(thePG, log)
	assessRepo := repos.NewAssessmentRepo(thePG, log)
	resourceRepo := repos.NewLearningResourceRepo(thePG, log)
	pathRepo := repos.NewLearningPathRepo(thePG, log)
	enumRepo := repos.NewSystemEnumRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	advisor := services.NewAIAdvisorFromEnv(log)
	authService := services.NewAuthService(thePG, log, employeeRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	gapService := services.NewGapAnalysisService(thePG, log, employeeRepo, jobRoleRepo, empSkillRepo, gapRepo, advisor, bulkWorkers)
	employeeService := services.NewEmployeeService(thePG, log, employeeRepo, empSkillRepo, gapRepo, skillRepo, gapService)
	teamService := services.NewTeamService(thePG, log, teamRepo, employeeRepo)
	jobRoleService := services.NewJobRoleService(thePG, log, jobRoleRepo, skillRepo)
	skillService := services.NewSkillService(thePG, log, skillRepo)
	assessmentService := services.NewAssessmentService(thePG, log, templateRepo, assessRepo, empSkillRepo, skillRepo, advisor, gapService)
	pathService := services.NewLearningPathService(thePG, log, gapRepo, resourceRepo, pathRepo, advisor)
	resourceService := services.NewLearningResourceService(thePG, log, resourceRepo, skillRepo)
	dashboardService := services.NewDashboardService(thePG, log, appCache, employeeRepo, teamRepo, empSkillRepo, gapRepo, pathRepo, assessRepo, gapService)
	enumService := services.NewSystemEnumService(thePG, log, enumRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService, employeeService)
	employeeHandler := handlers.NewEmployeeHandler(log, employeeService)
	teamHandler := handlers.NewTeamHandler(log, teamService)
	jobRoleHandler := handlers.NewJobRoleHandler(log, jobRoleService)
	skillHandler := handlers.NewSkillHandler(log, skillService)
	assessmentHandler := handlers.NewAssessmentHandler(log, assessmentService)
	gapHandler := handlers.NewGapHandler(log, gapService)
	learningHandler := handlers.NewLearningPathHandler(log, pathService, resourceService)
	dashboardHandler := handlers.NewDashboardHandler(log, dashboardService)
	enumHandler := handlers.NewSystemEnumHandler(log, enumService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:    authMiddleware,
		AuthHandler:       authHandler,
		EmployeeHandler:   employeeHandler,
		TeamHandler:       teamHandler,
		JobRoleHandler:    jobRoleHandler,
		SkillHandler:      skillHandler,
		AssessmentHandler: assessmentHandler,
		GapHandler:        gapHandler,
		LearningHandler:   learningHandler,
		DashboardHandler:  dashboardHandler,
		SystemEnumHandler: enumHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
