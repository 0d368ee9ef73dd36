package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/handlers"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/middleware"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	AuthHandler       *handlers.AuthHandler
	EmployeeHandler   *handlers.EmployeeHandler
	TeamHandler       *handlers.TeamHandler
	JobRoleHandler    *handlers.JobRoleHandler
	SkillHandler      *handlers.SkillHandler
	AssessmentHandler *handlers.AssessmentHandler
	GapHandler        *handlers.GapHandler
	LearningHandler   *handlers.LearningPathHandler
	DashboardHandler  *handlers.DashboardHandler
	SystemEnumHandler *handlers.SystemEnumHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("skillmatrix-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	manager := cfg.AuthMiddleware.RequireRole(types.RoleManager, types.RoleTeamLead)
	admin := cfg.AuthMiddleware.RequireRole()

	// Auth
	protected.GET("/auth/me", cfg.AuthHandler.Me)
	protected.POST("/auth/change-password", cfg.AuthHandler.ChangePassword)

	// Employees
	protected.GET("/employees", cfg.EmployeeHandler.List)
	protected.GET("/employees/:id", cfg.EmployeeHandler.Get)
	protected.GET("/employees/:id/profile", cfg.EmployeeHandler.Profile)
	protected.PATCH("/employees/:id", manager, cfg.EmployeeHandler.Update)
	protected.DELETE("/employees/:id", admin, cfg.EmployeeHandler.Delete)
	protected.POST("/employees/:id/skills", cfg.EmployeeHandler.SelfAssess)
	protected.DELETE("/employees/:id/skills/:skillId", cfg.EmployeeHandler.RemoveSkill)
	protected.GET("/employees/:id/skills/history", cfg.EmployeeHandler.SkillHistory)
	protected.GET("/employees/:id/assessments", cfg.AssessmentHandler.ListByEmployee)
	protected.GET("/employees/:id/gaps", cfg.GapHandler.List)
	protected.GET("/employees/:id/gap-analysis", cfg.GapHandler.Analysis)
	protected.POST("/employees/:id/gap-analysis/recalculate", cfg.GapHandler.Recalculate)
	protected.GET("/employees/:id/learning-paths", cfg.LearningHandler.ListByEmployee)

	// Teams
	protected.GET("/teams", cfg.TeamHandler.List)
	protected.GET("/teams/dropdown", cfg.TeamHandler.Dropdown)
	protected.GET("/teams/:id", cfg.TeamHandler.Get)
	protected.GET("/teams/:id/members", cfg.TeamHandler.Members)
	protected.POST("/teams", admin, cfg.TeamHandler.Create)
	protected.PUT("/teams/:id", admin, cfg.TeamHandler.Update)
	protected.DELETE("/teams/:id", admin, cfg.TeamHandler.Delete)

	// Job roles and requirements
	protected.GET("/job-roles", cfg.JobRoleHandler.List)
	protected.GET("/job-roles/dropdown", cfg.JobRoleHandler.Dropdown)
	protected.GET("/job-roles/:id", cfg.JobRoleHandler.Get)
	protected.GET("/job-roles/:id/requirements", cfg.JobRoleHandler.Requirements)
	protected.POST("/job-roles", admin, cfg.JobRoleHandler.Create)
	protected.PUT("/job-roles/:id", admin, cfg.JobRoleHandler.Update)
	protected.DELETE("/job-roles/:id", admin, cfg.JobRoleHandler.Delete)
	protected.PUT("/job-roles/:id/requirements", admin, cfg.JobRoleHandler.SetRequirement)
	protected.DELETE("/job-roles/:id/requirements/:skillId", admin, cfg.JobRoleHandler.RemoveRequirement)

	// Skill taxonomy
	protected.GET("/skill-domains", cfg.SkillHandler.ListDomains)
	protected.POST("/skill-domains", admin, cfg.SkillHandler.CreateDomain)
	protected.PUT("/skill-domains/:id", admin, cfg.SkillHandler.UpdateDomain)
	protected.DELETE("/skill-domains/:id", admin, cfg.SkillHandler.DeleteDomain)
	protected.GET("/skill-subcategories", cfg.SkillHandler.ListSubcategories)
	protected.POST("/skill-subcategories", admin, cfg.SkillHandler.CreateSubcategory)
	protected.PUT("/skill-subcategories/:id", admin, cfg.SkillHandler.UpdateSubcategory)
	protected.DELETE("/skill-subcategories/:id", admin, cfg.SkillHandler.DeleteSubcategory)
	protected.GET("/skills", cfg.SkillHandler.List)
	protected.GET("/skills/dropdown", cfg.SkillHandler.Dropdown)
	protected.GET("/skills/:id", cfg.SkillHandler.Get)
	protected.GET("/skills/:id/levels", cfg.SkillHandler.LevelDefinitions)
	protected.POST("/skills", admin, cfg.SkillHandler.Create)
	protected.PUT("/skills/:id", admin, cfg.SkillHandler.Update)
	protected.DELETE("/skills/:id", admin, cfg.SkillHandler.Delete)
	protected.PUT("/skills/:id/levels", admin, cfg.SkillHandler.SaveLevelDefinition)

	// Assessments
	protected.GET("/test-templates", cfg.AssessmentHandler.ListTemplates)
	protected.GET("/test-templates/:id", cfg.AssessmentHandler.GetTemplate)
	protected.POST("/test-templates", manager, cfg.AssessmentHandler.CreateTemplate)
	protected.POST("/test-templates/generate", manager, cfg.AssessmentHandler.GenerateTemplate)
	protected.PUT("/test-templates/:id", manager, cfg.AssessmentHandler.UpdateTemplate)
	protected.DELETE("/test-templates/:id", manager, cfg.AssessmentHandler.DeleteTemplate)
	protected.POST("/assessments", cfg.AssessmentHandler.Start)
	protected.GET("/assessments/:id", cfg.AssessmentHandler.Get)
	protected.POST("/assessments/:id/submit", cfg.AssessmentHandler.Submit)
	protected.POST("/assessments/manager", manager, cfg.AssessmentHandler.RecordManagerAssessment)

	// Gap analysis
	protected.POST("/gap-analysis/recalculate-all", admin, cfg.GapHandler.BulkRecalculate)

	// Learning
	protected.POST("/gaps/:gapId/learning-paths", cfg.LearningHandler.GenerateForGap)
	protected.GET("/gaps/:gapId/recommendations", cfg.LearningHandler.Recommendations)
	protected.GET("/learning-paths/:id", cfg.LearningHandler.Get)
	protected.PATCH("/learning-paths/:id/status", cfg.LearningHandler.UpdateStatus)
	protected.PATCH("/learning-path-items/:itemId/status", cfg.LearningHandler.UpdateItemStatus)
	protected.DELETE("/learning-paths/:id", cfg.LearningHandler.Delete)
	protected.GET("/learning-resources", cfg.LearningHandler.ListResources)
	protected.GET("/learning-resources/:id", cfg.LearningHandler.GetResource)
	protected.POST("/learning-resources", manager, cfg.LearningHandler.CreateResource)
	protected.PUT("/learning-resources/:id", manager, cfg.LearningHandler.UpdateResource)
	protected.DELETE("/learning-resources/:id", manager, cfg.LearningHandler.DeleteResource)

	// Dashboards
	protected.GET("/dashboard/me", cfg.DashboardHandler.Personal)
	protected.GET("/dashboard/employees/:id", manager, cfg.DashboardHandler.Employee)
	protected.GET("/dashboard/teams/:id", manager, cfg.DashboardHandler.Team)
	protected.GET("/dashboard/organization", manager, cfg.DashboardHandler.Organization)

	// System enums
	protected.GET("/system-enums/types", cfg.SystemEnumHandler.Types)
	protected.GET("/system-enums/types/:type", cfg.SystemEnumHandler.ListByType)
	protected.POST("/system-enums", admin, cfg.SystemEnumHandler.Create)
	protected.PUT("/system-enums/:id", admin, cfg.SystemEnumHandler.Update)
	protected.DELETE("/system-enums/:id", admin, cfg.SystemEnumHandler.Delete)
	protected.GET("/proficiency-levels", cfg.SystemEnumHandler.ListProficiencyLevels)
	protected.PUT("/proficiency-levels", admin, cfg.SystemEnumHandler.SaveProficiencyLevel)

	return router
}
