package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "skillmatrix", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: db, log: serviceLog}, nil
}

// Entities is the full migration set, ordered parents before children so the
// FK pass below always finds its referenced tables.
func Entities() []any {
	return []any{
		&types.SkillDomain{},
		&types.SkillSubcategory{},
		&types.Skill{},
		&types.SkillLevelDefinition{},
		&types.ProficiencyLevelDefinition{},
		&types.Team{},
		&types.JobRole{},
		&types.RoleSkillRequirement{},
		&types.Employee{},
		&types.EmployeeSkill{},
		&types.EmployeeSkillHistory{},
		&types.SkillGap{},
		&types.TestTemplate{},
		&types.Question{},
		&types.Assessment{},
		&types.AssessmentResponse{},
		&types.LearningResource{},
		&types.LearningResourceSkill{},
		&types.EmployeeLearningPath{},
		&types.LearningPathItem{},
		&types.LearningRecommendation{},
		&types.SystemEnumValue{},
	}
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(Entities()...); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name     string
		ddl      string
	}{
		{"fk_skill_subcategory_domain_id", `
			ALTER TABLE "skill_subcategory"
			ADD CONSTRAINT "fk_skill_subcategory_domain_id"
			FOREIGN KEY ("skill_domain_id")
			REFERENCES "skill_domain"("id")
			ON DELETE CASCADE`},
		{"fk_skill_subcategory_id", `
			ALTER TABLE "skill"
			ADD CONSTRAINT "fk_skill_subcategory_id"
			FOREIGN KEY ("subcategory_id")
			REFERENCES "skill_subcategory"("id")
			ON DELETE CASCADE`},
		{"fk_skill_level_definition_skill_id", `
			ALTER TABLE "skill_level_definition"
			ADD CONSTRAINT "fk_skill_level_definition_skill_id"
			FOREIGN KEY ("skill_id")
			REFERENCES "skill"("id")
			ON DELETE CASCADE`},
		{"fk_role_skill_requirement_role_id", `
			ALTER TABLE "role_skill_requirement"
			ADD CONSTRAINT "fk_role_skill_requirement_role_id"
			FOREIGN KEY ("job_role_id")
			REFERENCES "job_role"("id")
			ON DELETE CASCADE`},
		{"fk_role_skill_requirement_skill_id", `
			ALTER TABLE "role_skill_requirement"
			ADD CONSTRAINT "fk_role_skill_requirement_skill_id"
			FOREIGN KEY ("skill_id")
			REFERENCES "skill"("id")
			ON DELETE CASCADE`},
		{"fk_employee_team_id", `
			ALTER TABLE "employee"
			ADD CONSTRAINT "fk_employee_team_id"
			FOREIGN KEY ("team_id")
			REFERENCES "team"("id")
			ON DELETE SET NULL`},
		{"fk_employee_job_role_id", `
			ALTER TABLE "employee"
			ADD CONSTRAINT "fk_employee_job_role_id"
			FOREIGN KEY ("job_role_id")
			REFERENCES "job_role"("id")
			ON DELETE SET NULL`},
		{"fk_employee_skill_employee_id", `
			ALTER TABLE "employee_skill"
			ADD CONSTRAINT "fk_employee_skill_employee_id"
			FOREIGN KEY ("employee_id")
			REFERENCES "employee"("id")
			ON DELETE CASCADE`},
		{"fk_employee_skill_skill_id", `
			ALTER TABLE "employee_skill"
			ADD CONSTRAINT "fk_employee_skill_skill_id"
			FOREIGN KEY ("skill_id")
			REFERENCES "skill"("id")
			ON DELETE CASCADE`},
		{"fk_employee_skill_history_employee_id", `
			ALTER TABLE "employee_skill_history"
			ADD CONSTRAINT "fk_employee_skill_history_employee_id"
			FOREIGN KEY ("employee_id")
			REFERENCES "employee"("id")
			ON DELETE CASCADE`},
		{"fk_skill_gap_employee_id", `
			ALTER TABLE "skill_gap"
			ADD CONSTRAINT "fk_skill_gap_employee_id"
			FOREIGN KEY ("employee_id")
			REFERENCES "employee"("id")
			ON DELETE CASCADE`},
		{"fk_skill_gap_skill_id", `
			ALTER TABLE "skill_gap"
			ADD CONSTRAINT "fk_skill_gap_skill_id"
			FOREIGN KEY ("skill_id")
			REFERENCES "skill"("id")
			ON DELETE CASCADE`},
		{"fk_question_test_template_id", `
			ALTER TABLE "question"
			ADD CONSTRAINT "fk_question_test_template_id"
			FOREIGN KEY ("test_template_id")
			REFERENCES "test_template"("id")
			ON DELETE CASCADE`},
		{"fk_assessment_employee_id", `
			ALTER TABLE "assessment"
			ADD CONSTRAINT "fk_assessment_employee_id"
			FOREIGN KEY ("employee_id")
			REFERENCES "employee"("id")
			ON DELETE CASCADE`},
		{"fk_assessment_response_assessment_id", `
			ALTER TABLE "assessment_response"
			ADD CONSTRAINT "fk_assessment_response_assessment_id"
			FOREIGN KEY ("assessment_id")
			REFERENCES "assessment"("id")
			ON DELETE CASCADE`},
		{"fk_learning_resource_skill_resource_id", `
			ALTER TABLE "learning_resource_skill"
			ADD CONSTRAINT "fk_learning_resource_skill_resource_id"
			FOREIGN KEY ("learning_resource_id")
			REFERENCES "learning_resource"("id")
			ON DELETE CASCADE`},
		{"fk_employee_learning_path_employee_id", `
			ALTER TABLE "employee_learning_path"
			ADD CONSTRAINT "fk_employee_learning_path_employee_id"
			FOREIGN KEY ("employee_id")
			REFERENCES "employee"("id")
			ON DELETE CASCADE`},
		{"fk_learning_path_item_path_id", `
			ALTER TABLE "learning_path_item"
			ADD CONSTRAINT "fk_learning_path_item_path_id"
			FOREIGN KEY ("learning_path_id")
			REFERENCES "employee_learning_path"("id")
			ON DELETE CASCADE`},
		{"fk_learning_recommendation_gap_id", `
			ALTER TABLE "learning_recommendation"
			ADD CONSTRAINT "fk_learning_recommendation_gap_id"
			FOREIGN KEY ("skill_gap_id")
			REFERENCES "skill_gap"("id")
			ON DELETE CASCADE`},
	}
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
