package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type EmployeeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error)
	GetByID(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) (*types.Employee, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Employee, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, req paging.Request, teamID, jobRoleID *uuid.UUID) ([]*types.Employee, int64, error)
	ListByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Employee, error)
	ListByManager(ctx context.Context, tx *gorm.DB, managerID uuid.UUID) ([]*types.Employee, error)
	ListActiveWithRole(ctx context.Context, tx *gorm.DB) ([]*types.Employee, error)
	Update(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, deletedBy *uuid.UUID) error
	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
	CountActiveByTeam(ctx context.Context, tx *gorm.DB) ([]GroupCount, error)
	CountActiveByRole(ctx context.Context, tx *gorm.DB) ([]GroupCount, error)
}

// GroupCount is one bucket of a headcount rollup.
type GroupCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type employeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	repoLog := baseLog.With("repo", "EmployeeRepo")
	return &employeeRepo{db: db, log: repoLog}
}

func (er *employeeRepo) Create(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if err := transaction.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (er *employeeRepo) GetByID(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.Employee
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Team").
		Preload("JobRole").
		Where("id = ?", employeeID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *employeeRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.Employee
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("email = ?", email).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *employeeRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var count int64
	if err := notDeleted(transaction.WithContext(ctx).Model(&types.Employee{})).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var employeeSortable = map[string]string{
	"fullName":  "full_name",
	"email":     "email",
	"joinDate":  "join_date",
	"createdAt": "created_at",
}

func (er *employeeRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request, teamID, jobRoleID *uuid.UUID) ([]*types.Employee, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.Employee{})).
		Preload("Team").
		Preload("JobRole")
	if req.SearchTerm != "" {
		like := "%" + req.SearchTerm + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	if teamID != nil {
		q = q.Where("team_id = ?", *teamID)
	}
	if jobRoleID != nil {
		q = q.Where("job_role_id = ?", *jobRoleID)
	}
	if !req.IncludeInactive {
		q = q.Where("status = ?", types.EmploymentActive)
	}

	return pagedList[*types.Employee](q, req, orderClause(req, employeeSortable, "full_name"))
}

func (er *employeeRepo) ListByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Employee
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("JobRole").
		Where("team_id = ?", teamID).
		Order("full_name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *employeeRepo) ListByManager(ctx context.Context, tx *gorm.DB, managerID uuid.UUID) ([]*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Employee
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("JobRole").
		Where("manager_id = ?", managerID).
		Order("full_name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListActiveWithRole feeds bulk gap recalculation: only active employees with
// an assigned role have anything to compute.
func (er *employeeRepo) ListActiveWithRole(ctx context.Context, tx *gorm.DB) ([]*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Employee
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("status = ?", types.EmploymentActive).
		Where("job_role_id IS NOT NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *employeeRepo) Update(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if err := transaction.WithContext(ctx).Save(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (er *employeeRepo) SoftDelete(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var employee types.Employee
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", employeeID).
		First(&employee).Error; err != nil {
		return err
	}
	employee.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&employee).Error
}

func (er *employeeRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var count int64
	if err := notDeleted(transaction.WithContext(ctx).Model(&types.Employee{})).
		Where("status = ?", types.EmploymentActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByTeam buckets active headcount per team. Employees without a
// team land in the Unassigned bucket.
func (er *employeeRepo) CountActiveByTeam(ctx context.Context, tx *gorm.DB) ([]GroupCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var rows []GroupCount
	if err := transaction.WithContext(ctx).
		Model(&types.Employee{}).
		Select(`COALESCE(team.name, 'Unassigned') AS name, COUNT(*) AS count`).
		Joins(`LEFT JOIN team ON team.id = employee.team_id AND team.is_deleted = false`).
		Where("employee.is_deleted = ? AND employee.status = ?", false, types.EmploymentActive).
		Group("team.name").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *employeeRepo) CountActiveByRole(ctx context.Context, tx *gorm.DB) ([]GroupCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var rows []GroupCount
	if err := transaction.WithContext(ctx).
		Model(&types.Employee{}).
		Select(`COALESCE(job_role.name, 'Unassigned') AS name, COUNT(*) AS count`).
		Joins(`LEFT JOIN job_role ON job_role.id = employee.job_role_id AND job_role.is_deleted = false`).
		Where("employee.is_deleted = ? AND employee.status = ?", false, types.EmploymentActive).
		Group("job_role.name").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
