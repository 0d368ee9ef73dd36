package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/requestdata"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type fakeAuthEmployeeRepo struct {
	*fakeEmployeeRepo
	byEmail map[string]*types.Employee
}

func newFakeAuthEmployeeRepo() *fakeAuthEmployeeRepo {
	return &fakeAuthEmployeeRepo{
		fakeEmployeeRepo: &fakeEmployeeRepo{employees: map[uuid.UUID]*types.Employee{}},
		byEmail:          map[string]*types.Employee{},
	}
}

func (f *fakeAuthEmployeeRepo) Create(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	if _, exists := f.byEmail[employee.Email]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	f.employees[employee.ID] = employee
	f.byEmail[employee.Email] = employee
	return employee, nil
}

func (f *fakeAuthEmployeeRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Employee, error) {
	employee, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return employee, nil
}

func (f *fakeAuthEmployeeRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeAuthEmployeeRepo) Update(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	f.employees[employee.ID] = employee
	f.byEmail[employee.Email] = employee
	return employee, nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeAuthEmployeeRepo) {
	t.Helper()
	repo := newFakeAuthEmployeeRepo()
	svc := NewAuthService(mustTestDB(t), mustTestLogger(t), repo, "test-secret", time.Hour, 24*time.Hour)
	return svc, repo
}

func registerEmployee(t *testing.T, svc AuthService, email string) *types.Employee {
	t.Helper()
	employee, err := svc.Register(context.Background(), &types.Employee{
		Email:    email,
		FullName: "Alex Nguyen",
	}, "correct-horse-battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return employee
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	employee := registerEmployee(t, svc, "Alex@Example.COM")

	if employee.Email != "alex@example.com" {
		t.Fatalf("email should normalize: got %q", employee.Email)
	}
	if employee.PasswordHash == "correct-horse-battery" {
		t.Fatalf("password must be stored hashed")
	}
	if employee.SystemRole != types.RoleEmployee {
		t.Fatalf("default role: want=%v got=%v", types.RoleEmployee, employee.SystemRole)
	}

	pair, loggedIn, err := svc.Login(ctx, "alex@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != employee.ID {
		t.Fatalf("login identity mismatch")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("login should issue both tokens")
	}

	if _, _, err := svc.Login(ctx, "alex@example.com", "wrong"); err == nil {
		t.Fatalf("wrong password should fail")
	}

	authedCtx, err := svc.ContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("ContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.EmployeeID != employee.ID {
		t.Fatalf("request data should carry the caller identity")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &types.Employee{Email: "not-an-email", FullName: "A"}, "longenough"); err == nil {
		t.Fatalf("invalid email should be rejected")
	}
	if _, err := svc.Register(ctx, &types.Employee{Email: "a@b.com", FullName: "A"}, "short"); err == nil {
		t.Fatalf("short password should be rejected")
	}

	registerEmployee(t, svc, "dup@example.com")
	if _, err := svc.Register(ctx, &types.Employee{Email: "dup@example.com", FullName: "B"}, "longenough"); err == nil {
		t.Fatalf("duplicate email should conflict")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	registerEmployee(t, svc, "r@example.com")

	pair, _, err := svc.Login(ctx, "r@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Refresh(ctx, pair.AccessToken); err == nil {
		t.Fatalf("an access token must not pass as a refresh token")
	}
	renewed, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if renewed.AccessToken == "" {
		t.Fatalf("refresh should issue a new access token")
	}

	if _, err := svc.ContextFromToken(ctx, pair.RefreshToken); err == nil {
		t.Fatalf("a refresh token must not pass as an access token")
	}
}

func TestLoginInactiveAccountForbidden(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()
	employee := registerEmployee(t, svc, "gone@example.com")
	employee.Status = types.EmploymentResigned
	repo.byEmail[employee.Email] = employee

	if _, _, err := svc.Login(ctx, "gone@example.com", "correct-horse-battery"); err == nil {
		t.Fatalf("inactive account should not log in")
	}
}
