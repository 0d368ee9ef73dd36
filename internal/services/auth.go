package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/requestdata"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type AuthService interface {
	Register(ctx context.Context, employee *types.Employee, password string) (*types.Employee, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *types.Employee, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, employeeID uuid.UUID, oldPassword, newPassword string) error
	ContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	employeeRepo repos.EmployeeRepo
	jwtSecretKey string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	employeeRepo repos.EmployeeRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		employeeRepo: employeeRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) Register(ctx context.Context, employee *types.Employee, password string) (*types.Employee, error) {
	employee.Email = normalizeEmail(employee.Email)
	if employee.Email == "" || !strings.Contains(employee.Email, "@") {
		return nil, apierr.Validation("a valid email is required")
	}
	if strings.TrimSpace(employee.FullName) == "" {
		return nil, apierr.Validation("full name is required")
	}
	if len(password) < 8 {
		return nil, apierr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	employee.PasswordHash = string(hash)
	if employee.SystemRole == 0 {
		employee.SystemRole = types.RoleEmployee
	}
	if employee.Status == 0 {
		employee.Status = types.EmploymentActive
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, eErr := as.employeeRepo.EmailExists(ctx, tx, employee.Email)
		if eErr != nil {
			return fmt.Errorf("check email: %w", eErr)
		}
		if exists {
			return apierr.Conflict("email is already registered")
		}
		_, cErr := as.employeeRepo.Create(ctx, tx, employee)
		if cErr != nil {
			if apierr.IsUniqueViolation(cErr) {
				return apierr.Conflict("email is already registered")
			}
			return fmt.Errorf("create employee: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("employee registered", "employee_id", employee.ID)
	return employee, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, *types.Employee, error) {
	email = normalizeEmail(email)

	employee, err := as.employeeRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, nil, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("invalid credentials"))
		}
		return nil, nil, fmt.Errorf("load employee: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("invalid credentials"))
	}
	if employee.Status != types.EmploymentActive {
		return nil, nil, apierr.New(403, "FORBIDDEN", fmt.Errorf("account is not active"))
	}

	pair, err := as.issueTokens(employee)
	if err != nil {
		return nil, nil, err
	}
	as.log.Info("employee logged in", "employee_id", employee.ID)
	return pair, employee, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := as.parseClaims(refreshToken)
	if err != nil {
		return nil, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("invalid refresh token"))
	}
	if use, _ := claims["use"].(string); use != "refresh" {
		return nil, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("not a refresh token"))
	}
	sub, _ := claims["sub"].(string)
	employeeID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("invalid subject"))
	}

	employee, err := as.employeeRepo.GetByID(ctx, nil, employeeID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("employee no longer exists"))
		}
		return nil, err
	}
	if employee.Status != types.EmploymentActive {
		return nil, apierr.New(403, "FORBIDDEN", fmt.Errorf("account is not active"))
	}
	return as.issueTokens(employee)
}

func (as *authService) ChangePassword(ctx context.Context, employeeID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apierr.Validation("password must be at least 8 characters")
	}
	employee, err := as.employeeRepo.GetByID(ctx, nil, employeeID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("employee")
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(oldPassword)); err != nil {
		return apierr.New(401, "UNAUTHORIZED", fmt.Errorf("current password is incorrect"))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	employee.PasswordHash = string(hash)
	employee.UpdatedBy = &employeeID
	_, err = as.employeeRepo.Update(ctx, nil, employee)
	return err
}

// ContextFromToken validates an access token and attaches the caller's
// identity to the context for downstream handlers.
func (as *authService) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := as.parseClaims(tokenString)
	if err != nil {
		return ctx, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("invalid token"))
	}
	if use, _ := claims["use"].(string); use != "access" {
		return ctx, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("not an access token"))
	}
	sub, _ := claims["sub"].(string)
	employeeID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.New(401, "UNAUTHORIZED", fmt.Errorf("invalid subject"))
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		EmployeeID: employeeID,
		Email:      email,
		SystemRole: role,
	}), nil
}

func (as *authService) issueTokens(employee *types.Employee) (*TokenPair, error) {
	now := time.Now().UTC()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   employee.ID.String(),
		"email": employee.Email,
		"role":  employee.SystemRole.String(),
		"use":   "access",
		"iat":   now.Unix(),
		"exp":   now.Add(as.accessTTL).Unix(),
	})
	accessToken, err := access.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": employee.ID.String(),
		"use": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(as.refreshTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
