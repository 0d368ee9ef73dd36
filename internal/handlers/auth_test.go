package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type fakeAuthService struct {
	pair     *services.TokenPair
	employee *types.Employee
}

func (f *fakeAuthService) Register(ctx context.Context, employee *types.Employee, password string) (*types.Employee, error) {
	return nil, errors.New("not wired in this test")
}
func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*services.TokenPair, *types.Employee, error) {
	return f.pair, f.employee, nil
}
func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.pair, nil
}
func (f *fakeAuthService) ChangePassword(ctx context.Context, employeeID uuid.UUID, oldPassword, newPassword string) error {
	return errors.New("not wired in this test")
}
func (f *fakeAuthService) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	return ctx, nil
}

func TestLoginResponseShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	employee := &types.Employee{Email: "alex@example.com", FullName: "Alex Nguyen"}
	employee.ID = uuid.New()
	auth := &fakeAuthService{
		pair:     &services.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", ExpiresIn: 3600},
		employee: employee,
	}
	handler := NewAuthHandler(log, auth, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alex@example.com","password":"pw"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, w.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			User         *types.Employee `json:"user"`
			Token        string          `json:"token"`
			RefreshToken string          `json:"refreshToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("login response must carry success=true")
	}
	if resp.Data.User == nil || resp.Data.User.ID != employee.ID {
		t.Fatalf("login response must carry the user under the user key")
	}
	if resp.Data.Token != "access-token" {
		t.Fatalf("token key: want=%q got=%q", "access-token", resp.Data.Token)
	}
	if resp.Data.RefreshToken != "refresh-token" {
		t.Fatalf("refreshToken key: want=%q got=%q", "refresh-token", resp.Data.RefreshToken)
	}
}
