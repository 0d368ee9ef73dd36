package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type AuthHandler struct {
	log             *logger.Logger
	authService     services.AuthService
	employeeService services.EmployeeService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, employeeService services.EmployeeService) *AuthHandler {
	handlerLog := log.With("handler", "AuthHandler")
	return &AuthHandler{log: handlerLog, authService: authService, employeeService: employeeService}
}

type registerRequest struct {
	Email     string     `json:"email" binding:"required"`
	Password  string     `json:"password" binding:"required"`
	FullName  string     `json:"fullName" binding:"required"`
	TeamID    *uuid.UUID `json:"teamId,omitempty"`
	JobRoleID *uuid.UUID `json:"jobRoleId,omitempty"`
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	employee := &types.Employee{
		Email:     req.Email,
		FullName:  req.FullName,
		TeamID:    req.TeamID,
		JobRoleID: req.JobRoleID,
	}
	created, err := ah.authService.Register(c.Request.Context(), employee, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	pair, employee, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"user":         employee,
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, pair)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (ah *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	rd := caller(c)
	if err := ah.authService.ChangePassword(c.Request.Context(), rd.EmployeeID, req.OldPassword, req.NewPassword); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "password changed")
}

func (ah *AuthHandler) Me(c *gin.Context) {
	rd := caller(c)
	profile, err := ah.employeeService.GetProfile(c.Request.Context(), rd.EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, profile)
}
