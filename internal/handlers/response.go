package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/requestdata"
)

// Envelope is the uniform response body. Data is present on success, Errors
// on failure; both are never set together.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}

func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// RespondError maps service errors onto status codes. Unknown errors become
// opaque 500s; their detail stays in the logs, not the response.
func RespondError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		c.JSON(ae.Status, Envelope{Success: false, Message: ae.Code, Errors: []string{ae.Error()}})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "internal_error",
		Errors:  []string{"an unexpected error occurred"},
	})
}

func RespondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "validation",
		Errors:  []string{err.Error()},
	})
}

func bindPaging(c *gin.Context) paging.Request {
	var req paging.Request
	_ = c.ShouldBindQuery(&req)
	req.Normalize()
	return req
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondValidation(c, errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the authenticated employee's identity; the auth middleware
// guarantees it is present on protected routes.
func caller(c *gin.Context) *requestdata.RequestData {
	return requestdata.GetRequestData(c.Request.Context())
}
