package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"userhub/api/internal/models"
	"userhub/api/internal/service"
)

type createUserRequest struct {
	Name                 string `json:"name" binding:"required"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"password_second" binding:"required"`
	Cellphone            string `json:"cellphone"`
}

func (r createUserRequest) toInput() service.CreateUserInput {
	return service.CreateUserInput{
		Name:                 r.Name,
		Email:                r.Email,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
		Cellphone:            r.Cellphone,
	}
}

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Cellphone string    `json:"cellphone"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Cellphone: user.Cellphone,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrPasswordMismatch) || errors.Is(err, service.ErrUserAlreadyExists) || errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("User created successfully with ID: %d", user.ID),
	})
}

type bulkFailureResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (h HandlerSet) BulkCreateUsers(c *gin.Context) {
	var reqs []createUserRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inputs := make([]service.CreateUserInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, req.toInput())
	}

	result := h.userService.BulkCreateUsers(c.Request.Context(), inputs)

	failures := make([]bulkFailureResponse, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, bulkFailureResponse{Index: f.Index, Reason: f.Reason})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("%d users created successfully, %d users not inserted", result.Inserted, result.Failed),
		"inserted": result.Inserted,
		"failed":   result.Failed,
		"failures": failures,
	})
}

// pathID parses the :id path segment. Routes wired through NumericParam
// never reach the error branch, but the handlers do not rely on that.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return id, true
}

func (h HandlerSet) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (h HandlerSet) FindUsers(c *gin.Context) {
	filter, err := parseUserFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := h.userService.FindUsers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{"users": resp})
}

// parseUserFilter maps query params to a filter. A param left out of the
// request stays out of the filter; no defaults are injected here or below.
func parseUserFilter(c *gin.Context) (models.UserFilter, error) {
	var filter models.UserFilter

	if raw, ok := c.GetQuery("active"); ok {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return models.UserFilter{}, fmt.Errorf("invalid active value %q", raw)
		}
		filter.Active = &active
	}

	filter.Name = c.Query("name")

	if raw, ok := c.GetQuery("login_after_date"); ok {
		t, err := parseDate(raw)
		if err != nil {
			return models.UserFilter{}, fmt.Errorf("invalid login_after_date %q", raw)
		}
		filter.LoginAfter = &t
	}
	if raw, ok := c.GetQuery("login_before_date"); ok {
		t, err := parseDate(raw)
		if err != nil {
			return models.UserFilter{}, fmt.Errorf("invalid login_before_date %q", raw)
		}
		filter.LoginBefore = &t
	}

	return filter, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

type updateUserRequest struct {
	Name      *string `json:"name"`
	Password  *string `json:"password"`
	Cellphone *string `json:"cellphone"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.userService.UpdateUser(c.Request.Context(), id, service.UpdateUserInput{
		Name:      req.Name,
		Password:  req.Password,
		Cellphone: req.Cellphone,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
