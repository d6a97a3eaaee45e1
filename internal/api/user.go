package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/qa"
)

// UserHandler handles profiles, notifications and moderation.
type UserHandler struct {
	logger *zap.Logger
}

func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// Me handles GET /v1/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	c.JSON(http.StatusOK, user.View())
}

type profileRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Website     string `json:"website"`
	Profession  string `json:"profession"`
	Employer    string `json:"employer"`
	Biography   string `json:"biography"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD, empty to clear
}

// UpdateProfile handles PUT /v1/users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth, expected YYYY-MM-DD"})
			return
		}
		dob = parsed
	}

	user.SetProfile(qa.Profile{
		Email:       req.Email,
		FullName:    req.FullName,
		Website:     req.Website,
		Profession:  req.Profession,
		Employer:    req.Employer,
		Biography:   req.Biography,
		DateOfBirth: dob,
	})
	c.JSON(http.StatusOK, user.View())
}

type anonymizeRequest struct {
	Answers  bool `json:"answers"`
	Comments bool `json:"comments"`
}

// Anonymize handles POST /v1/users/me/anonymize: the caller's questions —
// and optionally answers and comments — are handed to the anonymous user.
func (h *UserHandler) Anonymize(c *gin.Context) {
	var req anonymizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	user.Anonymize(req.Answers, req.Comments)
	h.logger.Info("user anonymized content", zap.String("user", user.Name()))
	c.Status(http.StatusNoContent)
}

// Notifications handles GET /v1/users/me/notifications. With ?new=1 only
// unread ones are returned.
func (h *UserHandler) Notifications(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var notifications []*qa.Notification
	if c.Query("new") == "1" {
		notifications = user.NewNotifications()
	} else {
		notifications = user.Notifications()
	}
	out := make([]qa.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, n.View())
	}
	c.JSON(http.StatusOK, out)
}

// ReadNotification handles PUT /v1/users/me/notifications/:id/read.
func (h *UserHandler) ReadNotification(c *gin.Context) {
	user, n := h.notificationParam(c)
	if n == nil || user == nil {
		return
	}
	n.MarkRead()
	c.Status(http.StatusNoContent)
}

// DeleteNotification handles DELETE /v1/users/me/notifications/:id.
func (h *UserHandler) DeleteNotification(c *gin.Context) {
	user, n := h.notificationParam(c)
	if n == nil || user == nil {
		return
	}
	n.Unregister()
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) notificationParam(c *gin.Context) (*qa.User, *qa.Notification) {
	user := requireUser(c)
	if user == nil {
		return nil, nil
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return user, nil
	}
	n := user.Notification(id)
	if n == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return user, nil
	}
	return user, n
}

// List handles GET /v1/users (moderators only).
func (h *UserHandler) List(c *gin.Context) {
	if requireModerator(c) == nil {
		return
	}
	users := qa.Active().Users().All()
	out := make([]qa.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, u.View())
	}
	c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/users/:name (moderators only). Everything the
// user owns goes with them.
func (h *UserHandler) Delete(c *gin.Context) {
	mod := requireModerator(c)
	if mod == nil {
		return
	}
	user := qa.Active().Users().Get(c.Param("name"))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	user.Delete()
	h.logger.Info("user deleted",
		zap.String("user", user.Name()),
		zap.String("by", mod.Name()))
	c.Status(http.StatusNoContent)
}

type clearRequest struct {
	KeepAdmins bool `json:"keep_admins"`
}

// Clear handles POST /v1/admin/clear (moderators only): wipes every user
// and their items, optionally sparing moderators so someone can still log
// back in.
func (h *UserHandler) Clear(c *gin.Context) {
	mod := requireModerator(c)
	if mod == nil {
		return
	}
	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	qa.Active().Users().Clear(req.KeepAdmins)
	h.logger.Warn("database cleared",
		zap.Bool("keep_admins", req.KeepAdmins),
		zap.String("by", mod.Name()))
	c.Status(http.StatusNoContent)
}
