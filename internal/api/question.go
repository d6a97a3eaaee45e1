package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/qa"
)

// QuestionHandler handles the question lifecycle: asking, listing,
// tagging, accepting a best answer, watching, locking and deleting.
type QuestionHandler struct {
	logger *zap.Logger
}

func NewQuestionHandler(logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{logger: logger}
}

type createQuestionRequest struct {
	Content string `json:"content" binding:"required"`
	Tags    string `json:"tags"`
}

// Create handles POST /v1/questions. The asker automatically starts
// watching their own question.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	if user.IsCheating() {
		c.JSON(http.StatusForbidden, gin.H{"error": "posting suspended"})
		return
	}

	q := qa.Active().Questions().Add(user, req.Content)
	if req.Tags != "" {
		q.SetTagString(req.Tags)
	}
	user.StartObserving(q)

	h.logger.Info("question created",
		zap.Int("id", q.ID()),
		zap.String("author", user.Name()))
	c.JSON(http.StatusCreated, q.View())
}

// List handles GET /v1/questions.
func (h *QuestionHandler) List(c *gin.Context) {
	questions := qa.Active().Questions().All()
	out := make([]qa.QuestionView, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.View())
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/questions/:id.
func (h *QuestionHandler) Get(c *gin.Context) {
	q := questionParam(c)
	if q == nil {
		return
	}
	c.JSON(http.StatusOK, q.View())
}

// Delete handles DELETE /v1/questions/:id. The owner or a moderator may
// delete; the cascade takes answers, comments, votes and notifications
// with it.
func (h *QuestionHandler) Delete(c *gin.Context) {
	q := questionParam(c)
	if q == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	if q.Owner() != user && !user.IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your question"})
		return
	}
	q.Unregister()
	h.logger.Info("question deleted",
		zap.Int("id", q.ID()),
		zap.String("by", user.Name()))
	c.Status(http.StatusNoContent)
}

type setTagsRequest struct {
	Tags string `json:"tags"`
}

// SetTags handles PUT /v1/questions/:id/tags.
func (h *QuestionHandler) SetTags(c *gin.Context) {
	var req setTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := questionParam(c)
	if q == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	if q.Owner() != user && !user.IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your question"})
		return
	}
	q.SetTagString(req.Tags)
	c.JSON(http.StatusOK, gin.H{"tags": q.Tags()})
}

type bestAnswerRequest struct {
	AnswerID int `json:"answer_id" binding:"required"`
}

// SetBestAnswer handles PUT /v1/questions/:id/best-answer. Only the asker
// accepts an answer, and only one of the question's own answers.
func (h *QuestionHandler) SetBestAnswer(c *gin.Context) {
	var req bestAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := questionParam(c)
	if q == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	if q.Owner() != user {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your question"})
		return
	}
	a := q.GetAnswer(req.AnswerID)
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}
	if err := q.SetBestAnswer(a); err != nil {
		if errors.Is(err, qa.ErrInvariantViolation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "answer does not belong to question"})
			return
		}
		h.logger.Error("failed to set best answer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set best answer"})
		return
	}
	c.JSON(http.StatusOK, q.View())
}

// Watch handles POST /v1/questions/:id/watch.
func (h *QuestionHandler) Watch(c *gin.Context) {
	q := questionParam(c)
	if q == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	user.StartObserving(q)
	c.Status(http.StatusNoContent)
}

// Unwatch handles DELETE /v1/questions/:id/watch.
func (h *QuestionHandler) Unwatch(c *gin.Context) {
	q := questionParam(c)
	if q == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	user.StopObserving(q)
	c.Status(http.StatusNoContent)
}

// Lock handles POST /v1/questions/:id/lock (moderators only).
func (h *QuestionHandler) Lock(c *gin.Context) {
	mod := requireModerator(c)
	if mod == nil {
		return
	}
	q := questionParam(c)
	if q == nil {
		return
	}
	q.Lock()
	h.logger.Info("question locked",
		zap.Int("id", q.ID()),
		zap.String("by", mod.Name()))
	c.Status(http.StatusNoContent)
}

// Unlock handles DELETE /v1/questions/:id/lock (moderators only).
func (h *QuestionHandler) Unlock(c *gin.Context) {
	mod := requireModerator(c)
	if mod == nil {
		return
	}
	q := questionParam(c)
	if q == nil {
		return
	}
	q.Unlock()
	c.Status(http.StatusNoContent)
}

// questionParam resolves the :id path parameter to a live question,
// aborting with 400/404 as appropriate.
func questionParam(c *gin.Context) *qa.Question {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return nil
	}
	q := qa.Active().Questions().Get(id)
	if q == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return nil
	}
	return q
}
