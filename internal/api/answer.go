package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/qa"
)

// AnswerHandler handles answering, commenting, voting and comment likes.
type AnswerHandler struct {
	logger *zap.Logger
}

func NewAnswerHandler(logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{logger: logger}
}

type contentRequest struct {
	Content string `json:"content" binding:"required"`
}

type voteRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// Create handles POST /v1/questions/:id/answers.
func (h *AnswerHandler) Create(c *gin.Context) {
	var req contentRequest
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
	if q.IsLocked() {
		c.JSON(http.StatusConflict, gin.H{"error": "question is locked"})
		return
	}
	if user.IsCheating() {
		c.JSON(http.StatusForbidden, gin.H{"error": "posting suspended"})
		return
	}

	a := q.Answer(user, req.Content)
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	c.JSON(http.StatusCreated, a.View())
}

// Delete handles DELETE /v1/questions/:id/answers/:answerID.
func (h *AnswerHandler) Delete(c *gin.Context) {
	a := answerParam(c)
	if a == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	if a.Owner() != user && !user.IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your answer"})
		return
	}
	a.Unregister()
	c.Status(http.StatusNoContent)
}

// CommentQuestion handles POST /v1/questions/:id/comments.
func (h *AnswerHandler) CommentQuestion(c *gin.Context) {
	var req contentRequest
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
	if q.IsLocked() {
		c.JSON(http.StatusConflict, gin.H{"error": "question is locked"})
		return
	}
	if user.IsCheating() {
		c.JSON(http.StatusForbidden, gin.H{"error": "posting suspended"})
		return
	}
	cm := q.Comment(user, req.Content)
	if cm == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": cm.ID()})
}

// CommentAnswer handles POST /v1/questions/:id/answers/:answerID/comments.
func (h *AnswerHandler) CommentAnswer(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := answerParam(c)
	if a == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	if a.Question().IsLocked() {
		c.JSON(http.StatusConflict, gin.H{"error": "question is locked"})
		return
	}
	if user.IsCheating() {
		c.JSON(http.StatusForbidden, gin.H{"error": "posting suspended"})
		return
	}
	cm := a.Comment(user, req.Content)
	if cm == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": cm.ID()})
}

// VoteQuestion handles POST /v1/questions/:id/vote.
func (h *AnswerHandler) VoteQuestion(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := questionParam(c)
	if q == nil {
		return
	}
	h.vote(c, q, req.Direction)
}

// UnvoteQuestion handles DELETE /v1/questions/:id/vote.
func (h *AnswerHandler) UnvoteQuestion(c *gin.Context) {
	q := questionParam(c)
	if q == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	q.VoteCancel(user)
	c.Status(http.StatusNoContent)
}

// VoteAnswer handles POST /v1/questions/:id/answers/:answerID/vote.
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := answerParam(c)
	if a == nil {
		return
	}
	h.vote(c, a, req.Direction)
}

// UnvoteAnswer handles DELETE /v1/questions/:id/answers/:answerID/vote.
func (h *AnswerHandler) UnvoteAnswer(c *gin.Context) {
	a := answerParam(c)
	if a == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	a.VoteCancel(user)
	c.Status(http.StatusNoContent)
}

func (h *AnswerHandler) vote(c *gin.Context, target qa.Entry, direction string) {
	user := requireUser(c)
	if user == nil {
		return
	}
	var v *qa.Vote
	if direction == "up" {
		v = target.VoteUp(user)
	} else {
		v = target.VoteDown(user)
	}
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "target not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"up_votes":   target.UpVotes(),
		"down_votes": target.DownVotes(),
	})
}

// LikeComment handles POST /v1/comments/:commentID/like; UnlikeComment the
// matching DELETE. Comments are found through their question, so the route
// carries question and comment location.
func (h *AnswerHandler) LikeComment(c *gin.Context) {
	h.setLike(c, true)
}

func (h *AnswerHandler) UnlikeComment(c *gin.Context) {
	h.setLike(c, false)
}

func (h *AnswerHandler) setLike(c *gin.Context, like bool) {
	cm := commentParam(c)
	if cm == nil {
		return
	}
	user := requireUser(c)
	if user == nil {
		return
	}
	if like {
		cm.AddLiker(user)
	} else {
		cm.RemoveLiker(user)
	}
	c.JSON(http.StatusOK, gin.H{"likes": cm.LikeCount()})
}

// answerParam resolves :id/:answerID to a live answer of that question.
func answerParam(c *gin.Context) *qa.Answer {
	q := questionParam(c)
	if q == nil {
		return nil
	}
	id, err := strconv.Atoi(c.Param("answerID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid answer id"})
		return nil
	}
	a := q.GetAnswer(id)
	if a == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return nil
	}
	return a
}

// commentParam resolves :id/:commentID to a live comment on the question or
// one of its answers.
func commentParam(c *gin.Context) *qa.Comment {
	q := questionParam(c)
	if q == nil {
		return nil
	}
	id, err := strconv.Atoi(c.Param("commentID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return nil
	}
	for _, cm := range q.Comments() {
		if cm.ID() == id {
			return cm
		}
	}
	for _, a := range q.Answers() {
		for _, cm := range a.Comments() {
			if cm.ID() == id {
				return cm
			}
		}
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	return nil
}
