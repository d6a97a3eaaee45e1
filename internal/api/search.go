package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/qa"
)

// SearchHandler handles relevance-ranked question search.
type SearchHandler struct {
	logger *zap.Logger
}

func NewSearchHandler(logger *zap.Logger) *SearchHandler {
	return &SearchHandler{logger: logger}
}

// Search handles GET /v1/search?q=...&tags=a,b. An entirely empty query
// matches nothing by definition, so it is answered without consulting the
// filter.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	if strings.TrimSpace(query) == "" && len(tags) == 0 {
		c.JSON(http.StatusOK, []qa.QuestionView{})
		return
	}

	results := qa.Active().Questions().Search(query, tags)
	out := make([]qa.QuestionView, 0, len(results))
	for _, q := range results {
		out = append(out, q.View())
	}
	c.JSON(http.StatusOK, out)
}
