package analytics

import (
	"github.com/gin-gonic/gin"

	"traxomni_backend/platform/apperr"
	"traxomni_backend/platform/httpkit"
	"traxomni_backend/platform/logger"
)

type Handler struct {
	repo *Repository
	log  *logger.Logger
}

func NewHandler(repo *Repository, log *logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	analytics := protected.Group("/analytics")
	{
		analytics.GET("/score-distribution", h.ScoreDistribution)
		analytics.GET("/stage-scores", h.StageScores)
	}
}

func (h *Handler) ScoreDistribution(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	dist, err := h.repo.ScoreDistribution(c.Request.Context(), identity.TenantID())
	if err != nil {
		h.log.DatabaseError("analytics.score_distribution", err)
		httpkit.HandleError(c, apperr.Internal("failed to load score distribution"))
		return
	}
	httpkit.OK(c, dist)
}

func (h *Handler) StageScores(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	scores, err := h.repo.StageScores(c.Request.Context(), identity.TenantID())
	if err != nil {
		h.log.DatabaseError("analytics.stage_scores", err)
		httpkit.HandleError(c, apperr.Internal("failed to load stage scores"))
		return
	}
	httpkit.OK(c, scores)
}
