// Package pipeline provides the sales pipeline stage module.
package pipeline

import (
	apphttp "traxomni_backend/internal/http"
	"traxomni_backend/platform/logger"
	"traxomni_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pipeline bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, val, log)
	return &Module{
		handler: NewHandler(svc),
		repo:    repo,
	}
}

func (m *Module) Name() string {
	return "pipeline"
}

// Repository exposes stage lookups to other modules. The leads module uses
// it to resolve and validate stage assignments.
func (m *Module) Repository() *Repository {
	return m.repo
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}
