package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"traxomni_backend/platform/apperr"
	"traxomni_backend/platform/logger"
	"traxomni_backend/platform/validator"
)

const defaultStageColor = "#7C3AED"

type Service struct {
	repo     *Repository
	validate *validator.Validator
	log      *logger.Logger
}

func NewService(repo *Repository, validate *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, validate: validate, log: log}
}

func (s *Service) ListStages(ctx context.Context, organizationID uuid.UUID) ([]StageResponse, error) {
	stages, err := s.repo.ListStages(ctx, organizationID)
	if err != nil {
		s.log.DatabaseError("pipeline.list", err)
		return nil, apperr.Internal("failed to list stages")
	}

	// A fresh organization gets the standard pipeline on first read.
	if len(stages) == 0 {
		if err := s.repo.SeedDefaultStages(ctx, organizationID); err != nil {
			s.log.DatabaseError("pipeline.seed", err)
			return nil, apperr.Internal("failed to list stages")
		}
		stages, err = s.repo.ListStages(ctx, organizationID)
		if err != nil {
			s.log.DatabaseError("pipeline.list", err)
			return nil, apperr.Internal("failed to list stages")
		}
	}

	responses := make([]StageResponse, 0, len(stages))
	for _, stage := range stages {
		responses = append(responses, toStageResponse(stage))
	}
	return responses, nil
}

func (s *Service) CreateStage(ctx context.Context, organizationID uuid.UUID, req CreateStageRequest) (StageResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return StageResponse{}, apperr.Validation(err.Error())
	}

	color := defaultStageColor
	if req.Color != nil {
		color = *req.Color
	}
	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		existing, err := s.repo.ListStages(ctx, organizationID)
		if err != nil {
			s.log.DatabaseError("pipeline.create", err)
			return StageResponse{}, apperr.Internal("failed to create stage")
		}
		position = len(existing)
	}

	stage, err := s.repo.CreateStage(ctx, organizationID, req.Name, color, position)
	if err != nil {
		s.log.DatabaseError("pipeline.create", err)
		return StageResponse{}, apperr.Internal("failed to create stage")
	}
	return toStageResponse(stage), nil
}

func (s *Service) UpdateStage(ctx context.Context, id, organizationID uuid.UUID, req UpdateStageRequest) (StageResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return StageResponse{}, apperr.Validation(err.Error())
	}

	stage, err := s.repo.UpdateStage(ctx, id, organizationID, req.Name, req.Color, req.Position)
	if errors.Is(err, ErrStageNotFound) {
		return StageResponse{}, apperr.NotFound("stage not found")
	}
	if err != nil {
		s.log.DatabaseError("pipeline.update", err)
		return StageResponse{}, apperr.Internal("failed to update stage")
	}
	return toStageResponse(stage), nil
}

func (s *Service) DeleteStage(ctx context.Context, id, organizationID uuid.UUID) error {
	count, err := s.repo.CountLeadsInStage(ctx, id, organizationID)
	if err != nil {
		s.log.DatabaseError("pipeline.delete", err)
		return apperr.Internal("failed to delete stage")
	}
	if count > 0 {
		return apperr.Conflict("stage still has leads assigned")
	}

	if err := s.repo.DeleteStage(ctx, id, organizationID); err != nil {
		if errors.Is(err, ErrStageNotFound) {
			return apperr.NotFound("stage not found")
		}
		s.log.DatabaseError("pipeline.delete", err)
		return apperr.Internal("failed to delete stage")
	}
	return nil
}
