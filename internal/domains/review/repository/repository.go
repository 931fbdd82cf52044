package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"rentfy/infras/otel"
	"rentfy/infras/postgres"
	"rentfy/internal/domains/review/model"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	gRepo "rentfy/shared/repository"
)

// ErrDuplicate is returned by Insert when the booking has already been reviewed.
var ErrDuplicate = errors.New("booking already reviewed")

type Review interface {
	Insert(ctx context.Context, review model.Review) error
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.ReviewDetail, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	detail gRepo.Repository[model.ReviewDetail]
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.ReviewDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, review model.Review) error {
	err := r.Repository.Insert(ctx, review)
	if postgres.IsErrorCode(err, constant.PqErrorCodeUniqueViolation) {
		return ErrDuplicate
	}

	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.ReviewDetail, error) {
	return r.detail.GetAll(ctx, params, filter) //nolint:wrapcheck
}
