package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rentfy/infras/otel"
	"rentfy/infras/postgres"
	"rentfy/internal/domains/media/model"
	gDto "rentfy/shared/dto"
	gRepo "rentfy/shared/repository"
)

type Media interface {
	Insert(ctx context.Context, media model.Media) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Media, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Media, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Media]
}

func New(db *postgres.Connection, otel otel.Otel) Media {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Media](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
