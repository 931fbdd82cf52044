package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"rentfy/infras/otel"
	"rentfy/infras/postgres"
	"rentfy/internal/domains/user/model"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	gRepo "rentfy/shared/repository"
)

// ErrReferenced is returned by Delete while properties, bookings or payments still belong to the user.
var ErrReferenced = errors.New("user is still referenced")

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) Delete(ctx context.Context, filter gDto.FilterGroup) error {
	err := r.Repository.Delete(ctx, filter)
	if postgres.IsErrorCode(err, constant.PqErrorCodeFkViolation) {
		return ErrReferenced
	}

	return err //nolint:wrapcheck
}
