package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"rentfy/infras/otel"
	"rentfy/infras/postgres"
	"rentfy/internal/domains/payment/model"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	gRepo "rentfy/shared/repository"
)

// ErrDuplicate is returned by Insert when the booking already has a payment.
var ErrDuplicate = errors.New("payment already exists for this booking")

type Payment interface {
	Insert(ctx context.Context, payment model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.PaymentDetail, error)
	GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.PaymentDetail, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	detail gRepo.Repository[model.PaymentDetail]
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.PaymentDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, payment model.Payment) error {
	err := r.Repository.Insert(ctx, payment)
	if postgres.IsErrorCode(err, constant.PqErrorCodeUniqueViolation) {
		return ErrDuplicate
	}

	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.PaymentDetail, error) {
	return r.detail.Get(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.PaymentDetail, error) {
	return r.detail.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// Count counts the joined rows so filters may reference bookings or guests.
func (r *repositoryImpl) Count(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.detail.Count(ctx, filter) //nolint:wrapcheck
}
