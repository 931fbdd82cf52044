package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"rentfy/infras/otel"
	"rentfy/infras/postgres"
	"rentfy/internal/domains/booking/model"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	gRepo "rentfy/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const propertyLockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

var (
	// ErrDatesUnavailable is returned by Reserve when an active booking already holds any of the dates.
	ErrDatesUnavailable = errors.New("property not available for the selected dates")
	// ErrReferenced is returned by Delete when other records still point at the booking.
	ErrReferenced = errors.New("booking is still referenced")
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error)
	GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Reserve(ctx context.Context, booking model.Booking) error
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	detail gRepo.Repository[model.BookingDetail]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.BookingDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error) {
	return r.detail.Get(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	return r.detail.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// Reserve inserts booking unless an active booking on the same property overlaps its dates.
// Callers for one property are serialized by a transaction-scoped advisory lock, and the
// bookings exclusion constraint rejects anything that slips past the check.
func (r *repositoryImpl) Reserve(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reserve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("property_id", booking.PropertyID)

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, propertyLockQuery, booking.PropertyID); err != nil {
			return fmt.Errorf("failed to lock property calendar: %w", err)
		}

		overlap, err := r.ExistTx(ctx, tx, model.OverlapFilter(booking.PropertyID, booking.CheckIn, booking.CheckOut))
		if err != nil {
			return fmt.Errorf("failed to check overlapping bookings: %w", err)
		}

		if overlap {
			return ErrDatesUnavailable
		}

		return r.InsertTx(ctx, tx, booking) //nolint:wrapcheck
	})

	if postgres.IsErrorCode(err, constant.PqErrorCodeExclusionViolation) {
		log.Warn().Str("property_id", booking.PropertyID).Msg("exclusion constraint rejected overlapping booking")

		return ErrDatesUnavailable
	}

	return err
}

func (r *repositoryImpl) Delete(ctx context.Context, filter gDto.FilterGroup) error {
	err := r.Repository.Delete(ctx, filter)
	if postgres.IsErrorCode(err, constant.PqErrorCodeFkViolation) {
		return ErrReferenced
	}

	return err //nolint:wrapcheck
}
