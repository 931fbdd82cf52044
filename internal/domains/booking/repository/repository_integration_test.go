//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	_ "github.com/golang-migrate/migrate/v4/source/file"       //nolint:revive
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:revive
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"rentfy/infras/otel/mocks"
	"rentfy/infras/postgres"
	"rentfy/internal/domains/booking/model"
	"rentfy/internal/domains/booking/repository"
	"rentfy/shared"
	gDto "rentfy/shared/dto"
	gModel "rentfy/shared/model"
)

const migrationsSource = "file://../../../../migrations/postgres"

type fixture struct {
	db       *sqlx.DB
	repo     repository.Booking
	guestID  string
	hostID   string
	property string
}

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "rentfy",
				"POSTGRES_PASSWORD": "rentfy",
				"POSTGRES_DB":       "rentfy",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err)

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword("rentfy", "rentfy"),
		Host:     endpoint,
		Path:     "rentfy",
		RawQuery: "sslmode=disable",
	}

	mig, err := migrate.New(migrationsSource, dsn.String())
	require.NoError(t, err)
	require.NoError(t, mig.Up())

	srcErr, dbErr := mig.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	db, err := sqlx.Connect("postgres", dsn.String())
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := startPostgres(t)

	f := fixture{
		db:       db,
		repo:     repository.New(&postgres.Connection{Read: db, Write: db}, mocks.NewOtel()),
		guestID:  uuid.NewString(),
		hostID:   uuid.NewString(),
		property: uuid.NewString(),
	}

	db.MustExec(`INSERT INTO users (id, name, email, password, role) VALUES
		($1, 'Guest', 'guest@rentfy.test', 'x', 'GUEST'),
		($2, 'Host', 'host@rentfy.test', 'x', 'HOST')`, f.guestID, f.hostID)
	db.MustExec(`INSERT INTO properties (id, host_id, title, type, price_per_night, max_guests, address, city, country)
		VALUES ($1, $2, 'Seaside Villa', 'VILLA', 100, 4, '1 Beach Road', 'Lisbon', 'Portugal')`, f.property, f.hostID)

	return f
}

func (f fixture) booking(checkIn, checkOut string) model.Booking {
	in, _ := time.Parse(time.DateOnly, checkIn)
	out, _ := time.Parse(time.DateOnly, checkOut)

	return model.Booking{
		ID:            uuid.NewString(),
		PropertyID:    f.property,
		GuestID:       f.guestID,
		HostID:        f.hostID,
		CheckIn:       in,
		CheckOut:      out,
		TotalPrice:    400,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		Metadata:      gModel.NewMetadata(time.Now(), f.guestID),
	}
}

func TestReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.booking("2025-07-01", "2025-07-05")
	require.NoError(t, f.repo.Reserve(ctx, first))

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		err      error
	}{
		{name: "same dates", checkIn: "2025-07-01", checkOut: "2025-07-05", err: repository.ErrDatesUnavailable},
		{name: "shares the checkout day", checkIn: "2025-07-05", checkOut: "2025-07-08", err: repository.ErrDatesUnavailable},
		{name: "contains the stay", checkIn: "2025-06-28", checkOut: "2025-07-10", err: repository.ErrDatesUnavailable},
		{name: "after the stay", checkIn: "2025-07-06", checkOut: "2025-07-08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.repo.Reserve(ctx, f.booking(tt.checkIn, tt.checkOut))

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)

				return
			}

			assert.NoError(t, err)
		})
	}

	t.Run("cancelled stays free their dates", func(t *testing.T) {
		updated, err := f.repo.UpdateCount(ctx, map[string]any{model.FieldStatus: string(model.StatusCancelled)}, model.StatusFilter(first.ID, model.StatusPending))
		require.NoError(t, err)
		require.EqualValues(t, 1, updated)

		assert.NoError(t, f.repo.Reserve(ctx, f.booking("2025-07-01", "2025-07-04")))
	})
}

func TestReserveConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const callers = 8

	var reserved, rejected atomic.Int32

	var group errgroup.Group

	for range callers {
		group.Go(func() error {
			err := f.repo.Reserve(ctx, f.booking("2025-08-10", "2025-08-15"))

			switch {
			case err == nil:
				reserved.Add(1)
			case errors.Is(err, repository.ErrDatesUnavailable):
				rejected.Add(1)
			default:
				return fmt.Errorf("unexpected reserve error: %w", err)
			}

			return nil
		})
	}

	require.NoError(t, group.Wait())

	assert.EqualValues(t, 1, reserved.Load())
	assert.EqualValues(t, callers-1, rejected.Load())
}

func TestStatusCompareAndSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := f.booking("2025-09-01", "2025-09-03")
	require.NoError(t, f.repo.Reserve(ctx, booking))

	confirm := map[string]any{model.FieldStatus: string(model.StatusConfirmed), model.FieldPaymentStatus: string(model.PaymentPaid)}

	updated, err := f.repo.UpdateCount(ctx, confirm, model.StatusFilter(booking.ID, model.StatusPending))
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	updated, err = f.repo.UpdateCount(ctx, confirm, model.StatusFilter(booking.ID, model.StatusPending))
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)
}

func TestDeleteReviewedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := f.booking("2025-10-01", "2025-10-03")
	require.NoError(t, f.repo.Reserve(ctx, booking))

	f.db.MustExec(`INSERT INTO reviews (id, booking_id, property_id, guest_id, rating_cleanliness, rating_comfort, rating_location, rating_value)
		VALUES ($1, $2, $3, $4, 5, 4, 5, 4)`, uuid.NewString(), booking.ID, f.property, f.guestID)

	err := f.repo.Delete(ctx, model.StatusFilter(booking.ID, model.StatusPending))
	assert.ErrorIs(t, err, repository.ErrReferenced)
}

func TestPriceChangeAfterPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := f.booking("2025-11-01", "2025-11-04")
	require.NoError(t, f.repo.Reserve(ctx, booking))

	reprice := map[string]any{model.FieldTotalPrice: 450.0}

	updated, err := f.repo.UpdateCount(ctx, reprice, model.UnpaidStatusFilter(booking.ID, model.StatusPending))
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	// a payment completes without touching the booking status
	updated, err = f.repo.UpdateCount(ctx, map[string]any{model.FieldPaymentStatus: string(model.PaymentPaid)}, model.StatusFilter(booking.ID, model.StatusPending))
	require.NoError(t, err)
	require.EqualValues(t, 1, updated)

	updated, err = f.repo.UpdateCount(ctx, map[string]any{model.FieldTotalPrice: 500.0}, model.UnpaidStatusFilter(booking.ID, model.StatusPending))
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)

	stored, err := f.repo.Get(ctx, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	require.NoError(t, err)
	assert.InDelta(t, 450.0, stored.TotalPrice, 0.001)
}

func TestMalformedIDsMatchNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Reserve(ctx, f.booking("2025-12-01", "2025-12-03")))

	byID := shared.FilterByID("abc", model.FieldID, model.TableName)
	byGuest := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldGuestID, Value: "x", Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}}

	booking, err := f.repo.Get(ctx, byID)
	require.NoError(t, err)
	assert.Empty(t, booking.ID)

	detail, err := f.repo.GetDetail(ctx, byID)
	require.NoError(t, err)
	assert.Empty(t, detail.ID)

	exist, err := f.repo.Exist(ctx, byID)
	require.NoError(t, err)
	assert.False(t, exist)

	total, err := f.repo.Count(ctx, byGuest)
	require.NoError(t, err)
	assert.Zero(t, total)

	details, err := f.repo.GetAllDetail(ctx, gDto.QueryParams{Page: 1, Limit: 10}, byGuest)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestBookingDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherGuest := uuid.NewString()
	f.db.MustExec(`INSERT INTO users (id, name, email, password, role) VALUES ($1, 'Other', 'other@rentfy.test', 'x', 'GUEST')`, otherGuest)

	older := f.booking("2026-01-01", "2026-01-03")
	older.CreatedAt = time.Now().Add(-time.Hour)

	newer := f.booking("2026-02-01", "2026-02-03")

	foreign := f.booking("2026-03-01", "2026-03-03")
	foreign.GuestID = otherGuest

	for _, booking := range []model.Booking{older, newer, foreign} {
		require.NoError(t, f.repo.Reserve(ctx, booking))
	}

	byGuest := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldGuestID, Value: f.guestID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}}
	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.TableName + "." + model.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	t.Run("listing returns each booking once, newest first", func(t *testing.T) {
		details, err := f.repo.GetAllDetail(ctx, params, byGuest)
		require.NoError(t, err)
		require.Len(t, details, 2)

		assert.Equal(t, newer.ID, details[0].ID)
		assert.Equal(t, older.ID, details[1].ID)

		total, err := f.repo.Count(ctx, byGuest)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("pages past the first", func(t *testing.T) {
		second := params
		second.Limit = 1
		second.Page = 2

		details, err := f.repo.GetAllDetail(ctx, second, byGuest)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, older.ID, details[0].ID)
	})

	t.Run("detail carries the summaries", func(t *testing.T) {
		detail, err := f.repo.GetDetail(ctx, shared.FilterByID(newer.ID, model.FieldID, model.TableName))
		require.NoError(t, err)

		assert.Equal(t, newer.ID, detail.ID)
		assert.Equal(t, "Seaside Villa", detail.PropertyTitle)
		assert.Equal(t, "Lisbon", detail.PropertyCity)
		assert.Equal(t, "Guest", detail.GuestName)
		assert.Equal(t, "guest@rentfy.test", detail.GuestEmail)
		assert.Equal(t, "Host", detail.HostName)
		assert.Equal(t, "host@rentfy.test", detail.HostEmail)
		assert.Nil(t, detail.ReviewID)
	})

	t.Run("detail links the review", func(t *testing.T) {
		reviewID := uuid.NewString()
		f.db.MustExec(`INSERT INTO reviews (id, booking_id, property_id, guest_id, rating_cleanliness, rating_comfort, rating_location, rating_value)
			VALUES ($1, $2, $3, $4, 5, 5, 4, 4)`, reviewID, older.ID, f.property, f.guestID)

		detail, err := f.repo.GetDetail(ctx, shared.FilterByID(older.ID, model.FieldID, model.TableName))
		require.NoError(t, err)
		require.NotNil(t, detail.ReviewID)
		assert.Equal(t, reviewID, *detail.ReviewID)
	})
}
