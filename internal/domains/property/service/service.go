package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Property=MockPropertyService

import (
	"context"
	"fmt"
	"rentfy/config"
	"rentfy/infras/otel"
	"rentfy/internal/domains/property/model"
	"rentfy/internal/domains/property/model/dto"
	"rentfy/internal/domains/property/repository"
	userModel "rentfy/internal/domains/user/model"
	userRepo "rentfy/internal/domains/user/repository"
	"rentfy/shared"
	"rentfy/shared/cache"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	"rentfy/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProperty    = "property:get"
	cacheGetAllProperty = "property:gets"
	cacheCountProperty  = "property:count"
)

type Property interface {
	Create(ctx context.Context, req dto.CreatePropertyRequest) (dto.PropertyResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.PropertyFilter) (dto.GetPropertiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PropertyResponse, error)
	Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) (dto.PropertyResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Property
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Property, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Property {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePropertyRequest) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	hostID := req.HostID
	if hostID == constant.Empty || role != constant.RoleAdmin {
		hostID = user
	}

	host, err := s.userRepo.Get(ctx, shared.FilterByID(hostID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get host")

		return res, fmt.Errorf("failed to get host: %w", err)
	}

	if host.ID == constant.Empty {
		return res, failure.NotFound("host not found") // nolint:wrapcheck
	}

	if host.Role != constant.RoleHost && host.Role != constant.RoleAdmin {
		return res, failure.Forbidden("only hosts can list properties") // nolint:wrapcheck
	}

	property := req.ToModel(user, host.ID)

	if err = s.repo.Insert(ctx, property); err != nil {
		log.Error().Err(err).Msg("failed to create property")

		return res, fmt.Errorf("failed to create property: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllProperty)
		shared.InvalidateCaches(c, s.cache, cacheCountProperty)
	}()

	res.FromModel(property)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, propertyFilter dto.PropertyFilter) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Newest(model.TableName + "." + model.FieldCreatedAt)
	filter := propertyFilter.ToFilterGroup()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProperty, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for properties")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count properties")

		return res, fmt.Errorf("failed to count properties: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get properties")

		return res, fmt.Errorf("failed to get properties: %w", err)
	}

	res.FromModels(models, req, total)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save properties to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProperty, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for property count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count properties")

		return res, fmt.Errorf("failed to count properties: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetProperty, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for property")

		return res, nil
	}

	property, err := s.repo.Get(ctx, model.NotDeleted(shared.FilterByID(id, model.FieldID, model.TableName)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return res, failure.NotFound("property not found") // nolint:wrapcheck
	}

	res.FromModel(property)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	property, err := s.getOwned(ctx, id)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(property.ID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update property")

		return res, fmt.Errorf("failed to update property: %w", err)
	}

	s.invalidate(ctx, id)

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload property")

		return res, fmt.Errorf("failed to reload property: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

// Delete hides the property from listings and bookings. Existing bookings keep their reference.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	property, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := map[string]any{
		model.FieldIsDeleted:     true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(property.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete property")

		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// getOwned loads a live property the caller may modify: its host or an admin.
func (s *serviceImpl) getOwned(ctx context.Context, id string) (model.Property, error) {
	property, err := s.repo.Get(ctx, model.NotDeleted(shared.FilterByID(id, model.FieldID, model.TableName)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return property, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return property, failure.NotFound("property not found") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleAdmin && property.HostID != user {
		return property, failure.ResourceRestrictedError
	}

	return property, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetProperty, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete property from cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllProperty)
		shared.InvalidateCaches(c, s.cache, cacheCountProperty)
	}()
}
