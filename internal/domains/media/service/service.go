package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Media=MockMediaService

import (
	"context"
	"fmt"
	"io"
	"path"
	"rentfy/config"
	"rentfy/infras/otel"
	"rentfy/infras/s3"
	"rentfy/internal/domains/media/model"
	"rentfy/internal/domains/media/model/dto"
	"rentfy/internal/domains/media/repository"
	propertyModel "rentfy/internal/domains/property/model"
	propertyRepo "rentfy/internal/domains/property/repository"
	"rentfy/shared"
	"rentfy/shared/base64"
	"rentfy/shared/cache"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	"rentfy/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllMedia = "media:gets"

	defaultMediaDirectory = "properties"
)

type Media interface {
	Upload(ctx context.Context, req dto.UploadMediaRequest) (dto.MediaResponse, error)
	GetAll(ctx context.Context, propertyID string) (dto.GetMediaResponse, error)
	Update(ctx context.Context, req dto.UpdateMediaRequest, id string) (dto.MediaResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Media
	propertyRepo propertyRepo.Property
	storage      s3.S3
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Media,
	propertyRepo propertyRepo.Property,
	storage s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Media {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		storage:      storage,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Upload stores the file in object storage and attaches it to the property.
// A featured upload takes the flag from every other media item of that property.
func (s *serviceImpl) Upload(ctx context.Context, req dto.UploadMediaRequest) (res dto.MediaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".media.Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.checkOwner(ctx, req.PropertyID); err != nil {
		return res, err
	}

	content, err := io.ReadAll(req.Content)
	if err != nil {
		log.Error().Err(err).Msg("failed to read uploaded file")

		return res, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	id := uuid.NewString()
	contentType := req.ContentType()

	url, err := s.storage.UploadFileBytes(ctx, constant.Empty, s.directory(req.PropertyID), id+base64.Extension(contentType), contentType, content)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload media")

		return res, fmt.Errorf("failed to upload media: %w", err)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	media := req.ToModel(id, user, url)

	if err = s.repo.Insert(ctx, media); err != nil {
		log.Error().Err(err).Msg("failed to save media")

		s.removeObject(ctx, url)

		return res, fmt.Errorf("failed to save media: %w", err)
	}

	if media.IsFeatured {
		if err = s.unfeatureOthers(ctx, media, user); err != nil {
			return res, err
		}
	}

	s.invalidate(ctx, media.PropertyID)

	res.FromModel(media)

	return res, nil
}

// GetAll lists a property's media in display order.
func (s *serviceImpl) GetAll(ctx context.Context, propertyID string) (res dto.GetMediaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".media.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetAllMedia, propertyID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for media")

		return res, nil
	}

	params := gDto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   constant.MaxValueLimit,
		SortBy:  model.TableName + "." + model.FieldSortOrder,
		SortDir: gDto.SortDirAsc,
	}

	models, err := s.repo.GetAll(ctx, params, model.ByProperty(propertyID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get media")

		return res, fmt.Errorf("failed to get media: %w", err)
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save media to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMediaRequest, id string) (res dto.MediaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".media.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	media, err := s.getOwned(ctx, id)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(media.ID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update media")

		return res, fmt.Errorf("failed to update media: %w", err)
	}

	if req.IsFeatured != nil && *req.IsFeatured {
		if err = s.unfeatureOthers(ctx, media, user); err != nil {
			return res, err
		}
	}

	s.invalidate(ctx, media.PropertyID)

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload media")

		return res, fmt.Errorf("failed to reload media: %w", err)
	}

	res.FromModel(updated)

	return res, nil
}

// Delete detaches the media and removes its object in the background.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".media.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	media, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(media.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete media")

		return fmt.Errorf("failed to delete media: %w", err)
	}

	s.removeObject(ctx, media.URL)
	s.invalidate(ctx, media.PropertyID)

	return nil
}

func (s *serviceImpl) getOwned(ctx context.Context, id string) (model.Media, error) {
	media, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get media")

		return media, fmt.Errorf("failed to get media: %w", err)
	}

	if media.ID == constant.Empty {
		return media, failure.NotFound("media not found") // nolint:wrapcheck
	}

	return media, s.checkOwner(ctx, media.PropertyID)
}

// checkOwner allows the property's host and admins.
func (s *serviceImpl) checkOwner(ctx context.Context, propertyID string) error {
	property, err := s.propertyRepo.Get(ctx, propertyModel.NotDeleted(shared.FilterByID(propertyID, propertyModel.FieldID, propertyModel.TableName)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return failure.NotFound("property not found") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleAdmin && property.HostID != user {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) unfeatureOthers(ctx context.Context, media model.Media, user string) error {
	fields := map[string]any{
		model.FieldIsFeatured:    false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, fields, model.OtherFeatured(media.PropertyID, media.ID)); err != nil {
		log.Error().Err(err).Msg("failed to clear featured media")

		return fmt.Errorf("failed to clear featured media: %w", err)
	}

	return nil
}

func (s *serviceImpl) directory(propertyID string) string {
	directory := s.cfg.App.Media.Directory
	if directory == constant.Empty {
		directory = defaultMediaDirectory
	}

	return path.Join(directory, propertyID)
}

func (s *serviceImpl) removeObject(ctx context.Context, url string) {
	objectName := s.storage.GetObjectNameFromURL(constant.Empty, url)
	if objectName == constant.Empty {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.storage.DeleteFile(c, constant.Empty, constant.Empty, objectName); err != nil {
			log.Error().Err(err).Str("object", objectName).Msg("failed to delete media object")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, propertyID string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetAllMedia, propertyID)); err != nil {
		log.Error().Err(err).Msg("failed to delete media from cache")
	}
}
