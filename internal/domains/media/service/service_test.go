package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rentfy/config"
	"rentfy/infras/otel/mocks"
	s3Mocks "rentfy/infras/s3/mocks"
	mediaMocks "rentfy/internal/domains/media/mocks"
	"rentfy/internal/domains/media/model"
	"rentfy/internal/domains/media/model/dto"
	"rentfy/internal/domains/media/service"
	propertyMocks "rentfy/internal/domains/property/mocks"
	propertyModel "rentfy/internal/domains/property/model"
	cacheMocks "rentfy/shared/cache/mocks"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
)

const propertyID = "5f0c2a56-8a55-4a4e-9a43-2b1f6f4d7c10"

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

type fixture struct {
	svc        service.Media
	repo       *mediaMocks.MockMedia
	properties *propertyMocks.MockProperty
	storage    *s3Mocks.MockS3
	cache      *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       mediaMocks.NewMockMedia(ctrl),
		properties: propertyMocks.NewMockProperty(ctrl),
		storage:    s3Mocks.NewMockS3(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), "media:gets:"+propertyID).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.properties, f.storage, &config.Config{}, f.cache, mocks.NewOtel())

	return f
}

func asUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func ownedBy(hostID string) propertyModel.Property {
	return propertyModel.Property{ID: propertyID, HostID: hostID, Status: propertyModel.StatusActive}
}

func upload(featured bool) dto.UploadMediaRequest {
	header := textproto.MIMEHeader{}
	header.Set(constant.RequestHeaderContentType, "image/png")

	return dto.UploadMediaRequest{
		PropertyID: propertyID,
		IsFeatured: featured,
		File:       &multipart.FileHeader{Filename: "pool.png", Header: header, Size: 4},
		Content:    memFile{bytes.NewReader([]byte("\x89PNG"))},
	}
}

func TestMediaService_Upload(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UploadMediaRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "host uploads featured photo",
			ctx:  asUser("host-1", constant.RoleHost),
			req:  upload(true),
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedBy("host-1"), nil)
				f.storage.EXPECT().UploadFileBytes(gomock.Any(), "", "properties/"+propertyID, gomock.Any(), "image/png", []byte("\x89PNG")).
					Return("https://cdn.rentfy.test/properties/"+propertyID+"/m.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m model.Media) error {
					assert.Equal(t, model.TypeImage, m.Type)
					assert.True(t, m.IsFeatured)

					return nil
				})
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
					assert.Equal(t, false, fields[model.FieldIsFeatured])
					assert.Len(t, filter.Filters, 3)

					return nil
				})
			},
		},
		{
			name: "another host",
			ctx:  asUser("host-2", constant.RoleHost),
			req:  upload(false),
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedBy("host-1"), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "deleted property",
			ctx:  asUser("host-1", constant.RoleHost),
			req:  upload(false),
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(propertyModel.Property{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "storage down",
			ctx:  asUser("admin-1", constant.RoleAdmin),
			req:  upload(false),
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedBy("host-1"), nil)
				f.storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Upload(tt.ctx, tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, propertyID, res.PropertyID)
			assert.NotEmpty(t, res.URL)
		})
	}
}

func TestMediaService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "media:gets:"+propertyID, gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Media, error) {
			assert.Equal(t, "property_media.sort_order", params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			return []model.Media{{ID: "m-1", PropertyID: propertyID, SortOrder: 1}, {ID: "m-2", PropertyID: propertyID, SortOrder: 2}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), propertyID)

	require.NoError(t, err)
	assert.Len(t, res.Media, 2)
	assert.Equal(t, 1, res.Media[0].Order)
}

func TestMediaService_Update(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(asUser("host-1", constant.RoleHost), dto.UpdateMediaRequest{}, "m-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("reorders", func(t *testing.T) {
		f := newFixture(t)
		order := 5
		media := model.Media{ID: "m-1", PropertyID: propertyID}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(media, nil)
		f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedBy("host-1"), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		media.SortOrder = order
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(media, nil)

		res, err := f.svc.Update(asUser("host-1", constant.RoleHost), dto.UpdateMediaRequest{SortOrder: &order}, "m-1")

		require.NoError(t, err)
		assert.Equal(t, order, res.Order)
	})
}

func TestMediaService_Delete(t *testing.T) {
	t.Run("removes row and object", func(t *testing.T) {
		f := newFixture(t)
		url := "https://cdn.rentfy.test/properties/" + propertyID + "/m-1.png"
		done := make(chan struct{})

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Media{ID: "m-1", PropertyID: propertyID, URL: url}, nil)
		f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedBy("host-1"), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.storage.EXPECT().GetObjectNameFromURL("", url).Return("properties/" + propertyID + "/m-1.png")
		f.storage.EXPECT().DeleteFile(gomock.Any(), "", "", "properties/"+propertyID+"/m-1.png").DoAndReturn(func(context.Context, string, string, string) error {
			close(done)

			return nil
		})

		require.NoError(t, f.svc.Delete(asUser("host-1", constant.RoleHost), "m-1"))

		<-done
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Media{}, nil)

		err := f.svc.Delete(asUser("host-1", constant.RoleHost), "m-404")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
