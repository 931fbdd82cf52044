//go:build wireinject
// +build wireinject

package di

import (
	"rentfy/config"
	"rentfy/infras/jwt"
	"rentfy/infras/kafka"
	"rentfy/infras/otel"
	"rentfy/infras/postgres"
	"rentfy/infras/redis"
	"rentfy/infras/s3"
	"rentfy/internal/events"
	"rentfy/permissions"
	"rentfy/shared/cache"
	"rentfy/transport/http"
	"rentfy/transport/http/middleware"
	"rentfy/transport/http/router"

	"github.com/google/wire"

	authService "rentfy/internal/domains/auth/service"
	bookingRepository "rentfy/internal/domains/booking/repository"
	bookingService "rentfy/internal/domains/booking/service"
	mediaRepository "rentfy/internal/domains/media/repository"
	mediaService "rentfy/internal/domains/media/service"
	paymentRepository "rentfy/internal/domains/payment/repository"
	paymentService "rentfy/internal/domains/payment/service"
	propertyRepository "rentfy/internal/domains/property/repository"
	propertyService "rentfy/internal/domains/property/service"
	reviewRepository "rentfy/internal/domains/review/repository"
	reviewService "rentfy/internal/domains/review/service"
	userRepository "rentfy/internal/domains/user/repository"
	userService "rentfy/internal/domains/user/service"
	authHandler "rentfy/internal/handlers/auth"
	bookingHandler "rentfy/internal/handlers/booking"
	healthHandler "rentfy/internal/handlers/health"
	mediaHandler "rentfy/internal/handlers/media"
	paymentHandler "rentfy/internal/handlers/payment"
	propertyHandler "rentfy/internal/handlers/property"
	reviewHandler "rentfy/internal/handlers/review"
	userHandler "rentfy/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.NewPublisher,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var propertyDomain = wire.NewSet(
	propertyRepository.New,
	propertyService.New,
)

var mediaDomain = wire.NewSet(
	mediaRepository.New,
	mediaService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	propertyDomain,
	mediaDomain,
	bookingDomain,
	paymentDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	propertyHandler.New,
	mediaHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reviewHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *events.Worker {
	wire.Build(
		config.Get,
		otel.New,
		redis.New,
		kafka.New,
		cache.NewRedisCache,
		events.NewConsumer,
		events.NewWorker,
	)

	return &events.Worker{}
}
