//go:build wireinject
// +build wireinject

package di

import (
	"motorpool/config"
	"motorpool/infras/jwt"
	"motorpool/infras/kafka"
	"motorpool/infras/otel"
	"motorpool/infras/postgres"
	"motorpool/infras/redis"
	"motorpool/infras/s3"
	"motorpool/internal/notifier"
	"motorpool/permissions"
	"motorpool/shared/cache"
	"motorpool/transport/http"
	"motorpool/transport/http/middleware"
	"motorpool/transport/http/router"

	"github.com/google/wire"

	authService "motorpool/internal/domains/auth/service"
	availabilityService "motorpool/internal/domains/availability/service"
	planService "motorpool/internal/domains/plan/service"
	reservationRepository "motorpool/internal/domains/reservation/repository"
	reservationService "motorpool/internal/domains/reservation/service"
	segmentRepository "motorpool/internal/domains/segment/repository"
	segmentService "motorpool/internal/domains/segment/service"
	userRepository "motorpool/internal/domains/user/repository"
	userService "motorpool/internal/domains/user/service"
	vehicleRepository "motorpool/internal/domains/vehicle/repository"
	vehicleService "motorpool/internal/domains/vehicle/service"

	authHandler "motorpool/internal/handlers/auth"
	planHandler "motorpool/internal/handlers/plan"
	reservationHandler "motorpool/internal/handlers/reservation"
	segmentHandler "motorpool/internal/handlers/segment"
	userHandler "motorpool/internal/handlers/user"
	vehicleHandler "motorpool/internal/handlers/vehicle"
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
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var fleetDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
	availabilityService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
	segmentRepository.New,
	segmentService.New,
	notifier.New,
)

var planDomain = wire.NewSet(
	planService.New,
)

var domains = wire.NewSet(
	authDomain,
	fleetDomain,
	reservationDomain,
	planDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	vehicleHandler.New,
	reservationHandler.New,
	segmentHandler.New,
	planHandler.New,
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

func InitializeSweeper() reservationService.Reservation {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		cache.NewRedisCache,
		userRepository.New,
		vehicleRepository.New,
		reservationRepository.New,
		segmentRepository.New,
		availabilityService.New,
		notifier.New,
		reservationService.New,
	)

	return nil
}
