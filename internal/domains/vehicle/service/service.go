package service

import (
	"context"
	"fmt"
	"motorpool/config"
	"motorpool/infras/otel"
	resModel "motorpool/internal/domains/reservation/model"
	resRepo "motorpool/internal/domains/reservation/repository"
	segModel "motorpool/internal/domains/segment/model"
	segRepo "motorpool/internal/domains/segment/repository"
	"motorpool/internal/domains/vehicle/model"
	"motorpool/internal/domains/vehicle/model/dto"
	"motorpool/internal/domains/vehicle/repository"
	"motorpool/shared"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetVehicle    = "vehicle:get"
	cacheGetAllVehicle = "vehicle:gets"
	cacheCountVehicle  = "vehicle:count"
)

type Vehicle interface {
	Create(ctx context.Context, req dto.CreateVehicleRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVehiclesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.VehicleResponse, error)
	Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Vehicle
	resRepo resRepo.Reservation
	segRepo segRepo.Segment
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Vehicle, resRepo resRepo.Reservation, segRepo segRepo.Segment, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Vehicle {
	return &serviceImpl{
		repo:    repo,
		resRepo: resRepo,
		segRepo: segRepo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateVehicleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	codeFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Code,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, codeFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle code")

		return fmt.Errorf("failed to check vehicle code: %w", err)
	}

	if exists {
		return failure.Conflict("vehicle code already in use") //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create vehicle")

		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllVehicle)
		shared.InvalidateCaches(c, s.cache, cacheCountVehicle)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVehiclesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllVehicle, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicles")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicles")

		return res, fmt.Errorf("failed to get vehicles: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountVehicle, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetVehicle, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	vehicle, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return res, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return res, failure.NotFound("vehicle not found") //nolint:wrapcheck
	}

	res.FromModel(vehicle)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	if req == (dto.UpdateVehicleRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update vehicle")

		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetVehicle, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllVehicle)
		shared.InvalidateCaches(c, s.cache, cacheCountVehicle)
	}()

	return nil
}

// Delete removes a vehicle only while nothing references it: a vehicle held
// by any reservation or segment stays until those records are gone.
func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") //nolint:wrapcheck
	}

	referenced, err := s.resRepo.Exist(ctx, shared.FilterByID(id, resModel.FieldVehicleID, resModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle reservations")

		return fmt.Errorf("failed to check vehicle reservations: %w", err)
	}

	if !referenced {
		referenced, err = s.segRepo.Exist(ctx, shared.FilterByID(id, segModel.FieldVehicleID, segModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check vehicle segments")

			return fmt.Errorf("failed to check vehicle segments: %w", err)
		}
	}

	if referenced {
		return failure.Conflict("vehicle is referenced by reservations") //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete vehicle")

		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetVehicle, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllVehicle)
		shared.InvalidateCaches(c, s.cache, cacheCountVehicle)
	}()

	return nil
}
