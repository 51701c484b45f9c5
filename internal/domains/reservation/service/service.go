package service

import (
	"context"
	"fmt"
	"motorpool/config"
	"motorpool/infras/otel"
	availService "motorpool/internal/domains/availability/service"
	"motorpool/internal/domains/reservation/model"
	"motorpool/internal/domains/reservation/model/dto"
	"motorpool/internal/domains/reservation/repository"
	segModel "motorpool/internal/domains/segment/model"
	segDto "motorpool/internal/domains/segment/model/dto"
	segRepo "motorpool/internal/domains/segment/repository"
	vehicleModel "motorpool/internal/domains/vehicle/model"
	vehicleRepo "motorpool/internal/domains/vehicle/repository"
	"motorpool/internal/notifier"
	"motorpool/internal/schedule"
	"motorpool/shared"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"

	sweepActor = "retention-sweep"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Approve(ctx context.Context, id string, req dto.ApproveReservationRequest) error
	Reject(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ExpireSweep(ctx context.Context) (dto.ExpireSweepResponse, error)
	PurgeArchived(ctx context.Context) (dto.PurgeArchivedResponse, error)
}

type serviceImpl struct {
	repo         repository.Reservation
	segRepo      segRepo.Segment
	vehicleRepo  vehicleRepo.Vehicle
	availability availService.Availability
	notifier     notifier.Notifier
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Reservation, segRepo segRepo.Segment, vehicleRepo vehicleRepo.Vehicle, availability availService.Availability, notifier notifier.Notifier, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:         repo,
		segRepo:      segRepo,
		vehicleRepo:  vehicleRepo,
		availability: availability,
		notifier:     notifier,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := req.ToModel(user)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return fmt.Errorf("failed to create reservation: %w", err)
	}

	s.invalidateLists(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	segments, err := s.segments(ctx, id)
	if err != nil {
		return res, err
	}

	span := schedule.TimeRange{Start: reservation.StartAt, End: reservation.EndAt}

	res.FromModel(reservation)
	res.WithCoverage(reservation, segDto.FromModels(segments, span))

	return res, nil
}

// Approve assigns a vehicle to the whole span. The conflict check runs
// strictly before the write; nothing mutates when it fails.
func (s *serviceImpl) Approve(ctx context.Context, id string, req dto.ApproveReservationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	vehicle, err := s.vehicleRepo.Get(ctx, shared.FilterByID(req.VehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return failure.NotFound("vehicle not found") //nolint:wrapcheck
	}

	span := schedule.TimeRange{Start: reservation.StartAt, End: reservation.EndAt}

	conflict, err := s.availability.IsConflicting(ctx, vehicle.ID, span, reservation.ID)
	if err != nil {
		return err
	}

	if conflict {
		return failure.Conflict("vehicle is already claimed over this period") //nolint:wrapcheck
	}

	updated := map[string]any{
		model.FieldVehicleID:     vehicle.ID,
		model.FieldStatus:        model.StatusApproved,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to approve reservation")

		return fmt.Errorf("failed to approve reservation: %w", err)
	}

	s.notifier.Notify(ctx, notifier.EventReservationApproved, reservation, vehicle.Label, reservation.StartAt, reservation.EndAt)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Reject(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = s.load(ctx, id); err != nil {
		return err
	}

	updated := map[string]any{
		model.FieldStatus:        model.StatusRejected,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to reject reservation")

		return fmt.Errorf("failed to reject reservation: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes a reservation in any state; segments go with it through the
// ON DELETE CASCADE on reservation_segments.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.load(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// ExpireSweep deletes stale pending requests and archives finished ones.
// Both filters exclude already-processed rows, so rerunning the sweep with
// no intervening changes reports zero affected rows.
func (s *serviceImpl) ExpireSweep(ctx context.Context) (res dto.ExpireSweepResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExpireSweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	pendingThreshold := now.AddDate(0, 0, -s.cfg.Retention.PendingGraceDays)
	archiveThreshold := now.AddDate(0, 0, -s.cfg.Retention.ArchiveGraceDays)

	pendingFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusPending,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndAt,
				Operator: gDto.FilterOperatorLess,
				Value:    pendingThreshold,
				Table:    model.TableName,
			},
		},
	}

	deleted, err := s.repo.DeleteCount(ctx, pendingFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete expired pending reservations")

		return res, fmt.Errorf("failed to delete expired pending reservations: %w", err)
	}

	archiveFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    model.StatusPending,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndAt,
				Operator: gDto.FilterOperatorLess,
				Value:    archiveThreshold,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldArchivedAt,
				Operator: gDto.FilterIsNull,
				Table:    model.TableName,
			},
		},
	}

	updated := map[string]any{
		model.FieldArchivedAt:    now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: sweepActor,
	}

	archived, err := s.repo.UpdateCount(ctx, updated, archiveFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to archive finished reservations")

		return res, fmt.Errorf("failed to archive finished reservations: %w", err)
	}

	if deleted > 0 || archived > 0 {
		s.invalidateLists(ctx)
	}

	log.Info().Int64("pending_deleted", deleted).Int64("archived", archived).Msg("expire sweep completed")

	return dto.ExpireSweepResponse{PendingDeleted: deleted, Archived: archived, SweptAt: now}, nil
}

// PurgeArchived hard-deletes reservations archived longer than the retention
// window, regardless of status.
func (s *serviceImpl) PurgeArchived(ctx context.Context) (res dto.PurgeArchivedResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PurgeArchived")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	cutoff := now.AddDate(0, 0, -s.cfg.Retention.PurgeMaxAgeDays)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldArchivedAt,
				ArgName:  "archived_not_null",
				Operator: gDto.FilterIsNotNull,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldArchivedAt,
				Operator: gDto.FilterOperatorLess,
				Value:    cutoff,
				Table:    model.TableName,
			},
		},
	}

	deleted, err := s.repo.DeleteCount(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge archived reservations")

		return res, fmt.Errorf("failed to purge archived reservations: %w", err)
	}

	if deleted > 0 {
		s.invalidateLists(ctx)
	}

	log.Info().Int64("deleted", deleted).Msg("archive purge completed")

	return dto.PurgeArchivedResponse{Deleted: deleted, SweptAt: now}, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) segments(ctx context.Context, reservationID string) ([]segModel.Segment, error) {
	params := gDto.QueryParams{
		SortBy:  segModel.FieldStartAt,
		SortDir: gDto.SortDirAsc,
	}

	segments, err := s.segRepo.GetAll(ctx, params, shared.FilterByID(reservationID, segModel.FieldReservationID, segModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation segments")

		return nil, fmt.Errorf("failed to get reservation segments: %w", err)
	}

	return segments, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}
