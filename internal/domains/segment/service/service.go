package service

import (
	"context"
	"fmt"
	"motorpool/config"
	"motorpool/infras/otel"
	availService "motorpool/internal/domains/availability/service"
	resModel "motorpool/internal/domains/reservation/model"
	resRepo "motorpool/internal/domains/reservation/repository"
	"motorpool/internal/domains/segment/model"
	"motorpool/internal/domains/segment/model/dto"
	"motorpool/internal/domains/segment/repository"
	vehicleModel "motorpool/internal/domains/vehicle/model"
	vehicleRepo "motorpool/internal/domains/vehicle/repository"
	"motorpool/internal/notifier"
	"motorpool/internal/schedule"
	"motorpool/shared"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

// Segment splits a reservation's span across vehicles. Assigning a day or a
// sub-range to a vehicle converts a whole-vehicle reservation into explicit
// segments; the days not named keep the prior vehicle through filler
// segments, so no coverage is silently lost.
type Segment interface {
	SegmentDay(ctx context.Context, reservationID string, req dto.AssignDayRequest) error
	SegmentRange(ctx context.Context, reservationID string, req dto.AssignRangeRequest) error
	DeleteDay(ctx context.Context, reservationID string, req dto.DeleteDayRequest) error
	Update(ctx context.Context, id string, req dto.UpdateSegmentRequest) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Segment
	resRepo      resRepo.Reservation
	vehicleRepo  vehicleRepo.Vehicle
	availability availService.Availability
	notifier     notifier.Notifier
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Segment, resRepo resRepo.Reservation, vehicleRepo vehicleRepo.Vehicle, availability availService.Availability, notifier notifier.Notifier, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Segment {
	return &serviceImpl{
		repo:         repo,
		resRepo:      resRepo,
		vehicleRepo:  vehicleRepo,
		availability: availability,
		notifier:     notifier,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) SegmentDay(ctx context.Context, reservationID string, req dto.AssignDayRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SegmentDay")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	day, err := req.ParseDay()
	if err != nil {
		return err
	}

	span := schedule.TimeRange{Start: reservation.StartAt, End: reservation.EndAt}

	window := schedule.DayAssignmentWindow(span, day)
	if window.IsEmpty() {
		return failure.BadRequestFromString("day is outside the reservation span") //nolint:wrapcheck
	}

	return s.assign(ctx, reservation, window, req.VehicleID)
}

func (s *serviceImpl) SegmentRange(ctx context.Context, reservationID string, req dto.AssignRangeRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SegmentRange")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	rng, err := req.ParseRange()
	if err != nil {
		return err
	}

	span := schedule.TimeRange{Start: reservation.StartAt, End: reservation.EndAt}

	if !span.Contains(rng) {
		return failure.BadRequestFromString("range is outside the reservation span") //nolint:wrapcheck
	}

	return s.assign(ctx, reservation, rng, req.VehicleID)
}

// assign is the shared write path of SegmentDay and SegmentRange. The
// conflict check runs before any write; a conflicting vehicle leaves the
// reservation untouched.
func (s *serviceImpl) assign(ctx context.Context, reservation resModel.Reservation, window schedule.TimeRange, vehicleID string) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	vehicle, err := s.loadVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}

	conflict, err := s.availability.IsConflicting(ctx, vehicle.ID, window, reservation.ID)
	if err != nil {
		return err
	}

	if conflict {
		return failure.Conflict("vehicle is already claimed over this period") //nolint:wrapcheck
	}

	existing, err := s.reservationSegments(ctx, reservation.ID)
	if err != nil {
		return err
	}

	// An overlapping segment is retargeted in place instead of stacking a
	// second claim over the same window.
	for _, seg := range existing {
		if !window.Overlaps(seg.Range()) {
			continue
		}

		updated := map[string]any{
			model.FieldVehicleID:     vehicle.ID,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err = s.repo.Update(ctx, updated, shared.FilterByID(seg.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update segment")

			return fmt.Errorf("failed to update segment: %w", err)
		}

		s.notifier.Notify(ctx, notifier.EventSegmentUpdated, reservation, vehicle.Label, seg.StartAt, seg.EndAt)
		s.invalidate(ctx, reservation.ID)

		return nil
	}

	segments := []model.Segment{s.newSegment(reservation.ID, vehicle.ID, window, user)}

	// While the reservation holds a whole vehicle, every day not covered by
	// a segment keeps that vehicle through per-day fillers. Existing
	// segments count as coverage, so re-segmenting after an approve leaves
	// no hole behind.
	if reservation.VehicleID != nil {
		span := schedule.TimeRange{Start: reservation.StartAt, End: reservation.EndAt}

		taken := []schedule.TimeRange{window}
		for _, seg := range existing {
			taken = append(taken, seg.Range())
		}

		for _, gap := range schedule.Gaps(span, taken) {
			for _, piece := range schedule.SplitByDay(gap) {
				segments = append(segments, s.newSegment(reservation.ID, *reservation.VehicleID, piece, user))
			}
		}
	}

	if err = s.repo.InsertBulk(ctx, segments); err != nil {
		log.Error().Err(err).Msg("failed to insert segments")

		return fmt.Errorf("failed to insert segments: %w", err)
	}

	// Segments now carry the coverage; the whole-vehicle pointer goes away
	// and the reservation is approved by the act of assigning.
	updated := map[string]any{
		resModel.FieldVehicleID:  nil,
		resModel.FieldStatus:     resModel.StatusApproved,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.resRepo.Update(ctx, updated, shared.FilterByID(reservation.ID, resModel.FieldID, resModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update reservation after segmentation")

		return fmt.Errorf("failed to update reservation after segmentation: %w", err)
	}

	s.notifier.Notify(ctx, notifier.EventSegmentAssigned, reservation, vehicle.Label, window.Start, window.End)
	s.invalidate(ctx, reservation.ID)

	return nil
}

// DeleteDay removes vehicle coverage from one day. On a segmented
// reservation it drops the segments overlapping the day; on a whole-vehicle
// reservation it keeps the other days covered through fillers and clears the
// whole-vehicle pointer.
func (s *serviceImpl) DeleteDay(ctx context.Context, reservationID string, req dto.DeleteDayRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteDay")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	day, err := req.ParseDay()
	if err != nil {
		return err
	}

	span := schedule.TimeRange{Start: reservation.StartAt, End: reservation.EndAt}

	window := span.Clip(schedule.DayWindow(day))
	if window.IsEmpty() {
		return failure.BadRequestFromString("day is outside the reservation span") //nolint:wrapcheck
	}

	overlapping := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldReservationID,
				Operator: gDto.FilterOperatorEq,
				Value:    reservation.ID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndAt,
				ArgName:  "overlap_start",
				Operator: gDto.FilterOperatorGreater,
				Value:    window.Start,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStartAt,
				ArgName:  "overlap_end",
				Operator: gDto.FilterOperatorLess,
				Value:    window.End,
				Table:    model.TableName,
			},
		},
	}

	exist, err := s.repo.Exist(ctx, overlapping)
	if err != nil {
		log.Error().Err(err).Msg("failed to check segments for day")

		return fmt.Errorf("failed to check segments for day: %w", err)
	}

	if exist {
		if err = s.repo.Delete(ctx, overlapping); err != nil {
			log.Error().Err(err).Msg("failed to delete segments for day")

			return fmt.Errorf("failed to delete segments for day: %w", err)
		}

		s.notifier.Notify(ctx, notifier.EventDayRemoved, reservation, constant.Empty, window.Start, window.End)
		s.invalidate(ctx, reservation.ID)

		return nil
	}

	if reservation.VehicleID == nil {
		return failure.NotFound("no vehicle assigned on this day") //nolint:wrapcheck
	}

	// Whole-vehicle reservation: the day becomes uncovered, the rest of the
	// span keeps the current vehicle as fillers.
	fillers := []model.Segment{}

	for _, gap := range schedule.Gaps(span, []schedule.TimeRange{window}) {
		for _, piece := range schedule.SplitByDay(gap) {
			fillers = append(fillers, s.newSegment(reservation.ID, *reservation.VehicleID, piece, user))
		}
	}

	if len(fillers) > 0 {
		if err = s.repo.InsertBulk(ctx, fillers); err != nil {
			log.Error().Err(err).Msg("failed to insert filler segments")

			return fmt.Errorf("failed to insert filler segments: %w", err)
		}
	}

	updated := map[string]any{
		resModel.FieldVehicleID:  nil,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.resRepo.Update(ctx, updated, shared.FilterByID(reservation.ID, resModel.FieldID, resModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to clear reservation vehicle")

		return fmt.Errorf("failed to clear reservation vehicle: %w", err)
	}

	s.notifier.Notify(ctx, notifier.EventDayRemoved, reservation, constant.Empty, window.Start, window.End)
	s.invalidate(ctx, reservation.ID)

	return nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateSegmentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	segment, err := s.loadSegment(ctx, id)
	if err != nil {
		return err
	}

	reservation, err := s.loadReservation(ctx, segment.ReservationID)
	if err != nil {
		return err
	}

	vehicle, err := s.loadVehicle(ctx, req.VehicleID)
	if err != nil {
		return err
	}

	conflict, err := s.availability.IsConflicting(ctx, vehicle.ID, segment.Range(), segment.ReservationID)
	if err != nil {
		return err
	}

	if conflict {
		return failure.Conflict("vehicle is already claimed over this period") //nolint:wrapcheck
	}

	updated := map[string]any{
		model.FieldVehicleID:     vehicle.ID,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update segment")

		return fmt.Errorf("failed to update segment: %w", err)
	}

	s.notifier.Notify(ctx, notifier.EventSegmentUpdated, reservation, vehicle.Label, segment.StartAt, segment.EndAt)
	s.invalidate(ctx, segment.ReservationID)

	return nil
}

// Delete removes one segment. The freed window stays uncovered; re-assign it
// with SegmentDay or SegmentRange if needed.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	segment, err := s.loadSegment(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete segment")

		return fmt.Errorf("failed to delete segment: %w", err)
	}

	s.invalidate(ctx, segment.ReservationID)

	return nil
}

func (s *serviceImpl) newSegment(reservationID, vehicleID string, rng schedule.TimeRange, user string) model.Segment {
	return model.Segment{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		VehicleID:     vehicleID,
		StartAt:       rng.Start,
		EndAt:         rng.End,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func (s *serviceImpl) reservationSegments(ctx context.Context, reservationID string) ([]model.Segment, error) {
	params := gDto.QueryParams{
		SortBy:  model.FieldStartAt,
		SortDir: gDto.SortDirAsc,
	}

	segments, err := s.repo.GetAll(ctx, params, shared.FilterByID(reservationID, model.FieldReservationID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation segments")

		return nil, fmt.Errorf("failed to get reservation segments: %w", err)
	}

	return segments, nil
}

func (s *serviceImpl) loadReservation(ctx context.Context, id string) (resModel.Reservation, error) {
	reservation, err := s.resRepo.Get(ctx, shared.FilterByID(id, resModel.FieldID, resModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) loadVehicle(ctx context.Context, id string) (vehicleModel.Vehicle, error) {
	vehicle, err := s.vehicleRepo.Get(ctx, shared.FilterByID(id, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return vehicle, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return vehicle, failure.NotFound("vehicle not found") //nolint:wrapcheck
	}

	return vehicle, nil
}

func (s *serviceImpl) loadSegment(ctx context.Context, id string) (model.Segment, error) {
	segment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get segment")

		return segment, fmt.Errorf("failed to get segment: %w", err)
	}

	if segment.ID == constant.Empty {
		return segment, failure.NotFound("segment not found") //nolint:wrapcheck
	}

	return segment, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, reservationID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, reservationID)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}
