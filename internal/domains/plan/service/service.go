package service

import (
	"context"
	b64 "encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"motorpool/config"
	"motorpool/infras/otel"
	"motorpool/infras/s3"
	"motorpool/internal/domains/plan/model/dto"
	resModel "motorpool/internal/domains/reservation/model"
	resRepo "motorpool/internal/domains/reservation/repository"
	segModel "motorpool/internal/domains/segment/model"
	segRepo "motorpool/internal/domains/segment/repository"
	vehicleModel "motorpool/internal/domains/vehicle/model"
	vehicleRepo "motorpool/internal/domains/vehicle/repository"
	"motorpool/internal/schedule"
	"motorpool/shared"
	"motorpool/shared/base64"
	"motorpool/shared/cache"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/timezone"
)

const (
	cacheMonthPlan = "plan:month"

	exportDirectory   = "plans"
	exportContentType = "application/pdf"

	dayFormat = "2006-01-02"
)

// Plan projects the fleet schedule of one month and stores exported copies.
// Archived reservations stay visible here: the plan is the historical record.
type Plan interface {
	Month(ctx context.Context, year, month int) (dto.MonthPlanResponse, error)
	StoreExport(ctx context.Context, year, month int, req dto.StoreExportRequest) (dto.StoreExportResponse, error)
}

type serviceImpl struct {
	vehicleRepo vehicleRepo.Vehicle
	resRepo     resRepo.Reservation
	segRepo     segRepo.Segment
	s3          s3.S3
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(vehicleRepo vehicleRepo.Vehicle, resRepo resRepo.Reservation, segRepo segRepo.Segment, s3 s3.S3, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Plan {
	return &serviceImpl{
		vehicleRepo: vehicleRepo,
		resRepo:     resRepo,
		segRepo:     segRepo,
		s3:          s3,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Month(ctx context.Context, year, month int) (res dto.MonthPlanResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Month")
	defer scope.End()
	defer scope.TraceIfError(err)

	if month < 1 || month > 12 {
		return res, failure.BadRequestFromString("month must be between 1 and 12") //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheMonthPlan, fmt.Sprintf("%04d-%02d", year, month))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for month plan")

		return res, nil
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.GetLocation())
	monthRange := schedule.TimeRange{Start: start, End: start.AddDate(0, 1, 0)}

	vehicles, err := s.vehicleRepo.GetAll(ctx, gDto.QueryParams{SortBy: vehicleModel.FieldCode, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to list vehicles")

		return res, fmt.Errorf("failed to list vehicles: %w", err)
	}

	whole, err := s.wholeReservations(ctx, monthRange)
	if err != nil {
		return res, err
	}

	segments, parents, err := s.monthSegments(ctx, monthRange)
	if err != nil {
		return res, err
	}

	res.Year = year
	res.Month = month
	res.Vehicles = make([]dto.VehiclePlan, 0, len(vehicles))

	for _, v := range vehicles {
		plan := dto.VehiclePlan{Assignments: []dto.PlanAssignment{}}
		plan.Vehicle.FromModel(v)

		for _, reservation := range whole {
			if reservation.VehicleID == nil || *reservation.VehicleID != v.ID {
				continue
			}

			rng := schedule.TimeRange{Start: reservation.StartAt, End: reservation.EndAt}
			plan.Assignments = append(plan.Assignments, assignment(reservation, rng, monthRange))
		}

		for _, segment := range segments {
			if segment.VehicleID != v.ID {
				continue
			}

			parent, ok := parents[segment.ReservationID]
			if !ok || parent.Status == resModel.StatusRejected {
				continue
			}

			plan.Assignments = append(plan.Assignments, assignment(parent, segment.Range(), monthRange))
		}

		res.Vehicles = append(res.Vehicles, plan)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save month plan to cache")
		}
	}()

	return res, nil
}

// StoreExport decodes a client-rendered export and uploads it for later
// retrieval. Rendering stays on the client; this only stores the result.
func (s *serviceImpl) StoreExport(ctx context.Context, year, month int, req dto.StoreExportRequest) (res dto.StoreExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StoreExport")
	defer scope.End()
	defer scope.TraceIfError(err)

	if month < 1 || month > 12 {
		return res, failure.BadRequestFromString("month must be between 1 and 12") //nolint:wrapcheck
	}

	contentType := base64.GetContentType(req.File)
	if contentType == constant.Empty {
		contentType = exportContentType
	}

	payload := req.File
	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		payload = payload[idx+len(";base64,"):]
	}

	data, err := b64.StdEncoding.DecodeString(payload)
	if err != nil {
		return res, failure.BadRequestFromString("file is not valid base64") //nolint:wrapcheck
	}

	fileName := fmt.Sprintf("plan-%04d-%02d.pdf", year, month)

	url, err := s.s3.UploadFileBytes(ctx, constant.Empty, exportDirectory, fileName, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload plan export")

		return res, fmt.Errorf("failed to upload plan export: %w", err)
	}

	return dto.StoreExportResponse{URL: url}, nil
}

func (s *serviceImpl) wholeReservations(ctx context.Context, monthRange schedule.TimeRange) ([]resModel.Reservation, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    resModel.FieldVehicleID,
				Operator: gDto.FilterIsNotNull,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    resModel.StatusApproved,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldEndAt,
				ArgName:  "month_start",
				Operator: gDto.FilterOperatorGreater,
				Value:    monthRange.Start,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldStartAt,
				ArgName:  "month_end",
				Operator: gDto.FilterOperatorLess,
				Value:    monthRange.End,
				Table:    resModel.TableName,
			},
		},
	}

	reservations, err := s.resRepo.GetAll(ctx, gDto.QueryParams{SortBy: resModel.FieldStartAt, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list month reservations")

		return nil, fmt.Errorf("failed to list month reservations: %w", err)
	}

	return reservations, nil
}

func (s *serviceImpl) monthSegments(ctx context.Context, monthRange schedule.TimeRange) ([]segModel.Segment, map[string]resModel.Reservation, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    segModel.FieldEndAt,
				ArgName:  "month_start",
				Operator: gDto.FilterOperatorGreater,
				Value:    monthRange.Start,
				Table:    segModel.TableName,
			},
			gDto.Filter{
				Field:    segModel.FieldStartAt,
				ArgName:  "month_end",
				Operator: gDto.FilterOperatorLess,
				Value:    monthRange.End,
				Table:    segModel.TableName,
			},
		},
	}

	segments, err := s.segRepo.GetAll(ctx, gDto.QueryParams{SortBy: segModel.FieldStartAt, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list month segments")

		return nil, nil, fmt.Errorf("failed to list month segments: %w", err)
	}

	parents := map[string]resModel.Reservation{}

	if len(segments) == 0 {
		return segments, parents, nil
	}

	ids := []string{}
	seen := map[string]bool{}

	for _, segment := range segments {
		if seen[segment.ReservationID] {
			continue
		}

		seen[segment.ReservationID] = true
		ids = append(ids, segment.ReservationID)
	}

	parentFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    resModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    resModel.TableName,
			},
		},
	}

	reservations, err := s.resRepo.GetAll(ctx, gDto.QueryParams{}, parentFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list segment reservations")

		return nil, nil, fmt.Errorf("failed to list segment reservations: %w", err)
	}

	for _, reservation := range reservations {
		parents[reservation.ID] = reservation
	}

	return segments, parents, nil
}

func assignment(reservation resModel.Reservation, rng, monthRange schedule.TimeRange) dto.PlanAssignment {
	entry := dto.PlanAssignment{
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		Purpose:       reservation.Purpose,
		StartAt:       timezone.Format(rng.Start, constant.DateFormat),
		EndAt:         timezone.Format(rng.End, constant.DateFormat),
		Carpool:       reservation.Carpool,
		CarpoolWith:   reservation.CarpoolWith,
		Days:          []dto.PlanDay{},
	}

	for _, member := range reservation.CarpoolDetails {
		entry.CarpoolMembers = append(entry.CarpoolMembers, dto.PlanCarpoolMember(member))
	}

	for _, piece := range schedule.SplitByDay(rng.Clip(monthRange)) {
		entry.Days = append(entry.Days, dto.PlanDay{
			Day:       timezone.Format(piece.Start, dayFormat),
			SlotLabel: schedule.Label(rng, piece.Start),
		})
	}

	return entry
}
