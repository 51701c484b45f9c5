package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"motorpool/infras/otel"
	"motorpool/internal/domains/availability/model/dto"
	resModel "motorpool/internal/domains/reservation/model"
	resRepo "motorpool/internal/domains/reservation/repository"
	segModel "motorpool/internal/domains/segment/model"
	segRepo "motorpool/internal/domains/segment/repository"
	vehicleModel "motorpool/internal/domains/vehicle/model"
	vehicleRepo "motorpool/internal/domains/vehicle/repository"
	"motorpool/internal/schedule"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
)

// Availability answers whether a vehicle is claimed over a time range. A
// claim is either a segment or a whole non-rejected reservation assigned to
// the vehicle, under the half-open overlap rule. Every vehicle assignment
// goes through IsConflicting before it is committed.
type Availability interface {
	IsConflicting(ctx context.Context, vehicleID string, rng schedule.TimeRange, excludeReservationID string) (bool, error)
	Vehicles(ctx context.Context, rng schedule.TimeRange) ([]dto.VehicleAvailability, error)
}

type serviceImpl struct {
	vehicleRepo vehicleRepo.Vehicle
	resRepo     resRepo.Reservation
	segRepo     segRepo.Segment
	otel        otel.Otel
}

func New(vehicleRepo vehicleRepo.Vehicle, resRepo resRepo.Reservation, segRepo segRepo.Segment, otel otel.Otel) Availability {
	return &serviceImpl{
		vehicleRepo: vehicleRepo,
		resRepo:     resRepo,
		segRepo:     segRepo,
		otel:        otel,
	}
}

func (s *serviceImpl) IsConflicting(ctx context.Context, vehicleID string, rng schedule.TimeRange, excludeReservationID string) (res bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsConflicting")
	defer scope.End()
	defer scope.TraceIfError(err)

	segmentFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    segModel.FieldVehicleID,
				Operator: gDto.FilterOperatorEq,
				Value:    vehicleID,
				Table:    segModel.TableName,
			},
			gDto.Filter{
				Field:    segModel.FieldEndAt,
				ArgName:  "overlap_start",
				Operator: gDto.FilterOperatorGreater,
				Value:    rng.Start,
				Table:    segModel.TableName,
			},
			gDto.Filter{
				Field:    segModel.FieldStartAt,
				ArgName:  "overlap_end",
				Operator: gDto.FilterOperatorLess,
				Value:    rng.End,
				Table:    segModel.TableName,
			},
		},
	}

	if excludeReservationID != constant.Empty {
		segmentFilter.Filters = append(segmentFilter.Filters, gDto.Filter{
			Field:    segModel.FieldReservationID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeReservationID,
			Table:    segModel.TableName,
		})
	}

	claimed, err := s.segRepo.Exist(ctx, segmentFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check segment claims")

		return false, fmt.Errorf("failed to check segment claims: %w", err)
	}

	if claimed {
		return true, nil
	}

	reservationFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    resModel.FieldVehicleID,
				Operator: gDto.FilterOperatorEq,
				Value:    vehicleID,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    resModel.StatusRejected,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldEndAt,
				ArgName:  "overlap_start",
				Operator: gDto.FilterOperatorGreater,
				Value:    rng.Start,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldStartAt,
				ArgName:  "overlap_end",
				Operator: gDto.FilterOperatorLess,
				Value:    rng.End,
				Table:    resModel.TableName,
			},
		},
	}

	if excludeReservationID != constant.Empty {
		reservationFilter.Filters = append(reservationFilter.Filters, gDto.Filter{
			Field:    resModel.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeReservationID,
			Table:    resModel.TableName,
		})
	}

	claimed, err = s.resRepo.Exist(ctx, reservationFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check reservation claims")

		return false, fmt.Errorf("failed to check reservation claims: %w", err)
	}

	return claimed, nil
}

// Vehicles reports free/busy for every vehicle over the range, in stable
// vehicle-code order.
func (s *serviceImpl) Vehicles(ctx context.Context, rng schedule.TimeRange) (res []dto.VehicleAvailability, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Vehicles")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{
		SortBy:  vehicleModel.FieldCode,
		SortDir: gDto.SortDirAsc,
	}

	vehicles, err := s.vehicleRepo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to list vehicles")

		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	res = make([]dto.VehicleAvailability, 0, len(vehicles))

	for _, v := range vehicles {
		conflict, err := s.IsConflicting(ctx, v.ID, rng, constant.Empty)
		if err != nil {
			return nil, err
		}

		entry := dto.VehicleAvailability{Free: !conflict}
		entry.Vehicle.FromModel(v)

		res = append(res, entry)
	}

	return res, nil
}
