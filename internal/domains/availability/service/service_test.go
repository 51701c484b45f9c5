package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motorpool/infras/otel/mocks"
	"motorpool/internal/domains/availability/service"
	resMocks "motorpool/internal/domains/reservation/mocks"
	resModel "motorpool/internal/domains/reservation/model"
	segMocks "motorpool/internal/domains/segment/mocks"
	segModel "motorpool/internal/domains/segment/model"
	vehicleMocks "motorpool/internal/domains/vehicle/mocks"
	vehicleModel "motorpool/internal/domains/vehicle/model"
	"motorpool/internal/schedule"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
)

func testRange() schedule.TimeRange {
	return schedule.TimeRange{
		Start: time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 2, 17, 0, 0, 0, time.UTC),
	}
}

func filterValues(filter gDto.FilterGroup, field string) []any {
	values := []any{}

	for _, f := range filter.Filters {
		if typed, ok := f.(gDto.Filter); ok && typed.Field == field {
			values = append(values, typed.Value)
		}
	}

	return values
}

func TestAvailabilityService_IsConflicting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVehicleRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockSegRepo := segMocks.NewMockSegment(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockVehicleRepo, mockResRepo, mockSegRepo, mockOtel)

	tests := []struct {
		name      string
		setupMock func()
		want      bool
		wantErr   bool
	}{
		{
			name: "segment claim conflicts without querying reservations",
			setupMock: func() {
				mockSegRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			want: true,
		},
		{
			name: "whole reservation claim conflicts",
			setupMock: func() {
				mockSegRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockResRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			want: true,
		},
		{
			name: "no claims means free",
			setupMock: func() {
				mockSegRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockResRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			want: false,
		},
		{
			name: "segment lookup error",
			setupMock: func() {
				mockSegRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.IsConflicting(context.Background(), "vehicle-1", testRange(), constant.Empty)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, result)
			}
		})
	}
}

func TestAvailabilityService_IsConflicting_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVehicleRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockSegRepo := segMocks.NewMockSegment(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockVehicleRepo, mockResRepo, mockSegRepo, mockOtel)

	mockSegRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			assert.Equal(t, []any{"res-1"}, filterValues(filter, segModel.FieldReservationID))

			return false, nil
		})

	mockResRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			// Rejected reservations never claim a vehicle, and the caller's own
			// reservation is excluded so reschedules do not conflict with themselves.
			assert.Equal(t, []any{resModel.StatusRejected}, filterValues(filter, resModel.FieldStatus))
			assert.Equal(t, []any{"res-1"}, filterValues(filter, resModel.FieldID))

			return false, nil
		})

	result, err := svc.IsConflicting(context.Background(), "vehicle-1", testRange(), "res-1")

	assert.NoError(t, err)
	assert.False(t, result)
}

func TestAvailabilityService_Vehicles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVehicleRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockSegRepo := segMocks.NewMockSegment(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockVehicleRepo, mockResRepo, mockSegRepo, mockOtel)

	vehicles := []vehicleModel.Vehicle{
		{ID: "vehicle-1", Code: "A-01", Label: "Kangoo"},
		{ID: "vehicle-2", Code: "B-02", Label: "Zoe"},
	}

	mockVehicleRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(vehicles, nil)

	// vehicle-1 is claimed by a segment, vehicle-2 is fully free.
	mockSegRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			claimed := filterValues(filter, segModel.FieldVehicleID)[0] == "vehicle-1"

			return claimed, nil
		}).
		Times(2)

	mockResRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(false, nil)

	result, err := svc.Vehicles(context.Background(), testRange())

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "A-01", result[0].Vehicle.Code)
	assert.False(t, result[0].Free)
	assert.Equal(t, "B-02", result[1].Vehicle.Code)
	assert.True(t, result[1].Free)
}
