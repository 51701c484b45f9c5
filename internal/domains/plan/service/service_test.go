package service_test

import (
	"context"
	b64 "encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motorpool/config"
	"motorpool/infras/otel/mocks"
	s3Mocks "motorpool/infras/s3/mocks"
	"motorpool/internal/domains/plan/model/dto"
	"motorpool/internal/domains/plan/service"
	resMocks "motorpool/internal/domains/reservation/mocks"
	resModel "motorpool/internal/domains/reservation/model"
	segMocks "motorpool/internal/domains/segment/mocks"
	segModel "motorpool/internal/domains/segment/model"
	vehicleMocks "motorpool/internal/domains/vehicle/mocks"
	vehicleModel "motorpool/internal/domains/vehicle/model"
	"motorpool/internal/schedule"
	cacheMocks "motorpool/shared/cache/mocks"
)

type serviceMocks struct {
	vehicleRepo *vehicleMocks.MockVehicle
	resRepo     *resMocks.MockReservation
	segRepo     *segMocks.MockSegment
	s3          *s3Mocks.MockS3
	cache       *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Plan, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		vehicleRepo: vehicleMocks.NewMockVehicle(ctrl),
		resRepo:     resMocks.NewMockReservation(ctrl),
		segRepo:     segMocks.NewMockSegment(ctrl),
		s3:          s3Mocks.NewMockS3(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.vehicleRepo, m.resRepo, m.segRepo, m.s3, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func TestPlanService_Month(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	m.vehicleRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vehicleModel.Vehicle{
			{ID: "vehicle-1", Code: "A-01", Label: "Kangoo"},
			{ID: "vehicle-2", Code: "B-02", Label: "Zoe"},
		}, nil)

	vehicleOne := "vehicle-1"

	// vehicle-1 carries a whole reservation over two days of March.
	m.resRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]resModel.Reservation{
			{
				ID:        "res-1",
				UserID:    "user-1",
				VehicleID: &vehicleOne,
				StartAt:   time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC),
				EndAt:     time.Date(2026, time.March, 3, 17, 0, 0, 0, time.UTC),
				Status:    resModel.StatusApproved,
				Purpose:   "site visit",
			},
		}, nil)

	// vehicle-2 carries one segment of a segmented reservation.
	m.segRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]segModel.Segment{
			{
				ID:            "seg-1",
				ReservationID: "res-2",
				VehicleID:     "vehicle-2",
				StartAt:       time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC),
				EndAt:         time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC),
			},
		}, nil)

	m.resRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]resModel.Reservation{
			{
				ID:      "res-2",
				UserID:  "user-2",
				StartAt: time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC),
				EndAt:   time.Date(2026, time.March, 5, 17, 0, 0, 0, time.UTC),
				Status:  resModel.StatusApproved,
			},
		}, nil)

	result, err := svc.Month(context.Background(), 2026, 3)

	assert.NoError(t, err)
	assert.Equal(t, 2026, result.Year)
	assert.Equal(t, 3, result.Month)
	assert.Len(t, result.Vehicles, 2)

	first := result.Vehicles[0]
	assert.Equal(t, "A-01", first.Vehicle.Code)
	assert.Len(t, first.Assignments, 1)
	assert.Equal(t, "res-1", first.Assignments[0].ReservationID)
	assert.Len(t, first.Assignments[0].Days, 2)
	assert.Equal(t, "2026-03-02", first.Assignments[0].Days[0].Day)

	second := result.Vehicles[1]
	assert.Equal(t, "B-02", second.Vehicle.Code)
	assert.Len(t, second.Assignments, 1)
	assert.Equal(t, "res-2", second.Assignments[0].ReservationID)
	assert.Equal(t, schedule.LabelMorning, second.Assignments[0].Days[0].SlotLabel)
}

func TestPlanService_Month_LabelsDaysAgainstFullRange(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	m.vehicleRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vehicleModel.Vehicle{{ID: "vehicle-1", Code: "A-01"}}, nil)

	vehicleOne := "vehicle-1"

	// Starts mid-morning and ends 11:00 two days later: the middle day is a
	// full day and the last day reads as a morning.
	m.resRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]resModel.Reservation{
			{
				ID:        "res-1",
				UserID:    "user-1",
				VehicleID: &vehicleOne,
				StartAt:   time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
				EndAt:     time.Date(2026, time.March, 4, 11, 0, 0, 0, time.UTC),
				Status:    resModel.StatusApproved,
			},
		}, nil)

	m.segRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]segModel.Segment{}, nil)

	result, err := svc.Month(context.Background(), 2026, 3)

	assert.NoError(t, err)
	assert.Len(t, result.Vehicles, 1)
	assert.Len(t, result.Vehicles[0].Assignments, 1)

	days := result.Vehicles[0].Assignments[0].Days
	assert.Len(t, days, 3)
	assert.Equal(t, schedule.LabelFullDay, days[0].SlotLabel)
	assert.Equal(t, schedule.LabelFullDay, days[1].SlotLabel)
	assert.Equal(t, "2026-03-04", days[2].Day)
	assert.Equal(t, schedule.LabelMorning, days[2].SlotLabel)
}

func TestPlanService_Month_SkipsRejectedParents(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	m.vehicleRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vehicleModel.Vehicle{{ID: "vehicle-1", Code: "A-01"}}, nil)

	m.resRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]resModel.Reservation{}, nil)

	m.segRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]segModel.Segment{
			{
				ID:            "seg-1",
				ReservationID: "res-2",
				VehicleID:     "vehicle-1",
				StartAt:       time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC),
				EndAt:         time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC),
			},
		}, nil)

	m.resRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]resModel.Reservation{
			{ID: "res-2", Status: resModel.StatusRejected},
		}, nil)

	result, err := svc.Month(context.Background(), 2026, 3)

	assert.NoError(t, err)
	assert.Len(t, result.Vehicles, 1)
	assert.Empty(t, result.Vehicles[0].Assignments)
}

func TestPlanService_Month_InvalidMonth(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Month(context.Background(), 2026, 13)

	assert.Error(t, err)
}

func TestPlanService_Month_CacheHit(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			cached, ok := value.(*dto.MonthPlanResponse)
			assert.True(t, ok)
			cached.Year = 2026
			cached.Month = 3

			return nil
		})

	result, err := svc.Month(context.Background(), 2026, 3)

	assert.NoError(t, err)
	assert.Equal(t, 2026, result.Year)
}

func TestPlanService_StoreExport(t *testing.T) {
	encoded := b64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))

	tests := []struct {
		name      string
		file      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantURL   string
	}{
		{
			name: "raw base64 payload",
			file: encoded,
			setupMock: func(m serviceMocks) {
				m.s3.EXPECT().
					UploadFileBytes(gomock.Any(), gomock.Any(), "plans", "plan-2026-03.pdf", gomock.Any(), []byte("%PDF-1.4 fake")).
					Return("https://cdn.example.com/plans/plan-2026-03.pdf", nil)
			},
			wantErr: false,
			wantURL: "https://cdn.example.com/plans/plan-2026-03.pdf",
		},
		{
			name: "data url payload",
			file: "data:application/pdf;base64," + encoded,
			setupMock: func(m serviceMocks) {
				m.s3.EXPECT().
					UploadFileBytes(gomock.Any(), gomock.Any(), "plans", "plan-2026-03.pdf", "application/pdf", []byte("%PDF-1.4 fake")).
					Return("https://cdn.example.com/plans/plan-2026-03.pdf", nil)
			},
			wantErr: false,
			wantURL: "https://cdn.example.com/plans/plan-2026-03.pdf",
		},
		{
			name:      "invalid base64",
			file:      "not-base64!!!",
			setupMock: func(m serviceMocks) {},
			wantErr:   true,
		},
		{
			name: "upload error",
			file: encoded,
			setupMock: func(m serviceMocks) {
				m.s3.EXPECT().
					UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket unavailable"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			result, err := svc.StoreExport(context.Background(), 2026, 3, dto.StoreExportRequest{File: tt.file})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantURL, result.URL)
			}
		})
	}
}
