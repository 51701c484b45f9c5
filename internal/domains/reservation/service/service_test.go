package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motorpool/config"
	"motorpool/infras/otel/mocks"
	availMocks "motorpool/internal/domains/availability/mocks"
	resMocks "motorpool/internal/domains/reservation/mocks"
	"motorpool/internal/domains/reservation/model"
	"motorpool/internal/domains/reservation/model/dto"
	"motorpool/internal/domains/reservation/service"
	segMocks "motorpool/internal/domains/segment/mocks"
	segModel "motorpool/internal/domains/segment/model"
	vehicleMocks "motorpool/internal/domains/vehicle/mocks"
	vehicleModel "motorpool/internal/domains/vehicle/model"
	notifierMocks "motorpool/internal/notifier/mocks"
	"motorpool/internal/schedule"
	cacheMocks "motorpool/shared/cache/mocks"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"
)

type serviceMocks struct {
	repo         *resMocks.MockReservation
	segRepo      *segMocks.MockSegment
	vehicleRepo  *vehicleMocks.MockVehicle
	availability *availMocks.MockAvailability
	notifier     *notifierMocks.MockNotifier
	cache        *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Reservation, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:         resMocks.NewMockReservation(ctrl),
		segRepo:      segMocks.NewMockSegment(ctrl),
		vehicleRepo:  vehicleMocks.NewMockVehicle(ctrl),
		availability: availMocks.NewMockAvailability(ctrl),
		notifier:     notifierMocks.NewMockNotifier(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Retention.PendingGraceDays = 2
	cfg.Retention.ArchiveGraceDays = 7
	cfg.Retention.PurgeMaxAgeDays = 180

	svc := service.New(m.repo, m.segRepo, m.vehicleRepo, m.availability, m.notifier, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func pendingReservation(id string) model.Reservation {
	return model.Reservation{
		ID:      id,
		UserID:  "user-1",
		StartAt: time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, time.March, 4, 17, 0, 0, 0, time.UTC),
		Status:  model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "user-1",
			ModifiedBy: "user-1",
		},
	}
}

func TestReservationService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateReservationRequest
		setupMock func(m serviceMocks)
		wantErr   bool
	}{
		{
			name: "explicit range",
			req: dto.CreateReservationRequest{
				StartAt: "2026-03-02T08:00:00Z",
				EndAt:   "2026-03-02T17:00:00Z",
				Purpose: "site visit",
			},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, reservation model.Reservation) error {
						assert.Equal(t, model.StatusPending, reservation.Status)
						assert.Nil(t, reservation.VehicleID)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "day plus slot",
			req: dto.CreateReservationRequest{
				Day:  "2026-03-02",
				Slot: "morning",
			},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, reservation model.Reservation) error {
						assert.Equal(t, 8, reservation.StartAt.Hour())
						assert.Equal(t, 12, reservation.EndAt.Hour())

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "end before start",
			req: dto.CreateReservationRequest{
				StartAt: "2026-03-02T17:00:00Z",
				EndAt:   "2026-03-02T08:00:00Z",
			},
			setupMock: func(m serviceMocks) {},
			wantErr:   true,
		},
		{
			name: "insert error",
			req: dto.CreateReservationRequest{
				StartAt: "2026-03-02T08:00:00Z",
				EndAt:   "2026-03-02T17:00:00Z",
			},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReservationService_Get_Coverage(t *testing.T) {
	vehicleID := "vehicle-1"

	tests := []struct {
		name        string
		reservation model.Reservation
		segments    []segModel.Segment
		wantMode    string
	}{
		{
			name:        "unassigned",
			reservation: pendingReservation("res-1"),
			wantMode:    dto.CoverageModeUnassigned,
		},
		{
			name: "whole vehicle",
			reservation: func() model.Reservation {
				r := pendingReservation("res-1")
				r.VehicleID = &vehicleID
				r.Status = model.StatusApproved

				return r
			}(),
			wantMode: dto.CoverageModeWhole,
		},
		{
			name:        "segmented",
			reservation: pendingReservation("res-1"),
			segments: []segModel.Segment{
				{
					ID:            "seg-1",
					ReservationID: "res-1",
					VehicleID:     vehicleID,
					StartAt:       time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC),
					EndAt:         time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
				},
			},
			wantMode: dto.CoverageModeSegmented,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.reservation, nil)

			m.segRepo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(tt.segments, nil)

			result, err := svc.Get(context.Background(), "res-1")

			assert.NoError(t, err)
			assert.NotNil(t, result.Coverage)
			assert.Equal(t, tt.wantMode, result.Coverage.Mode)

			if tt.wantMode == dto.CoverageModeSegmented {
				assert.Len(t, result.Coverage.Segments, len(tt.segments))
			}
		})
	}
}

func TestReservationService_Get_SegmentSlotLabels(t *testing.T) {
	svc, m := newService(t)

	// Ends 11:00 on the last day, so that day reads as a morning.
	reservation := pendingReservation("res-1")
	reservation.EndAt = time.Date(2026, time.March, 4, 11, 0, 0, 0, time.UTC)

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(reservation, nil)

	m.segRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]segModel.Segment{
			{
				ID:            "seg-1",
				ReservationID: "res-1",
				VehicleID:     "vehicle-1",
				StartAt:       time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC),
				EndAt:         time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
			},
			{
				ID:            "seg-2",
				ReservationID: "res-1",
				VehicleID:     "vehicle-2",
				StartAt:       time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC),
				EndAt:         time.Date(2026, time.March, 4, 11, 0, 0, 0, time.UTC),
			},
		}, nil)

	result, err := svc.Get(context.Background(), "res-1")

	assert.NoError(t, err)
	assert.Len(t, result.Coverage.Segments, 2)

	// Labels classify the day within the reservation's span, so a filler
	// starting at midnight on the last day still reads as a morning.
	assert.Equal(t, schedule.LabelFullDay, result.Coverage.Segments[0].SlotLabel)
	assert.Equal(t, schedule.LabelMorning, result.Coverage.Segments[1].SlotLabel)
}

func TestReservationService_Get_NotFound(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Reservation{}, nil)

	_, err := svc.Get(context.Background(), "missing")

	assert.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestReservationService_Approve(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful approval",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingReservation("res-1"), nil)

				m.vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{ID: "vehicle-1", Label: "Kangoo"}, nil)

				m.availability.EXPECT().
					IsConflicting(gomock.Any(), "vehicle-1", gomock.Any(), "res-1").
					Return(false, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, updated map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "vehicle-1", updated[model.FieldVehicleID])
						assert.Equal(t, model.StatusApproved, updated[model.FieldStatus])

						return nil
					})

				m.notifier.EXPECT().
					Notify(gomock.Any(), gomock.Any(), gomock.Any(), "Kangoo", gomock.Any(), gomock.Any())
			},
			wantErr: false,
		},
		{
			name: "conflicting vehicle leaves the reservation untouched",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingReservation("res-1"), nil)

				m.vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{ID: "vehicle-1", Label: "Kangoo"}, nil)

				m.availability.EXPECT().
					IsConflicting(gomock.Any(), "vehicle-1", gomock.Any(), "res-1").
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "reservation not found",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "vehicle not found",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pendingReservation("res-1"), nil)

				m.vehicleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(vehicleModel.Vehicle{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			err := svc.Approve(ctx, "res-1", dto.ApproveReservationRequest{VehicleID: "vehicle-1"})

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReservationService_Reject(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pendingReservation("res-1"), nil)

	m.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusRejected, updated[model.FieldStatus])

			return nil
		})

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
	err := svc.Reject(ctx, "res-1")

	assert.NoError(t, err)
}

func TestReservationService_Delete(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(pendingReservation("res-1"), nil)

	m.repo.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil)

	err := svc.Delete(context.Background(), "res-1")

	assert.NoError(t, err)
}

func TestReservationService_ExpireSweep(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		DeleteCount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int64, error) {
			statuses := filterValues(filter, model.FieldStatus)
			assert.Equal(t, []any{model.StatusPending}, statuses)

			return 3, nil
		})

	m.repo.EXPECT().
		UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated map[string]any, _ gDto.FilterGroup) (int64, error) {
			assert.NotNil(t, updated[model.FieldArchivedAt])

			return 2, nil
		})

	result, err := svc.ExpireSweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.PendingDeleted)
	assert.Equal(t, int64(2), result.Archived)
}

func TestReservationService_ExpireSweep_Idempotent(t *testing.T) {
	svc, m := newService(t)

	// A rerun with nothing left to process reports zero affected rows.
	m.repo.EXPECT().
		DeleteCount(gomock.Any(), gomock.Any()).
		Return(int64(0), nil)

	m.repo.EXPECT().
		UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), nil)

	result, err := svc.ExpireSweep(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, result.PendingDeleted)
	assert.Zero(t, result.Archived)
}

func TestReservationService_PurgeArchived(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		DeleteCount(gomock.Any(), gomock.Any()).
		Return(int64(5), nil)

	result, err := svc.PurgeArchived(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(5), result.Deleted)
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
