package dto

import (
	"time"

	"github.com/google/uuid"

	"motorpool/internal/domains/reservation/model"
	segDto "motorpool/internal/domains/segment/model/dto"
	"motorpool/internal/schedule"
	"motorpool/shared"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"
)

type CarpoolMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name"    validate:"required,max=120"`
	Email  string `json:"email"   validate:"omitempty,email,max=120"`
}

// CreateReservationRequest accepts either an explicit start/end pair or a
// day plus a named slot (morning, afternoon, day).
type CreateReservationRequest struct {
	StartAt        string                 `json:"start_at" validate:"omitempty"`
	EndAt          string                 `json:"end_at"   validate:"omitempty"`
	Day            string                 `json:"day"      validate:"omitempty"`
	Slot           string                 `json:"slot"     validate:"omitempty,oneof=morning afternoon day"`
	Purpose        string                 `json:"purpose"  validate:"omitempty,max=200"`
	Notes          string                 `json:"notes"    validate:"omitempty"`
	Carpool        bool                   `json:"carpool"`
	CarpoolWith    string                 `json:"carpool_with"     validate:"omitempty,max=200"`
	CarpoolMembers []CarpoolMemberRequest `json:"carpool_members"  validate:"omitempty,dive"`
}

func (c *CreateReservationRequest) span() (schedule.TimeRange, error) {
	if c.Day != constant.Empty {
		day, err := timezone.Parse("2006-01-02", c.Day)
		if err != nil {
			return schedule.TimeRange{}, failure.BadRequestFromString("invalid day format, expected YYYY-MM-DD") //nolint:wrapcheck
		}

		return schedule.Slot(c.Slot).Window(day), nil
	}

	start, err := timezone.Parse(constant.DateFormat, c.StartAt)
	if err != nil {
		return schedule.TimeRange{}, failure.BadRequestFromString("invalid start_at format") //nolint:wrapcheck
	}

	end, err := timezone.Parse(constant.DateFormat, c.EndAt)
	if err != nil {
		return schedule.TimeRange{}, failure.BadRequestFromString("invalid end_at format") //nolint:wrapcheck
	}

	return schedule.NewTimeRange(start, end)
}

func (c *CreateReservationRequest) ToModel(user string) (model.Reservation, error) {
	span, err := c.span()
	if err != nil {
		return model.Reservation{}, err
	}

	ids := make([]string, 0, len(c.CarpoolMembers))
	details := make(model.CarpoolDetails, 0, len(c.CarpoolMembers))

	for _, member := range c.CarpoolMembers {
		ids = append(ids, member.UserID)
		details = append(details, model.CarpoolMember{
			UserID: member.UserID,
			Name:   member.Name,
			Email:  member.Email,
		})
	}

	return model.Reservation{
		ID:             uuid.NewString(),
		UserID:         user,
		StartAt:        span.Start,
		EndAt:          span.End,
		Status:         model.StatusPending,
		Purpose:        c.Purpose,
		Notes:          c.Notes,
		Carpool:        c.Carpool,
		CarpoolWith:    c.CarpoolWith,
		CarpoolUserIDs: ids,
		CarpoolDetails: details,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type ApproveReservationRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
}

type CarpoolMemberResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

// CoverageResponse exposes vehicle coverage as a tagged union: either the
// whole span rides one vehicle, or explicit segments carry it.
type CoverageResponse struct {
	Mode      string                `json:"mode"` // whole | segmented | unassigned
	VehicleID *string               `json:"vehicle_id,omitempty"`
	Segments  []segDto.SegmentResponse `json:"segments,omitempty"`
}

const (
	CoverageModeWhole      = "whole"
	CoverageModeSegmented  = "segmented"
	CoverageModeUnassigned = "unassigned"
)

type ReservationResponse struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"user_id"`
	VehicleID      *string                 `json:"vehicle_id,omitempty"`
	StartAt        string                  `json:"start_at"`
	EndAt          string                  `json:"end_at"`
	Status         string                  `json:"status"`
	Purpose        string                  `json:"purpose,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	Carpool        bool                    `json:"carpool"`
	CarpoolWith    string                  `json:"carpool_with,omitempty"`
	CarpoolMembers []CarpoolMemberResponse `json:"carpool_members,omitempty"`
	ArchivedAt     *string                 `json:"archived_at,omitempty"`
	Coverage       *CoverageResponse       `json:"coverage,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(mod model.Reservation) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.VehicleID = mod.VehicleID
	r.StartAt = timezone.Format(mod.StartAt, constant.DateFormat)
	r.EndAt = timezone.Format(mod.EndAt, constant.DateFormat)
	r.Status = mod.Status
	r.Purpose = mod.Purpose
	r.Notes = mod.Notes
	r.Carpool = mod.Carpool
	r.CarpoolWith = mod.CarpoolWith

	for _, member := range mod.CarpoolDetails {
		r.CarpoolMembers = append(r.CarpoolMembers, CarpoolMemberResponse(member))
	}

	if mod.ArchivedAt != nil {
		archived := timezone.Format(*mod.ArchivedAt, constant.DateFormat)
		r.ArchivedAt = &archived
	}

	r.Metadata.FromModel(mod.Metadata)
}

// WithCoverage attaches the coverage union for a detail view.
func (r *ReservationResponse) WithCoverage(mod model.Reservation, segments []segDto.SegmentResponse) {
	coverage := &CoverageResponse{}

	switch {
	case len(segments) > 0:
		coverage.Mode = CoverageModeSegmented
		coverage.Segments = segments
	case mod.VehicleID != nil:
		coverage.Mode = CoverageModeWhole
		coverage.VehicleID = mod.VehicleID
	default:
		coverage.Mode = CoverageModeUnassigned
	}

	r.Coverage = coverage
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// ExpireSweepResponse reports the two retention actions of a single sweep.
type ExpireSweepResponse struct {
	PendingDeleted int64     `json:"pending_deleted"`
	Archived       int64     `json:"archived"`
	SweptAt        time.Time `json:"swept_at"`
}

type PurgeArchivedResponse struct {
	Deleted int64     `json:"deleted"`
	SweptAt time.Time `json:"swept_at"`
}
