package dto

import (
	"time"

	"motorpool/internal/domains/segment/model"
	"motorpool/internal/schedule"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/timezone"
)

// AssignDayRequest assigns a vehicle to one calendar day of a reservation.
type AssignDayRequest struct {
	Day       string `json:"day"        validate:"required"`
	VehicleID string `json:"vehicle_id" validate:"required"`
}

func (r *AssignDayRequest) ParseDay() (time.Time, error) {
	return parseDay(r.Day)
}

func parseDay(value string) (time.Time, error) {
	parsed, err := timezone.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("invalid day format, expected YYYY-MM-DD") //nolint:wrapcheck
	}

	return parsed, nil
}

// AssignRangeRequest assigns a vehicle to an arbitrary sub-range of a
// reservation's span.
type AssignRangeRequest struct {
	StartAt   string `json:"start_at"   validate:"required"`
	EndAt     string `json:"end_at"     validate:"required"`
	VehicleID string `json:"vehicle_id" validate:"required"`
}

func (r *AssignRangeRequest) ParseRange() (schedule.TimeRange, error) {
	start, err := timezone.Parse(constant.DateFormat, r.StartAt)
	if err != nil {
		return schedule.TimeRange{}, failure.BadRequestFromString("invalid start_at format") //nolint:wrapcheck
	}

	end, err := timezone.Parse(constant.DateFormat, r.EndAt)
	if err != nil {
		return schedule.TimeRange{}, failure.BadRequestFromString("invalid end_at format") //nolint:wrapcheck
	}

	return schedule.NewTimeRange(start, end)
}

type DeleteDayRequest struct {
	Day string `json:"day" validate:"required"`
}

func (r *DeleteDayRequest) ParseDay() (time.Time, error) {
	return parseDay(r.Day)
}

type UpdateSegmentRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
}

type SegmentResponse struct {
	ID            string `json:"id"`
	ReservationID string `json:"reservation_id"`
	VehicleID     string `json:"vehicle_id"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	SlotLabel     string `json:"slot_label"`
	gDto.Metadata
}

// FromModel fills the response from a segment. The slot label classifies the
// day within the parent reservation's span, not the segment's own window: a
// filler starting at midnight still labels as the reservation occupies it.
func (r *SegmentResponse) FromModel(mod model.Segment, span schedule.TimeRange) {
	r.ID = mod.ID
	r.ReservationID = mod.ReservationID
	r.VehicleID = mod.VehicleID
	r.StartAt = timezone.Format(mod.StartAt, constant.DateFormat)
	r.EndAt = timezone.Format(mod.EndAt, constant.DateFormat)
	r.SlotLabel = schedule.Label(span, mod.StartAt)
	r.Metadata.FromModel(mod.Metadata)
}

func FromModels(models []model.Segment, span schedule.TimeRange) []SegmentResponse {
	res := make([]SegmentResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod, span)
	}

	return res
}
