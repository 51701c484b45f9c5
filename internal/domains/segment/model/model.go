package model

import (
	"time"

	"motorpool/internal/schedule"
	"motorpool/shared/model"
)

const (
	TableName  = "reservation_segments"
	EntityName = "segment"

	FieldID            = "id"
	FieldReservationID = "reservation_id"
	FieldVehicleID     = "vehicle_id"
	FieldStartAt       = "start_at"
	FieldEndAt         = "end_at"
)

// Segment assigns one vehicle to a sub-range of its parent reservation's
// span. Segments of a reservation never overlap each other.
type Segment struct {
	ID            string    `db:"id"`
	ReservationID string    `db:"reservation_id"`
	VehicleID     string    `db:"vehicle_id"`
	StartAt       time.Time `db:"start_at"`
	EndAt         time.Time `db:"end_at"`
	model.Metadata
}

func (s Segment) Range() schedule.TimeRange {
	return schedule.TimeRange{Start: s.StartAt, End: s.EndAt}
}
