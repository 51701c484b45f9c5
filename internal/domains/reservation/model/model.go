package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	"motorpool/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID             = "id"
	FieldUserID         = "user_id"
	FieldVehicleID      = "vehicle_id"
	FieldStartAt        = "start_at"
	FieldEndAt          = "end_at"
	FieldStatus         = "status"
	FieldPurpose        = "purpose"
	FieldNotes          = "notes"
	FieldCarpool        = "carpool"
	FieldCarpoolWith    = "carpool_with"
	FieldCarpoolUserIDs = "carpool_user_ids"
	FieldCarpoolDetails = "carpool_details"
	FieldArchivedAt     = "archived_at"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// CarpoolMember is the denormalized snapshot of a companion at the moment the
// reservation was created; companions stay listed even if the account changes
// later.
type CarpoolMember struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// CarpoolDetails is stored as a JSONB column.
type CarpoolDetails []CarpoolMember

func (d CarpoolDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}

	return json.Marshal(d)
}

func (d *CarpoolDetails) Scan(src any) error {
	if src == nil {
		*d = nil

		return nil
	}

	raw, ok := src.([]byte)
	if !ok {
		return errors.New("carpool details: unsupported scan type")
	}

	return json.Unmarshal(raw, d)
}

type Reservation struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	VehicleID      *string        `db:"vehicle_id"`
	StartAt        time.Time      `db:"start_at"`
	EndAt          time.Time      `db:"end_at"`
	Status         string         `db:"status"`
	Purpose        string         `db:"purpose"`
	Notes          string         `db:"notes"`
	Carpool        bool           `db:"carpool"`
	CarpoolWith    string         `db:"carpool_with"`
	CarpoolUserIDs pq.StringArray `db:"carpool_user_ids"`
	CarpoolDetails CarpoolDetails `db:"carpool_details"`
	ArchivedAt     *time.Time     `db:"archived_at"`
	model.Metadata
}
