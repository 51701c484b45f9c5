package model

import "motorpool/shared/model"

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID       = "id"
	FieldCode     = "code"
	FieldLabel    = "label"
	FieldSeats    = "seats"
	FieldCategory = "category"
	FieldActive   = "active"
)

type Vehicle struct {
	ID       string  `db:"id"`
	Code     string  `db:"code"`
	Label    string  `db:"label"`
	Seats    int     `db:"seats"`
	Category *string `db:"category"`
	Active   bool    `db:"active"`
	model.Metadata
}
