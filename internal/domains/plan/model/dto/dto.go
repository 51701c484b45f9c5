package dto

import (
	vehicleDto "motorpool/internal/domains/vehicle/model/dto"
)

// PlanDay is one labeled day of an assignment within the requested month.
type PlanDay struct {
	Day       string `json:"day"`
	SlotLabel string `json:"slot_label"`
}

type PlanCarpoolMember struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

// PlanAssignment is a reservation's claim on one vehicle, trimmed to the
// month being projected.
type PlanAssignment struct {
	ReservationID  string              `json:"reservation_id"`
	UserID         string              `json:"user_id"`
	Purpose        string              `json:"purpose,omitempty"`
	StartAt        string              `json:"start_at"`
	EndAt          string              `json:"end_at"`
	Carpool        bool                `json:"carpool"`
	CarpoolWith    string              `json:"carpool_with,omitempty"`
	CarpoolMembers []PlanCarpoolMember `json:"carpool_members,omitempty"`
	Days           []PlanDay           `json:"days"`
}

type VehiclePlan struct {
	Vehicle     vehicleDto.VehicleResponse `json:"vehicle"`
	Assignments []PlanAssignment           `json:"assignments"`
}

type MonthPlanResponse struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Vehicles []VehiclePlan `json:"vehicles"`
}

type StoreExportRequest struct {
	File string `json:"file" validate:"required"`
}

type StoreExportResponse struct {
	URL string `json:"url"`
}
