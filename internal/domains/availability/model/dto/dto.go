package dto

import (
	vehicleDto "motorpool/internal/domains/vehicle/model/dto"
)

type VehicleAvailability struct {
	Vehicle vehicleDto.VehicleResponse `json:"vehicle"`
	Free    bool                       `json:"free"`
}

type AvailabilityResponse struct {
	Start    string                `json:"start"`
	End      string                `json:"end"`
	Vehicles []VehicleAvailability `json:"vehicles"`
}
