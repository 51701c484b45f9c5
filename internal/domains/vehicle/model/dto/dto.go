package dto

import (
	"github.com/google/uuid"

	"motorpool/internal/domains/vehicle/model"
	"motorpool/shared"
	gDto "motorpool/shared/dto"
	gModel "motorpool/shared/model"
	"motorpool/shared/timezone"
)

type CreateVehicleRequest struct {
	Code     string  `json:"code"     validate:"required,max=20"`
	Label    string  `json:"label"    validate:"required,max=120"`
	Seats    int     `json:"seats"    validate:"omitempty,min=1,max=60"`
	Category *string `json:"category" validate:"omitempty,max=60"`
}

func (c *CreateVehicleRequest) ToModel(user string) model.Vehicle {
	seats := c.Seats
	if seats == 0 {
		seats = 5
	}

	return model.Vehicle{
		ID:       uuid.NewString(),
		Code:     c.Code,
		Label:    c.Label,
		Seats:    seats,
		Category: c.Category,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateVehicleRequest struct {
	Code     string  `db:"code"     json:"code"     validate:"omitempty,max=20"`
	Label    string  `db:"label"    json:"label"    validate:"omitempty,max=120"`
	Seats    int     `db:"seats"    json:"seats"    validate:"omitempty,min=1,max=60"`
	Category *string `db:"category" json:"category" validate:"omitempty,max=60"`
}

type VehicleResponse struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Label    string  `json:"label"`
	Seats    int     `json:"seats"`
	Category *string `json:"category,omitempty"`
	Active   bool    `json:"active"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.Code = model.Code
	r.Label = model.Label
	r.Seats = model.Seats
	r.Category = model.Category
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}
