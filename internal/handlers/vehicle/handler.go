package vehicle

import (
	"net/http"

	"motorpool/infras/otel"
	availDto "motorpool/internal/domains/availability/model/dto"
	availService "motorpool/internal/domains/availability/service"
	"motorpool/internal/domains/vehicle/model"
	"motorpool/internal/domains/vehicle/model/dto"
	"motorpool/internal/domains/vehicle/service"
	"motorpool/internal/schedule"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/timezone"
	"motorpool/shared/validator"
	"motorpool/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      service.Vehicle
	availability availService.Availability
	otel         otel.Otel
}

func New(service service.Vehicle, availability availService.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/vehicles", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateVehicle)
		routerGroup.Get("/", handler.GetVehicles)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Get("/{id}", handler.GetVehicleByID)
		routerGroup.Patch("/{id}", handler.UpdateVehicle)
		routerGroup.Delete("/{id}", handler.DeleteVehicle)
	})
}

// CreateVehicle handles the creation of a new fleet vehicle.
// @Summary Create a new vehicle
// @Description Add a vehicle to the fleet. Vehicle codes are unique.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param request body dto.CreateVehicleRequest true "Create Vehicle Request"
// @Success 201 {object} response.Message "Vehicle created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [post]
// @Security BearerAuth
func (handler *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateVehicle")
	defer scope.End()

	req := dto.CreateVehicleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create vehicle")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Vehicle created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Vehicle created successfully")
}

// GetVehicles retrieves all vehicles based on query parameters.
// @Summary Get all vehicles
// @Description Retrieve all vehicles with optional filtering and pagination.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetVehiclesResponse] "List of vehicles"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [get]
func (handler *Handler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicles")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	category := r.URL.Query().Get(model.FieldCategory)
	active := r.URL.Query().Get(model.FieldActive)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	if active != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    active == "true",
			Table:    model.TableName,
		})
	}

	vehicles, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicles")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicles retrieved successfully")

	response.WithJSON(w, http.StatusOK, vehicles)
}

// GetAvailability reports free/busy for every vehicle over a time range.
// @Summary Get vehicle availability
// @Description Report whether each vehicle is free over the given range, in stable vehicle-code order.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Success 200 {object} response.Data[availDto.AvailabilityResponse] "Availability per vehicle"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	rng, err := parseRange(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse availability range")

		response.WithError(w, err)

		return
	}

	vehicles, err := handler.availability.Vehicles(ctx, rng)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle availability retrieved successfully")

	res := availDto.AvailabilityResponse{
		Start:    timezone.Format(rng.Start, constant.DateFormat),
		End:      timezone.Format(rng.End, constant.DateFormat),
		Vehicles: vehicles,
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetVehicleByID retrieves a vehicle by its ID.
// @Summary Get a vehicle by ID
// @Description Retrieve a vehicle by its unique identifier.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Data[dto.VehicleResponse] "Vehicle details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [get]
func (handler *Handler) GetVehicleByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicleByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	vehicle, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle retrieved successfully")

	response.WithJSON(w, http.StatusOK, vehicle)
}

// UpdateVehicle updates an existing vehicle by its ID.
// @Summary Update a vehicle by ID
// @Description Update the details of an existing vehicle.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body dto.UpdateVehicleRequest true "Update Vehicle Request"
// @Success 200 {object} response.Message "Vehicle updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVehicle")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateVehicleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vehicle")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Vehicle updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Vehicle updated successfully")
}

// DeleteVehicle deletes a vehicle by its ID.
// @Summary Delete a vehicle by ID
// @Description Delete a vehicle using its unique identifier. Fails with 409 while any reservation or segment references it.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Message "Vehicle deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteVehicle")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete vehicle")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Vehicle deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Vehicle deleted successfully")
}

func parseRange(r *http.Request) (schedule.TimeRange, error) {
	start, err := timezone.Parse(constant.DateFormat, r.URL.Query().Get("start"))
	if err != nil {
		return schedule.TimeRange{}, failure.BadRequestFromString("invalid start format") //nolint:wrapcheck
	}

	end, err := timezone.Parse(constant.DateFormat, r.URL.Query().Get("end"))
	if err != nil {
		return schedule.TimeRange{}, failure.BadRequestFromString("invalid end format") //nolint:wrapcheck
	}

	return schedule.NewTimeRange(start, end)
}
