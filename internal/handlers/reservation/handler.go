package reservation

import (
	"net/http"

	"motorpool/infras/otel"
	"motorpool/internal/domains/reservation/model"
	"motorpool/internal/domains/reservation/model/dto"
	"motorpool/internal/domains/reservation/service"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/failure"
	"motorpool/shared/validator"
	"motorpool/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/mine", handler.GetMyReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Post("/{id}/approve", handler.ApproveReservation)
		routerGroup.Post("/{id}/reject", handler.RejectReservation)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
		routerGroup.Post("/sweep/expire", handler.ExpireSweep)
		routerGroup.Post("/sweep/purge", handler.PurgeArchived)
	})
}

// CreateReservation handles the creation of a new vehicle reservation.
// @Summary Create a new reservation
// @Description Create a vehicle reservation for an explicit time range or a day plus slot.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Message "Reservation created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Reservation created successfully")
}

// GetReservations retrieves all reservations based on query parameters.
// @Summary Get all reservations
// @Description Retrieve all reservations with optional filtering and pagination. Archived reservations are hidden unless include_archived=true.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param vehicle_id query string false "Filter by vehicle ID"
// @Param include_archived query boolean false "Include archived reservations"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.listFilter(r)

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservations retrieved successfully")

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetMyReservations retrieves the reservations of the authenticated user.
// @Summary Get my reservations
// @Description Retrieve all reservations of the currently authenticated user.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of user's reservations"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReservations")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		scope.TraceError(nil)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.listFilter(r)
	filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
		Field:    model.FieldUserID,
		Operator: gDto.FilterOperatorEq,
		Value:    userID,
		Table:    model.TableName,
	})

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User reservations retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation with its vehicle coverage.
// @Summary Get a reservation by ID
// @Description Retrieve a reservation by its unique identifier, including the coverage union (whole, segmented or unassigned).
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation retrieved successfully")

	response.WithJSON(w, http.StatusOK, reservation)
}

// ApproveReservation approves a reservation and assigns a vehicle to its whole span.
// @Summary Approve a reservation
// @Description Assign a vehicle to the whole reservation span and mark it approved. Fails with 409 when the vehicle is already claimed.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.ApproveReservationRequest true "Approve Reservation Request"
// @Success 200 {object} response.Message "Reservation approved successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ApproveReservationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Approve(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation approved successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Reservation approved successfully")
}

// RejectReservation rejects a reservation.
// @Summary Reject a reservation
// @Description Mark a reservation as rejected. Rejected reservations never block vehicle availability.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation rejected successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Reject(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation rejected successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Reservation rejected successfully")
}

// DeleteReservation deletes a reservation and its segments.
// @Summary Delete a reservation by ID
// @Description Delete a reservation using its unique identifier. Segments are removed with it.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}

// ExpireSweep runs the retention sweep over stale reservations.
// @Summary Run the expiry sweep
// @Description Delete pending reservations past the grace period and archive finished ones. Reports how many rows each action touched.
// @Tags Reservation
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.ExpireSweepResponse] "Sweep result"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/sweep/expire [post]
// @Security BearerAuth
func (handler *Handler) ExpireSweep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExpireSweep")
	defer scope.End()

	result, err := handler.service.ExpireSweep(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to run expire sweep")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Expire sweep completed successfully")

	response.WithJSON(w, http.StatusOK, result)
}

// PurgeArchived hard-deletes reservations archived past the retention window.
// @Summary Purge old archived reservations
// @Description Permanently delete reservations that have been archived longer than the retention window.
// @Tags Reservation
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.PurgeArchivedResponse] "Purge result"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/sweep/purge [post]
// @Security BearerAuth
func (handler *Handler) PurgeArchived(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PurgeArchived")
	defer scope.End()

	result, err := handler.service.PurgeArchived(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to purge archived reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Archive purge completed successfully")

	response.WithJSON(w, http.StatusOK, result)
}

// listFilter builds the common list filter: optional status and vehicle
// filters, with archived reservations excluded unless explicitly requested.
func (handler *Handler) listFilter(r *http.Request) gDto.FilterGroup {
	status := r.URL.Query().Get(model.FieldStatus)
	vehicleID := r.URL.Query().Get(model.FieldVehicleID)
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if vehicleID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldVehicleID,
			Operator: gDto.FilterOperatorEq,
			Value:    vehicleID,
			Table:    model.TableName,
		})
	}

	if !includeArchived {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldArchivedAt,
			Operator: gDto.FilterIsNull,
			Table:    model.TableName,
		})
	}

	return filterGroup
}
