package segment

import (
	"net/http"

	"motorpool/infras/otel"
	"motorpool/internal/domains/segment/model/dto"
	"motorpool/internal/domains/segment/service"
	"motorpool/shared/constant"
	"motorpool/shared/validator"
	"motorpool/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Segment
	otel    otel.Otel
}

func New(service service.Segment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations/{id}/segments", func(routerGroup chi.Router) {
		routerGroup.Post("/day", handler.AssignDay)
		routerGroup.Post("/range", handler.AssignRange)
		routerGroup.Delete("/day", handler.DeleteDay)
	})

	router.Route("/segments", func(routerGroup chi.Router) {
		routerGroup.Patch("/{id}", handler.UpdateSegment)
		routerGroup.Delete("/{id}", handler.DeleteSegment)
	})
}

// AssignDay assigns a vehicle to one day of a reservation.
// @Summary Assign a vehicle to one day
// @Description Assign a vehicle to a single day of a reservation. A whole-vehicle reservation is split into segments; the other days keep the prior vehicle.
// @Tags Segment
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.AssignDayRequest true "Assign Day Request"
// @Success 200 {object} response.Message "Day assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/segments/day [post]
// @Security BearerAuth
func (handler *Handler) AssignDay(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignDay")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignDayRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SegmentDay(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign day")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Day assigned successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Day assigned successfully")
}

// AssignRange assigns a vehicle to a sub-range of a reservation.
// @Summary Assign a vehicle to a sub-range
// @Description Assign a vehicle to an arbitrary sub-range of a reservation's span. The range must lie within the span.
// @Tags Segment
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.AssignRangeRequest true "Assign Range Request"
// @Success 200 {object} response.Message "Range assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/segments/range [post]
// @Security BearerAuth
func (handler *Handler) AssignRange(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignRange")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignRangeRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SegmentRange(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign range")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Range assigned successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Range assigned successfully")
}

// DeleteDay removes vehicle coverage from one day of a reservation.
// @Summary Remove coverage from one day
// @Description Remove vehicle coverage from a single day. On a whole-vehicle reservation the other days keep the current vehicle.
// @Tags Segment
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.DeleteDayRequest true "Delete Day Request"
// @Success 200 {object} response.Message "Day coverage removed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/segments/day [delete]
// @Security BearerAuth
func (handler *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteDay")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.DeleteDayRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.DeleteDay(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete day coverage")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Day coverage removed successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Day coverage removed successfully")
}

// UpdateSegment retargets a segment to another vehicle.
// @Summary Update a segment's vehicle
// @Description Move a segment to another vehicle. Fails with 409 when the vehicle is already claimed over the segment's window.
// @Tags Segment
// @Accept json
// @Produce json
// @Param id path string true "Segment ID"
// @Param request body dto.UpdateSegmentRequest true "Update Segment Request"
// @Success 200 {object} response.Message "Segment updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/segments/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSegment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateSegmentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update segment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Segment updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Segment updated successfully")
}

// DeleteSegment deletes a segment by its ID.
// @Summary Delete a segment by ID
// @Description Delete a segment. The freed window stays uncovered until reassigned.
// @Tags Segment
// @Accept json
// @Produce json
// @Param id path string true "Segment ID"
// @Success 200 {object} response.Message "Segment deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/segments/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSegment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete segment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Segment deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Segment deleted successfully")
}
