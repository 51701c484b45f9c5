package plan

import (
	"net/http"
	"strconv"

	"motorpool/infras/otel"
	"motorpool/internal/domains/plan/model/dto"
	"motorpool/internal/domains/plan/service"
	"motorpool/shared/constant"
	"motorpool/shared/failure"
	"motorpool/shared/validator"
	"motorpool/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Plan
	otel    otel.Otel
}

func New(service service.Plan, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/plan", func(routerGroup chi.Router) {
		routerGroup.Get("/{year}/{month}", handler.GetMonthPlan)
		routerGroup.Post("/{year}/{month}/export", handler.StoreExport)
	})
}

// GetMonthPlan projects the fleet schedule of one month.
// @Summary Get the month plan
// @Description Project the schedule of one month per vehicle, with each covered day labeled morning, afternoon or full day. Archived reservations stay visible.
// @Tags Plan
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} response.Data[dto.MonthPlanResponse] "Month plan"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/plan/{year}/{month} [get]
// @Security BearerAuth
func (handler *Handler) GetMonthPlan(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMonthPlan")
	defer scope.End()

	year, month, err := parseYearMonth(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse plan period")

		response.WithError(w, err)

		return
	}

	plan, err := handler.service.Month(ctx, year, month)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get month plan")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Month plan retrieved successfully")

	response.WithJSON(w, http.StatusOK, plan)
}

// StoreExport stores a client-rendered export of the month plan.
// @Summary Store a month plan export
// @Description Upload a base64-encoded export of the month plan and return its URL.
// @Tags Plan
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param request body dto.StoreExportRequest true "Store Export Request"
// @Success 201 {object} response.Data[dto.StoreExportResponse] "Stored export URL"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/plan/{year}/{month}/export [post]
// @Security BearerAuth
func (handler *Handler) StoreExport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StoreExport")
	defer scope.End()

	year, month, err := parseYearMonth(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse plan period")

		response.WithError(w, err)

		return
	}

	req := dto.StoreExportRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	result, err := handler.service.StoreExport(ctx, year, month, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to store plan export")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Plan export stored successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, result)
}

func parseYearMonth(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, failure.BadRequestFromString("invalid year") //nolint:wrapcheck
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, failure.BadRequestFromString("invalid month") //nolint:wrapcheck
	}

	return year, month, nil
}
