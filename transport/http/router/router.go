package router

import (
	"motorpool/internal/handlers/auth"
	"motorpool/internal/handlers/plan"
	"motorpool/internal/handlers/reservation"
	"motorpool/internal/handlers/segment"
	"motorpool/internal/handlers/user"
	"motorpool/internal/handlers/vehicle"
	"motorpool/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Vehicle     vehicle.Handler
	Reservation reservation.Handler
	Segment     segment.Handler
	Plan        plan.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Vehicle.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Segment.Router(routerGroup)
		r.DomainHandlers.Plan.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
