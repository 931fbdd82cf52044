package router

import (
	"rentfy/internal/handlers/auth"
	"rentfy/internal/handlers/booking"
	"rentfy/internal/handlers/health"
	"rentfy/internal/handlers/media"
	"rentfy/internal/handlers/payment"
	"rentfy/internal/handlers/property"
	"rentfy/internal/handlers/review"
	"rentfy/internal/handlers/user"
	"rentfy/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	User     user.Handler
	Property property.Handler
	Media    media.Handler
	Booking  booking.Handler
	Payment  payment.Handler
	Review   review.Handler
	Health   health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

// SetupRoutes registers the probes at the root and the API under /v1.
// Every /v1 route passes API key, token and role checks in that order.
func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Property.Router(routerGroup)
		r.DomainHandlers.Media.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
