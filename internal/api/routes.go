package api

import (
	"github.com/go-chi/chi"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/v1/slots", registerHandler(handlers.CreateSlot))
	r.Post("/v1/slots/resolve", registerHandler(handlers.ResolveSlot))
	r.Post("/v1/stakes", registerHandler(handlers.PlaceStake))
	r.Post("/v1/claims", registerHandler(handlers.ClaimReward))
	r.Get("/v1/slot", registerHandler(handlers.GetSlot))
	r.Get("/v1/stake", registerHandler(handlers.GetStake))
	r.Get("/v1/vault", registerHandler(handlers.GetVaultBalance))
	r.Get("/v1/account", registerHandler(handlers.GetAccountBalance))
	r.Post("/v1/account/deposit", registerHandler(handlers.Deposit))
}
