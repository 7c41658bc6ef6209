package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/storage"
)

// Deps are the collaborators the RPC services run on.
type Deps struct {
	Store    storage.Store
	Ledgers  *ledger.Registry
	JWT      *auth.JWTManager
	Sessions *session.Notifier
	Metrics  *metrics.Metrics // nil disables RPC metrics
	Logger   *slog.Logger
}

// Mount registers AuthService and LedgerService on mux. Ledger procedures
// require a bearer token; auth procedures accept one when present.
func Mount(mux *http.ServeMux, d Deps) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(d.Store), d.JWT, d.Store, d.Sessions, d.Logger)
	authPath, authHandler := api.NewAuthServiceHandler(authSvc,
		connect.WithInterceptors(
			middleware.MetricsInterceptor(d.Metrics),
			middleware.OptionalAuth(d.JWT),
			middleware.LoggingInterceptor(d.Logger),
		),
	)
	mux.Handle(authPath, authHandler)

	ledgerSvc := NewLedgerService(d.Ledgers, d.Logger)
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(ledgerSvc,
		connect.WithInterceptors(
			middleware.MetricsInterceptor(d.Metrics),
			middleware.RequireAuth(d.JWT),
			middleware.LoggingInterceptor(d.Logger),
		),
	)
	mux.Handle(ledgerPath, ledgerHandler)
}
