package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/internal/auth"
	"github.com/mmynk/duoledger/internal/metrics"
	"github.com/mmynk/duoledger/internal/middleware"
	"github.com/mmynk/duoledger/internal/notify"
	"github.com/mmynk/duoledger/internal/storage"
	"github.com/mmynk/duoledger/pkg/api/apiconnect"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = []string{
	apiconnect.AuthServiceRegisterProcedure,
	apiconnect.AuthServiceLoginProcedure,
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Store     storage.Store
	JWT       *auth.JWTManager
	Publisher notify.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Register mounts all four services on mux behind the metrics, auth and
// logging interceptors.
func Register(mux *http.ServeMux, d Deps) {
	if d.Publisher == nil {
		d.Publisher = notify.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewNop()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(d.Metrics),
		middleware.RequireAuth(d.JWT, PublicProcedures...),
		middleware.LoggingInterceptor(d.Logger),
	)

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(d.Store), d.JWT, d.Store, d.Logger)
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, interceptors))
	mux.Handle(apiconnect.NewProjectServiceHandler(NewProjectService(d.Store, d.Logger), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(d.Store, d.Publisher, d.Logger), interceptors))
	mux.Handle(apiconnect.NewBalanceServiceHandler(NewBalanceService(d.Store, d.Publisher, d.Metrics, d.Logger), interceptors))
}
