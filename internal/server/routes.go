package server

import (
	"log/slog"
	"net/http"

	"github.com/AsunaPahlo/armada-web/internal/auth"
	authHandlers "github.com/AsunaPahlo/armada-web/internal/auth/handlers"
	"github.com/AsunaPahlo/armada-web/internal/fleet"
	fleetHandlers "github.com/AsunaPahlo/armada-web/internal/fleet/handlers"
	"github.com/AsunaPahlo/armada-web/internal/hub"
	"github.com/AsunaPahlo/armada-web/internal/middleware"
	serverHandlers "github.com/AsunaPahlo/armada-web/internal/server/handlers"
	"github.com/AsunaPahlo/armada-web/internal/shared/database"
	"github.com/AsunaPahlo/armada-web/internal/shared/redis"
	"github.com/AsunaPahlo/armada-web/internal/telemetry"
	"github.com/AsunaPahlo/armada-web/internal/voyage"
	voyageHandlers "github.com/AsunaPahlo/armada-web/internal/voyage/handlers"
)

type Routes struct {
	db            *database.DB
	cache         *redis.Client
	store         *fleet.Store
	fleetRepo     *fleet.Repository
	aggregator    *fleet.Aggregator
	authService   *auth.Service
	voyageService *voyage.Service
	viewerHub     *hub.Hub
	broadcaster   *hub.Broadcaster
	registry      *telemetry.Registry
	logger        *slog.Logger
}

func NewRoutes(
	db *database.DB,
	cache *redis.Client,
	store *fleet.Store,
	fleetRepo *fleet.Repository,
	aggregator *fleet.Aggregator,
	authService *auth.Service,
	voyageService *voyage.Service,
	viewerHub *hub.Hub,
	broadcaster *hub.Broadcaster,
	registry *telemetry.Registry,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:            db,
		cache:         cache,
		store:         store,
		fleetRepo:     fleetRepo,
		aggregator:    aggregator,
		authService:   authService,
		voyageService: voyageService,
		viewerHub:     viewerHub,
		broadcaster:   broadcaster,
		registry:      registry,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache, r.viewerHub, r.registry)
	loginHandler := authHandlers.NewLoginHandler(r.authService)
	logoutHandler := authHandlers.NewLogoutHandler()
	meHandler := authHandlers.NewMeHandler()
	apiKeysHandler := authHandlers.NewAPIKeysHandler(r.authService)

	dashboardHandler := fleetHandlers.NewDashboardHandler(r.aggregator)
	submarinesHandler := fleetHandlers.NewSubmarinesHandler(r.aggregator)
	fcsHandler := fleetHandlers.NewFCsHandler(r.aggregator)
	estimatesHandler := fleetHandlers.NewEstimatesHandler(r.aggregator)
	supplyHandler := fleetHandlers.NewSupplyHandler(r.aggregator)
	pluginsHandler := fleetHandlers.NewPluginsHandler(r.store, r.registry)
	fcSettingsHandler := fleetHandlers.NewFCSettingsHandler(r.fleetRepo, r.aggregator)
	voyagesHandler := voyageHandlers.NewVoyagesHandler(r.voyageService)

	viewerWS := hub.NewHandler(r.viewerHub, r.broadcaster)
	pluginWS := telemetry.NewHandler(r.store, r.authService, r.voyageService, r.registry, r.viewerHub, r.broadcaster)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/auth/login", loginHandler)
	mux.Handle("/auth/logout", logoutHandler)

	// Protected endpoints (authenticated viewers)
	mux.Handle("/api/me", middleware.JWTMiddleware(meHandler))
	mux.Handle("/api/dashboard", middleware.JWTMiddleware(dashboardHandler))
	mux.Handle("/api/submarines", middleware.JWTMiddleware(submarinesHandler))
	mux.Handle("/api/fcs", middleware.JWTMiddleware(http.HandlerFunc(fcsHandler.List)))
	mux.Handle("/api/fcs/{id}", middleware.JWTMiddleware(http.HandlerFunc(fcsHandler.GetByID)))
	mux.Handle("/api/estimates", middleware.JWTMiddleware(estimatesHandler))
	mux.Handle("/api/supply", middleware.JWTMiddleware(supplyHandler))
	mux.Handle("/api/voyages", middleware.JWTMiddleware(http.HandlerFunc(voyagesHandler.List)))
	mux.Handle("/api/voyages/routes", middleware.JWTMiddleware(http.HandlerFunc(voyagesHandler.RouteIncomes)))
	mux.Handle("/api/plugins/status", middleware.JWTMiddleware(pluginsHandler))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("/api/keys", middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodPost {
			apiKeysHandler.Create(w, req)
			return
		}
		apiKeysHandler.List(w, req)
	})))
	mux.Handle("/api/keys/{id}", middleware.RequireAdmin(http.HandlerFunc(apiKeysHandler.Revoke)))
	mux.Handle("/api/fcs/{id}/settings", middleware.RequireAdmin(fcSettingsHandler))

	// Websocket endpoints. The viewer socket authenticates via session
	// token, the plugin socket via API key after the upgrade.
	mux.Handle("/ws/dashboard", viewerWS)
	mux.Handle("/ws/plugin", pluginWS)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/auth/login", "/auth/logout"},
		"protected_endpoints", []string{"/api/dashboard", "/api/submarines", "/api/fcs", "/api/estimates", "/api/supply", "/api/voyages", "/api/plugins/status"},
		"admin_endpoints", []string{"/api/keys", "/api/fcs/{id}/settings"},
		"websocket_endpoints", []string{"/ws/dashboard", "/ws/plugin"},
	)

	return mux
}
