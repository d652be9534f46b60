// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	bookingsfeature "github.com/dalemusser/shophub/internal/app/features/bookings"
	errorsfeature "github.com/dalemusser/shophub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/shophub/internal/app/features/health"
	homefeature "github.com/dalemusser/shophub/internal/app/features/home"
	inventoryfeature "github.com/dalemusser/shophub/internal/app/features/inventory"
	loginfeature "github.com/dalemusser/shophub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/shophub/internal/app/features/logout"
	overviewfeature "github.com/dalemusser/shophub/internal/app/features/overview"
	registerfeature "github.com/dalemusser/shophub/internal/app/features/register"
	settingsfeature "github.com/dalemusser/shophub/internal/app/features/settings"
	shopsfeature "github.com/dalemusser/shophub/internal/app/features/shops"
	teamfeature "github.com/dalemusser/shophub/internal/app/features/team"
	userstore "github.com/dalemusser/shophub/internal/app/store/users"
	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ShopHub initializes the template
// engine, applies session and shop-resolution middleware, and mounts the
// feature routers: authentication, the shop list and per-shop pages,
// central inventory, invites, and account settings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Membership and role changes take effect immediately, and
	// the resolver middleware never sees a stale membership list.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.ShopHubMongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	db := deps.ShopHubMongoDatabase

	r := chi.NewRouter()

	// Global middleware: load the SessionUser into context if logged in,
	// then resolve the active shop for the request. Every feature below
	// sees a fully resolved shop context.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(shopctx.Middleware(sessionMgr, logger))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ShopHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	registerHandler := registerfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Global dashboard
	overviewHandler := overviewfeature.NewHandler(db, logger)
	r.Mount("/overview", overviewfeature.Routes(overviewHandler, sessionMgr))

	// Shop list, creation, selection, per-shop overview and settings
	shopsHandler := shopsfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/shops", shopsfeature.Routes(shopsHandler, sessionMgr))

	// Per-shop sections. These mount beside the shops router; the shop in
	// the URL has already been resolved against the membership list by the
	// time any of them run.
	inventoryHandler := inventoryfeature.NewHandler(db, errLog, logger)
	r.Mount("/shops/{shopID}/inventory", inventoryfeature.ShopRoutes(inventoryHandler, sessionMgr))

	teamHandler := teamfeature.NewHandler(db, appCfg.BaseURL, errLog, logger)
	r.Mount("/shops/{shopID}/team", teamfeature.ShopRoutes(teamHandler, sessionMgr))

	bookingsHandler := bookingsfeature.NewHandler(db, errLog, logger)
	r.Mount("/shops/{shopID}/bookings", bookingsfeature.ShopRoutes(bookingsHandler, sessionMgr))
	r.Mount("/shops/{shopID}/calendar", bookingsfeature.CalendarRoutes(bookingsHandler, sessionMgr))

	// Cross-shop inventory for owners
	r.Mount("/central-inventory", inventoryfeature.CentralRoutes(inventoryHandler, sessionMgr))

	// Invite links and the recipient-side inbox
	r.Mount("/invites", teamfeature.InviteRoutes(teamHandler, sessionMgr))
	r.Mount("/inbox", teamfeature.InboxRoutes(teamHandler, sessionMgr))

	// Account settings
	settingsHandler := settingsfeature.NewHandler(db, errLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	// CSRF protection wraps the whole router; templates emit the token via
	// the gorilla.csrf.Token form field.
	protect := csrf.Protect([]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	)

	return protect(r), nil
}
