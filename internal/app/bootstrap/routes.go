// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/trainhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/trainhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/trainhub/internal/app/features/logout"
	mappingsfeature "github.com/dalemusser/trainhub/internal/app/features/mappings"
	trainingfeature "github.com/dalemusser/trainhub/internal/app/features/training"
	userinfofeature "github.com/dalemusser/trainhub/internal/app/features/userinfo"
	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	loginstore "github.com/dalemusser/trainhub/internal/app/store/logins"
	requeststore "github.com/dalemusser/trainhub/internal/app/store/trainingrequests"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, the
// stores, and mounts one feature router per application area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)
	assignments := assignmentstore.New(deps.MongoDatabase)
	logins := loginstore.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, logins, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Current-user probe for the frontend
	userinfoHandler := userinfofeature.NewHandler()
	r.Mount("/api/user", userinfofeature.Routes(userinfoHandler))

	// Training-request workflow
	trainingHandler := trainingfeature.NewHandler(users, requests, logger)
	r.Mount("/training-requests", trainingfeature.Routes(trainingHandler, sessionMgr))

	// Manager-assignment management (HR panel)
	mappingsHandler := mappingsfeature.NewHandler(users, assignments, logger)
	r.Mount("/mappings", mappingsfeature.Routes(mappingsHandler, sessionMgr))

	return r, nil
}
