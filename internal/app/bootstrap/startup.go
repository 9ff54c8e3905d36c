// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"time"

	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/normalize"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureBootstrapAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureBootstrapAdmin makes sure the configured admin account exists. An
// existing user with that email is promoted to admin; otherwise the
// account is created with the configured password.
func ensureBootstrapAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	email := normalize.Email(appCfg.AdminEmail)
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == authz.RoleAdmin {
			return nil
		}
		_, err := deps.MongoDatabase.Collection("users").UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"role": authz.RoleAdmin, "updated_at": time.Now().UTC()}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", email),
			zap.String("previous_role", existing.Role))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := users.Create(ctx, models.User{
			FullName: appCfg.AdminName,
			Email:    email,
			Role:     authz.RoleAdmin,
		}, appCfg.AdminPassword)
		if err != nil {
			return err
		}
		logger.Info("created bootstrap admin",
			zap.String("email", email),
			zap.String("user_id", created.ID.Hex()))
		return nil

	default:
		return err
	}
}
