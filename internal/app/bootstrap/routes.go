// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	datafeature "github.com/datawell/datawell/internal/app/features/data"
	healthfeature "github.com/datawell/datawell/internal/app/features/health"
	formstore "github.com/datawell/datawell/internal/app/store/forms"
	profilestore "github.com/datawell/datawell/internal/app/store/profiles"
	recordstore "github.com/datawell/datawell/internal/app/store/records"
	submissionstore "github.com/datawell/datawell/internal/app/store/submissions"
	"github.com/datawell/datawell/internal/app/system/bulkops"
	"github.com/datawell/datawell/internal/app/system/resolve"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, and schema setup
// have completed. The data feature is the engine's collaborator surface;
// authentication happens upstream and hands us the requester identity in a
// header.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	forms := formstore.New(deps.SQL)
	subs := submissionstore.New(deps.SQL)
	profiles := profilestore.New(deps.SQL)
	records := recordstore.New(deps.MongoDatabase)

	gateway := resolve.New(forms, subs, resolve.OwnerOnly)
	ops := bulkops.New(subs, records, forms, profiles, logger)

	r := chi.NewRouter()

	healthfeature.MountRoutes(r, healthfeature.NewHandler(deps.MongoClient, deps.SQL, logger))
	datafeature.MountRoutes(r, datafeature.NewHandler(gateway, ops, logger))

	return r, nil
}
