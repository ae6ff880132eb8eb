package warehouse

import (
	"context"
	"embed"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/modules/warehouse/infrastructure/persistence"
	"github.com/apexev/workshop/modules/warehouse/infrastructure/persistence/memory"
	"github.com/apexev/workshop/modules/warehouse/presentation/controllers"
	"github.com/apexev/workshop/modules/warehouse/seed"
	"github.com/apexev/workshop/modules/warehouse/services"
	"github.com/apexev/workshop/pkg/application"
	"github.com/apexev/workshop/pkg/composables"
)

//go:embed infrastructure/persistence/schema/warehouse-schema.sql
var SchemaFiles embed.FS

type ModuleOptions struct {
	// InMemory swaps the Postgres repositories for the map-backed store.
	// Meant for local runs and tests, not production.
	InMemory bool
}

func NewModule(opts *ModuleOptions) *Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options  *ModuleOptions
	partRepo part.Repository
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&SchemaFiles)

	var (
		partRepo    part.Repository
		requestRepo partrequest.Repository
	)
	if m.options.InMemory || app.DB() == nil {
		store := memory.NewStore()
		partRepo = memory.NewPartRepository(store)
		requestRepo = memory.NewPartRequestRepository(store)
	} else {
		partRepo = persistence.NewPgPartRepository()
		requestRepo = persistence.NewPgPartRequestRepository()
	}

	m.partRepo = partRepo

	app.RegisterServices(
		services.NewPartService(partRepo, app.EventPublisher()),
		services.NewPartRequestService(requestRepo, partRepo, app.EventPublisher()),
		services.NewOrderReviewService(requestRepo, partRepo),
	)

	app.RegisterControllers(
		controllers.NewPartsAPIController(app),
		controllers.NewPartRequestsAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "warehouse"
}

// SeedDemoData loads the demo catalog. Call after Register.
func (m *Module) SeedDemoData(ctx context.Context) error {
	return composables.InTx(ctx, seed.PartsSeedFunc(m.partRepo))
}
