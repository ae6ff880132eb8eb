package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apexev/workshop/modules"
	"github.com/apexev/workshop/modules/warehouse"
	"github.com/apexev/workshop/pkg/application"
	"github.com/apexev/workshop/pkg/composables"
	"github.com/apexev/workshop/pkg/configuration"
	"github.com/apexev/workshop/pkg/eventbus"
	"github.com/apexev/workshop/pkg/metrics"
	"github.com/apexev/workshop/pkg/middleware"
	"github.com/apexev/workshop/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	inMemory := strings.EqualFold(conf.StorageBackend, "memory")
	var pool *pgxpool.Pool
	if !inMemory {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		var err error
		pool, err = pgxpool.New(ctx, conf.Database.Opts)
		if err != nil {
			panic(err)
		}
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	warehouseModule := warehouse.NewModule(&warehouse.ModuleOptions{InMemory: inMemory})
	if err := modules.Load(app, warehouseModule); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if pool != nil {
		if err := applySchemas(context.Background(), pool, app); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}

	appCtx := context.Background()
	if pool != nil {
		appCtx = composables.WithPool(appCtx, pool)
	}
	if conf.SeedDemoData {
		if err := warehouseModule.SeedDemoData(appCtx); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	app.RegisterMiddleware(
		middleware.RequestLogger(logger),
		middleware.ProvideActor(),
	)
	if pool != nil {
		app.RegisterMiddleware(middleware.ProvidePool(pool))
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	logger.Infof("listening on %s", conf.SocketAddress)
	srv := server.NewHTTPServer(app)
	if err := srv.Start(conf.SocketAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func applySchemas(ctx context.Context, pool *pgxpool.Pool, app application.Application) error {
	for _, schemaFS := range app.Schemas() {
		err := fs.WalkDir(schemaFS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".sql") {
				return nil
			}
			content, err := fs.ReadFile(schemaFS, path)
			if err != nil {
				return err
			}
			_, err = pool.Exec(ctx, string(content))
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
