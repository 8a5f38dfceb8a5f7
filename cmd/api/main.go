package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-envios/docs"
	"github.com/jhoicas/inventario-envios/internal/application/auth"
	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/application/shipment"
	"github.com/jhoicas/inventario-envios/internal/application/usecase"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/inventario-envios/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/inventario-envios/internal/interfaces/http"
	"github.com/jhoicas/inventario-envios/pkg/config"
	"github.com/jhoicas/inventario-envios/pkg/logger"
	"github.com/jhoicas/inventario-envios/pkg/telemetry"
)

// store agrupa lo que cada driver de persistencia aporta al wiring.
type store struct {
	txRunner inventory.TxRunner
	repos    inventory.TxRepos
	users    repository.UserRepository
	close    func()
}

// @title                       Inventario Envíos API
// @version                     1.0
// @description                 Ledger de stock multi-bodega y flujo de envíos.
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas OpenTelemetry")
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	ledger := inventory.NewLedger()
	stockItemUC := inventory.NewStockItemUseCase(st.txRunner, st.repos.StockItems, ledger)
	shipmentUC := shipment.NewUseCase(st.txRunner, st.repos.Shipments, ledger)
	documentsUC := shipment.NewDocumentsUseCase(
		st.repos.Shipments, st.repos.Warehouses, st.repos.StockItems, st.repos.Catalog,
		infrapdf.NewMarotoDeliveryNoteGenerator(), ubl.NewDespatchAdviceBuilder(),
	)
	warehouseUC := usecase.NewWarehouseUseCase(st.repos.Warehouses)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Relay del outbox: solo con brokers configurados; sin Kafka los eventos quedan pendientes.
	relayDone := make(chan struct{})
	if cfg.Kafka.Enabled() {
		publisher := messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.StockTopic))
		defer publisher.Close()
		relay := messaging.NewOutboxRelay(st.txRunner, publisher, cfg.Outbox.Interval, cfg.Outbox.BatchSize, log.Zerolog())
		go func() {
			defer close(relayDone)
			relay.Start(ctx)
		}()
	} else {
		close(relayDone)
		log.Warn().Msg("KAFKA_BROKERS vacío: los eventos de stock quedan en el outbox sin publicar")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Version = cfg.App.Version
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Envíos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		WarehouseUC: warehouseUC,
		StockItemUC: stockItemUC,
		ShipmentUC:  shipmentUC,
		DocumentsUC: documentsUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	<-relayDone
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cerrar exportador de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.App.DevAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		mem := memory.NewStore()
		memory.SeedDemo(mem, cfg.App.DevAdminEmail, string(hash))
		log.Warn().Str("admin", cfg.App.DevAdminEmail).Msg("store en memoria con datos demo: el estado se pierde al reiniciar")
		return &store{txRunner: mem, repos: mem.Repos(), users: mem.Users(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &store{
		txRunner: postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		repos:    postgres.Repos(pool),
		users:    postgres.NewUserRepository(pool),
		close:    pool.Close,
	}, nil
}
