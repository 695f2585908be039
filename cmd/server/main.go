package main

import (
	"aed-dispatch-service/internal/adapters/cache"
	"aed-dispatch-service/internal/adapters/repositories"
	"aed-dispatch-service/internal/adapters/routing"
	"aed-dispatch-service/internal/adapters/surface"
	"aed-dispatch-service/internal/api"
	"aed-dispatch-service/internal/config"
	"aed-dispatch-service/internal/domain"
	"aed-dispatch-service/internal/platform/clock"
	"aed-dispatch-service/internal/platform/db"
	"aed-dispatch-service/internal/platform/obs"
	"aed-dispatch-service/internal/platform/random"
	"aed-dispatch-service/internal/ports"
	"aed-dispatch-service/internal/seed"
	"aed-dispatch-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
)

// main is the application composition root.
// It wires concrete adapters (database, OSRM, Redis, scene hub) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     14,
		}
		defer rotator.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := obs.NewMetrics(nil)
	if err != nil {
		return err
	}

	var conn *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(conn); err != nil {
			return err
		}
	}

	aeds := aedDirectory(cfg, conn)

	routes, closeRoutes, err := routeProvider(ctx, cfg, conn, metrics)
	if err != nil {
		return err
	}
	defer closeRoutes()

	scene := surface.NewScene()
	clk := clock.Real{}
	rng := random.New(cfg.RandomSeed)
	tasks := repositories.NewMemoryTaskRepository(seed.DemoTasks(clk.Now())...)

	simCfg := services.DefaultSimulatorConfig()
	simCfg.TickPeriod = cfg.TickPeriod
	simCfg.Destination = seed.UserLocation
	simulator := services.NewDeliverySimulator(simCfg, scene, clk, metrics)

	animCfg := services.DefaultAnimatorConfig()
	animCfg.FrameInterval = cfg.FrameInterval
	if cfg.DispatchAllowStacking {
		animCfg.Policy = services.AllowStacking
	}
	animator := services.NewDispatchAnimator(animCfg, routes, tasks, scene, clk, rng, metrics)

	consoleCfg := services.DefaultConsoleConfig()
	consoleCfg.TickPeriod = cfg.TickPeriod
	consoleCfg.FixedDepot = seed.Depot
	consoleCfg.FixedPickup = seed.PickupAED
	consoleCfg.UserLocation = seed.UserLocation
	consoleCfg.NearbyStation = seed.NearbyStation
	consoleCfg.CityCenter = seed.CityCenter
	if cfg.DispatchSelection == config.SelectionNearest {
		consoleCfg.Selection = services.SelectNearest
	}

	console := services.NewConsole(ctx, consoleCfg, services.ConsoleDeps{
		Surface:   scene,
		AEDs:      aeds,
		Tasks:     tasks,
		Clock:     clk,
		Random:    rng,
		Simulator: simulator,
		Animator:  animator,
	}, seed.Alerts(), seed.Stations(), seed.InitialStats())
	defer console.Shutdown()

	if err := console.SwitchView(ctx, domain.ViewUser); err != nil {
		return err
	}

	router := api.NewRouter(console, scene, metrics)

	// WriteTimeout stays zero: /ws connections are long-lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s routing=%t selection=%s", cfg.Port, cfg.RoutingEnabled, cfg.DispatchSelection)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	scene.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// aedDirectory prefers the database, then the JSON export, then the inline sites.
func aedDirectory(cfg config.Config, conn *sql.DB) ports.AEDDirectory {
	if conn != nil {
		log.Println("AED directory source=database")
		return repositories.NewSQLAEDDirectory(conn)
	}
	if _, err := os.Stat(cfg.AEDDataPath); err == nil {
		log.Printf("AED directory source=file path=%s", cfg.AEDDataPath)
		return repositories.NewJSONAEDDirectory(cfg.AEDDataPath)
	}
	log.Printf("AED directory source=inline (file %s not found)", cfg.AEDDataPath)
	return repositories.NewStaticAEDDirectory(seed.InlineAEDs())
}

// routeProvider builds the routing adapter and its optional cache.
// The returned func releases the cache connection.
func routeProvider(ctx context.Context, cfg config.Config, conn *sql.DB, metrics *obs.Metrics) (ports.RouteProvider, func(), error) {
	noop := func() {}
	if !cfg.RoutingEnabled {
		log.Println("Routing disabled, using straight-line paths")
		return routing.StraightLineProvider{}, noop, nil
	}

	opts := []routing.OSRMOption{routing.WithMetrics(metrics)}
	closer := noop

	switch {
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("route cache: ping redis %s: %w", cfg.RedisAddr, err)
		}
		opts = append(opts, routing.WithRouteCache(cache.NewRedisRouteCache(client, cfg.RouteCacheTTL)))
		closer = func() { client.Close() }
		log.Printf("Route cache backend=redis addr=%s ttl=%s", cfg.RedisAddr, cfg.RouteCacheTTL)
	case conn != nil:
		opts = append(opts, routing.WithRouteCache(cache.NewSQLRouteCache(conn)))
		log.Println("Route cache backend=database")
	}

	provider, err := routing.NewOSRMRouteProvider(cfg.RoutingBaseURL, cfg.RoutingProfile, opts...)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return provider, closer, nil
}
