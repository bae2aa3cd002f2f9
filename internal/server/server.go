package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/hotshelf/backend/internal/api/http"
	"github.com/hotshelf/backend/internal/api/middleware"
	"github.com/hotshelf/backend/internal/catalog"
	"github.com/hotshelf/backend/internal/infrastructure/config"
	"github.com/hotshelf/backend/internal/infrastructure/logging"
	"github.com/hotshelf/backend/internal/infrastructure/monitoring"
	"github.com/hotshelf/backend/internal/ranking"
	"github.com/hotshelf/backend/internal/shared/types"
	"github.com/hotshelf/backend/internal/shelf"
	"github.com/hotshelf/backend/internal/store"
	"github.com/hotshelf/backend/internal/ws"
)

// Server wires the engine to its transports.
type Server struct {
	cfg  *config.Config
	log  *logging.Logger
	ctrl *shelf.Controller
	http *http.Server
}

// New builds the full dependency graph from configuration.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	metrics, registry := monitoring.New()

	fileStore, err := store.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}
	cache := store.NewPredictionCache(fileStore, log.Named("cache"))

	cat := catalog.NewMemory()
	mat := catalog.NewMaterializer(cat, log.Named("catalog"))

	bridge := ws.NewBridge(log.Named("ws"), metrics)
	surface := shelf.NewSurface(cfg.Shelf.Capacity, cfg.Shelf.Columns, bridge)

	// The update callback closes over ctrl; deliveries only start once the
	// controller has opened a session, after construction.
	var ctrl *shelf.Controller
	var client ranking.Client
	if cfg.Ranking.Enabled {
		client = ranking.NewHTTP(cfg.Ranking.BaseURL, func(keys []types.StableKey) {
			ctrl.Post(func() { ctrl.OnPredictionsUpdated(keys) })
		}, log.Named("ranking"))
	} else {
		log.Info("ranking client disabled, running degraded")
	}

	ctrl = shelf.New(shelf.Options{
		Surface:      surface,
		Materializer: mat,
		Client:       client,
		Store:        fileStore,
		Cache:        cache,
		Policy:       shelf.ThresholdPolicy{MinItems: cfg.Shelf.AutoEnableItemMin},
		SurfaceName:  cfg.Ranking.Surface,
		Logger:       log.Named("shelf"),
		Metrics:      metrics,
	})

	bridge.SetController(ctrl)
	ctrl.SetUIAttached(bridge.Active)
	cat.SetOnChange(func() {
		ctrl.Post(func() { ctrl.OnCatalogChanged() })
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	handlers := apihttp.NewHandlers(ctrl, cat)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Shelf state and control
	router.GET("/shelf", handlers.GetShelf)
	router.POST("/shelf/enable", handlers.Enable)
	router.POST("/shelf/pause", handlers.Pause)
	router.PUT("/shelf/capacity", handlers.SetCapacity)
	router.POST("/shelf/layout", handlers.SyncLayout)
	router.GET("/shelf/rank", handlers.GetRank)
	router.POST("/shelf/slots/:slot/pin", handlers.Pin)
	router.PUT("/shelf/slots/:slot", handlers.PlaceItem)

	// Host integration
	router.POST("/catalog", handlers.FeedCatalog)
	router.POST("/shelf/folders/created", handlers.FolderCreated)
	router.POST("/shelf/folders/dissolved", handlers.FolderDissolved)

	// Shelf UI bridge
	router.GET("/stream", bridge.HandleConnection)

	return &Server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		ctrl: ctrl,
	}, nil
}

// Run starts the owner loop and serves HTTP until the context is canceled,
// then shuts both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.ctrl.Start(ctx)
	go s.ctrl.Run(loopCtx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("http shutdown failed", zap.Error(err))
	}

	s.ctrl.Shutdown()
	return nil
}
