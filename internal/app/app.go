package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/pharmadesk/config"
	"github.com/talkincode/pharmadesk/internal/cache"
	"github.com/talkincode/pharmadesk/internal/catalog"
	"github.com/talkincode/pharmadesk/internal/dashboard"
	"github.com/talkincode/pharmadesk/internal/gateway"
	"github.com/talkincode/pharmadesk/internal/inventory"
	"github.com/talkincode/pharmadesk/internal/sale"
	"github.com/talkincode/pharmadesk/internal/screen"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/pkg/metrics"
)

type Application struct {
	appConfig  *config.AppConfig
	metrics    *metrics.Registry
	gateway    *gateway.Client
	bus        EventBus.Bus
	cache      *cache.Cache
	board      *dashboard.Board
	workspaces *shell.Registry
	sched      *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ MetricsProvider   = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ WorkspaceProvider = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Metrics() *metrics.Registry {
	return a.metrics
}

func (a *Application) Catalog() *cache.Cache {
	return a.cache
}

func (a *Application) Board() *dashboard.Board {
	return a.board
}

func (a *Application) Workspaces() *shell.Registry {
	return a.workspaces
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)

	a.metrics = metrics.Default()
	a.gateway = gateway.New(cfg.Gateway, a.metrics)
	a.bus = EventBus.New()
	a.cache = cache.New(a.gateway, a.bus, cfg.Cache.TTL, a.metrics)
	a.board = dashboard.NewBoard(a.cache, a.bus)
	a.workspaces = shell.NewRegistry(a.screenFactories(), cfg.Web.SessionIdle)
	zap.S().Infof("Gateway %s, cache ttl %s", a.gateway.BaseURL(), cfg.Cache.TTL)

	a.initJob()
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// screenFactories wires each console screen to the shared cache.
func (a *Application) screenFactories() map[string]shell.Factory {
	return map[string]shell.Factory{
		shell.ScreenDashboard: func(scope *screen.Scope, n *screen.Notices) shell.Screen {
			return dashboard.NewScreen(a.board, scope, n)
		},
		shell.ScreenMedicines: func(scope *screen.Scope, n *screen.Notices) shell.Screen {
			return catalog.NewStore(a.cache, scope, n)
		},
		shell.ScreenSale: func(scope *screen.Scope, n *screen.Notices) shell.Screen {
			return sale.NewCart(a.cache, scope, n)
		},
		shell.ScreenInventory: func(scope *screen.Scope, n *screen.Notices) shell.Screen {
			return inventory.NewScreen(a.cache, scope, n)
		},
		shell.ScreenSettings: func(scope *screen.Scope, n *screen.Notices) shell.Screen {
			return shell.NewStatic(shell.ScreenSettings, func() interface{} {
				return a.Settings()
			})
		},
	}
}

// WarmCache preloads the catalog; failures are only logged.
func (a *Application) WarmCache(ctx context.Context) {
	if err := a.cache.Warm(ctx); err != nil {
		zap.L().Warn("cache warm-up failed", zap.String("namespace", "cache"), zap.Error(err))
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.workspaces != nil {
		a.workspaces.Close()
	}
	if a.board != nil {
		a.board.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	_ = zap.L().Sync()
}
