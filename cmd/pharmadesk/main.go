package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/config"
	"github.com/talkincode/pharmadesk/internal/adminapi"
	"github.com/talkincode/pharmadesk/internal/app"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

var (
	version  = "develop"
	cfile    = flag.String("c", "", "config yaml file")
	showVer  = flag.Bool("v", false, "show version")
	printCfg = flag.Bool("print-config", false, "print effective config and exit")
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version)
		return
	}

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	if *printCfg {
		fmt.Printf("%+v\n", application.Settings())
		return
	}

	application.Init(cfg)
	defer application.Release()

	srv := webserver.Init(cfg, application.Metrics())
	adminapi.Init(application)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.Timeout)
	application.WarmCache(ctx)
	cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-quit:
		zap.S().Infof("received %s, shutting down", sig)
		if err := srv.Shutdown(10 * time.Second); err != nil {
			zap.L().Error("web server shutdown", zap.String("namespace", "main"), zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			zap.L().Error("web server stopped", zap.String("namespace", "main"), zap.Error(err))
		}
	}
}
