package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/cwreports/pkg/config"
	"github.com/yurifrl/cwreports/pkg/server"
)

func main() {
	var (
		cfgFile = pflag.StringP("config", "c", "", "Config file")
		debug   = pflag.Bool("debug", false, "Debug logging")
	)
	pflag.String("addr", "", "Listen address (default 127.0.0.1:3000)")
	pflag.String("token", "", "YNAB access token used when requests carry none")
	pflag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "cw-reports",
		Level:           level,
	})

	cfg, err := config.Build(*cfgFile, pflag.CommandLine)
	if err != nil {
		logger.Fatal("config error", "err", err)
	}

	srv := server.New(cfg, logger, nil)
	logger.Info("starting server", "addr", cfg.Addr)
	if err := srv.Start(cfg.Addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
