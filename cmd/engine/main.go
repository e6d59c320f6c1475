package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"transaction-engine/config"
	"transaction-engine/internal/adapter/csvio"
	"transaction-engine/internal/service"
	"transaction-engine/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-config file] <transactions.csv>\n", os.Args[0])
		os.Exit(2)
	}

	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("unable to read transaction file")
	}
	defer f.Close()

	log.Info().Str("file", path).Int("workers", cfg.Engine.Workers).Msg("processing transaction stream")

	engine := service.NewTransactionEngine(log)
	src := csvio.NewReader(f)
	if cfg.Engine.Workers > 1 {
		dispatcher := service.NewDispatcher(engine, cfg.Engine.Workers, log)
		err = dispatcher.Run(context.Background(), src)
	} else {
		err = engine.Process(src)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("processing failed")
	}

	// Account snapshots go to stdout; everything else stays on stderr.
	if err := csvio.NewWriter(os.Stdout).WriteSnapshots(engine.Accounts()); err != nil {
		log.Fatal().Err(err).Msg("unable to write account snapshots")
	}
}
