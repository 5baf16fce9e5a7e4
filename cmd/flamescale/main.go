package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger"
	"github.com/flamescale/flamescale/pkg/config"
	"github.com/flamescale/flamescale/pkg/flamescale"
	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/middleware"
	"github.com/flamescale/flamescale/pkg/storage"
	badgerStorage "github.com/flamescale/flamescale/pkg/storage/badger"
	"github.com/flamescale/flamescale/pkg/storage/inmemory"
	"github.com/flamescale/flamescale/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/xerrors"
)

func main() {
	printVersion := flag.Bool("version", false, "print version and exit")

	var conf config.Config
	conf.RegisterFlags(flag.CommandLine)

	flag.Parse()

	if *printVersion {
		fmt.Println(version.String())
		os.Exit(1)
	}

	logger, err := conf.Logger.Build()
	if err != nil {
		panic(err)
	}

	if err := run(context.Background(), logger, conf); err != nil {
		logger.Error(err)
	}
}

func run(ctx context.Context, logger *log.Logger, conf config.Config) error {
	var (
		sr storage.Reader
		sw storage.Writer
	)
	if conf.Badger.Dir != "" {
		opts := badger.DefaultOptions(conf.Badger.Dir)
		db, err := badger.Open(opts)
		if err != nil {
			return xerrors.Errorf("could not open badger db in %q: %w", conf.Badger.Dir, err)
		}
		defer db.Close()

		st := badgerStorage.New(logger.With("storage", "badger"), db, conf.Badger.TraceTTL)
		sr, sw = st, st
	} else {
		st := inmemory.New()
		sr, sw = st, st
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(prometheus.NewGoCollector())

	mux := http.NewServeMux()
	flamescale.SetupRoutes(mux, logger, promRegistry, sr, sw)
	mux.Handle("/debug/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	h := middleware.LoggingHandler(logger, mux)
	h = middleware.RecoveryHandler(logger, h)

	server := http.Server{
		Addr:    conf.Addr,
		Handler: h,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infow("server is running", "addr", server.Addr)
		errc <- server.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigs:
		logger.Infow("exiting")
	case err := <-errc:
		if err != http.ErrServerClosed {
			return xerrors.Errorf("terminated: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, conf.ExitTimeout)
	defer cancel()

	return server.Shutdown(ctx)
}
