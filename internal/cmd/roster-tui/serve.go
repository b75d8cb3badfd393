package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/license/licenseapi"
	"github.com/leighmacdonald/roster-tui/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var listenAddress string

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the license api server",
		Long:  "Serve license verification, info and device registration over HTTP backed by the local database",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}

	cmd.Flags().StringVar(&listenAddress, "listen", "", "Listen address, overrides listen_address")

	return cmd
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configUpdates := make(chan config.Config)

	loader, userConfig, database, closer, errSetup := setup(ctx, configUpdates)
	if errSetup != nil {
		return errSetup
	}
	defer closer()

	address := userConfig.ListenAddress
	if listenAddress != "" {
		address = listenAddress
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := licenseapi.NewServer(license.NewService(store.New(database)), registry, registry)

	loader.Watch()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Serve(groupCtx, address)
	})
	group.Go(func() error {
		for {
			select {
			case conf := <-configUpdates:
				if conf.ListenAddress != address {
					slog.Warn("listen_address changed, restart to apply", slog.String("address", conf.ListenAddress))
				}
			case <-groupCtx.Done():
				return nil
			}
		}
	})

	if err := group.Wait(); err != nil {
		return errors.Join(err, errApp)
	}

	return nil
}
