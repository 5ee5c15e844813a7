/*
Webapi is the executable for the main web server.
It connects to the external resources needed (database) and starts the API web server,
which serves the whole museum back office: collection, acquisitions, exhibitions,
ticketing, shop and reporting.

Usage:

	webapi [flags]

Flags and configurations are handled automatically by the code in `load-configuration.go`.

Return values (exit codes):

	0
		The program ended successfully (no errors, stopped by signal)

	> 0
		The program ended due to an error

Note that this program will create and seed the database schema when pointed to a blank file.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/tmaselli/galleria/pkg/acquisitions"
	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/artists"
	"github.com/tmaselli/galleria/pkg/artworks"
	"github.com/tmaselli/galleria/pkg/auth"
	"github.com/tmaselli/galleria/pkg/exhibitions"
	"github.com/tmaselli/galleria/pkg/reports"
	"github.com/tmaselli/galleria/pkg/rest"
	"github.com/tmaselli/galleria/pkg/shop"
	"github.com/tmaselli/galleria/pkg/storage/sqlite"
	"github.com/tmaselli/galleria/pkg/tickets"
	"github.com/tmaselli/galleria/pkg/users"
)

// main is the program entry point. The only purpose of this function is to call run() and set the exit code if there is
// any error
func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

// run executes the program. The body of this function should perform the following steps:
// * reads the configuration
// * creates and configure the logger
// * connects to any external resources (like databases, authenticators, etc.)
// * registers the API handlers of each package
// * starts the principal web server
// * waits for any termination event: SIGTERM signal (UNIX), non-recoverable server error, etc.
// * closes the principal web server
func run() error {
	// Load Configuration and defaults
	cfg, err := loadConfiguration()
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil
		}
		return err
	}

	// Init logging
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Infof("application initializing")

	// initialise database before registering handlers for an immediate exit in case of issues
	storage, err := sqlite.New(logger, cfg.DB.Filename)
	if err != nil {
		logger.WithError(err).Error("error initialising storage")
		return fmt.Errorf("error while initialising storage: %w", err)
	}
	defer storage.Close()

	// Start (main) API server
	logger.Info("initializing API server")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	e, err := rest.New(rest.Config{
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Error("error creating the API server instance")
		return fmt.Errorf("creating the API server instance: %w", err)
	}

	// setup repositories and handlers
	var authRepository = auth.NewRepository(storage.Connection)
	var recorder = activity.NewRecorder(storage.Connection, logger)
	var usersRepository = users.NewRepository(storage.Connection)
	var artistsStore = artists.NewStore(storage.Connection)
	var artworksStore = artworks.NewStore(storage.Connection)
	var acquisitionsStore = acquisitions.NewStore(storage.Connection, logger)
	var exhibitionsStore = exhibitions.NewStore(storage.Connection)
	var ticketsStore = tickets.NewStore(storage.Connection)
	var shopStore = shop.NewStore(storage.Connection)
	var reportsStore = reports.NewStore(storage.Connection)

	auth.RegisterHandlers(e, authRepository)
	users.RegisterHandlers(e, usersRepository, authRepository, recorder)
	artists.RegisterHandlers(e, artistsStore, authRepository, recorder)
	artworks.RegisterHandlers(e, artworksStore, authRepository, recorder)
	acquisitions.RegisterHandlers(e, acquisitionsStore, authRepository, recorder)
	exhibitions.RegisterHandlers(e, exhibitionsStore, authRepository, recorder)
	tickets.RegisterHandlers(e, ticketsStore, authRepository, recorder)
	shop.RegisterHandlers(e, shopStore, authRepository, recorder)
	reports.RegisterHandlers(e, reportsStore, authRepository)
	activity.RegisterHandlers(e, recorder, authRepository)

	// purge stale sessions on the hour
	scheduler := cron.New()
	if _, err = scheduler.AddFunc("@hourly", func() {
		purged, purgeErr := authRepository.PurgeExpired()
		if purgeErr != nil {
			logger.WithError(purgeErr).Warning("error purging expired sessions")
			return
		}
		logger.Debugf("purged %d expired sessions", purged)
	}); err != nil {
		return fmt.Errorf("scheduling session purges: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Apply CORS policy
	handler := applyCORSHandler(e.Handler())

	// create the API server
	server := http.Server{
		Addr:              cfg.Web.APIHost,
		Handler:           handler,
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	// Start the service listening for requests in a separate goroutine
	go func() {
		logger.Infof("API listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
		logger.Infof("stopping API server")
	}()

	// Waiting for shutdown signal or POSIX signals
	select {
	case err := <-serverErrors:
		// Non-recoverable server error
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and load shed.
		err = server.Shutdown(ctx)
		if err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			err = server.Close()
		}

		// Log the status of this shutdown.
		switch {
		// that's the actual SIGSTOP code, avoids issues with Goland on Windows with WSL target
		case sig == syscall.Signal(0x13):
			return errors.New("integrity issue caused shutdown")
		case err != nil:
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
