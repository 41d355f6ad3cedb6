/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/oauth/oauth2/model"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/cert"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/config"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/instrumentation"
	"github.com/JonasVannieuwenhuijsen/oauth2-server/internal/system/log"
)

const shutdownTimeout = 15 * time.Second

type serveOptions struct {
	home       string
	configFile string
}

func runServe(ctx context.Context, opts *serveOptions) error {
	logger := log.GetLogger()
	defer logger.Sync()

	serverHome := getServerHome(logger, opts.home)
	configPath := opts.configFile
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(serverHome, configPath)
	}
	cfg := initServerConfigurations(logger, serverHome, configPath)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	inst, err := instrumentation.New(instrumentation.Config{
		ServiceVersion: cfg.Observability.ServiceVersion,
		Enabled:        cfg.Observability.Enabled,
	})
	if err != nil {
		logger.Fatal("Failed to initialize instrumentation", log.Error(err))
	}

	sm, err := newServiceManager(ctx, cfg, serverHome, inst)
	if err != nil {
		var configErr *model.ConfigurationError
		if errors.As(err, &configErr) {
			logger.Fatal("Invalid server configuration", log.String("component", configErr.Component),
				log.String("reason", configErr.Reason))
		}
		logger.Fatal("Failed to initialize services", log.Error(err))
	}
	defer sm.Close()

	server, serverAddr := createHTTPServer(logger, cfg, sm.Handler())
	if !cfg.Server.HTTPOnly {
		tlsConfig, err := cert.GetTLSConfig(cfg.Security, serverHome)
		if err != nil {
			logger.Fatal("Failed to load TLS configuration", log.Error(err))
		}
		server.TLSConfig = tlsConfig
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("OAuth2 server started", log.String("address", serverAddr),
			log.Bool("tls", server.TLSConfig != nil))
		var serveErr error
		if server.TLSConfig != nil {
			serveErr = server.ListenAndServeTLS("", "")
		} else {
			serveErr = server.ListenAndServe()
		}
		if errors.Is(serveErr, http.ErrServerClosed) {
			return nil
		}
		return serveErr
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("Shutting down OAuth2 server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return inst.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		watchConfigReload(groupCtx, logger, configPath)
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("Server stopped with an error", log.Error(err))
		return err
	}
	return nil
}

// getServerHome returns the configured home directory or the working directory.
func getServerHome(logger *log.Logger, home string) string {
	if home != "" {
		logger.Info("Using server home from command line argument", log.String("serverHome", home))
		return home
	}

	dir, err := os.Getwd()
	if err != nil {
		logger.Fatal("Failed to get current working directory", log.Error(err))
	}
	return dir
}

// initServerConfigurations loads the configuration file and initializes the server runtime.
func initServerConfigurations(logger *log.Logger, serverHome, configPath string) *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.String("path", configPath), log.Error(err))
	}

	if err := config.InitializeServerRuntime(serverHome, cfg); err != nil {
		logger.Fatal("Failed to initialize server runtime", log.Error(err))
	}
	return cfg
}

// watchConfigReload swaps the runtime configuration on SIGHUP. Lifetimes, the scope catalog and the
// PKCE settings apply to the next request; stores and listeners keep their startup values.
func watchConfigReload(ctx context.Context, logger *log.Logger, configPath string) {
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	for {
		select {
		case <-ctx.Done():
			return
		case <-reload:
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				logger.Error("Failed to reload configurations, keeping the current ones", log.Error(err))
				continue
			}
			config.UpdateServerConfig(cfg)
			logger.Info("Reloaded configurations", log.String("path", configPath))
		}
	}
}

// createHTTPServer creates an HTTP server with the access log in front of the handler.
func createHTTPServer(logger *log.Logger, cfg *config.Config, handler http.Handler) (*http.Server, string) {
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           log.AccessLogHandler(logger, handler),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return server, serverAddr
}
