/*
Copyright 2026 the Stockroom Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/stockroom-labs/api-smoke/pkg/client"
	"github.com/stockroom-labs/api-smoke/pkg/config"
	"github.com/stockroom-labs/api-smoke/pkg/constants"
	"github.com/stockroom-labs/api-smoke/pkg/logging"
	"github.com/stockroom-labs/api-smoke/pkg/smoke"
)

const (
	exitPassed = 0
	exitFailed = 1
	exitAbort  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configOptions  config.Options
		loggingOptions logging.Options
	)

	configOptions.AddFlags(pflag.CommandLine)
	loggingOptions.AddFlags(pflag.CommandLine)

	pflag.Parse()

	logger, err := loggingOptions.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitAbort
	}

	logger.Info("smoke run starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

	cfg, err := config.Load(&configOptions)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitAbort
	}

	logger.V(1).Info("configuration loaded", "baseURL", cfg.BaseURL, "username", cfg.Credentials.Username, "product", cfg.Product.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logr.NewContext(ctx, logger)

	color := !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd()))

	runner := smoke.New(client.New(cfg.ClientOptions()), smoke.NewConsoleReporter(os.Stdout, color), smoke.Options{
		Credentials:      cfg.Credentials,
		Product:          cfg.Product,
		NewQuantity:      cfg.NewQuantity,
		ExpectedQuantity: cfg.ListingQuantity(),
	})

	summary, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("smoke run interrupted")
		}

		fmt.Fprintln(os.Stderr, err)

		return exitAbort
	}

	if !summary.Passed() {
		logger.Info("smoke run failed", "failed", summary.Failed(), "halted", summary.Halted)
		return exitFailed
	}

	return exitPassed
}
