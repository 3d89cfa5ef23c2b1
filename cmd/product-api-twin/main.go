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
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/stockroom-labs/api-smoke/pkg/constants"
	"github.com/stockroom-labs/api-smoke/pkg/logging"
	"github.com/stockroom-labs/api-smoke/pkg/twin"
)

type options struct {
	address  string
	secret   string
	tokenTTL time.Duration
	faults   []string
}

func (o *options) addFlags(f *pflag.FlagSet) {
	f.StringVar(&o.address, "listen-address", ":8080", "Address to serve the API on.")
	f.StringVar(&o.secret, "secret", "", "Token signing secret, random if unset.")
	f.DurationVar(&o.tokenTTL, "token-ttl", 24*time.Hour, "Access token lifetime.")
	f.StringSliceVar(&o.faults, "fault", nil, "Misbehaviour to inject, one of "+strings.Join(twin.FaultNames(), ", ")+".")
}

func main() {
	var (
		o              options
		loggingOptions logging.Options
	)

	o.addFlags(pflag.CommandLine)
	loggingOptions.AddFlags(pflag.CommandLine)

	pflag.Parse()

	logger, err := loggingOptions.Logger()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	faults, err := twin.ParseFaults(o.faults)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	handler, err := twin.New(twin.Options{
		Secret:   []byte(o.secret),
		TokenTTL: o.tokenTTL,
		Logger:   logger,
		Faults:   faults,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              o.address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "server shutdown failed")
		}
	}()

	logger.Info("service starting", "application", "product-api-twin", "version", constants.Version, "revision", constants.Revision, "address", o.address, "faults", o.faults)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(err, "server failed")
		os.Exit(1)
	}
}
