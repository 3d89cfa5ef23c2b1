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

// Package logging sets up the process wide logr.Logger backed by zap.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options control the logger.
type Options struct {
	Level       string
	Development bool
}

// AddFlags registers logging flags.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.Level, "log-level", "info", "Minimum log level, one of debug, info, warn or error.")
	f.BoolVar(&o.Development, "log-development", false, "Use human readable development logging.")
}

// Logger builds a logger writing to standard error so it never interleaves
// with the report on standard output.
func (o *Options) Logger() (logr.Logger, error) {
	level, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		return logr.Discard(), fmt.Errorf("parsing log level: %w", err)
	}

	config := zap.NewProductionConfig()
	if o.Development {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := config.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("building logger: %w", err)
	}

	return zapr.NewLogger(zapLogger), nil
}
