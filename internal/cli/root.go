// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cli

import (
	"time"

	"github.com/urfave/cli/v3"
)

const (
	defaultServer  = "http://localhost:8000"
	defaultTimeout = 10 * time.Second
)

// NewRootCommand returns the shelfctl command tree.
func NewRootCommand(version string) *cli.Command {
	return &cli.Command{
		Name:                  "shelfctl",
		Usage:                 "Operate a Shelfwise recommendation server",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   defaultServer,
				Usage:   "Base URL of the Shelfwise API",
				Sources: cli.EnvVars("SHELFWISE_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token sent with every request",
				Sources: cli.EnvVars("SHELFWISE_TOKEN"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaultTimeout,
				Usage: "Per-request HTTP timeout",
			},
		},
		Commands: []*cli.Command{
			tokenCmd(),
			seedCmd(),
			recommendCmd(),
			clickCmd(),
			metricsCmd(),
			resetCmd(),
		},
	}
}
