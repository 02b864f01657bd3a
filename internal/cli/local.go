// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
)

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for the catalog write endpoints",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "secret",
				Usage:    "HMAC secret shared with the server",
				Required: true,
				Sources:  cli.EnvVars("JWT_SECRET"),
			},
			&cli.StringFlag{
				Name:  "user",
				Value: "operator",
				Usage: "Token subject",
			},
			&cli.StringFlag{
				Name:  "role",
				Value: "admin",
				Usage: "Role claim (admin or user)",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: 24 * time.Hour,
				Usage: "Token lifetime",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			role := cmd.String("role")
			if role != "admin" && role != "user" {
				return fmt.Errorf("unknown role %q, valid roles are: admin, user", role)
			}
			mgr, err := auth.NewJWTManager(&config.SecurityConfig{
				JWTSecret: cmd.String("secret"),
				TokenTTL:  cmd.Duration("ttl"),
			})
			if err != nil {
				return err
			}
			token, err := mgr.GenerateToken(cmd.String("user"), role)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, token)
			return err
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Import books and users from a JSON seed file",
		Description: `Opens the badger catalog directly, so the server must not hold the
directory open. Documents whose id already exists are skipped.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Usage:    "Badger catalog directory",
				Required: true,
				Sources:  cli.EnvVars("CATALOG_PATH"),
			},
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Seed file with top-level books and users arrays",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed, err := catalog.LoadSeedFile(cmd.String("file"))
			if err != nil {
				return err
			}
			store, err := catalog.Open(catalog.Options{Path: cmd.String("catalog")}, logging.Logger())
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.Import(ctx, seed)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.Root().Writer, "imported %d books, %d users (%d skipped)\n",
				res.Books, res.Users, res.Skipped)
			return err
		},
	}
}
