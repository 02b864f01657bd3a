// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tomtom215/shelfwise/internal/variant"
)

// ctrMetricPrefix selects the A/B families from a /metrics scrape.
const ctrMetricPrefix = "recommendations_"

func recommendCmd() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Request recommendations for a user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "Catalog user id",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   5,
				Usage:   "Number of recommendations",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the raw response",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			resp, err := client.recommend(ctx, cmd.String("user"), cmd.Int("count"))
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			if cmd.Bool("json") {
				data, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			for _, rec := range resp.Recommendations {
				if _, err := fmt.Fprintln(out, rec.ItemID); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func clickCmd() *cli.Command {
	return &cli.Command{
		Name:  "click",
		Usage: "Record a click against a variant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "model",
				Aliases:  []string{"m"},
				Usage:    "Variant that served the recommendation",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "user-index",
				Usage: "Integer index of the clicking user",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			model := cmd.String("model")
			if _, err := variant.Parse(model); err != nil {
				return err
			}
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			resp, err := client.click(ctx, model, cmd.Int("user-index"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, resp.Message)
			return err
		},
	}
}

func metricsCmd() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Print the A/B impression, click and CTR series",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Print the full exposition, including process metrics",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			text, err := client.metrics(ctx)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			if cmd.Bool("all") {
				_, err = fmt.Fprint(out, text)
				return err
			}
			_, err = fmt.Fprint(out, filterFamilies(text, ctrMetricPrefix))
			return err
		},
	}
}

func resetCmd() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Zero every A/B counter on the server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			resp, err := client.reset(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, resp.Message)
			return err
		},
	}
}

// filterFamilies keeps sample, HELP and TYPE lines whose metric name starts
// with prefix.
func filterFamilies(text, prefix string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		name := line
		if strings.HasPrefix(line, "# HELP ") || strings.HasPrefix(line, "# TYPE ") {
			name = line[len("# HELP "):]
		}
		if strings.HasPrefix(name, prefix) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
