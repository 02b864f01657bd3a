// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names one branch of the tree.
type Layer string

const (
	// LayerIndex holds services that keep catalog-derived state warm.
	LayerIndex Layer = "index-layer"
	// LayerStream holds push services such as the live metrics hub.
	LayerStream Layer = "stream-layer"
	// LayerAPI holds the HTTP server.
	LayerAPI Layer = "api-layer"
)

// layers is the start order. Suture stops them in reverse.
var layers = []Layer{LayerIndex, LayerStream, LayerAPI}

// TreeConfig holds the restart policy shared by every supervisor in the
// tree. Zero fields take the value from DefaultTreeConfig.
type TreeConfig struct {
	// FailureThreshold is how many failures put a supervisor in backoff.
	FailureThreshold float64

	// FailureDecay is the failure half-life in seconds.
	FailureDecay float64

	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long a stopping service may take.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the root "shelfwise" supervisor plus one child
// supervisor per Layer.
type SupervisorTree struct {
	root     *suture.Supervisor
	branches map[Layer]*suture.Supervisor
	config   TreeConfig
}

// NewSupervisorTree builds the tree. Supervisor events are logged through
// logger.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, fmt.Errorf("supervisor tree requires a logger")
	}
	config = config.withDefaults()

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	// Children inherit the root's EventHook when added.
	root := suture.New("shelfwise", config.spec(handler.MustHook()))
	branches := make(map[Layer]*suture.Supervisor, len(layers))
	for _, l := range layers {
		branch := suture.New(string(l), config.spec(nil))
		root.Add(branch)
		branches[l] = branch
	}

	return &SupervisorTree{root: root, branches: branches, config: config}, nil
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// Add places svc under layer.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) (suture.ServiceToken, error) {
	branch, ok := t.branches[layer]
	if !ok {
		return suture.ServiceToken{}, fmt.Errorf("unknown supervisor layer %q", layer)
	}
	return branch.Add(svc), nil
}

// AddIndexService adds a service that maintains catalog-derived state.
func (t *SupervisorTree) AddIndexService(svc suture.Service) suture.ServiceToken {
	return t.branches[LayerIndex].Add(svc)
}

// AddStreamService adds a push or streaming service.
func (t *SupervisorTree) AddStreamService(svc suture.Service) suture.ServiceToken {
	return t.branches[LayerStream].Add(svc)
}

// AddAPIService adds the HTTP server.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.branches[LayerAPI].Add(svc)
}

// Serve blocks until ctx is canceled or the root gives up.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the tree in a goroutine. The returned channel
// receives the result when the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
