// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lockup/lib/config"
	"github.com/bureau-foundation/lockup/lib/service"
)

// callTimeout bounds a single request to lockupd. Transitions commit in
// one store transaction, so even submits finish well inside it.
const callTimeout = 30 * time.Second

// Connection manages the --config and --socket flags shared by every
// command that reads configuration or talks to lockupd. It implements
// [FlagBinder], so embedding it in a params struct is enough.
type Connection struct {
	ConfigPath string
	SocketPath string

	config *config.Config
}

// AddFlags registers --config and --socket and resets any cached
// configuration from a previous run.
func (c *Connection) AddFlags(flagSet *pflag.FlagSet) {
	c.config = nil
	flagSet.StringVar(&c.ConfigPath, "config", "", "config file (default: $LOCKUP_CONFIG, then built-in defaults)")
	flagSet.StringVar(&c.SocketPath, "socket", "", "lockupd socket path (default: paths.socket from the config)")
}

// Config loads and validates the configuration once per run.
func (c *Connection) Config() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Resolve(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.config = cfg
	return cfg, nil
}

// Socket returns --socket, or the configured socket path.
func (c *Connection) Socket() (string, error) {
	if c.SocketPath != "" {
		return c.SocketPath, nil
	}
	cfg, err := c.Config()
	if err != nil {
		return "", err
	}
	return cfg.Paths.Socket, nil
}

// Client returns a client for lockupd.
func (c *Connection) Client() (*service.Client, error) {
	socketPath, err := c.Socket()
	if err != nil {
		return nil, err
	}
	return service.NewClient(socketPath), nil
}

// Call invokes action on lockupd with a bounded timeout. Connection
// failures come back with a hint about starting the daemon.
func (c *Connection) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	client, err := c.Client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	err = client.Call(ctx, action, fields, result)
	if err == nil {
		return nil
	}
	var serviceErr *service.ServiceError
	if errors.As(err, &serviceErr) {
		return err
	}
	if diagnosed := DiagnoseSocketError(err, client.SocketPath()); diagnosed != nil {
		return diagnosed
	}
	return err
}
