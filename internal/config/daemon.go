// Package config loads process configuration: environment variables for the
// daemon, a TOML profile for the CLI. Flags always override both.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"xdao.co/warden/identity"
)

// Daemon is the xdao-wardend configuration, parsed from WARDEN_* environment
// variables.
type Daemon struct {
	// ListenAddr is the gRPC listen address.
	ListenAddr string `env:"WARDEN_LISTEN_ADDR" envDefault:"127.0.0.1:7466"`

	// ChainID scopes every signed digest the service verifies.
	ChainID uint64 `env:"WARDEN_CHAIN_ID" envDefault:"1"`

	// EntryPoint is the execution-environment identity, empty to disable the
	// entry-point call paths.
	EntryPoint string `env:"WARDEN_ENTRY_POINT"`

	// Backend selects the account-store backend by registry name.
	Backend string `env:"WARDEN_STORE" envDefault:"mem"`

	// ReceiptDir enables the operation-receipt archive when non-empty.
	ReceiptDir string `env:"WARDEN_RECEIPT_DIR"`

	// AuthToken guards every RPC behind a static bearer token when non-empty.
	AuthToken string `env:"WARDEN_AUTH_TOKEN"`

	// MaxMsgBytes caps gRPC send/recv message sizes.
	MaxMsgBytes int `env:"WARDEN_MAX_MSG_BYTES" envDefault:"4194304"`

	// LogLevel is the minimum level the process logs at.
	LogLevel string `env:"WARDEN_LOG_LEVEL" envDefault:"info"`
}

// LoadDaemon parses and validates the daemon environment.
func LoadDaemon() (Daemon, error) {
	var d Daemon
	if err := env.Parse(&d); err != nil {
		return Daemon{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Daemon{}, err
	}
	return d, nil
}

func (d Daemon) Validate() error {
	if d.ListenAddr == "" {
		return errors.New("config: listen address is required")
	}
	if d.Backend == "" {
		return errors.New("config: store backend is required")
	}
	if d.MaxMsgBytes < 0 {
		return errors.New("config: max message bytes must not be negative")
	}
	if _, err := d.EntryPointIdentity(); err != nil {
		return err
	}
	return nil
}

// EntryPointIdentity parses the configured entry point; an empty setting is
// the zero identity, which disables the entry-point paths.
func (d Daemon) EntryPointIdentity() (identity.Identity, error) {
	if d.EntryPoint == "" {
		return identity.Zero, nil
	}
	id, err := identity.Parse(d.EntryPoint)
	if err != nil {
		return identity.Zero, fmt.Errorf("config: entry point: %w", err)
	}
	return id, nil
}
