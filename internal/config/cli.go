package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Profile carries the CLI's persistent defaults. A missing profile file is
// not an error; the zero profile's defaults apply.
type Profile struct {
	Server     string
	AuthToken  string
	ChainID    uint64
	KeysDir    string
	ReceiptDir string
	Timeout    time.Duration
}

func DefaultProfile() Profile {
	return Profile{
		Server:  "127.0.0.1:7466",
		ChainID: 1,
		Timeout: 10 * time.Second,
	}
}

func DefaultProfilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".xdao", "warden", "cli.toml"), nil
}

// profileFile is the cli.toml key mapping.
type profileFile struct {
	Server     string `toml:"server"`
	AuthToken  string `toml:"auth_token"`
	ChainID    uint64 `toml:"chain_id"`
	KeysDir    string `toml:"keys_dir"`
	ReceiptDir string `toml:"receipt_dir"`
	Timeout    string `toml:"timeout"`
}

// LoadProfile reads the TOML profile at path, overlaying defined keys on the
// defaults. An empty path means the default location; a missing file returns
// the defaults unchanged.
func LoadProfile(path string) (Profile, error) {
	cfg := DefaultProfile()

	if path == "" {
		var err error
		path, err = DefaultProfilePath()
		if err != nil {
			return cfg, nil
		}
	}

	var raw profileFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Profile{}, fmt.Errorf("config: load profile %s: %w", path, err)
	}

	if meta.IsDefined("server") {
		cfg.Server = strings.TrimSpace(raw.Server)
	}
	if meta.IsDefined("auth_token") {
		cfg.AuthToken = strings.TrimSpace(raw.AuthToken)
	}
	if meta.IsDefined("chain_id") {
		cfg.ChainID = raw.ChainID
	}
	if meta.IsDefined("keys_dir") {
		cfg.KeysDir = strings.TrimSpace(raw.KeysDir)
	}
	if meta.IsDefined("receipt_dir") {
		cfg.ReceiptDir = strings.TrimSpace(raw.ReceiptDir)
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Profile{}, fmt.Errorf("config: profile timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
