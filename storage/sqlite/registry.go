package sqlite

import (
	"flag"
	"fmt"

	"xdao.co/warden/storage"
	"xdao.co/warden/storage/storeregistry"
)

var (
	flagSQLitePath string
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "sqlite",
		Description: "SQLite account store (single database file)",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagSQLitePath, "sqlite-path", "", "SQLite database file (for --backend=sqlite)")
		},
		Open: func() (storage.Store, func() error, error) {
			if flagSQLitePath == "" {
				return nil, nil, fmt.Errorf("missing --sqlite-path")
			}
			s, err := Open(flagSQLitePath)
			if err != nil {
				return nil, nil, err
			}
			return s, s.Close, nil
		},
	})
}
