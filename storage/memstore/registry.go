package memstore

import (
	"flag"

	"xdao.co/warden/storage"
	"xdao.co/warden/storage/storeregistry"
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:          "mem",
		Description:   "In-memory account store (state is lost on exit)",
		Usage:         storeregistry.UsageCLI | storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {},
		Open: func() (storage.Store, func() error, error) {
			return New(), nil, nil
		},
	})
}
