package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"xdao.co/warden/internal/config"
	"xdao.co/warden/internal/observability"
	"xdao.co/warden/receipt"
	"xdao.co/warden/rpc"
	"xdao.co/warden/storage/storeregistry"
	"xdao.co/warden/warden"

	_ "xdao.co/warden/storage/memstore"
	_ "xdao.co/warden/storage/sqlite"
)

func main() {
	cfg, err := config.LoadDaemon()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fs := flag.NewFlagSet("xdao-wardend", flag.ExitOnError)
	listen := fs.String("listen", cfg.ListenAddr, "listen address")
	backend := fs.String("backend", cfg.Backend, "account store backend name")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	storeregistry.RegisterFlags(fs, storeregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range storeregistry.List(storeregistry.UsageDaemon) {
			if b.Description == "" {
				fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	logger := observability.NewLogger("xdao-wardend", cfg.LogLevel)

	entryPoint, err := cfg.EntryPointIdentity()
	if err != nil {
		logger.Error().Err(err).Msg("configuration")
		os.Exit(2)
	}

	store, closeStore, err := storeregistry.Open(*backend, storeregistry.UsageDaemon)
	if err != nil {
		logger.Error().Err(err).Str("backend", *backend).Msg("open store")
		os.Exit(2)
	}

	svcCfg := warden.Config{
		ChainID:    cfg.ChainID,
		EntryPoint: entryPoint,
		Store:      store,
		Logger:     logger,
	}
	if cfg.ReceiptDir != "" {
		archive, err := receipt.NewDir(cfg.ReceiptDir)
		if err != nil {
			logger.Error().Err(err).Str("dir", cfg.ReceiptDir).Msg("open receipt archive")
			os.Exit(2)
		}
		svcCfg.Emitter = receipt.NewArchiveEmitter(archive, logger)
		logger.Info().Str("dir", cfg.ReceiptDir).Msg("receipt archive enabled")
	}

	svc, err := warden.New(svcCfg)
	if err != nil {
		logger.Error().Err(err).Msg("build service")
		os.Exit(2)
	}

	var serverOpts []grpc.ServerOption
	if cfg.MaxMsgBytes > 0 {
		serverOpts = append(serverOpts,
			grpc.MaxRecvMsgSize(cfg.MaxMsgBytes),
			grpc.MaxSendMsgSize(cfg.MaxMsgBytes),
		)
	}
	if cfg.AuthToken != "" {
		serverOpts = append(serverOpts, grpc.UnaryInterceptor(rpc.StaticTokenInterceptor(cfg.AuthToken)))
		logger.Info().Msg("static token auth enabled")
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		logger.Error().Err(err).Str("addr", *listen).Msg("listen")
		os.Exit(1)
	}

	srv := grpc.NewServer(serverOpts...)
	rpc.RegisterWardenServer(srv, &rpc.Server{Service: svc})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("listen", lis.Addr().String()).
		Str("backend", *backend).
		Uint64("chain_id", cfg.ChainID).
		Msg("xdao-wardend listening")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		srv.GracefulStop()
		err = <-serveErr
	case err = <-serveErr:
	}
	if closeStore != nil {
		if cerr := closeStore(); cerr != nil {
			logger.Error().Err(cerr).Msg("close store")
		}
	}
	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		logger.Error().Err(err).Msg("serve")
		os.Exit(1)
	}
	logger.Info().Msg("stopped")
}
