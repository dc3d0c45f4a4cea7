package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/orizon-lang/goanalyzer/internal/server"
)

func runServe(ctx context.Context, e env, args []string) error {
	fs, c := newFlagSet(e, "serve")
	addr := fs.String("addr", "", "HTTP/1.1 listen address (default from config)")
	http3Addr := fs.String("http3-addr", "", "HTTP/3 listen address; empty disables HTTP/3")
	certFile := fs.String("cert", "", "TLS certificate for HTTP/3")
	keyFile := fs.String("key", "", "TLS key for HTTP/3")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, logger, err := c.setup(e)
	if err != nil {
		return err
	}
	if !isSet(fs, "addr") {
		*addr = cfg.Server.Addr
	}
	if !isSet(fs, "http3-addr") {
		*http3Addr = cfg.Server.HTTP3Addr
	}
	if !isSet(fs, "cert") {
		*certFile = cfg.Server.CertFile
	}
	if !isSet(fs, "key") {
		*keyFile = cfg.Server.KeyFile
	}

	var tlsCfg *tls.Config
	if *http3Addr != "" {
		switch {
		case *certFile != "" && *keyFile != "":
			tlsCfg, err = server.LoadTLSConfig(*certFile, *keyFile)
		case *certFile == "" && *keyFile == "":
			logger.Warn("no certificate given, using a self-signed one")
			tlsCfg, err = server.GenerateSelfSignedTLS([]string{"localhost", "127.0.0.1"}, 24*time.Hour)
		default:
			err = fmt.Errorf("-cert and -key must be given together")
		}
		if err != nil {
			return fmt.Errorf("tls: %w", err)
		}
	}

	return server.Run(ctx, server.Config{
		Addr:      *addr,
		HTTP3Addr: *http3Addr,
		TLS:       tlsCfg,
		Logger:    logger,
	})
}
