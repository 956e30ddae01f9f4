package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/lawchat/internal/answer"
	"github.com/joss/lawchat/internal/config"
	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/internal/graph"
	"github.com/joss/lawchat/internal/graphstore"
	"github.com/joss/lawchat/internal/server"
	"github.com/joss/lawchat/internal/storage"
)

func serveCmd() *cobra.Command {
	var addr string
	var backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the backend server",
		Long: `Run the HTTP backend the chat client talks to.

The store backend is sqlite (default) or graph. The graph backend
needs a reachable bolt endpoint (NEO4J_URI).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Env()
			if addr == "" {
				addr = env.Addr
			}
			if backend == "" {
				backend = env.StoreBackend
			}

			store, err := openStore(backend)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(store, answer.FromEnv(env), addr)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from LAWCHAT_ADDR)")
	cmd.Flags().StringVar(&backend, "store", "", "Store backend: sqlite or graph")

	return cmd
}

func openStore(backend string) (domain.ServerStore, error) {
	switch backend {
	case "", "sqlite":
		return storage.New(config.GetPaths().Data)
	case "graph":
		db, err := graph.ConnectWithRetry(3)
		if err != nil {
			return nil, err
		}
		cached := graph.NewCachedDriver(db, graph.NewQueryCache(256, 30*time.Second))
		return graphstore.New(cached), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
