package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"lacasa/internal/cart"
	"lacasa/internal/config"
	"lacasa/internal/domain"
	"lacasa/internal/http/server"
	applog "lacasa/internal/log"
	"lacasa/internal/metrics"
	"lacasa/internal/order"
	"lacasa/internal/repos"
	"lacasa/internal/services"
	"lacasa/internal/session"
)

func main() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfgFile string
	rootCmd := &cobra.Command{
		Use:           "lacasa",
		Short:         "La Casa del Leñador storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfgFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (yaml, json or toml)")
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the storefront",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), cfgFile)
			},
		},
		&cobra.Command{
			Use:   "message",
			Short: "Print a sample order message and its hand-off link",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				return printSample(cmd, cfg)
			},
		},
	)

	if err := rootCmd.ExecuteContext(c); err != nil {
		applog.Logger().Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}

func serve(c context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	closer, err := applog.Setup(applog.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed opening db=%s with error=%w", cfg.DBDSN, err)
	}
	defer db.Close()

	store, live, err := openStore(c, cfg)
	if err != nil {
		return err
	}

	m := metrics.New(live)
	srv := server.New(cfg, db, store, m)

	errCh := make(chan error, 1)
	go func() {
		applog.Event("server.start", map[string]any{"port": cfg.Port, "session_store": cfg.SessionStore})
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-c.Done():
	}

	applog.Event("server.stop", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second+cfg.HandoffDelay)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore picks the session store. live reports the session count for the
// metrics gauge and is nil when the store cannot count cheaply.
func openStore(c context.Context, cfg config.Config) (session.Store, func() float64, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(c).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed ping redis addr=%s with error=%w", cfg.RedisAddr, err)
		}
		applog.Event("session.store", map[string]any{"kind": cfg.SessionStore, "addr": cfg.RedisAddr})
		return session.NewRedisStore(client, cfg.SessionTTL), nil, nil
	case config.SessionStoreMemory:
		mem := session.NewMemoryStore(cfg.SessionTTL)
		applog.Event("session.store", map[string]any{"kind": cfg.SessionStore})
		return mem, func() float64 { return float64(mem.Len()) }, nil
	default:
		return nil, nil, errors.New("unknown session store " + cfg.SessionStore)
	}
}

func printSample(cmd *cobra.Command, cfg config.Config) error {
	s := cart.State{Items: []cart.LineItem{
		services.PizzaLineItem(
			domain.PizzaSize{ID: "grande", Name: "Grande", Portions: 10, Price: 50000, MaxFlavors: 3},
			[]string{"Campesina", "Pollo BBQ"}, 1,
		),
		{ID: "sample-2", ProductID: "ham1", Name: "Leñador Sencilla", Price: 12000, Quantity: 2, Category: string(domain.CategoryHamburguesas)},
	}}
	customer := cart.Customer{
		Name:         "Ana Gómez",
		Phone:        "3001234567",
		Address:      "Calle 123 #45-67",
		Observations: "Sin cebolla",
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, order.Message(s, customer)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, order.HandoffURL(cfg.HandoffHost, cfg.HandoffDestination, s, customer))
	return err
}
