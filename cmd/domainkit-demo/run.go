package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/components/metrics"
	"github.com/domainkit/domainkit/components/tracing"
	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/mediator"
	"github.com/domainkit/domainkit/persistence/gormstore"
)

type runOptions struct {
	total       int64
	metricsAddr string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run [order id...]",
		Short: "Place, price and confirm orders",
		Long:  "Place, price and confirm orders. Without arguments a single order with a random UUID is placed.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{domainkit.NewUUID()}
			}
			return runScenario(cmd.Context(), root, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int64Var(&opts.total, "total", 100, "Total price of every order")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "If set, metrics are served on this address until interrupted")

	return cmd
}

func runScenario(ctx context.Context, root *rootOptions, opts runOptions, orderIDs []string, out io.Writer) error {
	logger := root.logger
	cfg := root.cfg

	db, err := gormstore.OpenSQLite(ctx, cfg.Database.DSN, cfg.Database.DBConfig(logger))
	if err != nil {
		return err
	}
	defer func() { _ = gormstore.Close(db) }()

	if err := db.AutoMigrate(&orderModel{}); err != nil {
		return errors.Wrap(err, "cannot migrate")
	}

	repo, err := gormstore.NewRepository[*Order, orderModel, string](db, orderFromModel, gormstore.RepositoryConfig{})
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	metricsBuilder := metrics.NewPrometheusMetricsBuilder(promRegistry, "domainkit", "demo")

	handlerMetrics, err := metricsBuilder.NewHandlerMiddleware(tracing.NewHandlerMiddleware(nil, nil))
	if err != nil {
		return err
	}

	mediatorConfig := cfg.Mediator.MediatorConfig(logger)
	mediatorConfig.OnHandle = handlerMetrics.OnHandle

	m, err := mediator.NewMediator(mediatorConfig)
	if err != nil {
		return err
	}

	if err := m.AddHandlers(
		dispatch.NewEventHandler("PrintPlaced", func(ctx context.Context, e *OrderPlaced) error {
			_, err := fmt.Fprintf(out, "order %s placed\n", e.OrderID)
			return err
		}),
		dispatch.NewEventHandler("PrintPriced", func(ctx context.Context, e *OrderPriced) error {
			_, err := fmt.Fprintf(out, "order %s priced at %d\n", e.OrderID, e.Total)
			return err
		}),
		dispatch.NewEventHandler("PrintConfirmed", func(ctx context.Context, e *OrderConfirmed) error {
			order, found, err := repo.GetByID(ctx, e.OrderID)
			if err != nil {
				return err
			}
			if !found {
				return errors.Errorf("confirmed order %s is not stored", e.OrderID)
			}
			_, err = fmt.Fprintf(out, "order %s confirmed, stored as %s\n", order.ID(), order.Status)
			return err
		}),
	); err != nil {
		return err
	}

	registry := dispatch.NewRegistry()
	dispatch.MustRegister[*OrderPlaced](registry)
	dispatch.MustRegister[*OrderPriced](registry)
	dispatch.MustRegister[*OrderConfirmed](registry)

	service, err := dispatch.NewService(registry, m, dispatch.ServiceConfig{Logger: logger})
	if err != nil {
		return err
	}

	publisher, err := metricsBuilder.DecoratePublisher(tracing.DecoratePublisher(service, nil))
	if err != nil {
		return err
	}

	drainer, err := dispatch.NewDrainer(publisher, cfg.Dispatch.DrainConfig(logger))
	if err != nil {
		return err
	}

	uow, err := gormstore.NewUnitOfWork(db, drainer, gormstore.UnitOfWorkConfig{Logger: logger})
	if err != nil {
		return err
	}

	for _, id := range orderIDs {
		order := PlaceOrder(id)
		order.Price(opts.total)
		order.Confirm()

		uow.Register(orderToModel(order), order)
		saved, err := uow.SaveChanges(ctx)
		if err != nil {
			return errors.Wrapf(err, "cannot save order %s", id)
		}

		logger.Debug("Order saved", domainkit.LogFields{"order_id": id, "rows": saved})
	}

	orders, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%d orders stored\n", len(orders)); err != nil {
		return err
	}

	if opts.metricsAddr == "" {
		return nil
	}

	stop := metrics.ServeHTTP(opts.metricsAddr, promRegistry, logger)
	defer stop()

	_, _ = fmt.Fprintf(out, "serving metrics on %s/metrics\n", opts.metricsAddr)
	<-ctx.Done()

	return nil
}
