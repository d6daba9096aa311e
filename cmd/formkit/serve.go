package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/formhttp"
	"github.com/mitchelllharris/formkit/pkg/formstore"
	"github.com/mitchelllharris/formkit/pkg/httpserver"
	"github.com/mitchelllharris/formkit/pkg/i18n"
	"github.com/mitchelllharris/formkit/pkg/logger"
	formredis "github.com/mitchelllharris/formkit/pkg/redis"
	"github.com/mitchelllharris/formkit/pkg/requestid"
	"github.com/mitchelllharris/formkit/pkg/schema"
	"github.com/mitchelllharris/formkit/pkg/submit"
)

const readinessTimeout = 2 * time.Second

func newServeCmd() *cobra.Command {
	var addr, formsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every form in the forms directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			if formsDir != "" {
				cfg.FormsDir = formsDir
			}

			log := logger.NewFromConfig(cfg.Log, logger.WithContextExtractors(requestid.LoggerExtractor(), logger.FormIDExtractor))
			logger.SetAsDefault(log)

			ctx := cmd.Context()
			app, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer app.close()

			srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
			return srv.Run(ctx, app.handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	cmd.Flags().StringVar(&formsDir, "forms", "", "form definitions directory, overrides FORMKIT_FORMS_DIR")
	return cmd
}

// app is the wired HTTP surface of serve together with the resources it owns.
type app struct {
	handler http.Handler
	closers []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg Config, log *slog.Logger) (*app, error) {
	defs, err := schema.LoadDir(cfg.FormsDir)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no form definitions in %s", cfg.FormsDir)
	}

	trOpts := []i18n.Option{
		i18n.WithDefaultLanguage(cfg.DefaultLanguage),
		i18n.WithLogger(log),
	}
	if cfg.LocalesDir != "" {
		trOpts = append(trOpts, i18n.WithDir(cfg.LocalesDir))
	}
	tr, err := i18n.NewTranslator(ctx, trOpts...)
	if err != nil {
		return nil, err
	}

	a := &app{}
	store, checks, err := openStore(ctx, cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	submitter, err := newSubmitter(cfg, log)
	if err != nil {
		a.close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	forms := formhttp.New(defs, store,
		formhttp.WithSubmitter(submitter),
		formhttp.WithTranslator(tr),
		formhttp.WithLogger(log),
		formhttp.WithMetrics(formhttp.NewMetrics(reg)),
		formhttp.WithBasePath(cfg.BasePath),
	)

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthHandler(log, 0))
	r.Get("/readyz", httpserver.HealthHandler(log, readinessTimeout, checks...))
	r.Handle(cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	if cfg.BasePath == "" {
		r.Mount("/", forms.Routes())
	} else {
		r.Mount(cfg.BasePath, forms.Routes())
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	log.InfoContext(ctx, "forms loaded", logger.Fields(names), slog.String("store", cfg.Store))

	a.handler = r
	return a, nil
}

func openStore(ctx context.Context, cfg Config, a *app) (formstore.Store, []httpserver.Check, error) {
	switch cfg.Store {
	case storeRedis:
		client, err := formredis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client.Close)
		store := formstore.NewRedisStore(client, cfg.DraftTTL, formstore.WithKeyPrefix(cfg.RedisKeyPrefix))
		return store, []httpserver.Check{httpserver.Check(formredis.Healthcheck(client))}, nil
	case storeMemory:
		store := formstore.NewMemoryStore(cfg.DraftTTL, cfg.CleanupInterval)
		a.closers = append(a.closers, store.Close)
		return store, nil, nil
	default:
		return nil, nil, errors.New("unknown store " + cfg.Store)
	}
}

// newSubmitter logs every accepted submission and, when a webhook is
// configured, delivers it there afterwards.
func newSubmitter(cfg Config, log *slog.Logger) (form.SubmitFunc, error) {
	logged := submit.Log(log)
	if cfg.WebhookURL == "" {
		return logged, nil
	}
	sender, err := submit.NewSender(cfg.WebhookURL,
		submit.WithSecret(cfg.WebhookSecret),
		submit.WithTimeout(cfg.WebhookTimeout),
		submit.WithMaxRetries(cfg.WebhookRetries),
		submit.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return submit.Chain(logged, sender.Submit), nil
}
