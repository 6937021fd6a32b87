// Command chatmesh runs the multi-agent group-chat service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	openaisdk "github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"github.com/spf13/cobra"

	"github.com/hupe1980/chatmesh"
	"github.com/hupe1980/chatmesh/config"
	"github.com/hupe1980/chatmesh/feature"
	"github.com/hupe1980/chatmesh/logging"
	"github.com/hupe1980/chatmesh/model"
	anthropicmodel "github.com/hupe1980/chatmesh/model/anthropic"
	openaimodel "github.com/hupe1980/chatmesh/model/openai"
	"github.com/hupe1980/chatmesh/tool"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "chatmesh",
		Short:         "Multi-agent group-chat orchestration service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd(), newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the chatmesh version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println(version)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		Output:    os.Stdout,
		Component: "server",
	})

	m, err := buildModel(cfg)
	if err != nil {
		return err
	}

	mesh := chatmesh.New(func(o *chatmesh.Options) {
		o.PoolSize = cfg.Chat.PoolSize
		o.MaxNestedDepth = cfg.Chat.NestedDepth
		o.OutboundBuffer = cfg.Chat.OutboundBuffer
		o.Logger = logger
	})

	mesh.Register(feature.NewTranslation(m))
	mesh.Register(feature.NewNewsletter(m))
	mesh.Register(feature.NewWebScrape(m))
	mesh.Register(feature.NewMail(m, logOnlyMailSender(logger)))

	printBanner(cfg)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           mesh.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Providers.Default {
	case "openai":
		var clientOpts []openaioption.RequestOption
		if cfg.Providers.OpenAI.APIKey != "" {
			clientOpts = append(clientOpts, openaioption.WithAPIKey(cfg.Providers.OpenAI.APIKey))
		}
		client := openaisdk.NewClient(clientOpts...)
		return openaimodel.NewModelFromClient(&client, func(o *openaimodel.Options) {
			o.Model = cfg.Providers.OpenAI.Model
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.Model = anthropicsdk.Model(cfg.Providers.Anthropic.Model)
			o.APIKey = cfg.Providers.Anthropic.APIKey
		}), nil
	case "mock":
		return model.NewMockModel("mock"), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Providers.Default)
	}
}

// logOnlyMailSender records outgoing mail in the log instead of delivering it.
// Wire a real MailSender here once an SMTP relay is configured.
func logOnlyMailSender(logger logging.Logger) tool.MailSender {
	return tool.MailSenderFunc(func(_ context.Context, to, subject, htmlBody string) error {
		logger.Info("mail rendered", "to", to, "subject", subject, "bytes", len(htmlBody))
		return nil
	})
}

func logLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

func printBanner(cfg *config.Config) {
	banner := color.New(color.FgCyan, color.Bold)
	banner.Println("chatmesh " + version)
	color.White("listening on %s (provider: %s)", cfg.Server.Addr(), cfg.Providers.Default)
	color.White("features: translation, newsletter, webscrape, mail")
}
