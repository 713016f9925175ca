// Package cli comandos de administración del back-office (alta de usuarios, outbox del historial, stock).
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/backoffice-api/internal/app"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// Formatos de salida.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// RootOptions flags globales y dependencias compartidas por los subcomandos.
type RootOptions struct {
	Format string
	// LoadConfig por defecto config.Load; los tests inyectan una configuración en memoria.
	LoadConfig func() (*config.Config, error)
}

// NewRootCommand arma el comando raíz con todos los subcomandos.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{LoadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backoffice",
		Short: "Administración del back-office",
		Long: `Herramientas de administración del back-office.

Usa la misma configuración que la API (DB_DRIVER, DATABASE_URL, MONGO_URI,
AUDIT_OUTBOX_PATH, ...) y escribe el historial de forma síncrona.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "formato de salida (text|json)")

	cmd.AddCommand(NewCreateUserCommand(opts))
	cmd.AddCommand(NewOutboxCommand(opts))
	cmd.AddCommand(NewStockCommand(opts))
	return cmd
}

// withContainer carga la configuración, arma el contenedor y lo cierra al terminar fn.
func withContainer(ctx context.Context, opts *RootOptions, fn func(*app.Container) error) (err error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: cfg.App.LogLevel, Service: cfg.App.Name, Out: os.Stderr})

	c, err := app.Build(ctx, cfg, log.Component("cli"), app.Options{})
	if err != nil {
		return fmt.Errorf("armado de dependencias: %w", err)
	}
	defer func() {
		if cerr := c.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(c)
}

// output escribe v como JSON o, en formato texto, delega en text.
func output(w io.Writer, format string, v any, text func(io.Writer) error) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}

func validateFormat(format string) error {
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("formato inválido %q (text|json)", format)
	}
	return nil
}
