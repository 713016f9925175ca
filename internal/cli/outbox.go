package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/backoffice-api/internal/app"
)

// OutboxResult salida de outbox status/replay.
type OutboxResult struct {
	Replayed int `json:"replayed"`
	Pending  int `json:"pending"`
}

// NewOutboxCommand agrupa los comandos del outbox del historial.
func NewOutboxCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Entradas del historial pendientes de escritura",
	}
	cmd.AddCommand(&cobra.Command{
		Use:           "status",
		Short:         "Muestra cuántas entradas esperan reintento",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutbox(rootOpts, cmd, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "replay",
		Short:         "Reintenta escribir las entradas pendientes en el historial",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutbox(rootOpts, cmd, true)
		},
	})
	return cmd
}

func runOutbox(opts *RootOptions, cmd *cobra.Command, replay bool) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	ctx := cmd.Context()
	return withContainer(ctx, opts, func(c *app.Container) error {
		var res OutboxResult
		if replay {
			n, err := c.Recorder.Replay(ctx)
			res.Replayed = n
			if err != nil {
				return fmt.Errorf("replay interrumpido tras %d entradas: %w", n, err)
			}
		}
		pending, err := c.Outbox.Count(ctx)
		if err != nil {
			return err
		}
		res.Pending = pending
		return output(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) error {
			if replay {
				if _, err := fmt.Fprintf(w, "reintentadas: %d\n", res.Replayed); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(w, "pendientes: %d\n", res.Pending)
			return err
		})
	})
}
