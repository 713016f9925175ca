package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/backoffice-api/internal/app"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
)

// StockListOptions flags de stock list.
type StockListOptions struct {
	*RootOptions
	Search string
	Below  int
}

// NewStockCommand agrupa las consultas de stock.
func NewStockCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Consultas de inventario",
	}
	opts := &StockListOptions{RootOptions: rootOpts}
	list := &cobra.Command{
		Use:           "list",
		Short:         "Lista el stock ordenado por nombre",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStockList(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Search, "search", "", "filtra por nombre (sin distinguir mayúsculas)")
	list.Flags().IntVar(&opts.Below, "below", -1, "solo ítems con cantidad menor o igual")
	cmd.AddCommand(list)
	return cmd
}

func runStockList(opts *StockListOptions, cmd *cobra.Command) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	f := dto.StockFilter{Search: opts.Search}
	if opts.Below >= 0 {
		below := opts.Below
		f.MaxQuantity = &below
	}
	return withContainer(cmd.Context(), opts.RootOptions, func(c *app.Container) error {
		items, err := c.Stock.List(cmd.Context(), f)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), opts.Format, items, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NOMBRE\tCANTIDAD\tUNIDAD\tVENCE")
			for _, it := range items {
				exp := "-"
				if it.ExpiryDate != nil {
					exp = it.ExpiryDate.Format("2006-01-02")
					if it.ExpiresSoon {
						exp += " (pronto)"
					}
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", it.Name, it.Quantity, it.Unit, exp)
			}
			return tw.Flush()
		})
	})
}
