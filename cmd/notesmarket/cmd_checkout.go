package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/logger"
	"github.com/nikolayk812/notesmarket/internal/migrations"
	"github.com/spf13/cobra"
)

var errPaymentFailed = errors.New("payment failed")

func (c *cli) checkoutCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Pay for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := domain.ParsePaymentMethod(method)
			if err != nil {
				return err
			}

			receipt, err := c.app.Checkout.Checkout(cmd.Context(), m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !receipt.Succeeded() {
				fmt.Fprintf(out, "Payment %s failed: %s\n", receipt.Payment.TransactionID, receipt.Payment.FailureReason.Message())
				fmt.Fprintln(out, "Your cart was kept.")
				return fmt.Errorf("%w: %s", errPaymentFailed, receipt.Payment.FailureReason)
			}

			fmt.Fprintf(out, "Payment %s completed.\nOrder %s, total %s\n",
				receipt.Payment.TransactionID, receipt.Order.ID, receipt.Order.Total)
			return nil
		},
	}

	names := make([]string, 0, len(domain.PaymentMethods))
	for _, m := range domain.PaymentMethods {
		names = append(names, string(m))
	}
	cmd.Flags().StringVar(&method, "method", string(domain.PaymentMethodCard), strings.Join(names, ", "))

	return cmd
}

func (c *cli) ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List past orders, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders := c.app.Orders.List()
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "DATE\tORDER\tTRANSACTION\tITEMS\tMETHOD\tTOTAL\tSTATUS")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					o.Date.Format("2006-01-02 15:04"), o.ID, o.TransactionID, len(o.Items), o.PaymentMethod, o.Total, o.Status)
			}
			return w.Flush()
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "migrate",
		Short:       "Apply the postgres schema for the postgres storage driver",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.FromContext(cmd.Context())

			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			if err := migrations.Up(c.cfg.DatabaseDSN); err != nil {
				return fmt.Errorf("migrations.Up: %w", err)
			}

			log.Info("migrations applied", "driver", c.cfg.StorageDriver)
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}
