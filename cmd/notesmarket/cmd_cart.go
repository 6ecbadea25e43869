package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/nikolayk812/notesmarket/internal/catalog"
	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (c *cli) catalogCmd() *cobra.Command {
	var filter catalog.Filter
	var maxPrice string
	var subjects bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse study notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subjects {
				for _, subject := range c.app.Catalog.Subjects() {
					fmt.Fprintln(cmd.OutOrStdout(), subject)
				}
				return nil
			}

			if maxPrice != "" {
				p, err := decimal.NewFromString(maxPrice)
				if err != nil {
					return fmt.Errorf("max-price[%s] is not valid: %w", maxPrice, err)
				}
				filter.MaxPrice = p
			}

			notes := c.app.Catalog.Search(filter)
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tSELLER\tPRICE")
			for _, n := range notes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Title, n.Subject, n.Seller, n.Price.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.Query, "query", "", "text to find in title or description")
	cmd.Flags().StringVar(&filter.Subject, "subject", "", "subject")
	cmd.Flags().StringVar(&filter.Seller, "seller", "", "seller name")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "highest price")
	cmd.Flags().BoolVar(&subjects, "subjects", false, "list subjects only")

	return cmd
}

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart",
	}

	var qty int
	add := &cobra.Command{
		Use:   "add <note-id>",
		Short: "Add a note to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, ok := c.app.Catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("note[%s] is not found", args[0])
			}

			item := note.CartItem()
			item.Quantity = qty
			c.app.Cart.Add(cmd.Context(), item)

			return printCart(cmd.OutOrStdout(), c.app.Cart.Cart())
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "quantity")

	remove := &cobra.Command{
		Use:   "remove <note-id>",
		Short: "Remove a note from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Cart.Remove(cmd.Context(), args[0])
			return printCart(cmd.OutOrStdout(), c.app.Cart.Cart())
		},
	}

	update := &cobra.Command{
		Use:   "update <note-id> <qty>",
		Short: "Set the quantity of a cart line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("qty[%s] is not valid: %w", args[1], err)
			}

			c.app.Cart.UpdateQuantity(cmd.Context(), args[0], n)
			return printCart(cmd.OutOrStdout(), c.app.Cart.Cart())
		},
	}

	clearCart := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.Cart.Clear(cmd.Context())
			return printCart(cmd.OutOrStdout(), c.app.Cart.Cart())
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printCart(cmd.OutOrStdout(), c.app.Cart.Cart())
		},
	}

	cmd.AddCommand(add, remove, update, clearCart, show)
	return cmd
}

func printCart(out io.Writer, cart domain.Cart) error {
	if cart.IsEmpty() {
		_, err := fmt.Fprintln(out, "Cart is empty.")
		return err
	}

	totals := cart.Totals()

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tQTY\tPRICE\tLINE")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			item.ID, item.Title, item.Quantity, item.Price.StringFixed(2), item.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t%d\tsubtotal\t%s\n", totals.Items, totals.Subtotal)
	fmt.Fprintf(w, "\t\t\ttax\t%s\n", totals.Tax)
	fmt.Fprintf(w, "\t\t\ttotal\t%s\n", totals.Total)
	return w.Flush()
}
