package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gamevault/storefront/pkg/cart"
)

func newCartCommand(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cmd.AddCommand(
		newCartListCommand(application),
		newCartAddCommand(application),
		newCartUpdateCommand(application),
		newCartRemoveCommand(application),
		newCartClearCommand(application),
	)
	return cmd
}

func newCartListCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the cart contents and total",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.carts.FetchAll(cmd.Context()); err != nil {
				return err
			}
			return printCart(cmd, application)
		},
	}
}

func newCartAddCommand(application *app) *cobra.Command {
	var quantity int64
	cmd := &cobra.Command{
		Use:   "add <game-key-id>",
		Short: "Add a game key to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.carts.AddItem(cmd.Context(), args[0], quantity); err != nil {
				return err
			}
			return printCart(cmd, application)
		},
	}
	cmd.Flags().Int64Var(&quantity, "quantity", 1, "number of keys to add")
	return cmd
}

func newCartUpdateCommand(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <item-id> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %w", err)
			}
			ctx := cmd.Context()
			if err := application.carts.FetchAll(ctx); err != nil {
				return err
			}
			if err := application.carts.UpdateQuantity(ctx, args[0], quantity); err != nil {
				return err
			}
			return printCart(cmd, application)
		},
	}
	return cmd
}

func newCartRemoveCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove one line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := application.carts.FetchAll(ctx); err != nil {
				return err
			}
			if err := application.carts.RemoveItem(ctx, args[0]); err != nil {
				return err
			}
			return printCart(cmd, application)
		},
	}
}

func newCartClearCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.carts.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
			return nil
		},
	}
}

func printCart(cmd *cobra.Command, application *app) error {
	items := application.carts.Items()
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "cart is empty")
		return nil
	}
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ITEM\tGAME\tPLATFORM\tUNIT\tQTY\tLINE")
	for _, item := range items {
		lineTotal := cart.AmountCents(item.UnitPriceCents.Int64() * item.Quantity)
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.Game.Name, item.KeyType,
			item.UnitPriceCents.Display(), item.Quantity, lineTotal.Display())
	}
	fmt.Fprintf(writer, "\t\t\t\t%d\t%s\n",
		application.carts.DerivedCount(), application.carts.DerivedTotalCents().Display())
	if err := writer.Flush(); err != nil {
		return err
	}
	return nil
}
