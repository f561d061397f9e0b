package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gamevault/storefront/pkg/cart"
)

func newCatalogCommand(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the game catalog",
	}
	cmd.AddCommand(newCatalogListCommand(application), newCatalogShowCommand(application))
	return cmd
}

func newCatalogListCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all games and their key offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := application.catalogAPI.ListGames(cmd.Context())
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "GAME\tOFFER\tPLATFORM\tPRICE\tSTOCK")
			for _, game := range games {
				if len(game.Offers) == 0 {
					fmt.Fprintf(writer, "%s\t-\t-\t-\t-\n", game.Name)
					continue
				}
				for _, offer := range game.Offers {
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\n",
						game.Name, offer.ID, offer.KeyType,
						cart.AmountCents(offer.PriceCents).Display(), offer.Stock)
				}
			}
			return writer.Flush()
		},
	}
}

func newCatalogShowCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show one game with its offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := application.catalogAPI.GetGame(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", game.Name, game.Slug)
			if game.Description != "" {
				fmt.Fprintln(out, game.Description)
			}
			for _, offer := range game.Offers {
				fmt.Fprintf(out, "  %s  %s  %s  stock %d\n",
					offer.ID, offer.KeyType,
					cart.AmountCents(offer.PriceCents).Display(), offer.Stock)
			}
			return nil
		},
	}
}
