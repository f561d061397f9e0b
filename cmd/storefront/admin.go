package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamevault/storefront/pkg/catalog"
	"github.com/gamevault/storefront/pkg/session"
)

func newAdminCommand(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Staff-only catalog maintenance",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := application.init(cmd); err != nil {
				return err
			}
			// Client-side gate for a friendlier error; the server enforces
			// the real one.
			if !session.IsStaff(application.sessions.Token(cmd.Context())) {
				return fmt.Errorf("staff access required")
			}
			return nil
		},
	}
	cmd.AddCommand(
		newAdminGameAddCommand(application),
		newAdminGameUpdateCommand(application),
		newAdminGameRemoveCommand(application),
		newAdminOfferAddCommand(application),
		newAdminCategoryAddCommand(application),
	)
	return cmd
}

func gameInputFlags(cmd *cobra.Command, input *catalog.GameInput) {
	cmd.Flags().StringVar(&input.Name, "name", "", "game title")
	cmd.Flags().StringVar(&input.Slug, "slug", "", "URL slug")
	cmd.Flags().StringVar(&input.Description, "description", "", "store description")
	cmd.Flags().StringVar(&input.CoverImageURL, "cover-url", "", "cover image URL")
	cmd.Flags().StringVar(&input.CategoryID, "category-id", "", "category id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("slug")
}

func newAdminGameAddCommand(application *app) *cobra.Command {
	var input catalog.GameInput
	cmd := &cobra.Command{
		Use:   "game-add",
		Short: "Create a catalog entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := application.catalogAPI.CreateGame(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	gameInputFlags(cmd, &input)
	return cmd
}

func newAdminGameUpdateCommand(application *app) *cobra.Command {
	var input catalog.GameInput
	cmd := &cobra.Command{
		Use:   "game-update <game-id>",
		Short: "Rewrite a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := application.catalogAPI.UpdateGame(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}
	gameInputFlags(cmd, &input)
	return cmd
}

func newAdminGameRemoveCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "game-rm <game-id>",
		Short: "Delete a catalog entry and its offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.catalogAPI.DeleteGame(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func newAdminOfferAddCommand(application *app) *cobra.Command {
	var input catalog.KeyOfferInput
	cmd := &cobra.Command{
		Use:   "offer-add <game-id>",
		Short: "Add a key offer to a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := application.catalogAPI.CreateKeyOffer(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created offer %s (%s)\n", created.ID, created.KeyType)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.KeyType, "key-type", "", "platform the key redeems on")
	cmd.Flags().Int64Var(&input.PriceCents, "price-cents", 0, "price in integer cents")
	cmd.Flags().Int64Var(&input.Stock, "stock", 0, "keys available")
	_ = cmd.MarkFlagRequired("key-type")
	_ = cmd.MarkFlagRequired("price-cents")
	return cmd
}

func newAdminCategoryAddCommand(application *app) *cobra.Command {
	var name string
	var slug string
	cmd := &cobra.Command{
		Use:   "category-add",
		Short: "Create a browse category",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := application.catalogAPI.CreateCategory(cmd.Context(), catalog.Category{Name: name, Slug: slug})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "category name")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}
