package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mulebuy/internal/model"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent URL conversions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := a.store.History()
			if limit > 0 && limit < len(entries) {
				entries = entries[:limit]
			}
			for _, e := range entries {
				fmt.Printf("%s  %s/%s  ref=%s\n    %s\n    -> %s\n",
					e.CreatedAt, e.ShopType, e.ExternalID, e.ReferralCode, e.Input, e.PartnerURL)
			}
			fmt.Printf("%d conversion(s)\n", len(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store.Settings()
			fmt.Printf("defaultReferralCode: %s\n", s.DefaultReferralCode)
			fmt.Printf("defaultList:         %s\n", s.DefaultList)
			fmt.Printf("compactDisplay:      %v\n", s.CompactDisplay)
			return nil
		},
	}

	var ref, list string
	var compact bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store.Settings()
			fl := cmd.Flags()
			if fl.Changed("ref") {
				s.DefaultReferralCode = ref
			}
			if fl.Changed("list") {
				s.DefaultList = model.List(list)
			}
			if fl.Changed("compact") {
				s.CompactDisplay = compact
			}
			return a.store.UpdateSettings(cmd.Context(), s)
		},
	}
	set.Flags().StringVar(&ref, "ref", "", "Default referral code")
	set.Flags().StringVar(&list, "list", "", "Default list: "+listNames())
	set.Flags().BoolVar(&compact, "compact", false, "Compact product display")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore built-in default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.ResetSettings(cmd.Context())
			return nil
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}
