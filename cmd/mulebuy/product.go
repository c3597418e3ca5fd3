package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mulebuy/internal/linkgen"
	"mulebuy/internal/model"
	"mulebuy/internal/query"
)

func newConvertCmd(a *app) *cobra.Command {
	var ref string
	var save bool
	cmd := &cobra.Command{
		Use:   "convert <url>",
		Short: "Convert a marketplace URL to a partner link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parsed, err := linkgen.Parse(args[0])
			if err != nil {
				return err
			}

			code := ref
			if code == "" {
				code = linkgen.DefaultReferralCode()
			}
			partnerURL := linkgen.Render(parsed.ShopType, parsed.ExternalID, code)

			a.store.RecordConversion(ctx, model.HistoryEntry{
				Input:        args[0],
				ShopType:     parsed.ShopType,
				ExternalID:   parsed.ExternalID,
				ReferralCode: code,
				PartnerURL:   partnerURL,
			})

			if save {
				p, err := a.store.Add(ctx, model.Product{
					ShopType:     parsed.ShopType,
					ExternalID:   parsed.ExternalID,
					ReferralCode: code,
					PartnerURL:   partnerURL,
				})
				if err != nil {
					return err
				}
				fmt.Printf("saved %s\n", p.ID)
			}

			fmt.Println(partnerURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Referral code to embed (defaults to the configured code)")
	cmd.Flags().BoolVar(&save, "save", false, "Also save the converted product to the default list")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var p model.Product
	var list string
	cmd := &cobra.Command{
		Use:   "add [url]",
		Short: "Add a product, from a marketplace URL or blank",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				parsed, err := linkgen.Parse(args[0])
				if err != nil {
					return err
				}
				p.ShopType = parsed.ShopType
				p.ExternalID = parsed.ExternalID
				p.PartnerURL = linkgen.Render(parsed.ShopType, parsed.ExternalID, p.ReferralCode)
			}
			p.List = model.List(list)
			stored, err := a.store.Add(ctx, p)
			if err != nil {
				return err
			}
			fmt.Printf("added %s\n", stored.ID)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&p.Title, "title", "", "Product title")
	fl.StringVar(&p.Seller, "seller", "", "Seller name")
	fl.StringVar(&p.Size, "size", "", "Size")
	fl.StringVar(&p.Price, "price", "", "Price")
	fl.StringVar(&p.Notes, "notes", "", "Notes")
	fl.StringVar(&p.ReferralCode, "ref", "", "Referral code")
	fl.StringVar(&list, "list", "", "Target list (defaults to the settings default)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var opts query.Options
	var list, sortKey string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show products, filtered and sorted",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list != "" && !model.ValidList(model.List(list)) {
				return fmt.Errorf("unknown list %q, use one of %s", list, listNames())
			}
			key := model.SortKey(sortKey)
			if !model.ValidSortKey(key) {
				return fmt.Errorf("unknown sort key %q", sortKey)
			}
			opts.List = model.List(list)
			opts.Sort = key

			visible := query.Visible(a.store.Products(), opts)
			compact := a.store.Settings().CompactDisplay
			for _, p := range visible {
				printProduct(p, compact)
			}
			fmt.Printf("%d product(s)\n", len(visible))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&list, "list", "", "Only products in this list")
	fl.StringVar(&opts.Tag, "tag", "", "Only products carrying this tag")
	fl.StringVar(&opts.Search, "search", "", "Free-text search across all fields")
	fl.StringVar(&sortKey, "sort", string(model.SortNewest), "Sort key: newest, oldest, title-asc, title-desc, price-asc, price-desc, shop")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var title, seller, size, price, notes, ref, externalID string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit product fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if fl.Changed("title") {
				p.Title = title
			}
			if fl.Changed("seller") {
				p.Seller = seller
			}
			if fl.Changed("size") {
				p.Size = size
			}
			if fl.Changed("price") {
				p.Price = price
			}
			if fl.Changed("notes") {
				p.Notes = notes
			}
			if fl.Changed("ref") {
				p.ReferralCode = ref
			}
			if fl.Changed("external-id") {
				p.ExternalID = externalID
			}
			// Edits never recompute the partner URL; use "derive" for that.
			return a.store.Update(ctx, p)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&title, "title", "", "Product title")
	fl.StringVar(&seller, "seller", "", "Seller name")
	fl.StringVar(&size, "size", "", "Size")
	fl.StringVar(&price, "price", "", "Price")
	fl.StringVar(&notes, "notes", "", "Notes")
	fl.StringVar(&ref, "ref", "", "Referral code")
	fl.StringVar(&externalID, "external-id", "", "Marketplace item id")
	return cmd
}

func newRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <0-5>",
		Short: "Rate a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil || rating < 0 || rating > 5 {
				return fmt.Errorf("rating must be an integer between 0 and 5")
			}
			return a.store.SetRating(cmd.Context(), p.ID, rating)
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "move <id>...",
		Short: "Move products to another list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.resolveAll(args)
			if err != nil {
				return err
			}
			return a.store.BulkMoveTo(cmd.Context(), ids, model.List(target))
		},
	}
	cmd.Flags().StringVar(&target, "to", "", "Target list: "+listNames())
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete products",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.resolveAll(args)
			if err != nil {
				return err
			}
			removed := a.store.BulkDelete(cmd.Context(), ids)
			fmt.Printf("removed %d product(s)\n", removed)
			return nil
		},
	}
}

func newDeriveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "derive <id>",
		Short: "Recompute the partner URL from the product's parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.store.DerivePartnerURL(cmd.Context(), p.ID); err != nil {
				return err
			}
			p, _ = a.store.Get(p.ID)
			fmt.Println(p.PartnerURL)
			return nil
		},
	}
}

func newSetURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <id> <url>",
		Short: "Overwrite the partner URL directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			return a.store.SetPartnerURL(cmd.Context(), p.ID, args[1])
		},
	}
}

// resolve finds a product by exact id or unique id prefix.
func (a *app) resolve(arg string) (model.Product, error) {
	if p, ok := a.store.Get(arg); ok {
		return p, nil
	}
	var match model.Product
	found := 0
	for _, p := range a.store.Products() {
		if strings.HasPrefix(p.ID, arg) {
			match = p
			found++
		}
	}
	switch found {
	case 0:
		return model.Product{}, fmt.Errorf("no product matches %q", arg)
	case 1:
		return match, nil
	default:
		return model.Product{}, fmt.Errorf("%q matches %d products, use a longer prefix", arg, found)
	}
}

func (a *app) resolveAll(args []string) ([]string, error) {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		p, err := a.resolve(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func printProduct(p model.Product, compact bool) {
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	if compact {
		fmt.Printf("%-8s  %-9s  %-8s  %s\n", p.ID[:min(8, len(p.ID))], p.List, p.ShopType, title)
		return
	}
	fmt.Printf("%s  [%s]  %s\n", p.ID, p.List, title)
	fmt.Printf("    shop=%s item=%s price=%s rating=%d\n", p.ShopType, p.ExternalID, p.Price, p.Rating)
	if len(p.Tags) > 0 {
		fmt.Printf("    tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if p.PartnerURL != "" {
		fmt.Printf("    %s\n", p.PartnerURL)
	}
}

func listNames() string {
	names := make([]string, 0, len(model.Lists()))
	for _, l := range model.Lists() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}
