package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cashtrack/internal/resource"
)

// resourceCmds exposes the server-side collections. Records have no fixed
// schema, so they are listed by id and label.
func resourceCmds() []*cobra.Command {
	s := func() *resource.Services { return ledgerApp.Resources }

	return []*cobra.Command{
		recordCmd("wallets", func() *resource.Resource[resource.Record] { return s().Wallets }),
		recordCmd("budgets", func() *resource.Resource[resource.Record] { return s().Budgets }),
		recordCmd("reports", func() *resource.Resource[resource.Record] { return s().Reports }),
		flowCmd("inflows", func() *resource.Resource[resource.Flow] { return s().Inflows }),
		flowCmd("outflows", func() *resource.Resource[resource.Flow] { return s().Outflows }),
	}
}

func recordCmd(name string, res func() *resource.Resource[resource.Record]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("List %s from the server", name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := res().List(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{r.ID(), r.Label(), strings.Join(r.Keys(), ", ")})
			}

			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Fields"}, rows)

			return nil
		},
	}

	cmd.AddCommand(deleteCmd(name, func(ctx context.Context, id string) error { return res().Delete(ctx, id) }))

	return cmd
}

func flowCmd(name string, res func() *resource.Resource[resource.Flow]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("List %s from the server", name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flows, err := res().List(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(flows)+1)
			for _, f := range flows {
				rows = append(rows, []string{string(f.ID), f.Date, f.PaymentChannel, ledgerApp.Format(f.Amount), f.Note})
			}

			rows = append(rows, []string{"", "", "Total", ledgerApp.Format(resource.Total(flows)), ""})

			printTable(cmd.OutOrStdout(), []string{"ID", "Date", "Channel", "Amount", "Note"}, rows)

			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add AMOUNT",
		Short: fmt.Sprintf("Create one of the %s", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			channel, _ := cmd.Flags().GetString("channel")
			note, _ := cmd.Flags().GetString("note")

			flow, err := resource.CreateFlow(cmd.Context(), res(), resource.FlowForm{
				Amount:         args[0],
				Date:           date,
				PaymentChannel: channel,
				Note:           note,
			})
			if err != nil {
				return err
			}

			if flow == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Created.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s on %s\n", flow.ID, ledgerApp.Format(flow.Amount), flow.Date)

			return nil
		},
	}
	add.Flags().String("date", "", "date as YYYY-MM-DD (default today)")
	add.Flags().String("channel", "", "payment channel: "+strings.Join(resource.PaymentChannels, ", "))
	add.Flags().String("note", "", "free-form note")

	cmd.AddCommand(add, deleteCmd(name, func(ctx context.Context, id string) error { return res().Delete(ctx, id) }))

	return cmd
}

func deleteCmd(name string, del func(context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: fmt.Sprintf("Delete one of the %s", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])

			return nil
		},
	}
}
