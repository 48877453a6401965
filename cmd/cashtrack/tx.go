package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record, list and remove transactions",
	}

	cmd.AddCommand(txAddCmd(), txListCmd(), txRemoveCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add DESCRIPTION AMOUNT",
		Short: "Record a transaction",
		Long: `Record a transaction. The amount is always positive; use --type to say
which way the money moved.

Examples:
  cashtrack tx add "Sold 3 bags of rice" 45000 --type income --account cash
  cashtrack tx add "Shop rent" 120000 --type expense --account bank --date 2026-10-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			account, _ := cmd.Flags().GetString("account")
			date, _ := cmd.Flags().GetString("date")
			clock, _ := cmd.Flags().GetString("time")

			tx, err := ledgerApp.Transactions.Add(cmd.Context(), transaction.Form{
				Description: args[0],
				Amount:      args[1],
				Type:        transaction.Type(typ),
				Account:     transaction.Account(account),
				Date:        date,
				Time:        clock,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s on %s %s (%s)\n",
				tx.Type, ledgerApp.Format(tx.Amount), tx.Date, tx.Time, tx.ID)

			return nil
		},
	}

	cmd.Flags().String("type", string(transaction.TypeIncome), "income or expense")
	cmd.Flags().String("account", string(transaction.AccountCash), "cash or bank")
	cmd.Flags().String("date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().String("time", "", "time as HH:MM (default now)")

	return cmd
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			var rows [][]string

			for tx := range ledgerApp.Transactions.ListSorted() {
				if limit > 0 && len(rows) == limit {
					break
				}

				rows = append(rows, []string{
					tx.ID, tx.Date, tx.Time, string(tx.Type), string(tx.Account),
					ledgerApp.Format(tx.Signed()), tx.Description,
				})
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions yet.")
				return nil
			}

			printTable(cmd.OutOrStdout(), []string{"ID", "Date", "Time", "Type", "Account", "Amount", "Description"}, rows)

			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 0, "show at most n transactions")

	return cmd
}

func txRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Remove a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledgerApp.Transactions.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])

			return nil
		},
	}
}
