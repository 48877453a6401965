package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balances, totals and today's net",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary := ledgerApp.Summary(time.Now())
			d := summary.Format(ledgerApp.Formatter, ledgerApp.State.Currency())

			printTable(cmd.OutOrStdout(), []string{"", "Amount", "Share"}, [][]string{
				{"Cash", d.CashBalance, d.CashShare},
				{"Bank", d.BankBalance, d.BankShare},
				{"Total", d.TotalBalance, ""},
				{fmt.Sprintf("Income (%d)", summary.IncomeCount), d.Income, ""},
				{fmt.Sprintf("Expense (%d)", summary.ExpenseCount), d.Expense, ""},
				{"Today's net", d.TodaysNet, ""},
			})

			return nil
		},
	}
}

func balancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Manage the starting balances",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Set the starting cash and bank balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cash, _ := cmd.Flags().GetString("cash")
			bank, _ := cmd.Flags().GetString("bank")

			balances, err := ledger.ParseStartingBalances(cash, bank)
			if err != nil {
				return err
			}

			if err := ledgerApp.State.SetStartingBalances(cmd.Context(), balances); err != nil {
				return fmt.Errorf("saving balances: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Starting balances: cash %s, bank %s\n",
				ledgerApp.Format(balances.Cash), ledgerApp.Format(balances.Bank))

			return nil
		},
	}
	set.Flags().String("cash", "", "starting cash balance")
	set.Flags().String("bank", "", "starting bank balance")

	cmd.AddCommand(set)

	return cmd
}

func currencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Show or change the display currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ledgerApp.State.Currency())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set CODE",
		Short: "Set the ISO 4217 currency code, e.g. NGN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledgerApp.State.SetCurrency(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Currency set to %s\n", ledgerApp.State.Currency())

			return nil
		},
	})

	return cmd
}
