package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cashtrack/internal/export"
	"github.com/MrJamesThe3rd/cashtrack/internal/importer"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import bank statements (CGD .csv, .ofx, .qfx)",
		Long: `Import bank statements into the ledger. Rows already in the ledger are
skipped, and learned description rules are applied to every row.

Examples:
  cashtrack import ~/Downloads/extrato.csv
  cashtrack import --dry-run statement.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			forced, _ := cmd.Flags().GetString("format")

			var errs []error

			for _, path := range args {
				if err := importFile(cmd, path, importer.Format(forced), dryRun); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
				}
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolP("dry-run", "d", false, "show what would be imported without saving")
	cmd.Flags().String("format", "", "statement format (cgd, ofx); detected from the extension when empty")

	return cmd
}

func importFile(cmd *cobra.Command, path string, format importer.Format, dryRun bool) error {
	if format == "" {
		var err error
		if format, err = importer.DetectFormat(path); err != nil {
			return err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()

	if dryRun {
		forms, err := ledgerApp.Importer.Preview(cmd.Context(), format, f)
		if err != nil {
			return err
		}

		printForms(out, forms)

		return nil
	}

	result, err := ledgerApp.Importer.Import(cmd.Context(), format, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: imported %d, skipped %d duplicates\n",
		filepath.Base(path), len(result.Imported), len(result.Duplicates))

	return nil
}

func printForms(w io.Writer, forms []transaction.Form) {
	rows := make([][]string, 0, len(forms))
	for _, f := range forms {
		rows = append(rows, []string{f.Date, f.Time, string(f.Type), string(f.Account), f.Amount, f.Description})
	}

	printTable(w, []string{"Date", "Time", "Type", "Account", "Amount", "Description"}, rows)
}

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Teach the importer preferred descriptions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add PATTERN DESCRIPTION",
		Short: "Replace statement text containing PATTERN with DESCRIPTION",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledgerApp.Matching.Learn(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%q will be imported as %q\n", args[0], args[1])

			return nil
		},
	}, &cobra.Command{
		Use:   "test TEXT",
		Short: "Show the description a statement line would get",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := ledgerApp.Matching.Suggest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if desc == "" {
				desc = args[0]
			}

			fmt.Fprintln(cmd.OutOrStdout(), desc)

			return nil
		},
	})

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as a statement, CSV or zip archive",
		Long: `Export transactions between two dates (inclusive). Without --out the
statement is printed; with --out a zip archive holding the statement and a
CSV is written, or just the CSV when the path ends in .csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			out, _ := cmd.Flags().GetString("out")

			txs, err := ledgerApp.Export.Export(export.Filter{StartDate: from, EndDate: to})
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), ledgerApp.Export.Statement(txs))
				return nil
			}

			if info, err := os.Stat(out); err == nil && info.IsDir() {
				out = filepath.Join(out, fmt.Sprintf("export_%s.zip", time.Now().Format("20060102")))
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if filepath.Ext(out) == ".csv" {
				err = ledgerApp.Export.WriteCSV(f, txs)
			} else {
				err = ledgerApp.Export.WriteArchive(f, txs)
			}

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s\n", len(txs), out)

			return nil
		},
	}

	cmd.Flags().String("from", "", "first date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringP("out", "o", "", "output file or directory")

	return cmd
}
