package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	entriesQuery   string
	entriesSort    string
	entriesDesc    bool
	entriesPage    int
	entriesPerPage int
	entriesJSON    bool
	exportOutput   string

	entriesContentID string
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage stored submissions",
	Long: `List, view, delete or export the submissions stored for a form.

Submissions made with "submit --content-id" are read back with the same
--content-id.`,
}

var entriesListCmd = &cobra.Command{
	Use:   "list [form-id]",
	Short: "List submissions for a form",
	Long: `Lists one page of submissions, newest last.

--sort takes a field's form-safe name; the default is submission time.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntriesList,
}

var entriesGetCmd = &cobra.Command{
	Use:   "get [form-id] [row-id]",
	Short: "Show one submission",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntriesGet,
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete [form-id] [row-id]",
	Short: "Delete one submission",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntriesDelete,
}

var entriesExportCmd = &cobra.Command{
	Use:   "export [form-id]",
	Short: "Export submissions as CSV",
	Long: `Writes every submission of the form as CSV. The first two columns
are the row id and the submission time, followed by one column per field.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntriesExport,
}

func init() {
	entriesCmd.PersistentFlags().StringVar(&entriesContentID, "content-id", "",
		"form instance the entries were submitted under (defaults to the form id)")
	entriesListCmd.Flags().StringVarP(&entriesQuery, "query", "q", "", "only rows containing this text")
	entriesListCmd.Flags().StringVar(&entriesSort, "sort", "", "sort by field form-safe name")
	entriesListCmd.Flags().BoolVar(&entriesDesc, "desc", false, "sort descending")
	entriesListCmd.Flags().IntVar(&entriesPage, "page", 1, "page number")
	entriesListCmd.Flags().IntVarP(&entriesPerPage, "per-page", "n", domain.DefaultPerPage, "entries per page")
	entriesListCmd.Flags().BoolVar(&entriesJSON, "json", false, "output entries as JSON")
	entriesGetCmd.Flags().BoolVar(&entriesJSON, "json", false, "output the entry as JSON")
	entriesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")

	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesGetCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)
	entriesCmd.AddCommand(entriesExportCmd)
	rootCmd.AddCommand(entriesCmd)
}

func runEntriesList(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	formID := args[0]
	page, err := entryService.List(cmd.Context(), entryScope(formID), domain.SearchCriteria{
		Query:          entriesQuery,
		SortField:      entriesSort,
		SortDescending: entriesDesc,
		Page:           entriesPage,
		PerPage:        entriesPerPage,
	})
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if entriesJSON {
		return printJSON(cmd, page)
	}

	if len(page.Entries) == 0 {
		cmd.Printf("No entries found for form: %s\n", formID)
		return nil
	}

	cmd.Printf("Entries for form %s:\n\n", formID)
	for i := range page.Entries {
		printEntry(cmd, &page.Entries[i])
	}
	cmd.Printf("Page %d, showing %d of %d entries\n", page.Page, len(page.Entries), page.TotalRows)
	return nil
}

func runEntriesGet(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	entry, err := entryService.Get(cmd.Context(), entryScope(args[0]), args[1])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	if entriesJSON {
		return printJSON(cmd, entry)
	}
	printEntry(cmd, entry)
	return nil
}

func runEntriesDelete(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	if err := entryService.Delete(cmd.Context(), entryScope(args[0]), args[1]); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	cmd.Printf("Entry %s deleted.\n", args[1])
	return nil
}

func runEntriesExport(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	if exportOutput == "" {
		return exportTo(cmd, args[0], cmd.OutOrStdout())
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	if err := exportTo(cmd, args[0], f); err != nil {
		f.Close() //nolint:errcheck // export error takes precedence
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}

	cmd.Printf("Entries exported to %s\n", exportOutput)
	return nil
}

func exportTo(cmd *cobra.Command, formID string, w io.Writer) error {
	if err := entryService.ExportCSV(cmd.Context(), entryScope(formID), w); err != nil {
		return fmt.Errorf("failed to export entries: %w", err)
	}
	return nil
}

// entryScope applies the --content-id flag to a form id.
func entryScope(formID string) domain.EntryScope {
	return domain.EntryScope{FormID: formID, ContentID: entriesContentID}
}

func printEntry(cmd *cobra.Command, entry *domain.Entry) {
	cmd.Printf("  %s  %s\n", entry.RowID, entry.CreatedAt.Local().Format(timeLayout))
	for _, v := range entry.Values {
		cmd.Printf("    %s: %s\n", v.Label, v.Value)
	}
	cmd.Println()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
