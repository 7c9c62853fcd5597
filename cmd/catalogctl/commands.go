package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dalemusser/coursehub/internal/app/system/catalog"
	"github.com/dalemusser/coursehub/internal/app/system/courseq"
	"github.com/dalemusser/coursehub/internal/app/system/courseview"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Validate and query coursehub catalog files",
		Long: `catalogctl reads a YAML course catalog, reports problems with its
records, and runs the same search, filter and sort the catalog page uses.
Without a file argument the built-in catalog is used.`,
		SilenceUsage: true,
	}
	root.AddCommand(newValidateCmd(), newQueryCmd(), newDumpCmd())
	return root
}

func loadRecords(args []string) ([]models.Course, error) {
	if len(args) == 0 {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(args[0])
}

/*─────────────────────────────────────────────────────────────────────────────*
| validate [file]                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func newValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Report problems with catalog records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(args)
			if err != nil {
				return err
			}
			problems := catalog.Validate(recs)
			out := cmd.OutOrStdout()
			errs := 0
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
				if p.Severity == catalog.SeverityError {
					errs++
				}
			}
			fmt.Fprintf(out, "%d records, %d errors, %d warnings\n", len(recs), errs, len(problems)-errs)

			if errs > 0 || (strict && len(problems) > 0) {
				return fmt.Errorf("catalog has problems")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

/*─────────────────────────────────────────────────────────────────────────────*
| query [file]                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func newQueryCmd() *cobra.Command {
	var (
		text     string
		category string
		sortMode string
		asJSON   bool
		sections bool
	)
	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Run a search, filter and sort over the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(args)
			if err != nil {
				return err
			}
			cat, warnings, err := catalog.New(recs)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), w.String())
			}

			state := courseq.FromValues(url.Values{
				"q":        {text},
				"category": {category},
				"sort":     {sortMode},
			})
			projection := courseq.Project(cat, state)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(projection)
			}

			if sections {
				for _, s := range courseview.Render(projection) {
					fmt.Fprintf(out, "== %s ==\n", s.Heading)
					if s.Empty() {
						fmt.Fprintf(out, "  (%s)\n", s.Placeholder)
						continue
					}
					for _, c := range s.Cards {
						fmt.Fprintf(out, "  %-20s %s\n", c.Key, c.Title)
					}
				}
				return nil
			}

			for _, rec := range projection {
				fmt.Fprintf(out, "%-20s %-10s %s\n", rec.Key, rec.Category, rec.Title)
			}
			fmt.Fprintf(out, "%d of %d courses\n", len(projection), cat.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "q", "q", "", "free-text search")
	cmd.Flags().StringVar(&category, "category", models.CategoryAll, "category filter")
	cmd.Flags().StringVar(&sortMode, "sort", string(courseq.SortRecommended), "sort: recommended, az or za")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the projection as JSON")
	cmd.Flags().BoolVar(&sections, "sections", false, "group the projection into page sections")
	return cmd
}

/*─────────────────────────────────────────────────────────────────────────────*
| dump                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the built-in catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(map[string][]models.Course{"courses": catalog.Default()})
		},
	}
}
