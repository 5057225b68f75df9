package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjet-platform/countydata/internal/fetch"
	"github.com/kjet-platform/countydata/internal/model"
	"github.com/kjet-platform/countydata/internal/pipeline"
	"github.com/kjet-platform/countydata/internal/staticpath"
	"github.com/kjet-platform/countydata/internal/variants"
)

var pathTemplate string

var variantsCmd = &cobra.Command{
	Use:   "variants <county>",
	Short: "List the spelling variants tried for a county",
	Example: `  countydata variants "Murang'a"
  countydata variants "homa bay"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# canonical: %s\n", variants.Canonical(args[0]))
		for _, v := range variants.Generate(args[0]) {
			fmt.Fprintln(out, v)
		}
		return nil
	},
}

var urlsCmd = &cobra.Command{
	Use:   "urls <county>",
	Short: "List candidate URLs in trial order without fetching",
	Example: `  countydata urls "Murang'a" --origin https://data.example.org
  countydata urls Nairobi --template "output-results/{}_evaluation_results.json" --cohort c1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		resolver := staticpath.NewResolver(cfg.Data.Origin, cfg.Data.DataRoot)
		for _, u := range resolver.BuildEntityURLs(args[0], pathTemplate, selectedCohort(cfg)) {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <county>",
	Short: "Fetch a county dataset, falling back through spelling variants",
	Example: `  countydata fetch "Homa Bay"
  countydata fetch Muranga --cohort c1 -v`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory [application-id]",
	Short: "Show the published application file inventory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInventory,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Fetch the national evaluation summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, locator, err := setupLocator()
		if err != nil {
			return err
		}
		res, err := locator.RawPath(cmd.Context(), pipeline.NationalSummaryPath, selectedCohort(cfg))
		if err != nil {
			return explain(err)
		}
		return printJSON(cmd, res.Value)
	},
}

func init() {
	rootCmd.AddCommand(variantsCmd, urlsCmd, fetchCmd, inventoryCmd, summaryCmd)

	for _, c := range []*cobra.Command{urlsCmd, fetchCmd} {
		c.Flags().StringVarP(&pathTemplate, "template", "t", pipeline.EvaluationResultsTemplate, "dataset path template; {} marks the county")
	}
}

func setupLocator() (*model.Config, *pipeline.Locator, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if err := requireOrigin(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, pipeline.NewLocatorFromConfig(cfg, newLogger(cfg, os.Stderr), nil), nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, locator, err := setupLocator()
	if err != nil {
		return err
	}

	res, err := locator.RawEntity(cmd.Context(), args[0], pathTemplate, selectedCohort(cfg))
	if err != nil {
		return explain(err)
	}

	fmt.Fprintf(os.Stderr, "✓ %s (attempt %d)\n", res.URL, res.Attempts)
	return printJSON(cmd, res.Value)
}

func runInventory(cmd *cobra.Command, args []string) error {
	cfg, locator, err := setupLocator()
	if err != nil {
		return err
	}

	res, err := locator.FileInventory(cmd.Context(), selectedCohort(cfg))
	if err != nil {
		return explain(err)
	}
	inv := res.Value

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		app, ok := inv[args[0]]
		if !ok {
			return fmt.Errorf("application %q not in inventory", args[0])
		}
		for _, f := range app.Files {
			fmt.Fprintf(out, "%s\t%s\n", f.Filename, f.S3URL)
		}
		return nil
	}

	ids := make([]string, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "%s\t%d files\n", id, len(inv[id].Files))
	}
	return nil
}

// explain adds every attempted candidate to an exhaustion error in verbose
// mode.
func explain(err error) error {
	var exhausted *fetch.ExhaustionError
	if verbose && errors.As(err, &exhausted) {
		fmt.Fprintf(os.Stderr, "Tried %d candidates:\n%s", len(exhausted.Attempts), exhausted.Detail())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out: %w", err)
	}
	return err
}

func printJSON(cmd *cobra.Command, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(cmd.OutOrStdout())
	return err
}
