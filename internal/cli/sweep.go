package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjet-platform/countydata/internal/fetch"
	"github.com/kjet-platform/countydata/internal/model"
	"github.com/kjet-platform/countydata/internal/pipeline"
	"github.com/kjet-platform/countydata/internal/staticpath"
	"github.com/kjet-platform/countydata/internal/util"
	"github.com/kjet-platform/countydata/internal/variants"
	"github.com/kjet-platform/countydata/internal/worker"
)

var (
	sweepTemplate string
	sweepJSON     string
	sweepMD       string
	sweepTimeout  time.Duration
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [file]",
	Short: "Resolve a dataset for many counties in parallel",
	Long: `Sweep resolves one dataset template for a list of counties and reports
which spelling each county was found under.

Counties are read from file (one per line, # comments allowed). Without a
file, all 47 counties are swept. Counties run in parallel; each county's
candidates are still tried one after another.`,
	Example: `  countydata sweep
  countydata sweep counties.txt --workers 8 --json sweep.json --md sweep.md
  countydata sweep --template "{}/summary.json" --cohort c1 --respect-robots`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	flags := sweepCmd.Flags()
	flags.StringVarP(&sweepTemplate, "template", "t", pipeline.EvaluationResultsTemplate, "dataset path template; {} marks the county")
	flags.StringVar(&sweepJSON, "json", "", "write the report as JSON to this path")
	flags.StringVar(&sweepMD, "md", "", "write the report as Markdown to this path")
	flags.DurationVar(&sweepTimeout, "timeout", 10*time.Minute, "total timeout for the sweep")

	flags.Int("workers", 0, "counties resolved concurrently")
	flags.Float64("rps", 0, "requests per second per host")
	flags.Int("burst", 0, "rate limiter burst size")
	flags.Bool("respect-robots", false, "skip candidates disallowed by robots.txt")

	_ = viper.BindPFlag("sweep.workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("sweep.requests_per_second", flags.Lookup("rps"))
	_ = viper.BindPFlag("sweep.burst_size", flags.Lookup("burst"))
	_ = viper.BindPFlag("sweep.respect_robots", flags.Lookup("respect-robots"))
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := requireOrigin(cfg); err != nil {
		return err
	}

	names := variants.Counties
	if len(args) == 1 {
		names, err = worker.ReadNamesFromFile(args[0])
		if err != nil {
			return fmt.Errorf("read counties: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sweepTimeout)
	defer cancel()

	c := selectedCohort(cfg)
	logger := newLogger(cfg, os.Stderr)
	locator := pipeline.NewLocator(
		staticpath.NewResolver(cfg.Data.Origin, cfg.Data.DataRoot),
		fetch.NewFetcher(cfg.HTTP).WithGate(sweepGate(cfg)),
		logger,
		nil,
	)

	fmt.Fprintf(os.Stderr, "Sweeping %d counties: %s (%s), %d workers\n\n", len(names), sweepTemplate, c, cfg.Sweep.Workers)

	report := worker.NewSweeper(locator, cfg.Sweep.Workers).Run(ctx, names, sweepTemplate, c)

	renderer := pipeline.NewRenderer()
	renderer.RenderSummary(cmd.OutOrStdout(), report)

	if sweepJSON != "" {
		if err := renderer.RenderJSON(report, sweepJSON); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", sweepJSON)
	}
	if sweepMD != "" {
		if err := renderer.RenderMarkdown(report, sweepMD); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", sweepMD)
	}

	if ctx.Err() != nil {
		return fmt.Errorf("sweep interrupted: %w", ctx.Err())
	}
	return nil
}

// sweepGate shares one host rate limiter across all workers and, if enabled,
// consults robots.txt before each candidate.
func sweepGate(cfg *model.Config) fetch.Gate {
	gates := fetch.Gates{worker.NewLimiter(cfg.Sweep.RequestsPerSecond, cfg.Sweep.BurstSize)}
	if cfg.Sweep.RespectRobots {
		gates = append(gates, util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout))
	}
	return gates
}
