package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/model"
	"github.com/kjet-platform/countydata/internal/observability"
)

const (
	appName   = "countydata"
	envPrefix = "COUNTYDATA"
	version   = "v0.3.0"
)

var (
	cfgFile      string
	verbose      bool
	cohortFlag   string
	originFlag   string
	dataRootFlag string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Resolve county evaluation datasets from the published static data tree",
	Long: `countydata locates per-county JSON datasets under the cohort-versioned
static data tree:

  {origin}/static/data/{cohort}/{path}

County names are published under inconsistent spellings (Murang'a,
Murang_a, Muranga). Every lookup tries each spelling in a fixed order
and returns the first candidate that answers with JSON.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Cancelling ctx aborts in-flight lookups.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.countydata/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.StringVar(&cohortFlag, "cohort", "", "cohort to read (latest, c1); overrides data.cohort")
	flags.StringVar(&originFlag, "origin", "", "origin serving the static data tree")
	flags.StringVar(&dataRootFlag, "data-root", "", "data root under the origin")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("data.origin", flags.Lookup("origin"))
	_ = viper.BindPFlag("data.data_root", flags.Lookup("data-root"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, "."+appName))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps COUNTYDATA_DATA_ORIGIN to data.origin, and so on.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key so environment variables are seen by
// Unmarshal even when no config file sets them.
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("data.origin", cfg.Data.Origin)
	v.SetDefault("data.data_root", cfg.Data.DataRoot)
	v.SetDefault("data.cohort", cfg.Data.Cohort)

	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	v.SetDefault("http.insecure_tls", cfg.HTTP.InsecureTLS)
	v.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", cfg.HTTP.NoProxy)

	v.SetDefault("sweep.workers", cfg.Sweep.Workers)
	v.SetDefault("sweep.requests_per_second", cfg.Sweep.RequestsPerSecond)
	v.SetDefault("sweep.burst_size", cfg.Sweep.BurstSize)
	v.SetDefault("sweep.respect_robots", cfg.Sweep.RespectRobots)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// loadConfig merges defaults, config file, environment and bound flags.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if v.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// requireOrigin rejects configurations that would produce root-relative URLs,
// which a command-line client cannot request.
func requireOrigin(cfg *model.Config) error {
	if strings.TrimSpace(cfg.Data.Origin) == "" {
		return fmt.Errorf("data.origin is not set (use --origin or %s_DATA_ORIGIN)", envPrefix)
	}
	return nil
}

// selectedCohort applies the --cohort flag over the configured default.
func selectedCohort(cfg *model.Config) cohort.Cohort {
	return cohort.Resolve(cohortFlag, cfg.Data.Cohort)
}

func newLogger(cfg *model.Config, w io.Writer) *slog.Logger {
	return observability.NewLogger(cfg.Log, w)
}
