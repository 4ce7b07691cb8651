package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-report-cache/internal/models"
	"go-report-cache/internal/period"
	"go-report-cache/internal/utils"
)

// Global flags
var (
	configPath string
	rulesPath  string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "report-cache",
	Short: "Tourism report cache",
	Long: `Serves tourism reports for named periods, caching computed results
per category and year, and administers the cache.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the scheduled daily purge",
	RunE:  runServe,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the primary and comparison ranges of a period",
	RunE:  runResolve,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove cached reports",
}

var purgeDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Remove every entry of the current year",
	Args:  cobra.NoArgs,
	RunE: withRoot(func(root *CompositionRoot, cmd *cobra.Command, args []string) error {
		removed, err := root.CacheService.RunDailyPurge()
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"scope": "daily", "year": root.CacheService.CurrentYear(), "removed": removed})
	}),
}

var purgeCategoryCmd = &cobra.Command{
	Use:   "category [name]",
	Short: "Remove the entries of one category and year",
	Args:  cobra.ExactArgs(1),
	RunE: withRoot(func(root *CompositionRoot, cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			return fmt.Errorf("--year is required")
		}
		removed, err := root.CacheService.PurgeCategoryYear(args[0], year)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"scope": args[0], "year": year, "removed": removed})
	}),
}

var purgeAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Remove every cached report",
	Args:  cobra.NoArgs,
	RunE: withRoot(func(root *CompositionRoot, cmd *cobra.Command, args []string) error {
		removed, err := root.CacheService.PurgeAll()
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"scope": "all", "removed": removed})
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print entry counts and sizes per category",
	Args:  cobra.NoArgs,
	RunE: withRoot(func(root *CompositionRoot, cmd *cobra.Command, args []string) error {
		stats, err := root.CacheService.Stats()
		if err != nil {
			return err
		}
		return printJSON(stats)
	}),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Service config file (env REPORT_CACHE_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Cache rules file (env REPORT_CACHE_RULES_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", false, "Debug logging")

	resolveCmd.Flags().Int("year", 0, "Primary year")
	resolveCmd.Flags().String("period", "", "Period descriptor (code, name or alias)")
	resolveCmd.Flags().Int("compare-year", 0, "Comparison year (default: year-1)")
	resolveCmd.Flags().String("start", "", "Override start (YYYY-MM-DD)")
	resolveCmd.Flags().String("end", "", "Override end (YYYY-MM-DD)")
	_ = resolveCmd.MarkFlagRequired("year")

	purgeCategoryCmd.Flags().Int("year", 0, "Year tag to purge")

	purgeCmd.AddCommand(purgeDailyCmd, purgeCategoryCmd, purgeAllCmd)
	rootCmd.AddCommand(serveCmd, resolveCmd, purgeCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withRoot builds the composition root around a one-shot command
func withRoot(fn func(root *CompositionRoot, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		root, err := NewCompositionRoot(cmd.Context(), Options{ConfigPath: configPath, RulesPath: rulesPath, Debug: debug})
		if err != nil {
			return err
		}
		defer func() {
			if err := root.Cleanup(); err != nil {
				root.Logger.Error("Failed to cleanup resources", zap.Error(err))
			}
		}()
		return fn(root, cmd, args)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := NewCompositionRoot(cmd.Context(), Options{ConfigPath: configPath, RulesPath: rulesPath, Debug: debug})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	root.StartJobs()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- root.HTTPServer.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			root.Logger.Error("Server failed", zap.Error(err))
			return err
		}
	case <-quit:
	}

	root.Logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	req, err := comparisonFromFlags(cmd)
	if err != nil {
		return err
	}

	return withRoot(func(root *CompositionRoot, cmd *cobra.Command, args []string) error {
		pair := root.Coordinator.Ranges(cmd.Context(), *req)
		return printJSON(struct {
			models.RangePair
			WeekendMarkers models.WeekendMarkers `json:"weekend_markers"`
		}{pair, period.WeekendMarkers(pair.Primary.Range)})
	})(cmd, args)
}

func comparisonFromFlags(cmd *cobra.Command) (*models.ComparisonRequest, error) {
	flags := cmd.Flags()
	year, _ := flags.GetInt("year")
	descriptor, _ := flags.GetString("period")
	startFlag, _ := flags.GetString("start")
	endFlag, _ := flags.GetString("end")

	req := &models.ComparisonRequest{Year: year, Descriptor: descriptor}
	if flags.Changed("compare-year") {
		compareYear, _ := flags.GetInt("compare-year")
		req.CompareYear = &compareYear
	}

	var err error
	if req.OverrideStart, err = utils.ParseOptionalDate(startFlag); err != nil {
		return nil, err
	}
	if req.OverrideEnd, err = utils.ParseOptionalDate(endFlag); err != nil {
		return nil, err
	}
	return req, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
