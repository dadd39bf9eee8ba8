package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"enrolldash/adapters/memory"
	"enrolldash/app"
	"enrolldash/internal/charts"
	"enrolldash/internal/config"
	"enrolldash/internal/uploads"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "enrolldash-cli",
		Short:         "Run the enrollment dashboard analyses from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(
		newEnrollmentCmd(),
		newProductsCmd(),
	)
	return rootCmd
}

func newEnrollmentCmd() *cobra.Command {
	var term string
	var chartDir string

	cmd := &cobra.Command{
		Use:   "enrollment [file]",
		Short: "Summarize a student enrollment table by year",
		Long: `Filter a CSV or XLSX enrollment table to one term, sum it by year and
print the department percentages.

Example: enrolldash-cli enrollment enrollment.csv --chart-dir ./charts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if term != "" {
				cfg.Analysis.Term = term
			}

			upload, err := readFile(args[0], cfg.Uploads.MaxBytes)
			if err != nil {
				return loadError(err)
			}
			svc := app.NewDashboardService(cfg, memory.NewRunRepository(1), nil)
			result, err := svc.Enrollment(cmd.Context(), upload, chartDir != "")
			if err != nil {
				return loadError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d rows read, term %s\n\n", result.Report.RowCount, result.Report.Term)
			drawHead(out, result.Report.Head)
			drawDescribe(out, result.Report.Description)
			drawYears(out, result.Report.Years)
			return writeCharts(out, chartDir, result.Charts)
		},
	}

	cmd.Flags().StringVar(&term, "term", "", "Term to keep (defaults to ENROLLMENT_TERM or Spring)")
	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Write the charts as PNG files into this directory")
	return cmd
}

func newProductsCmd() *cobra.Command {
	var codes []string
	var chartDir string

	cmd := &cobra.Command{
		Use:   "products [file]",
		Short: "Total sales of the tracked product codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(codes) > 0 {
				cfg.Products.Codes = codes
			}

			upload, err := readFile(args[0], cfg.Uploads.MaxBytes)
			if err != nil {
				return loadError(err)
			}
			svc := app.NewDashboardService(cfg, memory.NewRunRepository(1), nil)
			result, err := svc.Products(cmd.Context(), upload, chartDir != "")
			if err != nil {
				return loadError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d rows read, %d match the tracked codes\n\n", result.Report.RowCount, result.Report.SubsetCount)
			drawHead(out, result.Report.Head)
			drawDescribe(out, result.Report.Description)
			drawTotals(out, result.Report.Totals)
			return writeCharts(out, chartDir, result.Charts)
		},
	}

	cmd.Flags().StringSliceVar(&codes, "codes", nil, "Product codes to track (defaults to PRODUCT_CODES)")
	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Write the chart as a PNG file into this directory")
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func readFile(path string, limit int64) (app.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return app.Upload{}, err
	}
	defer f.Close()

	content, err := uploads.ReadAll(f, limit)
	if err != nil {
		return app.Upload{}, err
	}
	return app.Upload{Filename: filepath.Base(path), Content: content}, nil
}

func loadError(err error) error {
	return fmt.Errorf("Error loading file: %w", err)
}

func writeCharts(out io.Writer, dir string, images []*charts.Image) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	for _, img := range images {
		path := filepath.Join(dir, img.Name+".png")
		if err := os.WriteFile(path, img.PNG, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

