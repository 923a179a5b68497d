// Command reportgen generates audience-specific HTML status reports
// from tabular exports, with optional AI-generated insights.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"reportgen/internal/artifact"
	"reportgen/internal/kpr"
	"reportgen/internal/output"
)

type reportEntry struct {
	name        string
	emailConfig kpr.EmailConfig
}

// reportRegistry maps report type flags to their configuration. New
// report families register here.
var reportRegistry = map[string]reportEntry{
	"kpr": {name: "Key Priorities Report", emailConfig: kpr.DefaultEmailConfig},
}

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "reportgen",
		Short:         "Generate status reports from CSV or TSV exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(log), newListReportsCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newGenerateCmd(log zerolog.Logger) *cobra.Command {
	var (
		reportType string
		csvPath    string
		outputPath string
		audience   string
		email      bool
		upload     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report from a CSV or TSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok := reportRegistry[reportType]
			if !ok {
				return fmt.Errorf("unknown report type %q: available: %s", reportType, reportNames())
			}

			if outputPath == "" {
				stamp := time.Now().Format("2006-01-02")
				outputPath = filepath.Join("outputs", fmt.Sprintf("%s_report_%s.html", reportType, stamp))
			}

			gen := kpr.NewGenerator().WithLogger(log)
			html, err := gen.Generate(cmd.Context(), csvPath, outputPath, audience)
			if err != nil {
				return err
			}
			log.Info().Str("output", outputPath).Int("bytes", len(html)).Msg("report generated")

			if upload {
				if err := uploadReport(cmd, reportType, audience, html, log); err != nil {
					return err
				}
			}

			if email {
				handler := output.NewDraftHandler(log)
				cfg := entry.emailConfig
				draft := output.Draft{
					Subject: fmt.Sprintf(cfg.Subject, time.Now().Format("January 02, 2006")),
					To:      cfg.To,
					Cc:      cfg.Cc,
					HTML:    html,
				}
				if err := handler.Open(draft); err != nil {
					log.Warn().Err(err).Str("output", outputPath).Msg("could not open email draft")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportType, "report", "", "type of report to generate")
	cmd.Flags().StringVar(&csvPath, "csv", "", "path to CSV or TSV export file")
	cmd.Flags().StringVar(&outputPath, "output", "", "path for output HTML (default outputs/{report}_report_YYYY-MM-DD.html)")
	cmd.Flags().StringVar(&audience, "audience", "", "target audience: executive, technical, or partner")
	cmd.Flags().BoolVar(&email, "email", false, "open an email draft after generating")
	cmd.Flags().BoolVar(&upload, "upload", false, "archive the report to object storage")
	_ = cmd.MarkFlagRequired("report")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func uploadReport(cmd *cobra.Command, reportType, audience string, html string, log zerolog.Logger) error {
	store, err := artifact.NewS3Store(artifact.S3ConfigFromEnv())
	if err != nil {
		return err
	}
	date := time.Now().Format("2006-01-02")
	if err := store.Put(cmd.Context(), reportType, date, audience, []byte(html)); err != nil {
		return fmt.Errorf("archive report: %w", err)
	}
	log.Info().Str("report", reportType).Str("date", date).Msg("report archived")
	return nil
}

func newListReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-reports",
		Short: "List available report types",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Available Reports:")
			for id, entry := range reportRegistry {
				fmt.Printf("  %-20s %s\n", id, entry.name)
			}
			return nil
		},
	}
}

func reportNames() string {
	names := make([]string, 0, len(reportRegistry))
	for id := range reportRegistry {
		names = append(names, id)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
