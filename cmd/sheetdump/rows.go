package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sheetrows/internal/config"
	"sheetrows/internal/dataprocessing"
	"sheetrows/internal/exporter"
	"sheetrows/internal/infrastructure"
	"sheetrows/internal/services"
	"sheetrows/internal/sheets"
	api "sheetrows/pkg/contracts/api/v1"
	"sheetrows/pkg/contracts/domain"
)

// Output formats.
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

type rowsOptions struct {
	email  string
	format string
	out    string
	all    bool
	bom    bool
}

func newRowsCmd() *cobra.Command {
	opts := &rowsOptions{}

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Write the rows belonging to an email address",
		Example: `  sheetdump rows --email alice@example.com
  sheetdump rows --email alice@example.com --format csv --out alice.csv
  sheetdump rows --all --format xlsx --out sheet.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRows(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.email, "email", "e", "", "identity to select rows for")
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, csv or xlsx")
	flags.StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	flags.BoolVar(&opts.all, "all", false, "skip the identity filter and write every row")
	flags.BoolVar(&opts.bom, "bom", false, "prefix csv output with a UTF-8 BOM")
	return cmd
}

func runRows(cmd *cobra.Command, opts *rowsOptions) error {
	if !opts.all && strings.TrimSpace(opts.email) == "" {
		return errors.New("--email is required unless --all is set")
	}

	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case formatJSON, formatCSV:
	case formatXLSX:
		if opts.out == "" {
			return errors.New("xlsx output needs --out")
		}
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout carries the data; logs go to stderr.
	logger := infrastructure.WithComponent(
		infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr()), "sheetdump")
	ctx := infrastructure.EnsureTraceID(cmd.Context())

	source, err := sheets.New(ctx, cfg.Sheet, sheets.Options{
		Logger:  logger,
		Metrics: infrastructure.NoopMetrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create sheet source: %w", err)
	}

	svc := services.NewRowService(source,
		dataprocessing.NewIdentityMatcher(cfg.Sheet.IdentityLabels), logger)

	var res *services.ReadResult
	if opts.all {
		res, err = svc.ReadAll(ctx)
	} else {
		res, err = svc.Read(ctx, opts.email)
	}
	if err != nil {
		return err
	}

	writer := writerFor(opts, res.Total)
	if opts.out == "" {
		return writer.Write(cmd.OutOrStdout(), res.Header, res.Rows)
	}
	if err := exporter.WriteFile(opts.out, writer, res.Header, res.Rows); err != nil {
		return err
	}
	cmd.PrintErrf("wrote %d of %d rows to %s\n", len(res.Rows), res.Total, opts.out)
	return nil
}

func writerFor(opts *rowsOptions, total int) exporter.Writer {
	switch opts.format {
	case formatCSV:
		return exporter.NewCSVWriter(opts.bom)
	case formatXLSX:
		return exporter.NewXLSXWriter()
	default:
		return jsonWriter{total: total}
	}
}

// jsonWriter writes the same envelope the HTTP endpoint returns.
type jsonWriter struct {
	total int
}

func (j jsonWriter) Write(w io.Writer, _ []string, rows []domain.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(api.NewRowsResponse(rows, j.total))
}
