package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/hsu-leads-ocr/cmd/extract/ui"
	"alfredoptarigan/hsu-leads-ocr/internal/config"
	"alfredoptarigan/hsu-leads-ocr/internal/models"
	"alfredoptarigan/hsu-leads-ocr/internal/services"
)

type extractOptions struct {
	output  string
	stdout  bool
	verbose bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract [files or directories...]",
		Short: "Extract student application records from PDFs and images into CSV",
		Long: `Extract converts every page of the given PDFs and images, sends them to Gemini in a
single request and writes the extracted student records as CSV.

Directories are expanded to the PDFs and images directly inside them, in name order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", services.CSVFileName, "Output path for the CSV file")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the CSV to stdout instead of a file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runExtract(ctx context.Context, args []string, opts extractOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	logCfg := cfg.Log
	logCfg.Level = "warn"
	if opts.verbose {
		logCfg.Level = "debug"
	}
	config.SetupLogger(logCfg, "leads-ocr-cli")
	ui.Init(opts.noColor)

	if err := cfg.Validate(); err != nil {
		ui.Error("Invalid configuration: %v", err)
		return err
	}

	fileService := services.NewFileService(cfg.Storage.MaxFileSize)
	paths, err := fileService.ExpandPaths(args)
	if err != nil {
		ui.Error("%v", err)
		return err
	}

	files := make([]models.InputFile, 0, len(paths))
	for _, p := range paths {
		file, err := fileService.ReadLocal(p)
		if err != nil {
			ui.Error("%v", err)
			return err
		}
		files = append(files, file)
	}

	accepted := models.AcceptedFiles(files)
	if skipped := len(files) - len(accepted); skipped > 0 {
		ui.Warning("Skipping %d file(s) that are neither PDF nor image", skipped)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		ui.Error("Failed to initialize Gemini: %v", err)
		return err
	}

	rasterizer := services.NewRasterizer(services.NewPDFInspector(), services.RasterOptions{
		Scale:   cfg.Raster.Scale,
		Quality: cfg.Raster.Quality,
	})
	pipeline := services.NewOrchestrator(
		services.NewImageCollector(rasterizer),
		services.NewExtractionClient(geminiService),
	)

	view := ui.NewRunView()
	unsubscribe := pipeline.Subscribe(view.Update)
	result := pipeline.Run(ctx, accepted)
	unsubscribe()
	view.Close()

	if result.Err != nil {
		ui.Error("%s", result.Err.Error())
		return result.Err
	}

	csvData := services.EncodeCSV(result.Records)
	if opts.stdout {
		_, err := os.Stdout.Write(csvData)
		return err
	}

	if err := os.WriteFile(opts.output, csvData, 0644); err != nil {
		ui.Error("Failed to write %s: %v", opts.output, err)
		return fmt.Errorf("write csv: %w", err)
	}

	ui.Success("Extracted %d record(s) into %s", len(result.Records), opts.output)
	return nil
}
