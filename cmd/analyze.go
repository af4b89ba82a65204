package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"internet-fijo/charts"
	"internet-fijo/config"
	"internet-fijo/models"
	"internet-fijo/services"
	"internet-fijo/storage"
	"internet-fijo/utils"
)

func runAnalysis(out io.Writer) error {
	cfg, fromFile, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logger := utils.NewLogger(utils.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer logger.Sync()
	if !fromFile {
		logger.Debug("[config] No %s file found, using environment and defaults", envFile)
	}

	if err := analyze(out, cfg, logger); err != nil {
		logger.Error("Analysis failed: %v", err)
		return err
	}
	return nil
}

// analyze runs load, clean, aggregate and render in order, printing each
// stage to out. A missing input file ends the run without an error.
func analyze(out io.Writer, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== Internet fijo analysis starting ===")
	logger.Info("Config: csv=%s output=%s export_tables=%t",
		cfg.CSVFile, cfg.OutputDir, cfg.ExportTables)

	services.PrintBanner(out, cfg.CSVFile)

	raw, exploration, err := services.NewLoader(logger).Load(cfg.CSVFile)
	if errors.Is(err, services.ErrInputNotFound) {
		fmt.Fprintf(out, "\n[ERROR] No se encontró el archivo '%s'.\n", cfg.CSVFile)
		return nil
	}
	if err != nil {
		return err
	}
	services.PrintExploration(out, exploration)

	records, cleanReport, err := services.NewCleaner(logger).Clean(raw)
	if err != nil {
		return err
	}
	services.PrintCleanReport(out, cleanReport)

	analysis := services.NewAnalysisService(logger)
	report := analysis.Generate(records)
	analysis.Print(out, report)

	fmt.Fprintf(out, "\n=== GENERANDO GRÁFICAS (se guardan en la carpeta '%s') ===\n\n", cfg.OutputDir)
	renderer := charts.NewRenderer(logger, cfg.OutputDir, cfg.ChartWidthIn, cfg.ChartHeightIn)
	paths, err := renderer.Render(report)
	if err != nil {
		return err
	}
	logger.Info("Wrote %d charts to %s", len(paths), cfg.OutputDir)

	if cfg.ExportTables {
		if err := exportTables(cfg.TablesDir(), report); err != nil {
			return err
		}
		logger.Info("Tables exported to %s", cfg.TablesDir())
	}

	fmt.Fprintln(out, "Gráficas guardadas en la carpeta:", cfg.OutputDir)
	fmt.Fprintln(out, "\n=== FIN DEL ANÁLISIS ===")
	return nil
}

// exportTables writes the report tables as CSV files and as one workbook.
func exportTables(dir string, report *models.AnalysisReport) error {
	csvWriter, err := storage.NewCSVTableWriter(dir)
	if err != nil {
		return err
	}
	xlsxWriter, err := storage.NewXLSXTableWriter(filepath.Join(dir, "resumen.xlsx"))
	if err != nil {
		return err
	}

	tables := report.Tables()
	for _, w := range []storage.TableWriter{csvWriter, xlsxWriter} {
		if err := w.WriteTables(tables); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}
