package cmd

import (
	"fmt"

	"github.com/theirongolddev/rateio/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagFormat  string
	flagOutDir  string
	flagOutName string
	flagStdout  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cost report (xls, csv, json or pdf)",
	Example: "  rateio export\n" +
		"  rateio export --format pdf --out ~/reports\n" +
		"  rateio export --format csv --stdout --offline",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "F", "", "Report format: xls, csv, json or pdf (default from config)")
	exportCmd.Flags().StringVarP(&flagOutDir, "out", "o", "", "Output directory (default from config, else current dir)")
	exportCmd.Flags().StringVar(&flagOutName, "name", "", "File name prefix (default from config)")
	exportCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Write the report to stdout instead of a file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	name := flagFormat
	if name == "" {
		name = s.cfg.Export.Format
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	report := export.NewReport(s.ws.Breakdown())

	if flagStdout {
		return export.Write(cmd.OutOrStdout(), report, format)
	}

	dir := flagOutDir
	if dir == "" {
		dir = s.cfg.Export.Dir
	}
	base := flagOutName
	if base == "" {
		base = s.cfg.Export.FileName
	}

	path, err := export.WriteFile(report, format, dir, base)
	if err != nil {
		s.log.Error("export failed", zap.Error(err))
		return err
	}
	s.log.Info("report exported", zap.String("path", path), zap.String("format", string(format)))
	fmt.Printf("  Report saved to %s\n", path)
	return nil
}
