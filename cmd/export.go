/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/nihongo/internal/usecase/backup"
)

const (
	exportOutputKey   = "backup.export.output"
	exportGzipKey     = "backup.export.gzip"
	exportSectionsKey = "backup.export.sections"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the study state as a JSON backup",
	Long: `Export writes profile, progress, sessions, daily stats, custom decks and unlocked
achievements to one JSON document compatible with the browser app's export.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		outputPath := viper.GetString(exportOutputKey)
		gzipEnabled := viper.GetBool(exportGzipKey)
		sections := sectionsFromConfig(exportSectionsKey)

		if outputPath == "" {
			outputPath = defaultExportFilename(gzipEnabled)
		}
		if !gzipEnabled && outputPath != "-" && strings.HasSuffix(strings.ToLower(outputPath), ".gz") {
			gzipEnabled = true
		}

		var (
			writer   = cmd.OutOrStdout()
			closeFns []func() error
		)

		if outputPath != "-" {
			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			file, openErr := os.Create(outputPath)
			if openErr != nil {
				return fmt.Errorf("create backup file: %w", openErr)
			}
			writer = file
			closeFns = append(closeFns, file.Close)
		}

		if gzipEnabled {
			gz := gzip.NewWriter(writer)
			writer = gz
			closeFns = append([]func() error{gz.Close}, closeFns...)
		}

		defer func() {
			for _, closer := range closeFns {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		exportOpts := []backup.ExportOption{backup.WithProgressReporter(newCLIProgress(cmd.ErrOrStderr(), "exported"))}
		if len(sections) > 0 {
			exportOpts = append(exportOpts, backup.WithSections(sections))
		}

		if err := c.Backup.Export(ctx, writer, exportOpts...); err != nil {
			return fmt.Errorf("export backup: %w", err)
		}

		if outputPath == "-" {
			cmd.PrintErrln("export complete: written to stdout")
		} else {
			cmd.PrintErrf("export complete: %s\n", outputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "backup file path, - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip the output")
	exportCmd.Flags().StringSlice("sections", nil, "only export these sections ("+strings.Join(backup.Sections(), ", ")+")")

	bindExportConfig()
}

func defaultExportFilename(gzipEnabled bool) string {
	ts := time.Now().UTC().Format("20060102-150405")
	filename := fmt.Sprintf("nihongo-backup-%s.json", ts)
	if gzipEnabled {
		filename += ".gz"
	}
	return filename
}

func bindExportConfig() {
	bindFlagToViper(exportOutputKey, exportCmd.Flags().Lookup("output"))
	bindFlagToViper(exportGzipKey, exportCmd.Flags().Lookup("gzip"))
	bindFlagToViper(exportSectionsKey, exportCmd.Flags().Lookup("sections"))
}
