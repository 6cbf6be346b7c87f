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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/nihongo/internal/usecase/backup"
)

const (
	importInputKey    = "backup.import.input"
	importGzipKey     = "backup.import.gzip"
	importSectionsKey = "backup.import.sections"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a JSON backup into the study state",
	Long: `Import replaces every section present in the backup and leaves absent sections alone.
The document is validated before anything is written; a malformed backup changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		inputPath := viper.GetString(importInputKey)
		gzipEnabled := viper.GetBool(importGzipKey)
		sections := sectionsFromConfig(importSectionsKey)

		if inputPath == "" {
			return fmt.Errorf("specify the backup file with --input, or - for stdin")
		}
		if !gzipEnabled && inputPath != "-" && strings.HasSuffix(strings.ToLower(inputPath), ".gz") {
			gzipEnabled = true
		}

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		var (
			reader  = cmd.InOrStdin()
			closers []func() error
		)

		if inputPath != "-" {
			file, openErr := os.Open(filepath.Clean(inputPath))
			if openErr != nil {
				return fmt.Errorf("open backup file: %w", openErr)
			}
			reader = file
			closers = append(closers, file.Close)
		}

		if gzipEnabled {
			gzr, gzErr := gzip.NewReader(reader)
			if gzErr != nil {
				for _, closer := range closers {
					_ = closer()
				}
				return fmt.Errorf("open gzip stream: %w", gzErr)
			}
			reader = gzr
			closers = append([]func() error{gzr.Close}, closers...)
		}

		defer func() {
			for _, closer := range closers {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		importOpts := []backup.ImportOption{backup.WithImportProgressReporter(newCLIProgress(cmd.ErrOrStderr(), "imported"))}
		if len(sections) > 0 {
			importOpts = append(importOpts, backup.WithImportSections(sections))
		}

		if err := c.Backup.Import(ctx, reader, importOpts...); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
		if err := c.Study.Load(ctx); err != nil {
			return fmt.Errorf("reload state: %w", err)
		}

		if inputPath == "-" {
			cmd.Println("import complete: read from stdin")
		} else {
			cmd.Printf("import complete: %s\n", inputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "backup file path, - for stdin")
	importCmd.Flags().Bool("gzip", false, "input is gzip compressed")
	importCmd.Flags().StringSlice("sections", nil, "only import these sections ("+strings.Join(backup.Sections(), ", ")+")")

	bindImportConfig()
}

func bindImportConfig() {
	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importGzipKey, importCmd.Flags().Lookup("gzip"))
	bindFlagToViper(importSectionsKey, importCmd.Flags().Lookup("sections"))
}
