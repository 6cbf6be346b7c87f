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
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/eslsoft/nihongo/internal/app"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nihongo",
	Short: "Spaced-repetition trainer for hiragana, katakana and kanji",
	Long: `nihongo tracks per-character mastery with a spaced-repetition schedule and
rewards practice with XP, levels, streaks and achievements.

State lives in a key-value store (SQLite by default) and can be exported to and
imported from the same JSON document as the browser app.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("db-driver", "", "storage driver: sqlite3, postgres, pgx or memory")
	rootCmd.PersistentFlags().String("db-path", "", "SQLite database file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text or json)")

	bindFlagToViper("database.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	bindFlagToViper("database.path", rootCmd.PersistentFlags().Lookup("db-path"))
	bindFlagToViper("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlagToViper("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// newContainer builds the application and loads the study state, creating the default
// profile on first use.
func newContainer(cmd *cobra.Command) (*app.Container, func(), error) {
	ctx := cmd.Context()
	c, cleanup, err := app.Initialize(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := c.Profile.Ensure(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return c, cleanup, nil
}
