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
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete study data",
	Long: `Reset deletes every stored record, or with --progress-only just the character progress,
sessions and daily stats while keeping the profile, decks and achievements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		progressOnly, _ := cmd.Flags().GetBool("progress-only")
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("reset is irreversible, re-run with --yes to confirm")
		}

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		if progressOnly {
			if err := c.Profile.ResetProgressOnly(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Progress, sessions and daily stats deleted.")
			return nil
		}
		if err := c.Profile.ResetAll(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("All study data deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Bool("progress-only", false, "keep profile, decks and achievements")
	resetCmd.Flags().Bool("yes", false, "confirm the reset")
}
