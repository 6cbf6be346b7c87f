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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eslsoft/nihongo/internal/repository"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "List character progress records",
	Long: `List character progress records, optionally filtered by a CEL expression over the
variables characterId, glyph, romaji, type, jlpt, mastery, reviews, correct, incorrect,
streak, accuracy, ease, avgResponseMs, overdueDays, priority, due, lastReviewed and
nextReview.

Examples:
  nihongo progress --filter 'type == "katakana" && mastery >= 3'
  nihongo progress --filter 'due' --order-by 'overdueDays desc'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		orderBy, _ := cmd.Flags().GetString("order-by")
		page, _ := cmd.Flags().GetInt32("page")
		pageSize, _ := cmd.Flags().GetInt32("page-size")

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		query := &repository.ListProgressQuery{
			Pagination:  repository.Pagination{PageNo: page, PageSize: pageSize},
			FilterOrder: repository.FilterOrder{Filter: filter, OrderBy: orderBy},
		}
		entries, total, err := c.Stats.ListProgress(cmd.Context(), query)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCHARACTER\tMASTERY\tACCURACY\tREVIEWS\tEASE\tDUE\tPRIORITY")
		for _, e := range entries {
			glyph := ""
			if e.Character != nil {
				glyph = e.Character.Glyph
			}
			p := e.Progress
			fmt.Fprintf(w, "%s\t%s\t%d\t%.0f%%\t%d\t%.2f\t%t\t%.1f\n",
				p.CharacterID, glyph, p.MasteryLevel, p.Accuracy, p.TimesReviewed, p.EaseFactor, e.Due, e.Priority)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		cmd.Printf("%d of %d record(s)\n", len(entries), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)

	progressCmd.Flags().String("filter", "", "CEL filter expression")
	progressCmd.Flags().String("order-by", "", "ordering, e.g. \"mastery desc, characterId\"")
	progressCmd.Flags().Int32("page", 1, "page number")
	progressCmd.Flags().Int32("page-size", 20, "records per page")
}
