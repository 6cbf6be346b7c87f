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

	"github.com/eslsoft/nihongo/internal/entity"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show the review queue of a writing system, most urgent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		systemFlag, _ := cmd.Flags().GetString("system")
		levelFlag, _ := cmd.Flags().GetString("level")
		limit, _ := cmd.Flags().GetInt("limit")

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		queue, err := c.Stats.DueQueue(cmd.Context(), entity.ParseWritingSystem(systemFlag), entity.ParseJLPTLevel(levelFlag), limit)
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			cmd.Println("Nothing due. Come back later!")
			return nil
		}

		progress := c.Study.State().Progress
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CHARACTER\tROMAJI\tMASTERY\tACCURACY\tNEXT REVIEW")
		for _, ch := range queue {
			p, seen := progress[ch.ID]
			next := "new"
			if seen && p.NextReviewAt != nil {
				next = p.NextReviewAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%.0f%%\t%s\n", ch.Glyph, ch.Romaji, p.MasteryLevel, p.Accuracy, next)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)

	dueCmd.Flags().StringP("system", "s", string(entity.WritingSystemHiragana), "hiragana, katakana or kanji")
	dueCmd.Flags().StringP("level", "l", "", "JLPT level for kanji (N5..N1)")
	dueCmd.Flags().Int("limit", 20, "maximum number of characters to show, 0 for all")
}
