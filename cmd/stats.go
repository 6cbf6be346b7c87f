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

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show overall and today's statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		o, err := c.Stats.Overview(cmd.Context())
		if err != nil {
			return err
		}
		p := o.Profile
		cmd.Printf("%s, level %d (%d XP, %d to next level)\n", p.Name, p.Level, p.TotalXP, p.XPToNextLevel)
		cmd.Printf("Streak:            %d day(s), longest %d\n", p.Streak, p.LongestStreak)
		cmd.Printf("Study time:        %d min over %d session(s)\n", p.TotalStudyTime, o.TotalSessions)
		cmd.Printf("Characters:        %d seen, %d learning, %d mastered\n", o.Seen, o.Learning, o.Mastered)
		cmd.Printf("Overall accuracy:  %.1f%%\n", o.OverallAccuracy)
		cmd.Printf("Avg response:      %.0f ms\n", o.AverageResponseTime)
		cmd.Printf("Due reviews:       %d\n", o.DueReviews)
		cmd.Printf("Achievements:      %d\n", o.Achievements)
		cmd.Printf("Today (%s):  %d XP, %d question(s), %.0f%% accuracy, %d min\n",
			o.Today.Date, o.Today.XPEarned, o.Today.QuestionsAnswered, o.Today.Accuracy, o.Today.StudyTime)
		cmd.Printf("Daily goal:        %.0f%% of %d XP\n", o.GoalProgress, p.Preferences.DailyGoal)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
