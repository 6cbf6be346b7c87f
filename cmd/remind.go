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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Periodically remind about due reviews",
	Long: `Remind checks for due reviews every reminder.interval while the local hour is between
reminder.start_hour and reminder.end_hour, and logs a reminder when anything is due.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		if once {
			count, err := c.Reminder.Check(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("%d review(s) due\n", count)
			return nil
		}

		if err := c.Reminder.Start(cmd.Context()); err != nil {
			return err
		}
		defer c.Reminder.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			c.Logger.Infof("received signal: %s, shutting down", sig)
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)

	remindCmd.Flags().Bool("once", false, "run a single check and exit")
	remindCmd.Flags().Duration("interval", 0, "time between checks")
	remindCmd.Flags().Int("start-hour", 8, "first hour of the day to send reminders")
	remindCmd.Flags().Int("end-hour", 22, "last hour of the day to send reminders")

	bindFlagToViper("reminder.interval", remindCmd.Flags().Lookup("interval"))
	bindFlagToViper("reminder.start_hour", remindCmd.Flags().Lookup("start-hour"))
	bindFlagToViper("reminder.end_hour", remindCmd.Flags().Lookup("end-hour"))
}
