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
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/usecase"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the learner profile and preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		update, changed, err := settingsFromFlags(cmd)
		if err != nil {
			return err
		}
		profile := c.Study.State().Profile
		if changed {
			if profile, err = c.Profile.SaveSettings(cmd.Context(), update); err != nil {
				return err
			}
			cmd.Println("Profile updated.")
		}

		prefs := profile.Preferences
		cmd.Printf("Name:          %s\n", profile.Name)
		cmd.Printf("Member since:  %s\n", profile.CreatedAt.Format(entity.DateLayout))
		cmd.Printf("Level:         %d (%d XP total)\n", profile.Level, profile.TotalXP)
		cmd.Printf("Achievements:  %s\n", strings.Join(profile.Achievements, ", "))
		cmd.Printf("Theme:         %s\n", prefs.Theme)
		cmd.Printf("Daily goal:    %d XP\n", prefs.DailyGoal)
		cmd.Printf("Stroke order:  %t\n", prefs.ShowStrokeOrder)
		cmd.Printf("Mnemonics:     %t\n", prefs.ShowMnemonics)
		cmd.Printf("Sounds:        %t\n", prefs.EnableSounds)
		cmd.Printf("Font size:     %s\n", prefs.FontSize)
		cmd.Printf("Animations:    %s\n", prefs.AnimationSpeed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().String("name", "", "display name")
	profileCmd.Flags().String("theme", "", "light, dark or auto")
	profileCmd.Flags().Int("daily-goal", 0, "daily XP goal")
	profileCmd.Flags().Bool("stroke-order", true, "show stroke order")
	profileCmd.Flags().Bool("mnemonics", true, "show mnemonics")
	profileCmd.Flags().Bool("sounds", true, "enable sounds")
	profileCmd.Flags().String("font-size", "", "small, medium or large")
	profileCmd.Flags().String("animation-speed", "", "slow, normal or fast")
}

// settingsFromFlags collects the flags set on the command line.
func settingsFromFlags(cmd *cobra.Command) (usecase.SettingsUpdate, bool, error) {
	var (
		update  usecase.SettingsUpdate
		changed bool
		flags   = cmd.Flags()
	)
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		update.Name = &v
		changed = true
	}
	if flags.Changed("theme") {
		v, _ := flags.GetString("theme")
		theme := entity.Theme(strings.ToLower(v))
		switch theme {
		case entity.ThemeLight, entity.ThemeDark, entity.ThemeAuto:
		default:
			return update, false, fmt.Errorf("unknown theme %q", v)
		}
		update.Theme = &theme
		changed = true
	}
	if flags.Changed("daily-goal") {
		v, _ := flags.GetInt("daily-goal")
		if v <= 0 {
			return update, false, fmt.Errorf("daily goal must be positive")
		}
		update.DailyGoal = &v
		changed = true
	}
	for flag, target := range map[string]**bool{
		"stroke-order": &update.ShowStrokeOrder,
		"mnemonics":    &update.ShowMnemonics,
		"sounds":       &update.EnableSounds,
	} {
		if flags.Changed(flag) {
			v, _ := flags.GetBool(flag)
			*target = &v
			changed = true
		}
	}
	for flag, target := range map[string]**string{
		"font-size":       &update.FontSize,
		"animation-speed": &update.AnimationSpeed,
	} {
		if flags.Changed(flag) {
			v, _ := flags.GetString(flag)
			*target = &v
			changed = true
		}
	}
	return update, changed, nil
}
