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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/usecase"
)

const practiceQuestionsKey = "study.questions"

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive study session",
	Long: `Practice asks questions about the most urgent characters of a writing system (or of a
custom deck) and records every answer. Type :q to stop early; the session is still saved.

For multiple-choice questions either type the character or its option number.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		modeFlag, _ := cmd.Flags().GetString("mode")
		systemFlag, _ := cmd.Flags().GetString("system")
		levelFlag, _ := cmd.Flags().GetString("level")
		deckID, _ := cmd.Flags().GetString("deck")
		total := viper.GetInt(practiceQuestionsKey)

		mode := entity.ParseLearningMode(modeFlag)
		if mode == entity.LearningModeUnspecified {
			return fmt.Errorf("%w: %q", entity.ErrInvalidMode, modeFlag)
		}
		ws := entity.ParseWritingSystem(systemFlag)
		if ws == entity.WritingSystemUnspecified {
			return fmt.Errorf("%w: %q", entity.ErrInvalidWritingSystem, systemFlag)
		}
		level := entity.ParseJLPTLevel(levelFlag)
		if total <= 0 {
			total = 20
		}

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		pool := c.Catalog.Filter(ws, level)
		if deckID != "" {
			deck, err := c.Decks.Get(ctx, deckID)
			if err != nil {
				return err
			}
			pool = lo.FilterMap(deck.CharacterIDs, func(id string, _ int) (entity.Character, bool) {
				return c.Catalog.Character(id)
			})
		}
		if len(pool) == 0 {
			return entity.ErrEmptyCharacterPool
		}

		if stale := c.Study.State().ActiveSession; stale != nil {
			if _, err := c.Study.EndSession(ctx); err != nil {
				return fmt.Errorf("close unfinished session: %w", err)
			}
			fmt.Fprintf(out, "Closed unfinished session from %s.\n", stale.StartTime.Format(time.Kitchen))
		}

		if _, err := c.Study.StartSession(ctx, mode, ws, level); err != nil {
			return err
		}

		in := bufio.NewScanner(cmd.InOrStdin())
		previous := ""
		for i := 1; i <= total; i++ {
			q, err := c.Quiz.Next(pool, mode, c.Study.State().Progress, time.Now(), previous)
			if err != nil {
				return err
			}
			printQuestion(out, i, total, q)

			asked := time.Now()
			if !in.Scan() {
				break
			}
			answer := strings.TrimSpace(in.Text())
			if answer == ":q" {
				break
			}
			answer = resolveOption(q, answer)

			res, err := c.Study.SubmitAnswer(ctx, q, answer, time.Since(asked).Milliseconds())
			if err != nil {
				return err
			}
			printAnswer(out, q, res)
			previous = q.Character.ID
		}
		if err := in.Err(); err != nil {
			return fmt.Errorf("read answer: %w", err)
		}

		summary, err := c.Study.EndSession(ctx)
		if err != nil {
			return err
		}
		if deckID != "" {
			if _, err := c.Decks.MarkStudied(ctx, deckID); err != nil {
				return err
			}
		}
		printSummary(out, summary, c.Study.State().Profile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)

	practiceCmd.Flags().StringP("mode", "m", string(entity.LearningModeRecognition), "recognition, production, writing or listening")
	practiceCmd.Flags().StringP("system", "s", string(entity.WritingSystemHiragana), "hiragana, katakana or kanji")
	practiceCmd.Flags().StringP("level", "l", "", "JLPT level for kanji (N5..N1)")
	practiceCmd.Flags().String("deck", "", "practice the characters of a custom deck")
	practiceCmd.Flags().IntP("questions", "n", 20, "number of questions")

	bindFlagToViper(practiceQuestionsKey, practiceCmd.Flags().Lookup("questions"))
}

func printQuestion(out io.Writer, i, total int, q *entity.QuizQuestion) {
	ch := q.Character
	switch q.Mode {
	case entity.LearningModeRecognition:
		fmt.Fprintf(out, "[%d/%d] How do you read %s? ", i, total, ch.Glyph)
	case entity.LearningModeWriting:
		fmt.Fprintf(out, "[%d/%d] Write the character for %s: ", i, total, describe(ch))
	default:
		fmt.Fprintf(out, "[%d/%d] Which character is %s?\n", i, total, describe(ch))
		for n, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", n+1, opt)
		}
		fmt.Fprint(out, "> ")
	}
}

func describe(ch entity.Character) string {
	if len(ch.Meanings) > 0 {
		return fmt.Sprintf("%q (%s)", ch.Romaji, strings.Join(ch.Meanings, ", "))
	}
	return fmt.Sprintf("%q", ch.Romaji)
}

// resolveOption maps an option number onto the option text.
func resolveOption(q *entity.QuizQuestion, answer string) string {
	if len(q.Options) == 0 {
		return answer
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(q.Options) {
		return answer
	}
	return q.Options[n-1]
}

func printAnswer(out io.Writer, q *entity.QuizQuestion, res *usecase.AnswerResult) {
	if res.IsCorrect {
		fmt.Fprintf(out, "  correct! +%d XP (combo %d)\n", res.XPAwarded, res.Combo)
	} else {
		fmt.Fprintf(out, "  wrong, the answer is %s\n", q.CorrectAnswer)
	}
	if res.LeveledUp {
		fmt.Fprintln(out, "  level up!")
	}
}

func printSummary(out io.Writer, summary *usecase.SessionSummary, profile *entity.UserProfile) {
	s := summary.Session
	fmt.Fprintf(out, "\nSession finished: %d/%d correct (%.0f%%), %d XP in %d min\n",
		s.CorrectAnswers, s.QuestionsAnswered, s.Accuracy(), s.XPEarned, s.Duration)
	fmt.Fprintf(out, "Streak: %d day(s), longest %d\n", summary.Streak, summary.LongestStreak)
	for _, a := range summary.Unlocked {
		fmt.Fprintf(out, "Achievement unlocked: %s %s (+%d XP)\n", a.Icon, a.Name, a.XPReward)
	}
	if profile != nil {
		fmt.Fprintf(out, "Level %d, %d/%d XP to next level\n", profile.Level, profile.XP, profile.XP+profile.XPToNextLevel)
	}
}
