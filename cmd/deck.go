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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eslsoft/nihongo/internal/entity"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage custom character decks",
}

var deckCreateCmd = &cobra.Command{
	Use:   "create NAME [CHARACTER_ID...]",
	Short: "Create a deck",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		color, _ := cmd.Flags().GetString("color")

		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		deck, err := c.Decks.Create(cmd.Context(), &entity.CustomDeck{
			Name:         args[0],
			Description:  description,
			Color:        color,
			CharacterIDs: args[1:],
		})
		if err != nil {
			return err
		}
		cmd.Printf("Created deck %s (%s) with %d character(s)\n", deck.Name, deck.ID, len(deck.CharacterIDs))
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		decks, err := c.Decks.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCHARACTERS\tLAST STUDIED")
		for _, d := range decks {
			last := "never"
			if d.LastStudied != nil {
				last = d.LastStudied.Format(entity.DateLayout)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.Name, len(d.CharacterIDs), last)
		}
		return w.Flush()
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the characters of a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		deck, err := c.Decks.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Printf("%s: %s\n", deck.Name, deck.Description)
		glyphs := make([]string, 0, len(deck.CharacterIDs))
		for _, id := range deck.CharacterIDs {
			if ch, ok := c.Catalog.Character(id); ok {
				glyphs = append(glyphs, ch.Glyph)
			}
		}
		cmd.Println(strings.Join(glyphs, " "))
		return nil
	},
}

var deckAddCmd = &cobra.Command{
	Use:   "add ID CHARACTER_ID...",
	Short: "Add characters to a deck",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		deck, err := c.Decks.AddCharacters(cmd.Context(), args[0], args[1:]...)
		if err != nil {
			return err
		}
		cmd.Printf("Deck %s now has %d character(s)\n", deck.Name, len(deck.CharacterIDs))
		return nil
	},
}

var deckRemoveCmd = &cobra.Command{
	Use:   "remove ID CHARACTER_ID...",
	Short: "Remove characters from a deck",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		deck, err := c.Decks.RemoveCharacters(cmd.Context(), args[0], args[1:]...)
		if err != nil {
			return err
		}
		cmd.Printf("Deck %s now has %d character(s)\n", deck.Name, len(deck.CharacterIDs))
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer(cmd)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		if err := c.Decks.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Println("Deck deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckCreateCmd, deckListCmd, deckShowCmd, deckAddCmd, deckRemoveCmd, deckDeleteCmd)

	deckCreateCmd.Flags().String("description", "", "deck description")
	deckCreateCmd.Flags().String("color", "", "display colour, e.g. #667eea")
}
