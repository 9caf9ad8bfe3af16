package main

import (
	"os"

	"github.com/spf13/cobra"

	"mt-loc-tools/internal/charset"
)

var charsetCmd = &cobra.Command{
	Use:   "charset",
	Short: "Build the character lists used by gfd generate",
}

var charsetCountCmd = &cobra.Command{
	Use:   "count <text dir> <list.json>",
	Short: "Collect every character used by unpacked script sections",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := charset.Count(args[0], cfg.CharsetSkip)
		if err != nil {
			return err
		}
		return writeList(args[1], list)
	},
}

var charsetFromCSVCmd = &cobra.Command{
	Use:   "from-csv <map.csv> <list.json>",
	Short: "Extract the characters of a dumped glyph map",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()
		list, err := charset.FromCSV(in)
		if err != nil {
			return err
		}
		return writeList(args[1], list)
	},
}

var charsetMergeCmd = &cobra.Command{
	Use:   "merge <list.json> <input.json>...",
	Short: "Union character lists",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var lists [][]rune
		for _, path := range args[1:] {
			l, err := charset.ReadList(path)
			if err != nil {
				return err
			}
			lists = append(lists, l)
		}
		return writeList(args[0], charset.Merge(lists...))
	},
}

func writeList(path string, list []rune) error {
	if err := charset.WriteList(path, list); err != nil {
		return err
	}
	logger.Info("wrote", "path", path, "characters", len(list))
	return nil
}

func init() {
	charsetCmd.AddCommand(charsetCountCmd, charsetFromCSVCmd, charsetMergeCmd)
	rootCmd.AddCommand(charsetCmd)
}
