package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mt-loc-tools/internal/batch"
	"mt-loc-tools/internal/postprocess"
	"mt-loc-tools/internal/tex"
)

var texCmd = &cobra.Command{
	Use:   "tex",
	Short: "Convert LA4 TEX textures",
}

var texDecodeCmd = &cobra.Command{
	Use:   "decode <input dir> <output dir>",
	Short: "Convert every .tex file to an image in --format",
	Args:  cobra.ExactArgs(2),
	RunE:  runBatch("tex decode", batch.DecodeTextures),
}

var texEncodeCmd = &cobra.Command{
	Use:   "encode <input dir> <output dir>",
	Short: "Convert every PNG, TGA and WebP image to a .tex file",
	Args:  cobra.ExactArgs(2),
	RunE:  runBatch("tex encode", batch.EncodeTextures),
}

var texInfoCmd = &cobra.Command{
	Use:   "info <file.tex>...",
	Short: "Print the header and ink bounds of textures",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			t, err := tex.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(w, "%s: %s\n", path, t.Header)
			ink := postprocess.InkBounds(t.Image())
			if ink.Empty() {
				fmt.Fprintln(w, "  ink: none")
				continue
			}
			fmt.Fprintf(w, "  ink: %v (%dx%d)\n", ink, ink.Dx(), ink.Dy())
		}
		return nil
	},
}

func init() {
	texCmd.AddCommand(texDecodeCmd, texEncodeCmd, texInfoCmd)
	rootCmd.AddCommand(texCmd)
}
