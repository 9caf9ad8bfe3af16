package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mt-loc-tools/internal/batch"
)

var gfdCmd = &cobra.Command{
	Use:   "gfd",
	Short: "Work with GFD font descriptors and their atlas pages",
}

var gfdDumpCmd = &cobra.Command{
	Use:   "dump <file.gfd | dir> <output dir>",
	Short: "Write the header template and glyph map of descriptors",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]
		paths, err := descriptorPaths(in)
		if err != nil {
			return err
		}
		jobs := make([]batch.Job, len(paths))
		for i, path := range paths {
			jobs[i] = batch.Job{Name: filepath.Base(path), Run: func(context.Context) (string, error) {
				return batch.DumpFont(path, out)
			}}
		}
		start := time.Now()
		return finish("gfd dump", out, start, batch.Run(cmd.Context(), batchConfig(in, out), jobs))
	},
}

func descriptorPaths(in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{in}, nil
	}
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".gfd") {
			paths = append(paths, filepath.Join(in, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no .gfd files in %s", batch.ErrNoInput, in)
	}
	return paths, nil
}

var gfdRepackCmd = &cobra.Command{
	Use:   "repack <resource dir> <base> <output dir>",
	Short: "Rebuild <base>.gfd from a dumped header template and glyph map",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := batch.RepackFont(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		logger.Info("wrote", "path", out)
		return nil
	},
}

var generate struct {
	res  string
	base string
	font string
}

var gfdGenerateCmd = &cobra.Command{
	Use:   "generate <output dir>",
	Short: "Rasterize a character list into a descriptor and LA4 atlas pages",
	Long: `generate reads <res>/<base>_header.bin and <res>/<base>_list.json,
renders every listed character with the given TrueType/OpenType font and
writes <base>.gfd with one <base>_NN_AM_NOMIP.tex per atlas page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := args[0]
		start := time.Now()
		results, err := batch.GenerateFont(cmd.Context(), batchConfig(generate.res, out), batch.FontJob{
			ResDir:   generate.res,
			Base:     generate.base,
			FontPath: generate.font,
			SizePx:   cfg.Font.SizePx,
			Adjust:   fontAdjust(),
		})
		if err != nil {
			return err
		}
		return finish("gfd generate", out, start, results)
	},
}

var gfdExportCmd = &cobra.Command{
	Use:   "export <file.gfd> <pages dir> <output dir>",
	Short: "Crop every glyph of a descriptor from its atlas pages",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		results, err := batch.ExportFont(cmd.Context(), batchConfig(args[1], args[2]), args[0], args[1])
		if err != nil {
			return err
		}
		return finish("gfd export", args[2], start, results)
	},
}

func init() {
	f := gfdGenerateCmd.Flags()
	f.StringVar(&generate.res, "res", "res", "directory holding the header template and character list")
	f.StringVar(&generate.base, "base", "font00_jpn", "font base name")
	f.StringVar(&generate.font, "font", "", "TrueType or OpenType font file")
	f.IntVar(&flags.SizePx, "size", 0, "glyph size in pixels (default: from the header)")
	f.IntVar(&flags.AdjustX, "adjust-x", 0, "shift recorded x positions and shrink widths by this much")
	f.IntVar(&flags.AdjustY, "adjust-y", 0, "shift recorded y positions and shrink heights by this much")
	_ = gfdGenerateCmd.MarkFlagRequired("font")

	gfdCmd.AddCommand(gfdDumpCmd, gfdRepackCmd, gfdGenerateCmd, gfdExportCmd)
	rootCmd.AddCommand(gfdCmd)
}
