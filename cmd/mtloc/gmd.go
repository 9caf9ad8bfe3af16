package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mt-loc-tools/internal/batch"
	"mt-loc-tools/internal/gmd"
)

var gmdCmd = &cobra.Command{
	Use:   "gmd",
	Short: "Work with GMD message scripts",
}

var gmdUnpackCmd = &cobra.Command{
	Use:   "unpack <input dir> <output dir>",
	Short: "Write every section of each .gmd file to a text file",
	Args:  cobra.ExactArgs(2),
	RunE:  runBatch("gmd unpack", batch.UnpackScripts),
}

var gmdRepackCmd = &cobra.Command{
	Use:   "repack <input dir> <output dir>",
	Short: "Rebuild .gmd files from unpacked directories",
	Args:  cobra.ExactArgs(2),
	RunE:  runBatch("gmd repack", batch.RepackScripts),
}

var gmdVerifyCmd = &cobra.Command{
	Use:   "verify <file.gmd>...",
	Short: "Check that stored label hashes match the label names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bad := 0
		for _, path := range args {
			s, err := gmd.ReadFile(path)
			if err != nil {
				return err
			}
			mismatches := s.Verify()
			for _, m := range mismatches {
				logger.Warn("label hash mismatch", "file", path, "label", m.String())
			}
			if len(mismatches) > 0 {
				bad++
				continue
			}
			logger.Info("ok", "file", path, "sections", len(s.Sections), "labels", len(s.Labels))
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d scripts have bad label hashes", bad, len(args))
		}
		return nil
	},
}

func init() {
	gmdCmd.AddCommand(gmdUnpackCmd, gmdRepackCmd, gmdVerifyCmd)
	rootCmd.AddCommand(gmdCmd)
}
