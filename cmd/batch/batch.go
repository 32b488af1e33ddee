// Package batch handles directory-wide statement conversion.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kedder/camt-statement/cmd/convert"
	"github.com/kedder/camt-statement/cmd/root"
	"github.com/kedder/camt-statement/internal/config"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert all CAMT files in a directory",
	Long:  `Convert every .xml file in the input directory, skipping files that fail to parse.`,
	Run:   batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.InputDir, "input-dir", "", "Directory containing CAMT XML files")
	Cmd.Flags().StringVar(&root.OutputDir, "output-dir", "", "Directory for converted files")
	_ = Cmd.MarkFlagRequired("input-dir")
	_ = Cmd.MarkFlagRequired("output-dir")
}

func batchFunc(cmd *cobra.Command, args []string) {
	cfg, err := config.InitializeConfig()
	if err != nil {
		root.Log.Fatalf("Error loading configuration: %v", err)
	}

	processed, err := BatchConvert(root.InputDir, root.OutputDir, root.SharedFlags, cfg, root.Log)
	if err != nil {
		root.Log.Fatalf("Batch conversion failed: %v", err)
	}
	root.Log.WithField("count", processed).Info("Batch conversion completed")
}

// BatchConvert converts all XML files in inputDir, writing one output file
// per input into outputDir. Files that fail to parse are logged and
// skipped; the count of successfully converted files is returned.
func BatchConvert(inputDir, outputDir string, flags root.CommonFlags, cfg *config.Config, log *logrus.Logger) (int, error) {
	log.WithFields(logrus.Fields{
		"inputDir":  inputDir,
		"outputDir": outputDir,
	}).Info("Batch converting CAMT XML files")

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return 0, fmt.Errorf("error creating output directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(inputDir, "*.xml"))
	if err != nil {
		return 0, fmt.Errorf("error reading input directory: %w", err)
	}

	ext := "." + strings.ToLower(flags.Format)
	if flags.Format == "" {
		ext = ".csv"
	}

	var processed int
	for _, file := range files {
		baseName := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

		fileFlags := flags
		fileFlags.Input = file
		fileFlags.Output = filepath.Join(outputDir, baseName+ext)

		if err := convert.Convert(fileFlags, cfg, log); err != nil {
			log.WithFields(logrus.Fields{
				"file":  file,
				"error": err,
			}).Warning("Failed to convert file, skipping")
			continue
		}
		processed++
	}

	return processed, nil
}
