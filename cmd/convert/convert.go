// Package convert handles single-file statement conversion.
package convert

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kedder/camt-statement/cmd/common"
	"github.com/kedder/camt-statement/cmd/root"
	"github.com/kedder/camt-statement/internal/camtparser"
	"github.com/kedder/camt-statement/internal/config"
	"github.com/kedder/camt-statement/internal/fileutils"
	"github.com/kedder/camt-statement/internal/logging"
	"github.com/kedder/camt-statement/internal/writer"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a CAMT.052/CAMT.053 file",
	Long:  `Convert a single CAMT.052 account report or CAMT.053 statement to CSV or YAML.`,
	Run:   convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("CAMT convert command called")
	root.Log.Infof("Input file: %s", root.SharedFlags.Input)
	root.Log.Infof("Output file: %s", root.SharedFlags.Output)

	cfg, err := config.InitializeConfig()
	if err != nil {
		root.Log.Fatalf("Error loading configuration: %v", err)
	}

	if err := Convert(root.SharedFlags, cfg, root.Log); err != nil {
		root.Log.Fatalf("Conversion failed: %v", err)
	}
	root.Log.Info("Conversion completed successfully!")
}

// Convert runs one file conversion with the given flags and configuration.
// Flags override configured account defaults for this invocation.
func Convert(flags root.CommonFlags, cfg *config.Config, log *logrus.Logger) error {
	if !fileutils.FileExists(flags.Input) {
		return fmt.Errorf("input file does not exist: %s", flags.Input)
	}

	p := camtparser.New(logging.NewLogrusAdapterFromLogger(log))
	p.DefaultCurrency = cfg.Account.Currency
	p.DefaultIBAN = cfg.Account.IBAN
	if flags.Currency != "" {
		p.DefaultCurrency = flags.Currency
	}
	if flags.IBAN != "" {
		p.DefaultIBAN = flags.IBAN
	}

	opts := writer.DefaultOptions()
	if cfg.CSV.Delimiter != "" {
		opts.Delimiter = []rune(cfg.CSV.Delimiter)[0]
	}
	if cfg.CSV.DateFormat != "" {
		opts.DateFormat = cfg.CSV.DateFormat
	}

	return common.ProcessFile(p, flags.Input, flags.Output, flags.Format, opts, log)
}
