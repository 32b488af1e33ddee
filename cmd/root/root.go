// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kedder/camt-statement/internal/config"
	"github.com/kedder/camt-statement/internal/fileutils"
	"github.com/kedder/camt-statement/internal/writer"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Format   string
	Currency string
	IBAN     string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "camt-statement",
		Short: "Convert ISO-20022 CAMT.052/CAMT.053 bank statements to ledger formats.",
		Long: `camt-statement imports bank-issued CAMT.052 account reports and
CAMT.053 statements and converts them to CSV or YAML for ledger tooling.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to camt-statement!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			fileutils.SetLogger(Log)
			writer.SetLogger(Log)
		},
	}

	// SharedFlags holds flag values accessible to all commands
	SharedFlags = CommonFlags{}

	// Batch command flags
	InputDir  string
	OutputDir string
)

// Init initializes the root command flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "csv", "Output format (csv or yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Currency, "currency", "", "Default currency when the statement has none")
	Cmd.PersistentFlags().StringVar(&SharedFlags.IBAN, "iban", "", "Default account id when the statement has none")
}
