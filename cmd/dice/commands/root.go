// Package commands implements the dice command line.
package commands

import (
	"os"

	"github.com/dicengine/dice/cmd/dice/commands/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags.
	cfgFile string

	// processArgs are the arguments after the program name, as handed to
	// the process lifecycle.
	processArgs []string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dice",
	Short: "DICe - Digital Image Correlation Engine",
	Long: `DICe is a digital image correlation engine. This launcher brings a DICe
process up on its distributed runtime, reports its build configuration, and
manages its configuration file.

Use "dice [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line with os.Args.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the command line with args, which exclude the program name.
func ExecuteArgs(args []string) error {
	processArgs = args
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/dice/config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(config.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
