// internal/commands/root.go
package mlxbench

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mwiater/mlxbench/internal/appconfig"
	"github.com/mwiater/mlxbench/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "mlxbench",
	Short:        "mlxbench — benchmark local LLM text generation and plot the results",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		// The worker's stdout carries exactly one result document, so its
		// console logging goes to stderr instead.
		initLogger := logging.Init
		if cmd.Name() == "worker" {
			initLogger = logging.InitStderr
		}
		if err := initLogger(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(cfg.Debug)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). Errors carrying an explicit
// exit code terminate the process with that code; everything else exits 1.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		var coded *exitError
		if errors.As(err, &coded) {
			os.Exit(coded.code)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("host", appconfig.DefaultHost, "inference server URL")
	rootCmd.PersistentFlags().Int("timeout", 0, "backend request timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("timeoutSeconds", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig points viper at the configured config file.
func initConfig() {
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("json")
}

// ensureConfigLoaded reads the config file when present. A missing file is
// fine: every setting has a flag or a default.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// resolveString returns the flag value when set on the command line,
// otherwise the viper value (config file or registered default).
func resolveString(flags *pflag.FlagSet, name, key string) string {
	if flags.Changed(name) || !viper.IsSet(key) {
		value, _ := flags.GetString(name)
		return value
	}
	return viper.GetString(key)
}

func resolveInt(flags *pflag.FlagSet, name, key string) int {
	if flags.Changed(name) || !viper.IsSet(key) {
		value, _ := flags.GetInt(name)
		return value
	}
	return viper.GetInt(key)
}

func resolveFloat(flags *pflag.FlagSet, name, key string) float64 {
	if flags.Changed(name) || !viper.IsSet(key) {
		value, _ := flags.GetFloat64(name)
		return value
	}
	return viper.GetFloat64(key)
}

func resolveBool(flags *pflag.FlagSet, name, key string) bool {
	if flags.Changed(name) || !viper.IsSet(key) {
		value, _ := flags.GetBool(name)
		return value
	}
	return viper.GetBool(key)
}
