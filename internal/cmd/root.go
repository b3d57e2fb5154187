package cmd

import (
	"strings"

	"github.com/fonny-io/fonny/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "fonny",
	Short: "Serial REPL bridge for FORTH boards",
	Long: `Fonny connects a terminal to a FORTH interpreter running on a
microcontroller over a serial line. Commands you type are sent to the
board, responses stream back as they arrive, and every exchange is
recorded to a local event archive for later inspection.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/fonny/config.yaml)")
	rootCmd.PersistentFlags().StringP("port", "p", "", "serial device path (default /dev/ttyACM0)")
	rootCmd.PersistentFlags().IntP("baud", "b", 0, "serial baud rate (default 115200)")
	rootCmd.PersistentFlags().String("db", "", "event archive database path")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug/info/warn/error)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("serial.port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("serial.baud_rate", rootCmd.PersistentFlags().Lookup("baud"))
	_ = viper.BindPFlag("archive.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/fonny")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FONNY")
	// Replace dots with underscores for nested keys in env vars
	// e.g., FONNY_SERIAL_BAUD_RATE for serial.baud_rate
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
