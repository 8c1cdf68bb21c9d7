package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/harmonia-audio/harmonia/logging"
)

var (
	configFile string
	verbose    bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "harmonia",
	Short: "Classical-DSP music analysis engine",
	Long: `Harmonia analyzes raw PCM audio with classical signal processing and
produces a full music description: key, tempo, loudness, perceptual
descriptors (energy, danceability, valence, acousticness, ...),
classification labels (subgenres, era, mood, occasions) and the
seven-axis HAMMS similarity vector.

Input is raw little-endian PCM; decoding compressed formats is out of
scope. Pipe the output of your decoder of choice:

  ffmpeg -i song.mp3 -f f32le -ac 1 -ar 44100 - | harmonia analyze -`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, viper.GetViper()); err != nil {
			return err
		}
		configureLogging()
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/harmonia/harmonia.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads the config file and environment variables
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(home + "/.config/harmonia")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("harmonia")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HARMONIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// bindFlags binds each cobra flag to its viper key and HARMONIA_* env var
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}
		if err := v.BindEnv(f.Name, "HARMONIA_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

func setDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_level", "info")

	viper.SetDefault("sample-rate", 44100)
	viper.SetDefault("format", "f32le")
	viper.SetDefault("max-duration", 30.0)
}

func configureLogging() {
	level := logLevel
	if viper.GetBool("verbose") {
		level = "debug"
	}

	switch strings.ToLower(level) {
	case "debug":
		logging.SetLevel(logging.DebugLevel)
	case "info":
		logging.SetLevel(logging.InfoLevel)
	case "warn":
		logging.SetLevel(logging.WarnLevel)
	case "error":
		logging.SetLevel(logging.ErrorLevel)
	}
}
