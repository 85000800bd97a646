package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-tree/pkg/drag"
)

var cfgFile string

// Settings is everything the commands read from configuration.
type Settings struct {
	Drag      *drag.Config
	RowHeight int
	Indent    int
	LogLevel  logrus.Level
	LogFile   string
}

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "grove-tree")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GROVE_TREE")

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		// Do not print this in normal operation, it's noisy.
		// fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tui.row_height", 2)
	v.SetDefault("tui.indent", 2)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
}

// Load reads settings from v. base supplies the drag settings the `tree`
// section is merged onto; callers pick terminal-scale thresholds there.
func Load(v *viper.Viper, base drag.Config) (*Settings, error) {
	cfg, err := base.Merge(v.GetStringMap("tree"))
	if err != nil {
		return nil, fmt.Errorf("tree section: %w", err)
	}
	level, err := logrus.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	return &Settings{
		Drag:      cfg,
		RowHeight: v.GetInt("tui.row_height"),
		Indent:    v.GetInt("tui.indent"),
		LogLevel:  level,
		LogFile:   v.GetString("log_file"),
	}, nil
}

// TerminalDefaults returns drag settings scaled to terminal cells.
func TerminalDefaults() drag.Config {
	cfg := drag.DefaultConfig()
	cfg.DragStartThreshold = 1
	cfg.LevelChangeThreshold = 3
	return cfg
}

// NewLogger builds the command logger. With no log file the output is
// discarded when quiet is set and goes to stderr otherwise.
func (s *Settings) NewLogger(quiet bool) (*logrus.Entry, func() error, error) {
	logger := logrus.New()
	logger.SetLevel(s.LogLevel)
	closer := func() error { return nil }

	switch {
	case s.LogFile != "":
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f.Close
	case quiet:
		logger.SetOutput(io.Discard)
	default:
		logger.SetOutput(os.Stderr)
	}
	return logrus.NewEntry(logger).WithField("component", "grove-tree"), closer, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/grove-tree/config.yaml)")
}
