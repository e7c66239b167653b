// Package config layers flags, MEDIAKIT_* environment variables, an optional
// config file and defaults through Viper.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mediakit/internal/dirs"
)

// Keys understood in config files and as MEDIAKIT_<KEY> variables.
const (
	KeyOutDir        = "out_dir"
	KeyVerbose       = "verbose"
	KeyLogLevel      = "log_level"
	KeyJobs          = "jobs"
	KeyDLBinary      = "dl_binary"
	KeyFFmpegBinary  = "ffmpeg_binary"
	KeyFFprobeBinary = "ffprobe_binary"
	KeyHistory       = "history"
	KeyHistoryDB     = "history_db"
	KeyDryRun        = "dry_run"
)

// flagKeys maps root persistent flag names to config keys.
var flagKeys = map[string]string{
	"out-dir":    KeyOutDir,
	"verbose":    KeyVerbose,
	"log-level":  KeyLogLevel,
	"jobs":       KeyJobs,
	"dl-binary":  KeyDLBinary,
	"ffmpeg":     KeyFFmpegBinary,
	"ffprobe":    KeyFFprobeBinary,
	"history-db": KeyHistoryDB,
	"dry-run":    KeyDryRun,
}

// Settings is the resolved configuration.
type Settings struct {
	OutDir        string
	Verbose       bool
	LogLevel      string
	Jobs          int
	DLBinary      string
	FFmpegBinary  string
	FFprobeBinary string
	History       bool
	HistoryDB     string
	DryRun        bool
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: a missing config file is not an error.
func Init(root *cobra.Command) error {
	_ = dirs.EnsureAll()

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	viper.SetEnvPrefix("MEDIAKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if root != nil {
		root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			if key, ok := flagKeys[f.Name]; ok {
				_ = viper.BindPFlag(key, f)
			}
		})
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyJobs, 2)
	viper.SetDefault(KeyHistory, true)
	if db, err := dirs.HistoryDBPath(); err == nil {
		viper.SetDefault(KeyHistoryDB, db)
	}
}

// Load reads the current Viper state.
func Load() Settings {
	s := Settings{
		OutDir:        viper.GetString(KeyOutDir),
		Verbose:       viper.GetBool(KeyVerbose),
		LogLevel:      viper.GetString(KeyLogLevel),
		Jobs:          viper.GetInt(KeyJobs),
		DLBinary:      viper.GetString(KeyDLBinary),
		FFmpegBinary:  viper.GetString(KeyFFmpegBinary),
		FFprobeBinary: viper.GetString(KeyFFprobeBinary),
		History:       viper.GetBool(KeyHistory),
		HistoryDB:     viper.GetString(KeyHistoryDB),
		DryRun:        viper.GetBool(KeyDryRun),
	}
	if s.Jobs < 1 {
		s.Jobs = 1
	}
	return s
}
