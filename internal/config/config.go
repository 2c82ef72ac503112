package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/rtop/internal/model"
)

// Config carries runtime options for rtop.
type Config struct {
	Interval   time.Duration
	Sort       model.SortKey
	JSON       bool
	LogFile    string
	ConfigFile string
}

func Default() Config {
	return Config{
		Interval: 250 * time.Millisecond,
		Sort:     model.SortByCPU,
	}
}

// fileConfig is the YAML layout of the optional config file.
type fileConfig struct {
	RefreshRate *int64  `yaml:"refresh_rate"` // milliseconds
	Sort        *string `yaml:"sort"`
	LogFile     *string `yaml:"log_file"`
}

// DefaultConfigFile is <UserConfigDir>/rtop/config.yaml, or "" when the
// user config dir is unknown.
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rtop", "config.yaml")
}

// FromFlags parses flags, then fills whatever was not given on the command
// line from the environment, then from the config file.
func FromFlags(args []string, stderr io.Writer) (Config, error) {
	cfg := Default()
	refreshMS := cfg.Interval.Milliseconds()
	sort := cfg.Sort.String()
	logFile := ""
	configFile := DefaultConfigFile()

	flags := flag.NewFlagSet("rtop", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Int64Var(&refreshMS, "refresh-rate", refreshMS, "refresh rate in milliseconds")
	flags.Int64Var(&refreshMS, "r", refreshMS, "shorthand for -refresh-rate")
	flags.StringVar(&sort, "sort", sort, "initial sort column: cpu|mem|name|pid")
	flags.BoolVar(&cfg.JSON, "json", cfg.JSON, "print one sample as JSON and exit")
	flags.StringVar(&logFile, "log", logFile, "write logs to this file")
	flags.StringVar(&configFile, "config", configFile, "YAML config file")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg.ConfigFile = configFile

	// lowest precedence first, so each layer overwrites the one before
	if err := applyFile(&cfg, configFile, set["config"]); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if set["refresh-rate"] || set["r"] {
		cfg.Interval = time.Duration(refreshMS) * time.Millisecond
	}
	if set["sort"] {
		key, err := model.ParseSortKey(sort)
		if err != nil {
			return cfg, err
		}
		cfg.Sort = key
	}
	if set["log"] {
		cfg.LogFile = logFile
	}

	if cfg.Interval <= 0 {
		return cfg, fmt.Errorf("refresh rate must be positive, got %v", cfg.Interval)
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string, explicit bool) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.RefreshRate != nil {
		cfg.Interval = time.Duration(*fc.RefreshRate) * time.Millisecond
	}
	if fc.Sort != nil {
		key, err := model.ParseSortKey(*fc.Sort)
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		cfg.Sort = key
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("RTOP_REFRESH_RATE"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Interval = time.Duration(ms) * time.Millisecond
		} else if parsed, err2 := time.ParseDuration(v); err2 == nil {
			cfg.Interval = parsed
		} else {
			return fmt.Errorf("RTOP_REFRESH_RATE: %q is neither milliseconds nor a duration", v)
		}
	}
	if v := os.Getenv("RTOP_SORT"); v != "" {
		key, err := model.ParseSortKey(v)
		if err != nil {
			return fmt.Errorf("RTOP_SORT: %w", err)
		}
		cfg.Sort = key
	}
	if v := os.Getenv("RTOP_LOG"); v != "" {
		cfg.LogFile = v
	}
	return nil
}
