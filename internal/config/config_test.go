package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dicklesworthstone/rtop/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RTOP_REFRESH_RATE", "RTOP_SORT", "RTOP_LOG"} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	// an absent default config file is fine, only -config makes it required
	cfg, err := FromFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("FromFlags(nil): %v", err)
	}
	if cfg.Interval != 250*time.Millisecond || cfg.Sort != model.SortByCPU || cfg.JSON {
		t.Errorf("defaults = %+v", cfg)
	}
	if _, err := FromFlags([]string{"-config", missing}, io.Discard); err == nil {
		t.Error("explicit missing config file accepted")
	}
}

func TestFlags(t *testing.T) {
	clearEnv(t)
	cfg, err := FromFlags([]string{"-r", "1000", "-sort", "name", "-json", "-log", "/tmp/rtop.log"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Interval = %v, want 1s", cfg.Interval)
	}
	if cfg.Sort != model.SortByName || !cfg.JSON || cfg.LogFile != "/tmp/rtop.log" {
		t.Errorf("cfg = %+v", cfg)
	}

	cfg, err = FromFlags([]string{"-refresh-rate", "500"}, io.Discard)
	if err != nil || cfg.Interval != 500*time.Millisecond {
		t.Errorf("-refresh-rate 500: %v, %v", cfg.Interval, err)
	}
}

func TestInvalid(t *testing.T) {
	clearEnv(t)
	for _, args := range [][]string{
		{"-r", "0"},
		{"-r", "-5"},
		{"-sort", "size"},
		{"-bogus"},
	} {
		if _, err := FromFlags(args, io.Discard); err == nil {
			t.Errorf("FromFlags(%v) accepted", args)
		}
	}
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "refresh_rate: 2000\nsort: mem\nlog_file: from-file.log\n")

	cfg, err := FromFlags([]string{"-config", path}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 2*time.Second || cfg.Sort != model.SortByMemory || cfg.LogFile != "from-file.log" {
		t.Errorf("file layer = %+v", cfg)
	}

	t.Setenv("RTOP_REFRESH_RATE", "1s")
	t.Setenv("RTOP_SORT", "pid")
	cfg, err = FromFlags([]string{"-config", path}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != time.Second || cfg.Sort != model.SortByPID || cfg.LogFile != "from-file.log" {
		t.Errorf("env layer = %+v", cfg)
	}

	cfg, err = FromFlags([]string{"-config", path, "-r", "100", "-sort", "cpu"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 100*time.Millisecond || cfg.Sort != model.SortByCPU {
		t.Errorf("flag layer = %+v", cfg)
	}
}

func TestEnvMilliseconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("RTOP_REFRESH_RATE", "750")
	cfg, err := FromFlags([]string{"-config", ""}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 750*time.Millisecond {
		t.Errorf("Interval = %v, want 750ms", cfg.Interval)
	}

	t.Setenv("RTOP_REFRESH_RATE", "soon")
	if _, err := FromFlags([]string{"-config", ""}, io.Discard); err == nil {
		t.Error("bad RTOP_REFRESH_RATE accepted")
	}
}

func TestBadConfigFile(t *testing.T) {
	clearEnv(t)
	for _, body := range []string{"sort: [nope", "sort: size\n"} {
		path := writeConfig(t, body)
		_, err := FromFlags([]string{"-config", path}, io.Discard)
		if err == nil || !strings.Contains(err.Error(), path) {
			t.Errorf("config %q: err = %v, want error naming the file", body, err)
		}
	}
}
