package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playersync/internal/shared"
	tu "github.com/desertthunder/playersync/internal/testing"
)

// newTestApp mirrors the command tree built in main.
func newTestApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name: "playersync",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.toml"},
		},
		Before:         r.loadConfig,
		Commands:       r.register(),
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// writeConfig writes a config file into dir with a database and lock under dir.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
[wrapper]
mount_point = "/mnt/player"
lock_path = %q

[synchronizer]
command = ["fake-sync"]

[database]
path = %q

[logging]
level = "debug"
%s`, filepath.Join(dir, "run.lock"), filepath.Join(dir, "playersync.db"), extra)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			mounter := &tu.MockMounter{}
			executor := &tu.MockExecutor{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Mounter:    mounter,
				Executor:   executor,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.mounter != mounter {
				t.Error("expected mounter to be set")
			}
			if runner.executor != executor {
				t.Error("expected executor to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Fatal("expected default config to be set")
			}
			if runner.config.Wrapper.MountPoint != "/mnt/player" {
				t.Errorf("unexpected default mount point %q", runner.config.Wrapper.MountPoint)
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainln("done")
			if output.String() != "\ndone\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		var names []string
		for i, cmd := range runner.register() {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names = append(names, cmd.Name)
		}

		want := []string{"run", "sync", "history", "setup"}
		if !slices.Equal(names, want) {
			t.Errorf("expected commands %v, got %v", want, names)
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("reads the config file", func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, "")
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})

			app := newTestApp(runner)
			app.Commands = []*cli.Command{{Name: "noop", Action: func(context.Context, *cli.Command) error { return nil }}}
			if err := app.Run(context.Background(), []string{"playersync", "--config", path, "noop"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if runner.configPath != path {
				t.Errorf("expected config path %s, got %s", path, runner.configPath)
			}
			if got := runner.config.Synchronizer.Command; !slices.Equal(got, []string{"fake-sync"}) {
				t.Errorf("expected configured synchronizer, got %v", got)
			}
			if runner.config.Synchronizer.Source != "/big/music" {
				t.Errorf("expected default source to survive, got %q", runner.config.Synchronizer.Source)
			}
		})

		t.Run("falls back to defaults when missing", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})

			app := newTestApp(runner)
			app.Commands = []*cli.Command{{Name: "noop", Action: func(context.Context, *cli.Command) error { return nil }}}
			missing := filepath.Join(t.TempDir(), "missing.toml")
			if err := app.Run(context.Background(), []string{"playersync", "--config", missing, "noop"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if runner.config.Wrapper.MountPoint != "/mnt/player" {
				t.Error("expected default config")
			}
		})
	})

	t.Run("synchronizerCommand", func(t *testing.T) {
		t.Run("uses the configured command", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Synchronizer.Command = []string{"/usr/local/bin/sync-music"}
			runner := NewRunner(RunnerOpts{Config: config})

			got, err := runner.synchronizerCommand()
			if err != nil || !slices.Equal(got, []string{"/usr/local/bin/sync-music"}) {
				t.Errorf("unexpected command %v (%v)", got, err)
			}
		})

		t.Run("defaults to this binary's sync command", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/etc/playersync.toml"})

			got, err := runner.synchronizerCommand()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			exe, _ := os.Executable()
			want := []string{exe, "--config", "/etc/playersync.toml", "sync"}
			if !slices.Equal(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	})
}

func TestRunCommand(t *testing.T) {
	fixed := []string{
		"--source", "/big/music",
		"--dest", "/mnt/player/MUSIC",
		"--playlist", "/var/lib/mpd/playlists/Player.m3u",
		"--normalize",
	}

	setup := func(t *testing.T) (*Runner, *tu.CallLog, *tu.MockMounter, *tu.MockExecutor, *tu.LogWriter, string) {
		t.Helper()
		log := &tu.CallLog{}
		mounter := &tu.MockMounter{Log: log}
		executor := &tu.MockExecutor{Log: log}
		output := &tu.LogWriter{Log: log}
		runner := NewRunner(RunnerOpts{
			Logger:   shared.NewLogger(io.Discard),
			Output:   output,
			Mounter:  mounter,
			Executor: executor,
		})
		return runner, log, mounter, executor, output, writeConfig(t, t.TempDir(), "")
	}

	t.Run("forwards arguments verbatim and unmounts", func(t *testing.T) {
		runner, log, _, executor, output, config := setup(t)

		args := []string{"playersync", "--config", config, "run", "--dry-run", "--workers", "2", "--no-delete"}
		if err := newTestApp(runner).Run(context.Background(), args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"mount /mnt/player", "exec fake-sync", "print Unmounting /mnt/player...", "umount /mnt/player"}
		if got := log.Calls(); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		wantArgs := append(append([]string{}, fixed...), "--dry-run", "--workers", "2", "--no-delete")
		if got := executor.Calls[0].Args; !slices.Equal(got, wantArgs) {
			t.Errorf("expected args %q, got %q", wantArgs, got)
		}
		if output.String() != "Unmounting /mnt/player...\n" {
			t.Errorf("expected only the status line, got %q", output.String())
		}
	})

	t.Run("mount failure exits with the mount status", func(t *testing.T) {
		runner, log, mounter, _, _, config := setup(t)
		mounter.MountErr = &tu.StatusError{Code: 32}

		err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "run"})
		var coder cli.ExitCoder
		if !errors.As(err, &coder) || coder.ExitCode() != 32 {
			t.Fatalf("expected exit status 32, got %v", err)
		}
		if got := log.Calls(); len(got) != 1 {
			t.Errorf("expected only the mount call, got %v", got)
		}
	})

	t.Run("unmount failure exits with the unmount status", func(t *testing.T) {
		runner, _, mounter, executor, _, config := setup(t)
		executor.Err = &tu.StatusError{Code: 1}
		mounter.UnmountErr = &tu.StatusError{Code: 16}

		err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "run"})
		var coder cli.ExitCoder
		if !errors.As(err, &coder) || coder.ExitCode() != 16 {
			t.Fatalf("expected exit status 16, got %v", err)
		}
	})

	t.Run("runs are recorded and listed", func(t *testing.T) {
		runner, _, _, executor, output, config := setup(t)
		executor.Err = &tu.StatusError{Code: 3}

		app := newTestApp(runner)
		if err := app.Run(context.Background(), []string{"playersync", "--config", config, "run", "--silent"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output.Reset()
		if err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "history"}); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		table := output.String()
		for _, want := range []string{"STATUS", "completed", "╭"} {
			if !strings.Contains(table, want) {
				t.Errorf("history table missing %q:\n%s", want, table)
			}
		}

		output.Reset()
		if err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "history", "--json"}); err != nil {
			t.Fatalf("history --json failed: %v", err)
		}
		var runs []runView
		if err := json.Unmarshal(output.Bytes(), &runs); err != nil {
			t.Fatalf("invalid JSON %q: %v", output.String(), err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if runs[0].SyncStatus == nil || *runs[0].SyncStatus != 3 {
			t.Errorf("expected sync status 3, got %v", runs[0].SyncStatus)
		}
		if !strings.HasSuffix(runs[0].CommandLine, "--normalize --silent") {
			t.Errorf("unexpected command line %q", runs[0].CommandLine)
		}
	})

	t.Run("invalid configuration is rejected before mounting", func(t *testing.T) {
		runner, log, _, _, _, _ := setup(t)
		config := writeConfig(t, t.TempDir(), "")
		contents, _ := os.ReadFile(config)
		broken := strings.Replace(string(contents), `mount_point = "/mnt/player"`, `mount_point = ""`, 1)
		os.WriteFile(config, []byte(broken), 0644)

		err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "run"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
		if len(log.Calls()) != 0 {
			t.Errorf("expected no external calls, got %v", log.Calls())
		}
	})
}

func TestSyncCommand(t *testing.T) {
	library := func(t *testing.T) (dir, source, dest, m3u, config string) {
		t.Helper()
		dir = t.TempDir()
		source = filepath.Join(dir, "music")
		dest = filepath.Join(dir, "player", "MUSIC")
		m3u = filepath.Join(dir, "Player.m3u")

		writeFile(t, filepath.Join(source, "Artist", "01 Intro.mp3"), "intro")
		writeFile(t, filepath.Join(source, "Artist", "02 Outro?.mp3"), "outro")
		writeFile(t, filepath.Join(dest, "stale.mp3"), "stale")
		writeFile(t, m3u, "#EXTM3U\n#EXTINF:1,Intro\nArtist/01 Intro.mp3\n"+filepath.Join(source, "Artist", "02 Outro?.mp3")+"\n")
		config = writeConfig(t, dir, "")
		return
	}

	t.Run("mirrors the playlist and writes a report", func(t *testing.T) {
		dir, source, dest, m3u, config := library(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})
		report := filepath.Join(dir, "reports", "sync.csv")

		args := []string{"playersync", "--config", config, "sync",
			"--source", source, "--dest", dest, "--playlist", m3u, "--normalize", "--report", report}
		if err := newTestApp(runner).Run(context.Background(), args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dest, "Artist", "01 Intro.mp3"))
		tu.AssertFileExists(t, filepath.Join(dest, "Artist", "02 Outro_.mp3"))
		if _, err := os.Stat(filepath.Join(dest, "stale.mp3")); !os.IsNotExist(err) {
			t.Error("expected stale file to be deleted")
		}
		if !strings.Contains(output.String(), "Copied 2 (10 B), skipped 0, deleted 1 files") {
			t.Errorf("unexpected summary %q", output.String())
		}
		if content := tu.MustReadFile(t, report); !strings.Contains(content, "Artist/02 Outro_.mp3,copied,5,") {
			t.Errorf("unexpected report:\n%s", content)
		}

		output.Reset()
		if err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "history", "--reports", "--json"}); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		var reports []reportView
		if err := json.Unmarshal(output.Bytes(), &reports); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(reports) != 1 || reports[0].Copied != 2 || reports[0].Deleted != 1 {
			t.Errorf("unexpected stored reports %+v", reports)
		}
	})

	t.Run("dry run leaves the destination alone", func(t *testing.T) {
		_, source, dest, m3u, config := library(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		args := []string{"playersync", "--config", config, "sync",
			"--source", source, "--dest", dest, "--playlist", m3u, "--dry-run", "--silent"}
		if err := newTestApp(runner).Run(context.Background(), args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dest, "stale.mp3"))
		if !strings.HasPrefix(output.String(), "[dry run] Copied 2") {
			t.Errorf("unexpected summary %q", output.String())
		}
	})

	t.Run("missing files fail the command after the summary", func(t *testing.T) {
		dir, source, dest, _, config := library(t)
		m3u := filepath.Join(dir, "broken.m3u")
		writeFile(t, m3u, "Artist/01 Intro.mp3\nArtist/gone.mp3\n")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		args := []string{"playersync", "--config", config, "sync", "--source", source, "--dest", dest, "--playlist", m3u}
		err := newTestApp(runner).Run(context.Background(), args)
		if !errors.Is(err, shared.ErrSyncIncomplete) {
			t.Fatalf("expected ErrSyncIncomplete, got %v", err)
		}
		if !strings.Contains(output.String(), "✗ Artist/gone.mp3") {
			t.Errorf("expected failed file in summary, got %q", output.String())
		}
	})

	t.Run("rejects invalid flags", func(t *testing.T) {
		_, source, dest, m3u, config := library(t)

		tt := []struct {
			name  string
			extra []string
			want  error
		}{
			{name: "too many workers", extra: []string{"--workers", "9"}, want: shared.ErrInvalidFlag},
			{name: "zero workers", extra: []string{"--workers", "0"}, want: shared.ErrInvalidFlag},
			{name: "unknown report format", extra: []string{"--report", "out.xlsx"}, want: shared.ErrInvalidArgument},
		}
		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
				args := append([]string{"playersync", "--config", config, "sync",
					"--source", source, "--dest", dest, "--playlist", m3u}, tc.extra...)
				if err := newTestApp(runner).Run(context.Background(), args); !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("missing playlist", func(t *testing.T) {
		dir, source, dest, _, config := library(t)
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		args := []string{"playersync", "--config", config, "sync",
			"--source", source, "--dest", dest, "--playlist", filepath.Join(dir, "nope.m3u")}
		if err := newTestApp(runner).Run(context.Background(), args); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("tui falls back when output is not a terminal", func(t *testing.T) {
		_, source, dest, m3u, config := library(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		args := []string{"playersync", "--config", config, "sync",
			"--source", source, "--dest", dest, "--playlist", m3u, "--tui"}
		if err := newTestApp(runner).Run(context.Background(), args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Copied 2") {
			t.Errorf("expected plain summary, got %q", output.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		dir := t.TempDir()
		originalDir := tu.MustGetwd(t)
		tu.MustChdir(t, dir)
		defer tu.MustChdir(t, originalDir)

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		if err := newTestApp(runner).Run(context.Background(), []string{"playersync", "setup"}); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertFileExists(t, filepath.Join(dir, "playersync.db"))
		if !strings.Contains(output.String(), "schema version 1") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("keeps an existing config", func(t *testing.T) {
		dir := t.TempDir()
		config := writeConfig(t, dir, "")
		before := tu.MustReadFile(t, config)

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})
		if err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "setup"}); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if tu.MustReadFile(t, config) != before {
			t.Error("existing config should not be rewritten")
		}
		if strings.Contains(output.String(), "Created") {
			t.Errorf("unexpected output %q", output.String())
		}
		tu.AssertFileExists(t, filepath.Join(dir, "playersync.db"))
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		config := writeConfig(t, t.TempDir(), "")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		if err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "history", "--reports"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.String() != "No reports recorded.\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("requires a database", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		writeFile(t, path, "[database]\npath = \"\"\n")
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", path, "history"})
		if !errors.Is(err, shared.ErrDatabaseDisabled) {
			t.Errorf("expected ErrDatabaseDisabled, got %v", err)
		}
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		config := writeConfig(t, t.TempDir(), "")
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		err := newTestApp(runner).Run(context.Background(), []string{"playersync", "--config", config, "history", "--limit", "0"})
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestRenderTable(t *testing.T) {
	t.Run("renders headers and rows", func(t *testing.T) {
		out := renderTable([]string{"#", "Status"}, [][]string{{"1", "completed"}, {"2"}}, []columnAlignment{alignRight})
		for _, want := range []string{"#", "STATUS", "completed", "╭", "╰"} {
			if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("no headers renders nothing", func(t *testing.T) {
		if out := renderTable(nil, [][]string{{"x"}}, nil); out != "" {
			t.Errorf("expected empty output, got %q", out)
		}
	})
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
}
