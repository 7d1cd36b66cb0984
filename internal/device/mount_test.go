package device

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

func stubRunCommand(t *testing.T, fn func(name string, args ...string) error) *[]call {
	t.Helper()
	var calls []call
	original := runCommand
	runCommand = func(_ context.Context, name string, args ...string) error {
		calls = append(calls, call{name: name, args: args})
		if fn == nil {
			return nil
		}
		return fn(name, args...)
	}
	t.Cleanup(func() { runCommand = original })
	return &calls
}

func TestCommandMounter(t *testing.T) {
	ctx := context.Background()
	mountsFile = filepath.Join(t.TempDir(), "mounts")
	t.Cleanup(func() { mountsFile = "/proc/mounts" })

	t.Run("Mount", func(t *testing.T) {
		t.Run("appends the mount point to the default command", func(t *testing.T) {
			calls := stubRunCommand(t, nil)
			m := NewCommandMounter(nil, nil, nil)

			if err := m.Mount(ctx, "/mnt/player"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(*calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(*calls))
			}
			got := (*calls)[0]
			if got.name != "mount" || !slices.Equal(got.args, []string{"/mnt/player"}) {
				t.Errorf("unexpected call %+v", got)
			}
		})

		t.Run("keeps configured arguments before the mount point", func(t *testing.T) {
			calls := stubRunCommand(t, nil)
			m := NewCommandMounter([]string{"sudo", "mount", "-o", "sync"}, nil, nil)

			if err := m.Mount(ctx, "/mnt/player"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := (*calls)[0]
			if got.name != "sudo" || !slices.Equal(got.args, []string{"mount", "-o", "sync", "/mnt/player"}) {
				t.Errorf("unexpected call %+v", got)
			}
		})

		t.Run("wraps failures with the mount point", func(t *testing.T) {
			sentinel := errors.New("no medium found")
			stubRunCommand(t, func(string, ...string) error { return sentinel })
			m := NewCommandMounter(nil, nil, nil)

			err := m.Mount(ctx, "/mnt/player")
			if !errors.Is(err, sentinel) {
				t.Fatalf("expected wrapped error, got %v", err)
			}
			if !strings.Contains(err.Error(), "mount /mnt/player") {
				t.Errorf("error should reference mount point: %v", err)
			}
		})
	})

	t.Run("Unmount", func(t *testing.T) {
		t.Run("calls umount exactly once", func(t *testing.T) {
			calls := stubRunCommand(t, nil)
			m := NewCommandMounter(nil, nil, nil)

			if err := m.Unmount(ctx, "/mnt/player"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(*calls) != 1 || (*calls)[0].name != "umount" {
				t.Errorf("expected a single umount call, got %+v", *calls)
			}
		})

		t.Run("does not retry on failure", func(t *testing.T) {
			calls := stubRunCommand(t, func(string, ...string) error { return errors.New("device busy") })
			m := NewCommandMounter(nil, nil, nil)

			err := m.Unmount(ctx, "/mnt/player")
			if err == nil || !strings.Contains(err.Error(), "umount /mnt/player") {
				t.Errorf("unexpected error: %v", err)
			}
			if len(*calls) != 1 {
				t.Errorf("expected 1 call, got %d", len(*calls))
			}
		})
	})
}

func TestParseMounts(t *testing.T) {
	mounts := strings.Join([]string{
		"proc /proc proc rw,nosuid 0 0",
		"/dev/sdb1 /mnt/player vfat rw,relatime 0 0",
		`/dev/sdc1 /media/my\040disk vfat rw 0 0`,
		"",
	}, "\n")

	tt := []struct {
		name  string
		point string
		want  bool
	}{
		{name: "mounted", point: "/mnt/player", want: true},
		{name: "escaped space", point: "/media/my disk", want: true},
		{name: "not mounted", point: "/mnt/other", want: false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseMounts(strings.NewReader(mounts), tc.point)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("parseMounts(%q) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}

	t.Run("IsMounted reads the mounts file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mounts")
		if err := os.WriteFile(path, []byte(mounts), 0644); err != nil {
			t.Fatalf("failed to write mounts: %v", err)
		}
		original := mountsFile
		mountsFile = path
		defer func() { mountsFile = original }()

		ok, err := IsMounted("/mnt/player")
		if err != nil || !ok {
			t.Errorf("expected mounted, got %v (%v)", ok, err)
		}
	})
}
