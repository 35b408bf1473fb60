package sdk

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/rs/zerolog"
)

var quiet = zerolog.New(io.Discard)

func TestPrepare(t *testing.T) {
	root := t.TempDir()
	internal := filepath.Join(root, sdkInternal)
	fn.Panic(os.MkdirAll(filepath.Join(internal, "goobj"), 0o755))
	fn.Panic(os.WriteFile(filepath.Join(internal, "goobj", "objfile.go"), []byte("package goobj\n"), 0o644))
	fn.Panic(os.WriteFile(filepath.Join(internal, "README"), []byte("sdk"), 0o600))

	fn.Panic(Clean(quiet, root))
	fn.Panic(Prepare(quiet, root))
	b, err := os.ReadFile(filepath.Join(root, sdkObjfile, "goobj", "objfile.go"))
	if err != nil || string(b) != "package goobj\n" {
		t.Fatalf("copied source = %q, %v", b, err)
	}
	fi := fn.Panic1(os.Stat(filepath.Join(root, sdkObjfile, "README")))
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v", fi.Mode())
	}

	fn.Panic(os.WriteFile(filepath.Join(internal, "README"), []byte("changed"), 0o600))
	fn.Panic(Prepare(quiet, root))
	if b = fn.Panic1(os.ReadFile(filepath.Join(root, sdkObjfile, "README"))); string(b) != "sdk" {
		t.Errorf("prepared twice: %q", b)
	}

	fn.Panic(Clean(quiet, root))
	if _, err = os.Stat(filepath.Join(root, sdkObjfile)); !os.IsNotExist(err) {
		t.Errorf("objfile kept after Clean: %v", err)
	}
	if _, err = os.Stat(internal); err != nil {
		t.Errorf("Clean removed cmd/internal: %v", err)
	}
}
