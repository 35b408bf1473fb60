// Package sdk prepares the go sdk for the bridge linker.
//
// The linker reads object files with the sdk internal readers, which the go tool only lets
// cmd packages import. Prepare copies them to cmd/objfile once per sdk, this package must not
// depend on the linker itself so it builds on a stock sdk.
package sdk

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZenLiuCN/fn"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const (
	sdkInternal = "src/cmd/internal"
	sdkObjfile  = "src/cmd/objfile"
)

// GoRoot locates the go sdk, $GOROOT first then `go env GOROOT`.
func GoRoot() (string, error) {
	if r := os.Getenv("GOROOT"); r != "" {
		return r, nil
	}
	b, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return "", fmt.Errorf("missing go sdk: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Prepare copies cmd/internal of the sdk at root to cmd/objfile, the linker imports the object
// file readers from there. It does nothing when cmd/objfile exists.
func Prepare(log zerolog.Logger, root string) (err error) {
	src := filepath.Join(root, sdkInternal)
	dir := filepath.Join(root, sdkObjfile)
	if _, err = os.Stat(dir); err == nil {
		log.Debug().Str("dir", dir).Msg("sdk already prepared")
		return
	} else if !os.IsNotExist(err) {
		return
	}
	log.Debug().Str("from", src).Str("to", dir).Msg("prepare go sdk")
	if err = CopyDir(src, dir, nil); err != nil {
		return fmt.Errorf("prepare go sdk: %w", err)
	}
	log.Info().Str("dir", dir).Msg("go sdk prepared")
	return
}

// Clean removes what Prepare copied into the sdk at root.
func Clean(log zerolog.Logger, root string) (err error) {
	dir := filepath.Join(root, sdkObjfile)
	if _, err = os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("dir", dir).Msg("nothing to clean")
			return nil
		}
		return
	}
	if err = os.RemoveAll(dir); err != nil {
		return
	}
	log.Info().Str("dir", dir).Msg("go sdk cleaned")
	return
}

// Commands are the prepare and clean commands, logger builds the logger of an invocation.
func Commands(logger func(ctx *cli.Context) (zerolog.Logger, error)) []*cli.Command {
	run := func(f func(zerolog.Logger, string) error) cli.ActionFunc {
		return func(ctx *cli.Context) (err error) {
			log, err := logger(ctx)
			if err != nil {
				return
			}
			root := ctx.String("goroot")
			if root == "" {
				if root, err = GoRoot(); err != nil {
					return
				}
			}
			return f(log, root)
		}
	}
	flags := []cli.Flag{
		&cli.StringFlag{Name: "goroot", Aliases: []string{"r"}, Usage: "go sdk root, default $GOROOT or go env GOROOT"},
	}
	return []*cli.Command{
		{
			Name:   "prepare",
			Action: run(Prepare),
			Usage:  "copy internals of go sdk, required once before building with the bridge linker",
			Flags:  flags,
		},
		{
			Name:   "clean",
			Action: run(Clean),
			Usage:  "remove copied internals of go sdk",
			Flags:  flags,
		},
	}
}

// CopyFile from src to dest with optional src file info
func CopyFile(src string, dest string, si fs.FileInfo) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(sf)
	df, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(df)
	if _, err = io.Copy(df, sf); err != nil {
		return
	}
	if si == nil {
		if si, err = os.Stat(src); err != nil {
			return
		}
	}
	return os.Chmod(dest, si.Mode())
}

// CopyDir from src to dest with optional src file info
func CopyDir(src string, dest string, si fs.FileInfo) (err error) {
	if si == nil {
		if si, err = os.Stat(src); err != nil {
			return err
		}
	}
	if err = os.MkdirAll(dest, si.Mode().Perm()|0o700); err != nil {
		return err
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == src {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		dp := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(dp, info.Mode().Perm()|0o700)
		}
		return CopyFile(path, dp, info)
	})
}
