package bridge

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZenLiuCN/fn"
	"github.com/rs/zerolog"
)

const importCfg = "importcfg"

// Compile go sources of a bridge into an object file inside dir.
//
// An importcfg is generated first, it is removed afterwards unless debugging.
func Compile(log zerolog.Logger, dir, pkg, out string, sources []string) (err error) {
	if _, err = exec.LookPath("go"); err != nil {
		return fmt.Errorf("missing go sdk: %w", err)
	}
	if err = Imports(log, dir, sources); err != nil {
		return fmt.Errorf("generate importcfg: %w", err)
	}
	args := []string{"tool", "compile", "-importcfg", importCfg, "-p", pkg, "-o", out}
	cmd := exec.Command("go", append(args, sources...)...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Debug().Strs("args", cmd.Args).Msg("execute")
	if err = cmd.Run(); err != nil {
		return
	}
	if log.GetLevel() > zerolog.DebugLevel {
		err = os.Remove(filepath.Join(dir, importCfg))
	}
	return
}

// Imports generate import cfg as importcfg file in dir.
func Imports(log zerolog.Logger, dir string, sources []string) (err error) {
	cmd := exec.Command("go", append([]string{"list", "-export", "-f", "{{.Imports}}"}, sources...)...)
	cmd.Dir = dir
	log.Debug().Strs("args", cmd.Args).Msg("execute")
	var b []byte
	if b, err = cmd.Output(); err != nil {
		return fmt.Errorf("inspect imports: %w\n%s", err, stderr(err))
	}
	out := strings.TrimSpace(string(b))
	out = strings.TrimSuffix(strings.TrimPrefix(out, "["), "]")
	deps := strings.Fields(out)
	cmd = exec.Command("go", append([]string{"list", "-export", "-f", "{{if .Export}}packagefile {{.ImportPath}}={{.Export}}{{end}}", "std"}, deps...)...)
	cmd.Dir = dir
	log.Debug().Strs("args", cmd.Args).Msg("execute")
	if b, err = cmd.Output(); err != nil {
		return fmt.Errorf("inspect dependencies: %w\n%s", err, stderr(err))
	}
	var cfg *os.File
	if cfg, err = os.OpenFile(filepath.Join(dir, importCfg), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644); err != nil {
		return
	}
	defer fn.IgnoreClose(cfg)
	_, err = cfg.Write(b)
	return
}

func stderr(err error) string {
	if e, ok := err.(*exec.ExitError); ok {
		return string(e.Stderr)
	}
	return ""
}

// Sources lists the non test go files of dir.
func Sources(dir string) (v []string, err error) {
	var e []os.DirEntry
	if e, err = os.ReadDir(dir); err != nil {
		return
	}
	for _, entry := range e {
		n := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(n, ".go") && !strings.HasSuffix(n, "_test.go") {
			v = append(v, n)
		}
	}
	sort.Strings(v)
	return
}
