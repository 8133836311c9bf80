package iak

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Pattern selects files by name. All comparisons are case and accent
// insensitive.
type Pattern struct {
	Glob      string   // filepath.Match syntax, e.g. "inspectieRapport*.xlsx"
	Exts      []string // accepted extensions, any if empty
	Contains  string
	Exclude   string
	Recursive bool
}

var (
	InspectionReport = Pattern{Glob: "inspectieRapport*.xlsx", Recursive: true}
	ORAWorkbook      = Pattern{Glob: "ORA*", Exts: []string{".xlsm", ".xlsb", ".xlsx"}}
)

func (p Pattern) Match(name string) bool {
	fname := fold(name)
	if p.Glob != "" {
		if ok, err := filepath.Match(fold(p.Glob), fname); err != nil || !ok {
			return false
		}
	}
	if len(p.Exts) > 0 && !slices.ContainsFunc(p.Exts, func(ext string) bool {
		return strings.HasSuffix(fname, fold(ext))
	}) {
		return false
	}
	if p.Contains != "" && !strings.Contains(fname, fold(p.Contains)) {
		return false
	}
	if p.Exclude != "" && strings.Contains(fname, fold(p.Exclude)) {
		return false
	}
	return true
}

func (p Pattern) String() string {
	var parts []string
	if p.Glob != "" {
		parts = append(parts, p.Glob)
	}
	if len(p.Exts) > 0 {
		parts = append(parts, strings.Join(p.Exts, "|"))
	}
	if p.Contains != "" {
		parts = append(parts, "*"+p.Contains+"*")
	}
	if p.Exclude != "" {
		parts = append(parts, "!"+p.Exclude)
	}
	return strings.Join(parts, " ")
}

// Newest returns the most recently modified file in dir matching p. Files
// with identical modification times are ordered by name and the last one
// wins.
func Newest(dir string, p Pattern) (string, error) {
	var (
		best    string
		bestMod time.Time
	)
	consider := func(path string, info fs.FileInfo) {
		if !info.Mode().IsRegular() || !p.Match(info.Name()) {
			return
		}
		mod := info.ModTime()
		if best == "" || mod.After(bestMod) || (mod.Equal(bestMod) && path > best) {
			best, bestMod = path, mod
		}
	}

	if p.Recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			consider(path, info)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("%w: %s in %s: %v", ErrMissingFile, p, dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("%w: %s in %s: %v", ErrMissingFile, p, dir, err)
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				continue
			}
			consider(filepath.Join(dir, e.Name()), info)
		}
	}

	if best == "" {
		return "", fmt.Errorf("%w: no %s in %s", ErrMissingFile, p, dir)
	}
	return best, nil
}

// HasFile reports whether any file below dir matches p, searching
// subdirectories regardless of p.Recursive.
func HasFile(dir string, p Pattern) (string, bool) {
	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && p.Match(d.Name()) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found, found != ""
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if r, _, err := transform.String(t, s); err == nil {
		s = r
	}
	return cases.Fold().String(s)
}
