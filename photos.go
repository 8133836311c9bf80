package iak

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindPhotoDir returns the subdirectory of objectDir holding the reduced
// inspection photos: its name starts with "inspectiefotos" and ends with
// "verkleind", ignoring case, apostrophes and hyphens.
func FindPhotoDir(objectDir string) (string, error) {
	entries, err := os.ReadDir(objectDir)
	if err != nil {
		return "", fmt.Errorf("%w: photo directory: %v", ErrMissingFile, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := strings.NewReplacer("'", "", "-", "").Replace(fold(e.Name()))
		if strings.HasPrefix(name, "inspectiefotos") && strings.HasSuffix(name, "verkleind") {
			return filepath.Join(objectDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: no inspectiefotos..verkleind directory in %s", ErrMissingFile, objectDir)
}

// FindPhoto returns the first file in dir whose name contains the photo
// number, comparing without case and spaces.
func FindPhoto(dir, number string) (string, error) {
	want := squash(number)
	if want == "" {
		return "", fmt.Errorf("%w: empty photo number", ErrMissingFile)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingFile, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(squash(e.Name()), want) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: photo %s not found in %s", ErrMissingFile, number, dir)
}

// PhotoNumbers splits a comma separated list of photo numbers.
func PhotoNumbers(s string) []string {
	var res []string
	for _, n := range strings.Split(s, ",") {
		n = strings.TrimSpace(n)
		if n == "" || strings.EqualFold(n, "nan") {
			continue
		}
		res = append(res, n)
	}
	return res
}

func squash(s string) string {
	return strings.ReplaceAll(fold(s), " ", "")
}
