package office

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LibreOffice converts with a headless soffice process.
type LibreOffice struct {
	Binary string
}

func (l *LibreOffice) Convert(ctx context.Context, job Job) error {
	tmp, err := os.MkdirTemp("", "iak-soffice-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	in := job.Input
	if job.ActiveSheetOnly && job.Format == PDF && isWorkbook(in) {
		if in, err = activeSheetCopy(in, tmp); err != nil {
			return err
		}
	}

	bin := l.Binary
	if bin == "" {
		bin = "soffice"
	}
	profile := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(tmp, "profile"))}
	outDir := filepath.Join(tmp, "out")
	cmd := exec.CommandContext(ctx, bin,
		"-env:UserInstallation="+profile.String(),
		"--headless", "--norestore",
		"--convert-to", string(job.Format),
		"--outdir", outDir,
		in)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, strings.TrimSpace(stderr.String()))
	}

	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	produced := filepath.Join(outDir, base+"."+string(job.Format))
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("%s produced no output for %s", bin, job.Input)
	}
	return moveFile(produced, job.Output)
}

func isWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// activeSheetCopy writes a copy of the workbook holding only its active
// sheet into dir.
func activeSheetCopy(name, dir string) (string, error) {
	xlsx, err := excelize.OpenFile(name)
	if err != nil {
		return "", err
	}
	defer xlsx.Close()

	active := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	for _, sheet := range xlsx.GetSheetList() {
		if sheet == active {
			continue
		}
		if err := xlsx.DeleteSheet(sheet); err != nil {
			return "", err
		}
	}
	out := filepath.Join(dir, filepath.Base(name))
	if err := xlsx.SaveAs(out); err != nil {
		return "", err
	}
	return out, nil
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	bs, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, bs, 0o644)
}
