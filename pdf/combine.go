// Package pdf combines exported reports and their appendices.
package pdf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"kastelo.dev/iak"
)

// Appendix is a PDF to be combined with a main report. Name is how the
// main report refers to it, e.g. "Bijlage 3".
type Appendix struct {
	Name string
	Path string
}

type Options struct {
	// InsertAtReference places each appendix after the last page of the
	// main report mentioning its name. Appendices that are never
	// mentioned go at the end.
	InsertAtReference bool
	Logger            *slog.Logger
}

// Combine writes the main report followed by the appendices to out. By
// default the appendices follow the main report in the order given. All
// inputs must exist; otherwise iak.ErrMissingInput is returned and out is
// not created.
func Combine(out, main string, appendices []Appendix, opts Options) error {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	if err := exists("main report", main); err != nil {
		return err
	}
	files := []string{main}
	for _, a := range appendices {
		if err := exists(a.Name, a.Path); err != nil {
			return err
		}
		files = append(files, a.Path)
	}

	tmp, err := os.MkdirTemp(filepath.Dir(out), ".combine-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if opts.InsertAtReference {
		if files, err = referenceOrder(tmp, main, appendices, l); err != nil {
			return err
		}
	}

	combined := filepath.Join(tmp, "combined.pdf")
	if err := api.MergeCreateFile(files, combined, false, nil); err != nil {
		return fmt.Errorf("merge %s: %w", filepath.Base(out), err)
	}
	if err := os.Rename(combined, out); err != nil {
		return err
	}
	l.Info("Combined PDF written", "path", out, "parts", len(files))
	return nil
}

func exists(what, name string) error {
	if name == "" {
		return fmt.Errorf("%s: %w", what, iak.ErrMissingInput)
	}
	if _, err := os.Stat(name); err != nil {
		return fmt.Errorf("%s %s: %w", what, name, iak.ErrMissingInput)
	}
	return nil
}

// referenceOrder splits the main report after each referencing page and
// returns the files to merge in order.
func referenceOrder(tmp, main string, appendices []Appendix, l *slog.Logger) ([]string, error) {
	texts, err := PageTexts(main)
	if err != nil {
		return nil, err
	}

	type insertion struct {
		page, order int
		path        string
	}
	var ins []insertion
	var tail []string
	for i, a := range appendices {
		page := LastPageWith(texts, a.Name)
		if page == 0 {
			l.Warn("Appendix not referenced in report, appending at end", "appendix", a.Name)
			tail = append(tail, a.Path)
			continue
		}
		l.Debug("Inserting appendix", "appendix", a.Name, "after", page)
		ins = append(ins, insertion{page, i, a.Path})
	}
	if len(ins) == 0 {
		return append([]string{main}, tail...), nil
	}
	// Appendices referenced on the same page are each inserted directly
	// after it, so the last one given ends up first.
	sort.Slice(ins, func(i, j int) bool {
		if ins[i].page != ins[j].page {
			return ins[i].page < ins[j].page
		}
		return ins[i].order > ins[j].order
	})

	var files []string
	prev := 0
	segment := func(from, to int) error {
		name := filepath.Join(tmp, fmt.Sprintf("main-%d-%d.pdf", from, to))
		if err := api.TrimFile(main, name, []string{pageRange(from, to)}, nil); err != nil {
			return fmt.Errorf("split %s: %w", filepath.Base(main), err)
		}
		files = append(files, name)
		return nil
	}
	for _, in := range ins {
		if in.page > prev {
			if err := segment(prev+1, in.page); err != nil {
				return nil, err
			}
			prev = in.page
		}
		files = append(files, in.path)
	}
	if prev < len(texts) {
		if err := segment(prev+1, len(texts)); err != nil {
			return nil, err
		}
	}
	return append(files, tail...), nil
}

func pageRange(from, to int) string {
	if from == to {
		return fmt.Sprint(from)
	}
	return fmt.Sprintf("%d-%d", from, to)
}
