//go:build windows

package office

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const (
	xlTypePDF          = 0
	xlOpenXMLWorkbook  = 51
	wdExportFormatPDF  = 17
	wdAlertsNone       = 0
	wdDoNotSaveChanges = 0
	sFalse             = 1
)

// OLE converts through Microsoft Excel and Word automation.
type OLE struct{}

func (OLE) Convert(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := filepath.Abs(job.Input)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(job.Output)
	if err != nil {
		return err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oe *ole.OleError
		if !errors.As(err, &oe) || oe.Code() != sFalse {
			return fmt.Errorf("initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	switch strings.ToLower(filepath.Ext(in)) {
	case ".doc", ".docx", ".docm":
		if job.Format != PDF {
			return fmt.Errorf("%s: cannot convert document to %s", job.Input, job.Format)
		}
		return wordToPDF(in, out)
	default:
		return excelExport(in, out, job)
	}
}

// application starts an automation server. The returned function quits
// and releases it and must always be called.
func application(progID string, quitArgs ...interface{}) (*ole.IDispatch, func(), error) {
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", progID, err)
	}
	defer unknown.Release()
	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", progID, err)
	}
	return app, func() {
		_, _ = oleutil.CallMethod(app, "Quit", quitArgs...)
		app.Release()
	}, nil
}

func excelExport(in, out string, job Job) error {
	app, quit, err := application("Excel.Application")
	if err != nil {
		return err
	}
	defer quit()
	_, _ = oleutil.PutProperty(app, "Visible", false)
	_, _ = oleutil.PutProperty(app, "DisplayAlerts", false)

	wbs, err := oleutil.GetProperty(app, "Workbooks")
	if err != nil {
		return err
	}
	workbooks := wbs.ToIDispatch()
	defer workbooks.Release()

	wbv, err := oleutil.CallMethod(workbooks, "Open", in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	wb := wbv.ToIDispatch()
	defer wb.Release()
	defer func() { _, _ = oleutil.CallMethod(wb, "Close", false) }()

	switch job.Format {
	case PDF:
		target := wb
		if job.ActiveSheetOnly {
			shv, err := oleutil.GetProperty(wb, "ActiveSheet")
			if err != nil {
				return err
			}
			target = shv.ToIDispatch()
			defer target.Release()
		}
		if _, err := oleutil.CallMethod(target, "ExportAsFixedFormat", xlTypePDF, out); err != nil {
			return fmt.Errorf("export %s: %w", in, err)
		}
	case XLSX:
		if _, err := oleutil.CallMethod(wb, "SaveAs", out, xlOpenXMLWorkbook); err != nil {
			return fmt.Errorf("save %s: %w", in, err)
		}
	default:
		return fmt.Errorf("%s: unsupported format %q", in, job.Format)
	}
	return nil
}

func wordToPDF(in, out string) error {
	app, quit, err := application("Word.Application", wdDoNotSaveChanges)
	if err != nil {
		return err
	}
	defer quit()
	_, _ = oleutil.PutProperty(app, "Visible", false)
	_, _ = oleutil.PutProperty(app, "DisplayAlerts", wdAlertsNone)

	dv, err := oleutil.GetProperty(app, "Documents")
	if err != nil {
		return err
	}
	docs := dv.ToIDispatch()
	defer docs.Release()

	docv, err := oleutil.CallMethod(docs, "Open", in, false, true)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	doc := docv.ToIDispatch()
	defer doc.Release()
	defer func() { _, _ = oleutil.CallMethod(doc, "Close", wdDoNotSaveChanges) }()

	if _, err := oleutil.CallMethod(doc, "ExportAsFixedFormat", out, wdExportFormatPDF); err != nil {
		return fmt.Errorf("export %s: %w", in, err)
	}
	return nil
}
