//go:build !windows

package office

import "context"

// OLE converts through Microsoft Excel and Word automation, which only
// exists on Windows.
type OLE struct{}

func (OLE) Convert(context.Context, Job) error {
	return ErrUnsupported
}
