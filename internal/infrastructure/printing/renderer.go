package printing

import (
	"context"
	"fmt"
	"time"
)

// RenderRequest describes one HTML document to print. Margins are in
// millimeters; a zero Timeout uses the renderer default.
type RenderRequest struct {
	HTML        string
	Title       string
	FooterHTML  string
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins
	Timeout     time.Duration
}

type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer turns HTML into PDF bytes
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateNotFound = "TEMPLATE_NOT_FOUND"
)

// RenderError tags a printing failure with one of the ErrCode constants
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }
