// Package printing renders catalog reports to PDF.
//
// Reports are html/template documents embedded in the binary (optionally
// overridden from a directory on disk) and executed by TemplateEngine with
// locale-aware number formatting. The resulting HTML is printed to PDF by
// ChromedpRenderer through the Chrome DevTools Protocol, either with a locally
// launched headless Chrome or with a remote instance:
//
//	renderer := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	defer renderer.Close()
//
//	html, err := NewTemplateEngine().RenderReport(ctx, ReportProducts, data)
//	if err != nil {
//	    return err
//	}
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:      html,
//	    PaperSize: PaperSizeA4,
//	    Margins:   DefaultMargins(),
//	})
package printing
