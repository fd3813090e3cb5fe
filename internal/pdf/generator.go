// Package pdf converts rendered resume HTML into PDF bytes and JPEG
// thumbnails with a headless Chromium driven by go-rod.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const pageTimeout = 30 * time.Second

// exportOverrideCSS forces black-on-white rendering for the duration of
// an export. Capture tooling also chokes on oklch() color syntax, so
// any such value is replaced with an RGB fallback before rendering.
const exportOverrideCSS = `
  * {
    -webkit-print-color-adjust: exact !important;
    print-color-adjust: exact !important;
  }
  body {
    background: white !important;
    color: rgb(0, 0, 0) !important;
  }
  @page {
    size: A4;
    margin: 0;
  }
`

// oklchFallbackScript rewrites inline oklch() colors to rgb().
const oklchFallbackScript = `() => {
  const all = Array.from(document.querySelectorAll('body *'));
  for (const el of all) {
    const style = el.getAttribute('style');
    if (style && style.includes('oklch')) {
      const cs = getComputedStyle(el);
      el.style.color = cs.color;
      el.style.backgroundColor = cs.backgroundColor;
    }
  }
  return true;
}`

// OpenPage loads the HTML document into a fresh headless browser page
// with the export overrides applied. The returned cleanup tears the
// override, page and browser down and must run whether the export
// succeeds or fails.
func OpenPage(htmlContent string) (_ *rod.Page, cleanup func(), err error) {
	cleanup = func() {}

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)
	defer func() {
		if err != nil {
			launch.Cleanup()
		}
	}()

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, cleanup, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		launch.Cleanup()
		return nil, cleanup, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Timeout(pageTimeout).Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		launch.Cleanup()
		return nil, cleanup, fmt.Errorf("create page: %w", err)
	}
	cleanup = func() {
		_ = page.Close()
		_ = browser.Close()
		launch.Cleanup()
	}

	page = page.Timeout(pageTimeout)
	if err := page.SetDocumentContent(htmlContent); err != nil {
		return nil, cleanup, fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, cleanup, fmt.Errorf("wait load: %w", err)
	}

	if _, err := page.Eval(oklchFallbackScript); err != nil {
		return nil, cleanup, fmt.Errorf("apply oklch fallback: %w", err)
	}
	if err := page.AddStyleTag("", exportOverrideCSS); err != nil {
		return nil, cleanup, fmt.Errorf("inject export override css: %w", err)
	}

	return page, cleanup, nil
}

// ExportPDF prints the page as a single zero-margin A4 document.
func ExportPDF(page *rod.Page) ([]byte, error) {
	params := &proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        float64Ptr(8.27),
		PaperHeight:       float64Ptr(11.69),
		MarginTop:         float64Ptr(0),
		MarginBottom:      float64Ptr(0),
		MarginLeft:        float64Ptr(0),
		MarginRight:       float64Ptr(0),
		PreferCSSPageSize: true,
	}
	reader, err := page.PDF(params)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}
	return data, nil
}

// CaptureThumbnail screenshots the page box as a JPEG.
func CaptureThumbnail(page *rod.Page, quality int) ([]byte, error) {
	element, err := page.Timeout(5 * time.Second).Element(".a4-page")
	if err == nil {
		if data, shotErr := element.Screenshot(proto.PageCaptureScreenshotFormatJpeg, quality); shotErr == nil {
			return data, nil
		}
	}

	req := &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: intPtr(quality),
	}
	data, err := page.Screenshot(true, req)
	if err != nil {
		return nil, fmt.Errorf("page screenshot: %w", err)
	}
	return data, nil
}

func float64Ptr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}
