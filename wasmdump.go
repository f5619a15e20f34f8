package wasmdump

import "github.com/wasmkit/wasmdump/dump"

// Options configures report generation.
type Options struct {
	// Width is the number of bytes per hex row. Zero selects
	// dump.DefaultWidth.
	Width int
}

// Annotate decodes the module bytes and renders the full report. On a
// mid-file decode failure the report still covers everything decoded up
// to the failure point, closed by an error line, and the error is
// returned alongside it. Header-level failures (bad magic, unsupported
// version) return an empty report.
func Annotate(path string, data []byte, opts Options) (string, error) {
	res := dump.Decode(data, dump.Options{Width: opts.Width})
	if len(res.Lines) == 0 && res.Err != nil {
		return "", res.Err
	}
	width := opts.Width
	if width <= 0 {
		width = dump.DefaultWidth
	}
	return dump.Render(path, data, res.Lines, width), res.Err
}
