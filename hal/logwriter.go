package hal

import "bytes"

// LogWriter adapts a line Logger to io.Writer.
//
// Each Write is treated as one or more complete lines; a trailing newline is
// dropped because the Logger appends its own. It suits slog handlers, which
// emit exactly one record per Write.
func LogWriter(l Logger) *LineWriter { return &LineWriter{l: l} }

// LineWriter forwards written lines to a Logger.
type LineWriter struct {
	l Logger
}

func (w *LineWriter) Write(p []byte) (int, error) {
	if w.l == nil {
		return len(p), nil
	}
	b := bytes.TrimRight(p, "\r\n")
	for len(b) > 0 {
		line := b
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line, b = b[:i], b[i+1:]
		} else {
			b = nil
		}
		w.l.WriteLineBytes(bytes.TrimRight(line, "\r"))
	}
	return len(p), nil
}
