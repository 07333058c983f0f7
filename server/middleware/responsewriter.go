package middleware

import "net/http"

// streamWriter records what a handler wrote: the status, the body size and,
// for event streams, how many times it flushed.
type streamWriter struct {
	http.ResponseWriter
	status  int
	written bool
	bytes   int64
	flushes int
}

func newStreamWriter(w http.ResponseWriter) *streamWriter {
	return &streamWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *streamWriter) WriteHeader(code int) {
	if !sw.written {
		sw.status = code
		sw.written = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *streamWriter) Write(b []byte) (int, error) {
	sw.written = true
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += int64(n)
	return n, err
}

// Flush pushes buffered frames to the client when the underlying writer can.
func (sw *streamWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		sw.flushes++
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the original writer, which the
// stream handler needs to clear the write deadline.
func (sw *streamWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
