// Package counter counts bytes that flow through readers and writers,
// optionally notifying a callback on every operation. It's how long
// scans and report writes feed progress without knowing who listens.
package counter

import "io"

// CountCallback is called with the total byte count so far.
type CountCallback func(count int64)

// CounterReader counts bytes read through it.
type CounterReader struct {
	count  int64
	reader io.Reader

	onRead CountCallback
}

// NewReader returns a reader that counts bytes read from reader.
// A nil reader yields infinite zero-copy reads, which is useful for
// measuring alone.
func NewReader(reader io.Reader) *CounterReader {
	return &CounterReader{reader: reader}
}

// NewReaderCallback calls onRead with the running total after every
// read.
func NewReaderCallback(onRead CountCallback, reader io.Reader) *CounterReader {
	return &CounterReader{
		reader: reader,
		onRead: onRead,
	}
}

// Count returns the number of bytes read so far.
func (r *CounterReader) Count() int64 {
	return r.count
}

func (r *CounterReader) Read(buffer []byte) (n int, err error) {
	if r.reader == nil {
		n = len(buffer)
	} else {
		n, err = r.reader.Read(buffer)
	}

	r.count += int64(n)
	if r.onRead != nil {
		r.onRead(r.count)
	}
	return
}

func (r *CounterReader) Close() error {
	return nil
}

// CounterWriter counts bytes written through it.
type CounterWriter struct {
	count  int64
	writer io.Writer

	onWrite CountCallback
}

// NewWriter returns a writer that counts bytes written to writer.
// A nil writer discards everything but still counts.
func NewWriter(writer io.Writer) *CounterWriter {
	return &CounterWriter{writer: writer}
}

// NewWriterCallback calls onWrite with the running total after every
// write.
func NewWriterCallback(onWrite CountCallback, writer io.Writer) *CounterWriter {
	return &CounterWriter{
		writer:  writer,
		onWrite: onWrite,
	}
}

// Count returns the number of bytes written so far.
func (w *CounterWriter) Count() int64 {
	return w.count
}

func (w *CounterWriter) Write(buffer []byte) (n int, err error) {
	if w.writer == nil {
		n = len(buffer)
	} else {
		n, err = w.writer.Write(buffer)
	}

	w.count += int64(n)
	if w.onWrite != nil {
		w.onWrite(w.count)
	}
	return
}

func (w *CounterWriter) Close() error {
	return nil
}
