package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

type WriteContext struct {
	writer io.Writer

	varintBuf []byte
}

func NewWriteContext(writer io.Writer) *WriteContext {
	return &WriteContext{writer, make([]byte, binary.MaxVarintLen64)}
}

func (w *WriteContext) Writer() io.Writer {
	return w.writer
}

func (w *WriteContext) Close() error {
	if c, ok := w.writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

func (w *WriteContext) WriteMagic(magic int32) error {
	return errors.WithStack(binary.Write(w.writer, ENDIANNESS, magic))
}

func (w *WriteContext) WriteMessage(msg interface{}) error {
	if DEBUG_WIRE {
		fmt.Printf("<< %s %+v\n", reflect.TypeOf(msg).Elem().Name(), msg)
	}

	buf, err := encMode.Marshal(msg)
	if err != nil {
		return errors.WithStack(err)
	}

	n := binary.PutUvarint(w.varintBuf, uint64(len(buf)))
	_, err = w.writer.Write(w.varintBuf[:n])
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = w.writer.Write(buf)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
