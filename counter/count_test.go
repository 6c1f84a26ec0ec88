package counter_test

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/itchio/gash/counter"
	"github.com/stretchr/testify/assert"
)

func Test_WriterCount(t *testing.T) {
	cw := counter.NewWriter(ioutil.Discard)
	buf := []byte{1, 2, 3, 4, 5, 6}
	for i := 0; i < 6; i++ {
		cw.Write(buf)
	}

	assert.EqualValues(t, 36, cw.Count())
}

func Test_NilWriter(t *testing.T) {
	cw := counter.NewWriter(nil)
	buf := []byte{1, 2, 3, 4, 5, 6}
	for i := 0; i < 6; i++ {
		cw.Write(buf)
	}

	assert.EqualValues(t, 36, cw.Count())
}

func Test_WriterCallback(t *testing.T) {
	count := int64(-1)
	onWrite := func(c int64) { count = c }

	cw := counter.NewWriterCallback(onWrite, nil)
	buf := []byte{1, 2, 3, 4, 5, 6}

	for i := 1; i <= 4; i++ {
		cw.Write(buf)
		assert.EqualValues(t, int64(i*6), count)
	}
}

func Test_ReaderCount(t *testing.T) {
	cr := counter.NewReader(bytes.NewReader(make([]byte, 128)))

	buf := make([]byte, 32)
	for i := 0; i < 4; i++ {
		n, err := cr.Read(buf)
		assert.NoError(t, err)
		assert.EqualValues(t, 32, n)
	}

	assert.EqualValues(t, 128, cr.Count())
}

func Test_NilReader(t *testing.T) {
	cr := counter.NewReader(nil)

	buf := make([]byte, 16)
	cr.Read(buf)
	cr.Read(buf)

	assert.EqualValues(t, 32, cr.Count())
}

func Test_ReaderCallback(t *testing.T) {
	count := int64(-1)
	onRead := func(c int64) { count = c }

	cr := counter.NewReaderCallback(onRead, bytes.NewReader(make([]byte, 64)))

	buf := make([]byte, 16)
	cr.Read(buf)
	assert.EqualValues(t, 16, count)

	cr.Read(buf)
	assert.EqualValues(t, 32, count)
}
