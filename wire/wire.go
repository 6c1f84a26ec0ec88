// Package wire reads and writes framed CBOR messages: an int32 magic
// number up front, then uvarint-length-prefixed message payloads.
package wire

import (
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

var ENDIANNESS = binary.LittleEndian

const DEBUG_WIRE = false

var ErrInvalidMagic = errors.New("Invalid magic number")

// Core Deterministic Encoding, so the same message always produces
// the same bytes. Digests over the stream depend on this.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}
