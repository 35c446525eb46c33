package catalog

import (
	"encoding/binary"
	"fmt"
	"math"
)

// float64SliceToBlob serialises a row of scores to a little-endian byte blob.
func float64SliceToBlob(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

// blobToFloat64Slice deserialises a little-endian byte blob to a row of scores.
func blobToFloat64Slice(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 8", len(b))
	}
	out := make([]float64, len(b)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return out, nil
}
