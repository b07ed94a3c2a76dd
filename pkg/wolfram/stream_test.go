package wolfram

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadChunks_Reassembly(t *testing.T) {
	frame := podsFrame(
		podJSON(100, "Input interpretation", 1, false),
		podJSON(200, "Result", 1, false),
	)

	single := new(bytes.Buffer)
	require.NoError(t, readChunks(strings.NewReader(frame), single, len(frame)+1))
	want, err := parseFrame(single.Bytes())
	require.NoError(t, err)

	tests := []struct {
		name      string
		chunkSize int
		wrap      func(*strings.Reader) readerFunc
	}{
		{"two chunks", (len(frame) + 1) / 2, plain},
		{"4 KiB chunks", DefaultChunkSize, plain},
		{"one byte chunks", 1, plain},
		{"one byte reader", DefaultChunkSize, oneByte},
		{"half reader", 7, half},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, readChunks(tt.wrap(strings.NewReader(frame)), buf, tt.chunkSize))

			assert.Equal(t, frame, buf.String())
			got, err := parseFrame(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

func plain(r *strings.Reader) readerFunc { return r.Read }

func oneByte(r *strings.Reader) readerFunc { return iotest.OneByteReader(r).Read }

func half(r *strings.Reader) readerFunc { return iotest.HalfReader(r).Read }

func TestReadChunks_DataWithEOF(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, readChunks(iotest.DataErrReader(strings.NewReader(`{"type":"noResult"}`)), buf, 4))
	assert.Equal(t, `{"type":"noResult"}`, buf.String())
}

func TestReadChunks_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	buf := new(bytes.Buffer)

	err := readChunks(iotest.ErrReader(boom), buf, DefaultChunkSize)
	assert.ErrorIs(t, err, boom)
}

func TestGetChunk_GrowsForLargeSizes(t *testing.T) {
	small := getChunk(16)
	assert.Len(t, *small, 16)
	putChunk(small)

	large := getChunk(DefaultChunkSize * 4)
	assert.Len(t, *large, DefaultChunkSize*4)
	putChunk(large)
}
