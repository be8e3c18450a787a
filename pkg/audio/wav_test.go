package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, samples []int16, rate int) string {
	t.Helper()
	data, err := EncodePCM16(samples, rate)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "probe.wav")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProbeCanonicalWAV(t *testing.T) {
	// One second of silence at the canonical rate.
	samples := make([]int16, CanonicalSampleRate)
	path := writeWAV(t, samples, CanonicalSampleRate)

	info, err := Probe(path)
	require.NoError(t, err)

	assert.Equal(t, CanonicalSampleRate, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitsPerSample)
	assert.InDelta(t, 1.0, info.Duration, 0.001)
}

func TestProbeRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	_, err := Probe(path)
	assert.Error(t, err)
}

func TestProbeRejectsSubByteSampleWidth(t *testing.T) {
	// A header that claims 4-bit samples: bytes-per-sample truncates to
	// zero, which must come back as an error, not a divide-by-zero.
	h := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    16000,
		ByteRate:      8000,
		BlockAlign:    1,
		BitsPerSample: 4,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: 0,
	}

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))

	path := filepath.Join(t.TempDir(), "subbyte.wav")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := Probe(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample width")
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

func TestEncodePCM16BadRate(t *testing.T) {
	_, err := EncodePCM16([]int16{0}, 0)
	assert.Error(t, err)
}

func TestDecodeErrorMessage(t *testing.T) {
	err := &DecodeError{Path: "clip.webm", Detail: "Invalid data found"}
	assert.Contains(t, err.Error(), "clip.webm")
	assert.Contains(t, err.Error(), "Invalid data found")

	bare := &DecodeError{Path: "clip.webm"}
	assert.Contains(t, bare.Error(), "clip.webm")
}
