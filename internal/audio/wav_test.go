package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV writes a minimal PCM16 RIFF/WAVE file from interleaved frames.
func buildWAV(t *testing.T, rate, channels int, frames [][]int16) []byte {
	t.Helper()

	var data bytes.Buffer
	for _, frame := range frames {
		require.Len(t, frame, channels)
		for _, v := range frame {
			require.NoError(t, binary.Write(&data, binary.LittleEndian, v))
		}
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func TestDecodeWAVMono(t *testing.T) {
	wav := buildWAV(t, 16000, 1, [][]int16{{0}, {16384}, {-16384}, {32767}})

	buf, err := NewWAVDecoder().Decode(bytes.NewReader(wav))
	require.NoError(t, err)

	assert.Equal(t, 16000, buf.SampleRate)
	require.Len(t, buf.Samples, 4)
	assert.InDelta(t, 0.0, buf.Samples[0], 1e-6)
	assert.InDelta(t, 0.5, buf.Samples[1], 1e-6)
	assert.InDelta(t, -0.5, buf.Samples[2], 1e-6)
	assert.InDelta(t, 1.0, buf.Samples[3], 1e-3)
}

func TestDecodeWAVStereoAveragesToMono(t *testing.T) {
	wav := buildWAV(t, 8000, 2, [][]int16{
		{16384, -16384}, // cancels out
		{16384, 16384},
	})

	buf, err := NewWAVDecoder().Decode(bytes.NewReader(wav))
	require.NoError(t, err)

	require.Len(t, buf.Samples, 2)
	assert.InDelta(t, 0.0, buf.Samples[0], 1e-6)
	assert.InDelta(t, 0.5, buf.Samples[1], 1e-6)
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	_, err := NewWAVDecoder().Decode(bytes.NewReader([]byte("definitely not audio")))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeWAVRejectsNonPCM(t *testing.T) {
	wav := buildWAV(t, 8000, 1, [][]int16{{0}})
	// Flip the format tag to 3 (IEEE float).
	wav[20] = 3
	_, err := NewWAVDecoder().Decode(bytes.NewReader(wav))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecodeWAVSkipsExtraChunks(t *testing.T) {
	base := buildWAV(t, 8000, 1, [][]int16{{100}, {200}})

	// Splice a LIST chunk between the header and fmt chunk.
	var buf bytes.Buffer
	buf.Write(base[:12])
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	buf.WriteString("INFO")
	buf.Write(base[12:])

	decoded, err := NewWAVDecoder().Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, decoded.Samples, 2)
}

func TestWAVDecoderSupports(t *testing.T) {
	d := NewWAVDecoder()
	assert.True(t, d.Supports(".wav"))
	assert.True(t, d.Supports(".WAV"))
	assert.False(t, d.Supports(".mp3"))
	assert.False(t, d.Supports(""))
}
