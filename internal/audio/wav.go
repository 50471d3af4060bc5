package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Decoder turns an uploaded file into a mono Buffer. The server's default
// decoder handles PCM WAV; anything needing transcoding is expected to be
// converted before upload.
type Decoder interface {
	Decode(r io.Reader) (Buffer, error)
	Supports(ext string) bool
}

// WAVDecoder reads 16-bit PCM RIFF/WAVE data. Multi-channel input is
// averaged down to mono.
type WAVDecoder struct{}

func NewWAVDecoder() *WAVDecoder { return &WAVDecoder{} }

func (d *WAVDecoder) Supports(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "wav")
}

func (d *WAVDecoder) Decode(r io.Reader) (Buffer, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Buffer{}, fmt.Errorf("%w: reading RIFF header: %v", ErrInvalidInput, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Buffer{}, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidInput)
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		haveFmt       bool
	)

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return Buffer{}, fmt.Errorf("%w: no data chunk found", ErrInvalidInput)
			}
			return Buffer{}, fmt.Errorf("%w: reading chunk header: %v", ErrInvalidInput, err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, body); err != nil {
				return Buffer{}, fmt.Errorf("%w: reading fmt chunk: %v", ErrInvalidInput, err)
			}
			if len(body) < 16 {
				return Buffer{}, fmt.Errorf("%w: fmt chunk too short", ErrInvalidInput)
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			if format != 1 {
				return Buffer{}, fmt.Errorf("%w: unsupported WAV encoding %d (PCM only)", ErrInvalidInput, format)
			}
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			if bitsPerSample != 16 {
				return Buffer{}, fmt.Errorf("%w: unsupported bit depth %d (16-bit PCM only)", ErrInvalidInput, bitsPerSample)
			}
			if channels <= 0 || sampleRate <= 0 {
				return Buffer{}, fmt.Errorf("%w: malformed fmt chunk", ErrInvalidInput)
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return Buffer{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidInput)
			}
			return decodePCM16(r, int(chunkSize), channels, sampleRate)

		default:
			// Skip LIST, INFO and friends. Chunks are word-aligned.
			skip := int64(chunkSize)
			if chunkSize%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return Buffer{}, fmt.Errorf("%w: skipping %s chunk: %v", ErrInvalidInput, chunkID, err)
			}
		}
	}
}

func decodePCM16(r io.Reader, size, channels, sampleRate int) (Buffer, error) {
	raw := make([]byte, size)
	n, err := io.ReadFull(r, raw)
	if err != nil && err != io.ErrUnexpectedEOF {
		return Buffer{}, fmt.Errorf("%w: reading samples: %v", ErrInvalidInput, err)
	}
	raw = raw[:n]

	frameBytes := 2 * channels
	frames := len(raw) / frameBytes
	if frames == 0 {
		return Buffer{}, fmt.Errorf("%w: empty data chunk", ErrInvalidInput)
	}

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			off := i*frameBytes + 2*c
			v := int16(binary.LittleEndian.Uint16(raw[off : off+2]))
			sum += float64(v) / 32768.0
		}
		samples[i] = sum / float64(channels)
	}

	return Buffer{Samples: samples, SampleRate: sampleRate}, nil
}
