// Package audio captures, decodes and normalizes 16-bit PCM WAV clips.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// ContentType is the MIME type of an encoded Clip
const ContentType = "audio/wav"

var (
	// ErrInvalidWAV is returned when data is not a RIFF/WAVE file
	ErrInvalidWAV = errors.New("not a WAV file")
	// ErrUnsupportedEncoding is returned for WAV data that is not 16-bit PCM
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding (need 16-bit PCM)")
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
	bitsPerSample    = 16
	bytesPerSample   = bitsPerSample / 8
)

// Clip is a decoded audio recording. Samples are interleaved when Channels > 1.
type Clip struct {
	Path       string
	SampleRate int
	Channels   int
	Samples    []int16
}

// Filename returns the base name used when uploading the clip
func (c Clip) Filename() string {
	if c.Path == "" {
		return "audio.wav"
	}
	return filepath.Base(c.Path)
}

// Empty reports whether the clip holds no samples
func (c Clip) Empty() bool {
	return len(c.Samples) == 0
}

// Duration returns the playback length of the clip
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	frames := len(c.Samples) / c.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// Peak returns the largest absolute sample as a fraction of full scale (0..1)
func (c Clip) Peak() float64 {
	peak := 0
	for _, s := range c.Samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return float64(peak) / 32768
}

// Normalize returns a copy scaled so the peak reaches target (fraction of full scale).
// A silent clip is returned unchanged.
func (c Clip) Normalize(target float64) Clip {
	out := c
	out.Samples = make([]int16, len(c.Samples))
	copy(out.Samples, c.Samples)

	peak := c.Peak()
	if peak == 0 {
		return out
	}

	gain := target / peak
	for i, s := range c.Samples {
		v := math.Round(float64(s) * gain)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		out.Samples[i] = int16(v)
	}
	return out
}

// PCM returns the samples as little-endian 16-bit PCM bytes
func (c Clip) PCM() []byte {
	pcm := make([]byte, len(c.Samples)*bytesPerSample)
	for i, s := range c.Samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

// WAV encodes the clip as a canonical 44-byte-header WAV file
func (c Clip) WAV() []byte {
	pcm := c.PCM()
	channels := c.Channels
	if channels <= 0 {
		channels = 1
	}

	buf := &bytes.Buffer{}
	buf.Grow(44 + len(pcm))

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(formatPCM))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(c.SampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(c.SampleRate*channels*bytesPerSample)) // byte rate
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*bytesPerSample))              // block align
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// Save writes the clip to path as WAV
func (c Clip) Save(path string) error {
	if err := os.WriteFile(path, c.WAV(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// DecodeWAV parses a 16-bit PCM WAV file. Chunks other than "fmt " and
// "data" (LIST, fact, ...) are skipped.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, ErrInvalidWAV
	}

	var (
		clip    Clip
		haveFmt bool
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		// Streaming writers leave the size at its maximum; clamp to what's there.
		if size < 0 || body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Clip{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			format := binary.LittleEndian.Uint16(data[body:])
			clip.Channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			clip.SampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits := binary.LittleEndian.Uint16(data[body+14:])
			if (format != formatPCM && format != formatExtensible) || bits != bitsPerSample {
				return Clip{}, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedEncoding, format, bits)
			}
			if clip.Channels <= 0 {
				return Clip{}, fmt.Errorf("%w: %d channels", ErrInvalidWAV, clip.Channels)
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return Clip{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			n := size / bytesPerSample
			clip.Samples = make([]int16, n)
			for i := 0; i < n; i++ {
				clip.Samples[i] = int16(binary.LittleEndian.Uint16(data[body+i*2:]))
			}
			return clip, nil
		}

		pos = body + size
		if size%2 == 1 {
			pos++ // chunks are word aligned
		}
	}

	if !haveFmt {
		return Clip{}, fmt.Errorf("%w: missing fmt chunk", ErrInvalidWAV)
	}
	// fmt without data: a valid but empty recording
	return clip, nil
}

// LoadClip reads and decodes a WAV file
func LoadClip(path string) (Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Clip{}, fmt.Errorf("reading audio: %w", err)
	}
	clip, err := DecodeWAV(data)
	if err != nil {
		return Clip{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	clip.Path = path
	return clip, nil
}
