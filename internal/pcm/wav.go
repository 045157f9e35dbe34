package pcm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-loudness/measure/analysis"
)

// ErrInvalidWAV is returned for files the decoder rejects.
var ErrInvalidWAV = errors.New("pcm: invalid WAV file")

const readFrames = 4096

// Reader decodes a WAV file into interleaved float samples.
type Reader struct {
	file     *os.File
	decoder  *wav.Decoder
	format   analysis.Format
	meta     analysis.Metadata
	bitDepth int
	scale    float64
	duration time.Duration
	buf      *audio.IntBuffer
}

// Open opens path for decoding. Title and album come from the INFO chunk
// when present, otherwise from the file and directory names.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	af := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	r := &Reader{
		file:     file,
		decoder:  decoder,
		format:   analysis.Format{SampleRate: float64(af.SampleRate), Channels: af.NumChannels},
		meta:     readMetadata(path),
		bitDepth: bitDepth,
		scale:    1 / fullScale(bitDepth),
		duration: duration,
		buf: &audio.IntBuffer{
			Format: af,
			Data:   make([]int, readFrames*max(1, af.NumChannels)),
		},
	}

	return r, nil
}

// OpenSource is an analysis.Opener backed by Open.
func OpenSource(path string) (analysis.Source, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Format returns the stream format.
func (r *Reader) Format() analysis.Format { return r.format }

// Metadata returns the track identification.
func (r *Reader) Metadata() analysis.Metadata { return r.meta }

// BitDepth returns the stored sample resolution.
func (r *Reader) BitDepth() int { return r.bitDepth }

// Duration returns the header duration, 0 when unknown.
func (r *Reader) Duration() time.Duration { return r.duration }

// Read fills dst with whole frames, decoding in blocks of readFrames. A
// short count means the file ended; the following call returns io.EOF.
func (r *Reader) Read(dst []float64) (int, error) {
	ch := r.format.Channels
	limit := len(dst) - len(dst)%ch
	total := 0

	offset := 0.0
	if r.bitDepth == 8 {
		offset = 128
	}

	for total < limit {
		r.buf.Data = r.buf.Data[:min(limit-total, cap(r.buf.Data))]

		n, err := r.decoder.PCMBuffer(r.buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return total, fmt.Errorf("decode %s: %w", r.meta.Path, err)
		}

		n -= n % ch
		if n == 0 {
			break
		}

		for i, v := range r.buf.Data[:n] {
			dst[total+i] = (float64(v) - offset) * r.scale
		}

		total += n
	}

	if total == 0 && limit > 0 {
		return 0, io.EOF
	}

	return total, nil
}

// Close releases the file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Decode reads a whole file into memory.
func Decode(path string) ([]float64, analysis.Format, error) {
	r, err := Open(path)
	if err != nil {
		return nil, analysis.Format{}, err
	}
	defer r.Close()

	var out []float64

	buf := make([]float64, readFrames*r.format.Channels)

	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, r.format, nil
		}

		if err != nil {
			return nil, analysis.Format{}, err
		}
	}
}

func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 16:
		return 1 << 15
	case 24:
		return 1 << 23
	case 32:
		return 1 << 31
	default:
		return float64(int64(1) << (max(bitDepth, 1) - 1))
	}
}

func readMetadata(path string) analysis.Metadata {
	meta := analysis.Metadata{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	file, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadMetadata()

	if info := decoder.Metadata; info != nil {
		if info.Title != "" {
			meta.Title = info.Title
		}

		meta.Album = info.Product
	}

	return meta
}

// WriteWAV encodes interleaved samples as integer PCM.
func WriteWAV(path string, samples []float64, format analysis.Format, bitDepth int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	af := &audio.Format{NumChannels: format.Channels, SampleRate: int(format.SampleRate)}
	enc := wav.NewEncoder(file, af.SampleRate, bitDepth, af.NumChannels, 1)

	scale := fullScale(bitDepth)
	limit := scale - 1
	data := make([]int, len(samples))

	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	for i, v := range samples {
		x := math.Round(v * scale)
		data[i] = int(max(-scale, min(limit, x))) + offset
	}

	buf := &audio.IntBuffer{Format: af, Data: data, SourceBitDepth: bitDepth}

	if err := enc.Write(buf); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("finish %s: %w", path, err)
	}

	return file.Close()
}
