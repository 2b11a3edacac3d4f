// Package audioconv decodes audio files into mono float32 PCM and encodes PCM
// back into WAV.
package audioconv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

const DefaultRate = 16000

type Options struct {
	SampleRate int // output rate, DefaultRate when zero
	MaxSamples int // 0 = no limit
}

func (o Options) rate() int {
	if o.SampleRate <= 0 {
		return DefaultRate
	}
	return o.SampleRate
}

// DecodeFile reads wav, mp3, ogg/vorbis or ogg/opus into mono PCM in [-1, 1].
// The format is taken from the extension, falling back to sniffing the header.
func DecodeFile(path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	kind := strings.ToLower(filepath.Ext(path))
	if kind != ".wav" && kind != ".mp3" && kind != ".ogg" && kind != ".oga" && kind != ".opus" {
		kind, err = sniff(f)
		if err != nil {
			return nil, err
		}
	}

	var (
		pcm []float32
		sr  int
	)
	switch kind {
	case ".wav":
		pcm, sr, err = decodeWAV(f)
	case ".mp3":
		pcm, sr, err = decodeMP3(f)
	default:
		pcm, sr, err = decodeOgg(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	pcm = Resample(pcm, sr, opt.rate())
	if opt.MaxSamples > 0 && len(pcm) > opt.MaxSamples {
		pcm = pcm[:opt.MaxSamples]
	}
	return pcm, nil
}

func sniff(f *os.File) (string, error) {
	magic, _ := bufio.NewReader(f).Peek(4)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	switch {
	case string(magic) == "RIFF":
		return ".wav", nil
	case string(magic) == "OggS":
		return ".ogg", nil
	case len(magic) >= 3 && (string(magic[:3]) == "ID3" || magic[0] == 0xFF):
		return ".mp3", nil
	}
	return "", fmt.Errorf("unsupported audio format (want wav, mp3, ogg)")
}

func decodeWAV(r io.ReadSeeker) ([]float32, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("invalid wav")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, 0, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}

	pcm := make([]float32, len(buf.Data))
	scale := 1.0 / float64(int64(1)<<(depth-1))
	for i, v := range buf.Data {
		pcm[i] = float32(clamp(float64(v) * scale))
	}

	return Downmix(pcm, buf.Format.NumChannels), buf.Format.SampleRate, nil
}

func decodeMP3(r io.Reader) ([]float32, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, err
	}

	ints := make([]int16, len(raw)/2)
	if err := binary.Read(bytes.NewReader(raw[:len(ints)*2]), binary.LittleEndian, ints); err != nil {
		return nil, 0, err
	}

	// go-mp3 always yields 16-bit stereo
	return Downmix(fromInt16(ints), 2), dec.SampleRate(), nil
}

// decodeOgg tries Vorbis first and Opus second.
func decodeOgg(r io.ReadSeeker) ([]float32, int, error) {
	pcm, format, verr := oggvorbis.ReadAll(r)
	if verr == nil && format != nil && format.Channels > 0 {
		return Downmix(pcm, format.Channels), format.SampleRate, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}

	dec, err := popus.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("neither vorbis (%v) nor opus (%w)", verr, err)
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	// opus always decodes at 48 kHz
	var out []float32
	buf := make([]int16, 24000*ch)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			out = append(out, fromInt16(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
	}

	return Downmix(out, ch), 48000, nil
}

// EncodeWAV writes mono PCM as 16-bit WAV.
func EncodeWAV(w io.WriteSeeker, pcm []float32, rate int) error {
	enc := wav.NewEncoder(w, rate, 16, 1, 1)

	data := make([]int, len(pcm))
	for i, v := range pcm {
		data[i] = int(math.Round(clamp(float64(v)) * 32767))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return enc.Close()
}

func fromInt16(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v) / 32768
	}
	return out
}

// Downmix averages interleaved channels into mono.
func Downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	out := make([]float32, len(in)/channels)
	for i := range out {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += in[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// Resample converts between rates by linear interpolation.
func Resample(in []float32, from, to int) []float32 {
	if from <= 0 || from == to || len(in) == 0 {
		return in
	}

	ratio := float64(to) / float64(from)
	out := make([]float32, int(math.Ceil(float64(len(in))*ratio)))
	last := len(in) - 1
	for i := range out {
		src := float64(i) / ratio
		i0 := int(src)
		if i0 >= last {
			out[i] = in[last]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i0+1]*a
	}
	return out
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
