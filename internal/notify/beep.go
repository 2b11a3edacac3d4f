// Package notify plays the assistant's audible cues through the default
// output device.
package notify

import (
	"fmt"
	log "log/slog"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"murmur/pkg/audioconv"
)

const sampleRate beep.SampleRate = audioconv.DefaultRate

type Beeper struct {
	chime []float32

	once    sync.Once
	initErr error
}

// NewBeeper prepares the cues. chimePath optionally names a wav, mp3 or ogg
// file played when a reminder fires instead of the default tone.
func NewBeeper(chimePath string) (*Beeper, error) {
	b := &Beeper{}
	if chimePath == "" {
		return b, nil
	}

	pcm, err := audioconv.DecodeFile(chimePath, audioconv.Options{
		SampleRate: int(sampleRate),
		MaxSamples: sampleRate.N(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("load chime: %w", err)
	}
	b.chime = pcm

	return b, nil
}

func (b *Beeper) Wake() {
	b.play(tone(1000, 300*time.Millisecond))
}

func (b *Beeper) Confirm() {
	b.play(tone(1500, 150*time.Millisecond))
}

func (b *Beeper) Chime() {
	if len(b.chime) > 0 {
		b.play(samples(b.chime))
		return
	}
	b.Wake()
}

func (b *Beeper) play(s beep.Streamer) {
	b.once.Do(func() {
		b.initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if b.initErr != nil {
		log.Warn("Speaker unavailable", "err", b.initErr)
		return
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done
}

func tone(freq float64, d time.Duration) beep.Streamer {
	step := 2 * math.Pi * freq / float64(sampleRate)
	pos := 0

	return beep.Take(sampleRate.N(d), beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		for i := range buf {
			v := 0.4 * math.Sin(step*float64(pos))
			buf[i][0], buf[i][1] = v, v
			pos++
		}
		return len(buf), true
	}))
}

func samples(pcm []float32) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(pcm) {
			return 0, false
		}
		n := copy2(buf, pcm[pos:])
		pos += n
		return n, true
	})
}

func copy2(dst [][2]float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i][0] = float64(src[i])
		dst[i][1] = float64(src[i])
	}
	return n
}
