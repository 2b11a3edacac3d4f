package audio

import (
	"context"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 16000

	frameSize      = 320 // 20ms
	frameDuration  = 20 * time.Millisecond
	silenceRMS     = 0.015
	trailingSilent = 600 * time.Millisecond
)

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record waits up to timeout for speech to start, then captures until a
// trailing silence or until phraseLimit of speech has been recorded.
// The result is mono 16 kHz PCM, empty when nothing rose above the silence
// threshold before the timeout.
func (r *Recorder) Record(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		onsetFrames  = int(timeout / frameDuration)
		phraseFrames = int(phraseLimit / frameDuration)
		silentFrames = int(trailingSilent / frameDuration)

		waited, spoken, silent int
		speaking               bool
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		loud := frameRMS(buf) > silenceRMS

		if !speaking {
			if !loud {
				waited++
				if waited >= onsetFrames {
					return nil, nil
				}
				continue
			}
			speaking = true
		}

		out = append(out, buf...)
		spoken++

		if loud {
			silent = 0
		} else {
			silent++
		}

		if silent >= silentFrames || spoken >= phraseFrames {
			return out, nil
		}
	}
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
