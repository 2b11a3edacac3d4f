package listen

import (
	"context"
	log "log/slog"
	"strings"
	"time"
)

type Recorder interface {
	Record(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

// Voice records one phrase from the microphone and transcribes it.
type Voice struct {
	rec     Recorder
	stt     Transcriber
	status  Status
	timeout time.Duration
	phrase  time.Duration
}

func NewVoice(rec Recorder, stt Transcriber, status Status) *Voice {
	return &Voice{
		rec:     rec,
		stt:     stt,
		status:  status,
		timeout: ListenTimeout,
		phrase:  PhraseLimit,
	}
}

// Listen never fails: timeouts, unintelligible audio and transcription
// errors all come back as "".
func (v *Voice) Listen(ctx context.Context) (string, error) {
	v.status.Status("Listening...")
	defer v.status.Separator()

	pcm, err := v.rec.Record(ctx, v.timeout, v.phrase)
	if err != nil {
		log.Error("Failed to record", "err", err)
		v.status.Status("Could not record audio")
		return "", nil
	}
	if len(pcm) == 0 {
		v.status.Status("Timeout - No speech detected")
		return "", nil
	}

	v.status.Status("Processing speech...")
	log.Debug("Recorded", "samples", len(pcm))

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	text, err := v.stt.Transcribe(ctx, pcm)
	if err != nil {
		log.Error("Failed to transcribe", "err", err)
		v.status.Status("Speech recognition service error - " + err.Error())
		return "", nil
	}

	text = strings.ToLower(strings.TrimSpace(cleanup(text)))
	if text == "" {
		v.status.Status("Could not understand audio")
		return "", nil
	}

	v.status.Heard(text)
	return text, nil
}

// cleanup drops whisper's non-speech markers such as "[BLANK_AUDIO]" and
// sentence punctuation that would break keyword or time parsing.
func cleanup(text string) string {
	var b strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '[' || r == '(':
			depth++
		case r == ']' || r == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case r == '.' || r == ',' || r == '!' || r == '?':
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
