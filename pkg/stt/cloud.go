package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	openai "github.com/openai/openai-go/v3"

	"murmur/pkg/audioconv"
)

// Cloud sends recordings to the OpenAI transcription endpoint.
type Cloud struct {
	client   openai.Client
	model    openai.AudioModel
	language string
}

func NewCloud(client openai.Client, language string) *Cloud {
	if language == "auto" {
		language = ""
	}
	return &Cloud{client: client, model: openai.AudioModelWhisper1, language: language}
}

func (c *Cloud) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	if len(pcm16k) == 0 {
		return "", ErrNoAudio
	}

	wav, err := encode(pcm16k)
	if err != nil {
		return "", err
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wav), "utterance.wav", "audio/wav"),
		Model: c.model,
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}

	return resp.Text, nil
}

// encode goes through a temp file since the wav encoder needs to seek back
// and patch the header sizes.
func encode(pcm []float32) ([]byte, error) {
	f, err := os.CreateTemp("", "murmur-*.wav")
	if err != nil {
		return nil, fmt.Errorf("temp wav: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := audioconv.EncodeWAV(f, pcm, audioconv.DefaultRate); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
