// Package listen provides the assistant's input sources. Every source
// returns "" for "nothing usable heard" and reserves errors for input that
// is gone for good.
package listen

import "time"

const (
	// ListenTimeout bounds the wait for speech to begin.
	ListenTimeout = 10 * time.Second
	// PhraseLimit bounds a single utterance.
	PhraseLimit = 10 * time.Second
)

// Status receives progress lines for the console.
type Status interface {
	Status(text string)
	Separator()
	Heard(text string)
}
