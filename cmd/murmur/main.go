package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"murmur/internal/assistant"
	"murmur/internal/audio"
	"murmur/internal/bus"
	"murmur/internal/config"
	"murmur/internal/console"
	"murmur/internal/ipc"
	"murmur/internal/listen"
	"murmur/internal/notify"
	"murmur/internal/proxy"
	"murmur/internal/reminder"
	"murmur/internal/services"
	"murmur/internal/speech"
	"murmur/internal/tts"
	"murmur/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// biases whisper toward the command vocabulary
const sttPrompt = "time, date, add reminder, show reminders, weather, news, joke, help, exit, 19:30"

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "warn", "Log level")
	input := cli.StringP("input", "i", "voice", "Input source: voice, console or socket")
	engine := cli.String("stt", "whisper", "Speech to text engine: whisper or openai")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address for network services")
	socketPath := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path (socket input)")
	mute := cli.Bool("mute", false, "Print announcements without speaking them")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Error("Bad configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\nFatal error occurred: %v\n", r)
			fmt.Println("Please restart the assistant.")
			os.Exit(1)
		}
	}()

	httpClient, err := proxy.NewClient(*proxyAddr)
	if err != nil {
		log.Error("Failed to set up proxy", "proxy", *proxyAddr, "err", err)
		os.Exit(1)
	}

	store, err := reminder.Open(cfg.RemindersFile)
	if err != nil {
		log.Error("Failed to load reminders", "err", err)
		os.Exit(1)
	}

	display := console.New(os.Stdout, cfg.SleepWord, *input != "console")

	beeper, err := notify.NewBeeper(cfg.AlertSound)
	if err != nil {
		log.Warn("Falling back to the default chime", "err", err)
		beeper, _ = notify.NewBeeper("")
	}

	voice := newVoice(cfg, display, *mute)

	listener, closeListener, err := newListener(*input, *engine, *socketPath, cfg, display, httpClient)
	if err != nil {
		log.Error("Failed to set up input", "input", *input, "err", err)
		os.Exit(1)
	}
	defer closeListener()

	asst := assistant.New(assistant.Deps{
		Settings: assistant.Settings{
			WakePhrase:     cfg.WakeWord,
			SleepPhrase:    cfg.SleepWord,
			DefaultCity:    cfg.DefaultCity,
			DefaultCountry: cfg.DefaultCountry,
		},
		Store:    store,
		Listener: listener,
		Speaker:  voice,
		Display:  display,
		Alerter:  beeper,
		Weather:  services.NewWeather(httpClient, cfg.WeatherAPIKey),
		News:     services.NewNews(httpClient, cfg.NewsAPIKey),
		Jokes:    services.NewJokes(httpClient),
	})

	go reminder.NewScheduler(store, asst).Run(ctx)

	log.Info("Boot up - successful", "input", *input, "reminders", store.Len())

	err = asst.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("\n\nProgram terminated by user.")
	case err != nil:
		fmt.Printf("\nFatal error occurred: %v\n", err)
		fmt.Println("Please restart the assistant.")
		os.Exit(1)
	}
}

func newVoice(cfg config.Config, display *console.Console, mute bool) *speech.Voice {
	var opts []speech.Option

	if !mute {
		opts = append(opts,
			speech.WithEngine(tts.NewEspeak(cfg.EspeakVoice)),
			speech.WithDucker(audio.NewDucker([]string{"murmur", "espeak"}, 10)),
		)
	}

	if cfg.BusURL != "" {
		pub, err := bus.Dial(cfg.BusURL, "murmur")
		if err != nil {
			log.Warn("Bus unavailable, announcements stay local", "url", cfg.BusURL, "err", err)
		} else {
			opts = append(opts, speech.WithBus(pub))
		}
	}

	return speech.New(display, opts...)
}

func newListener(
	input, engine, socketPath string,
	cfg config.Config,
	display *console.Console,
	httpClient *http.Client,
) (assistant.Listener, func(), error) {
	switch input {
	case "console":
		c, err := listen.NewConsole("you> ")
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil

	case "socket":
		s, err := listen.NewSocket(socketPath, display)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case "voice":
		tr, closeTr, err := newTranscriber(engine, cfg, httpClient)
		if err != nil {
			return nil, nil, err
		}

		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			closeTr()
			return nil, nil, fmt.Errorf("init audio: %w", err)
		}

		log.Debug("Loaded recorder")
		return listen.NewVoice(rec, tr, display), func() { rec.Close(); closeTr() }, nil
	}

	return nil, nil, fmt.Errorf("unknown input %q", input)
}

func newTranscriber(engine string, cfg config.Config, httpClient *http.Client) (listen.Transcriber, func(), error) {
	switch engine {
	case "whisper":
		w, err := stt.NewWhisper(cfg.WhisperModel, stt.Options{Language: "en", InitialPrompt: sttPrompt})
		if err != nil {
			return nil, nil, fmt.Errorf("init whisper: %w", err)
		}
		log.Debug("Loaded whisper", "model", cfg.WhisperModel)
		return w, func() { w.Close() }, nil

	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil, errors.New("OPENAI_API_KEY not set")
		}
		client := openai.NewClient(
			option.WithAPIKey(cfg.OpenAIAPIKey),
			option.WithHTTPClient(httpClient),
		)
		return stt.NewCloud(client, "en"), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown stt engine %q", engine)
}
