package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hammamikhairi/chefai/internal/chef"
	"github.com/hammamikhairi/chefai/internal/claude"
	"github.com/hammamikhairi/chefai/internal/config"
	"github.com/hammamikhairi/chefai/internal/conversation"
	"github.com/hammamikhairi/chefai/internal/display"
	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/gemini"
	"github.com/hammamikhairi/chefai/internal/gpt"
	"github.com/hammamikhairi/chefai/internal/kitchen"
	"github.com/hammamikhairi/chefai/internal/logger"
	"github.com/hammamikhairi/chefai/internal/search"
	"github.com/hammamikhairi/chefai/internal/speech"
	"github.com/hammamikhairi/chefai/internal/web"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".chefai-logs/chefai.log", "file to write logs to (use \"stderr\" to log to console)")
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	modeFlag := flag.String("mode", "", "local or hosted (default: detected from the environment)")
	addr := flag.String("addr", "", "listen address in hosted mode (overrides CHEF_ADDR)")
	imagePath := flag.String("image", "", "generate one recipe from this photo, print it as JSON and exit")
	mealFlag := flag.String("meal", string(domain.MealLunch), "meal type for -image and for 'cook' without a meal")
	voice := flag.Bool("voice", false, "enable voice commands via local Whisper STT (terminal mode)")
	whisperBin := flag.String("whisper-bin", "whisper-cli", "path to the whisper-cpp CLI binary")
	whisperModel := flag.String("whisper-model", "bin/ggml-small.bin", "path to the Whisper GGML model file")
	recordSecs := flag.Int("record-secs", 2, "seconds per voice recording chunk")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *modeFlag != "" {
		m, err := config.ParseMode(*modeFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg.Mode = m
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	meal, err := domain.ParseMealType(*mealFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Configure logger. Flags win over CHEF_LOG_LEVEL.
	logLevel := logger.ParseLevel(os.Getenv("CHEF_LOG_LEVEL"))
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// The terminal UI owns stdout, so logs go to a file by default. The
	// web server has no UI and logs to stderr unless told otherwise.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" && (cfg.Mode == config.ModeLocal || isFlagSet("log-file")) {
		f, err := openLogFile(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package (used by audio and HTTP internals)
	// to the same output so it doesn't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	usage := chef.NewUsage()
	transport, err := newTransport(ctx, cfg.Model, log)
	if err != nil {
		log.Error("model transport: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	recipes := chef.NewClient(transport, log,
		chef.WithMaxAttempts(cfg.Model.MaxAttempts),
		chef.WithLanguage(cfg.Language),
		chef.WithUsage(usage),
	)

	var photos domain.ImageFinder
	if tavily := search.NewClient(cfg.Search.TavilyKey, log); tavily.IsConfigured() {
		photos = tavily
	} else {
		log.Info("image search disabled: set TAVILY_API_KEY to enable")
	}
	kit := kitchen.New(recipes, photos, log)

	if *imagePath != "" {
		os.Exit(cookOnce(ctx, kit, *imagePath, meal))
	}

	switch cfg.Mode {
	case config.ModeHosted:
		if err := serve(ctx, cfg, kit, log); err != nil {
			log.Error("server: %v", err)
			os.Exit(1)
		}
	default:
		var vc *voiceConfig
		if *voice {
			vc = &voiceConfig{bin: *whisperBin, model: *whisperModel, chunk: time.Duration(*recordSecs) * time.Second}
		}
		runTerminal(ctx, cfg, kit, usage, meal, vc, log)
	}
}

// newTransport builds the multimodal client for the configured provider.
func newTransport(ctx context.Context, mc config.ModelConfig, log *logger.Logger) (chef.Transport, error) {
	switch mc.Provider {
	case config.ProviderOpenAI:
		opts := []gpt.ClientOption{
			gpt.WithModel(mc.GPTModel),
			gpt.WithJSONResponse(),
			gpt.WithTemperature(0.4),
			gpt.WithMaxTokens(2048),
			gpt.WithHTTPTimeout(90 * time.Second),
		}
		if !gpt.IsAzureEndpoint(mc.GPTEndpoint) {
			opts = append(opts, gpt.WithBearerAuth())
		}
		log.Info("model provider: openai-compatible (%s)", mc.GPTModel)
		return gpt.NewClient(mc.GPTEndpoint, mc.GPTKey, log, opts...), nil
	case config.ProviderAnthropic:
		log.Info("model provider: anthropic")
		return claude.New(mc.AnthropicKey, mc.AnthropicModel, log, option.WithMaxRetries(0)), nil
	default:
		log.Info("model provider: gemini (%s)", mc.GeminiModel)
		c, err := gemini.New(ctx, mc.GoogleKey, log, gemini.WithModel(mc.GeminiModel))
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// cookOnce generates a single recipe and prints it. It returns the exit code.
func cookOnce(ctx context.Context, kit *kitchen.Kitchen, path string, meal domain.MealType) int {
	img, err := chef.LoadImage(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	dish, err := kit.Cook(ctx, img, meal)
	if err != nil {
		var qe *domain.QuotaError
		if errors.As(err, &qe) {
			fmt.Fprintln(os.Stderr, display.QuotaMessage(qe))
			return 3
		}
		fmt.Fprintln(os.Stderr, display.FailureMessage)
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(dish)
	return 0
}

// serve runs the hosted web interface until ctx ends.
func serve(ctx context.Context, cfg config.Config, kit *kitchen.Kitchen, log *logger.Logger) error {
	hub := speech.NewHub(log)
	remote := speech.NewRemote(hub, cfg.Speech.Lang, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(kit, remote, hub, log).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// No WriteTimeout: the speech event stream stays open.
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// voiceConfig enables microphone commands in the terminal app.
type voiceConfig struct {
	bin   string
	model string
	chunk time.Duration
}

// runTerminal drives the Bubble Tea UI with on-device speech. Voice
// commands are read when vc is set.
func runTerminal(ctx context.Context, cfg config.Config, kit *kitchen.Kitchen, usage *chef.Usage, meal domain.MealType, vc *voiceConfig, log *logger.Logger) {
	engine := speech.NewEngine(newLocalSpeaker(cfg.Speech, cfg.ResolveTTS(), log), log)
	defer engine.Close()

	ui := display.NewUI(engine.Status)
	app := &cliApp{
		kitchen:   kit,
		speech:    engine,
		parser:    conversation.NewKeywordParser(log),
		usage:     usage,
		ui:        ui,
		log:       log,
		loadImage: chef.LoadImage,
		meal:      meal,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if vc != nil {
		if _, err := os.Stat(vc.model); err != nil {
			fmt.Fprintf(os.Stderr, "error: whisper model not found at %s\n", vc.model)
			return
		}
		sttDir := ".chefai-stt"
		if err := os.MkdirAll(sttDir, 0o755); err != nil {
			log.Warn("stt temp dir: %v", err)
		}
		ear := speech.NewEar(vc.bin, vc.model, log,
			speech.WithRecordDuration(vc.chunk),
			speech.WithTempDir(sttDir),
			speech.WithPlayback(engine),
			speech.WithOnWake(func() { ui.PrintHint("Te escucho...") }),
		)
		app.voice = ear.C()
		go ear.Run(ctx)
		log.Info("voice input enabled (bin=%s, model=%s, chunk=%s)", vc.bin, vc.model, vc.chunk)
	}

	fmt.Println(display.RenderBanner())
	if vc != nil {
		fmt.Println(display.BannerStyle.Render("  Voice mode ON: say \"Hola chef\" to give a command, or type it."))
		fmt.Println(display.BannerStyle.Render("  Type 'quit' to exit."))
	} else {
		fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	}
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx, ui.InputChan())
		ui.Quit()
	}()

	// Bubble Tea owns the terminal; blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
}

// newLocalSpeaker assembles the local speaking strategy for synth.
func newLocalSpeaker(sc config.SpeechConfig, synth string, log *logger.Logger) speech.Speaker {
	setup := speech.LocalSetup{
		Direct: speech.NewDirectSpeaker(log, speech.WithBinary(sc.SystemBin), speech.WithVoiceLanguage(sc.Lang)),
	}

	switch synth {
	case config.TTSAzure:
		setup.Synth = speech.NewAzureClient(sc.AzureKey, sc.AzureRegion, log,
			speech.WithVoice(sc.AzureVoice), speech.WithLanguage(sc.Lang), speech.WithHTTPTimeout(30*time.Second))
	case config.TTSOpenAI:
		setup.Synth = speech.NewOpenAITTS(sc.OpenAIKey, "", log, speech.WithOpenAIVoice(sc.OpenAIVoice))
	case config.TTSPiper:
		setup.Synth = speech.NewPiperTTS(sc.PiperBin, sc.PiperModel, "", log)
	}
	if setup.Synth != nil {
		setup.Cache = speech.NewAudioCache(sc.CacheDir, speech.DefaultCacheEntries, log)
	}
	log.Info("speech synthesizer: %s", synth)
	return speech.NewLocalSpeaker(setup, log)
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
