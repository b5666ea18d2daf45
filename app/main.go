package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/app/events"
	"github.com/umputun/scam-spotter/app/internal/imagerecognizer"
	"github.com/umputun/scam-spotter/app/storage"
	"github.com/umputun/scam-spotter/app/storage/engine"
	"github.com/umputun/scam-spotter/app/webapi"
	"github.com/umputun/scam-spotter/app/webhook"
	"github.com/umputun/scam-spotter/lib/imgmatch"
	"github.com/umputun/scam-spotter/lib/scam"
	"github.com/umputun/scam-spotter/lib/scam/lua"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

type options struct {
	Telegram struct {
		Token string `long:"token" env:"TOKEN" description:"telegram bot token, telegram disabled if not set"`
		Group string `long:"group" env:"GROUP" description:"group name/id, all chats if not set"`
		Dbg   bool   `long:"dbg" env:"DEBUG" description:"telegram debug mode"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`

	AdminGroup string            `long:"admin.group" env:"ADMIN_GROUP" description:"admin group name, or channel id"`
	SuperUsers events.SuperUsers `long:"super" env:"SUPER_USER" env-delim:"," description:"super-users, allowed to act on reports"`
	KeepSeen   int               `long:"keep-seen" env:"KEEP_SEEN" default:"10000" description:"number of processed messages to remember"`

	Server struct {
		Enabled    bool    `long:"enabled" env:"ENABLED" description:"enable web server"`
		ListenAddr string  `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthPasswd string  `long:"auth" env:"AUTH" default:"" description:"basic auth password for user 'scam-spotter'"`
		RateLimit  float64 `long:"rate-limit" env:"RATE_LIMIT" default:"10" description:"requests per second per ip, 0 to disable"`
		Metrics    bool    `long:"metrics" env:"METRICS" description:"enable prometheus metrics"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Files struct {
		DataDir       string        `long:"data" env:"DATA" default:"data" description:"data directory, image templates in images sub-directory"`
		Corpus        string        `long:"corpus" env:"CORPUS" default:"data/scams.json" description:"scam corpus file"`
		Templates     string        `long:"templates" env:"TEMPLATES" default:"data/templates" description:"reply templates directory"`
		Plugins       string        `long:"plugins" env:"PLUGINS" description:"directory with lua functions, disabled if not set"`
		WatchInterval time.Duration `long:"watch-interval" env:"WATCH_INTERVAL" default:"5s" description:"corpus and templates reload delay, 0 to disable"`
		TempDir       string        `long:"temp" env:"TEMP" description:"directory for downloaded images, system temp if not set"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	DataBaseURL string `long:"db" env:"DB" default:"data/scam-spotter.db" description:"database url, sqlite file or postgres://"`
	InstanceID  string `long:"instance-id" env:"INSTANCE_ID" default:"scam-spotter" description:"instance id, separates data of several instances in one database"`

	OCR struct {
		Provider    string        `long:"provider" env:"PROVIDER" choice:"tesseract" choice:"openai" choice:"gemini" choice:"none" default:"tesseract" description:"ocr provider"`
		Concurrency int           `long:"concurrency" env:"CONCURRENCY" default:"4" description:"images recognized concurrently"`
		CacheSize   int           `long:"cache-size" env:"CACHE_SIZE" default:"1000" description:"recognized images kept in cache, 0 to disable"`
		CacheTTL    time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"24h" description:"ttl of recognized images"`
		Retries     int           `long:"retries" env:"RETRIES" default:"3" description:"ocr attempts"`

		Tesseract struct {
			Binary   string `long:"binary" env:"BINARY" default:"tesseract" description:"tesseract binary"`
			Language string `long:"lang" env:"LANG" default:"eng" description:"tesseract language"`
		} `group:"tesseract" namespace:"tesseract" env-namespace:"TESSERACT"`

		OpenAI struct {
			Token string `long:"token" env:"TOKEN" description:"openai token"`
			Model string `long:"model" env:"MODEL" default:"gpt-4o" description:"openai vision model"`
		} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

		Gemini struct {
			Token string `long:"token" env:"TOKEN" description:"gemini token"`
			Model string `long:"model" env:"MODEL" default:"gemini-2.0-flash" description:"gemini model"`
		} `group:"gemini" namespace:"gemini" env-namespace:"GEMINI"`
	} `group:"ocr" namespace:"ocr" env-namespace:"OCR"`

	Threshold   float64 `long:"threshold" env:"THRESHOLD" default:"0.9" description:"minimal score of a hit, 0..1"`
	MaxImages   int     `long:"max-images" env:"MAX_IMAGES" default:"10" description:"maximum number of images per item, 0 for unlimited"`
	HistorySize int     `long:"history-size" env:"HISTORY_SIZE" default:"100" description:"number of recent checks kept in memory"`
	IgnoreName  string  `long:"ignore" env:"IGNORE" default:"IgnorePost" description:"checker marking legit items, nothing is replied if matched"`
	Summary     bool    `long:"summary" env:"SUMMARY" description:"add matched checkers with confidence to replies"`

	Message struct {
		Startup string `long:"startup" env:"STARTUP" default:"" description:"startup message"`
	} `group:"message" namespace:"message" env-namespace:"MESSAGE"`

	Webhook struct {
		URL      string `long:"url" env:"URL" description:"webhook url for reported detections, disabled if not set"`
		Username string `long:"username" env:"USERNAME" default:"scam-spotter" description:"webhook sender name"`
		Content  string `long:"content" env:"CONTENT" default:"" description:"text above the detection"`
		Retries  int    `long:"retries" env:"RETRIES" default:"3" description:"webhook attempts"`
	} `group:"webhook" namespace:"webhook" env-namespace:"WEBHOOK"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable detection rotated logs"`
		FileName   string `long:"file" env:"FILE"  default:"scam-spotter.log" description:"location of detection log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Check struct {
		Images []string `long:"image" description:"image path or url to check, repeatable"`
		Title  string   `long:"title" description:"title to check"`
		Body   string   `long:"body" description:"body to check"`
		Render string   `long:"render" description:"directory for annotated images"`
	} `group:"check" namespace:"check"`

	EnvFile string `long:"env-file" env:"ENV_FILE" default:".env" description:"optional env file"`
	Dry     bool   `long:"dry" env:"DRY" description:"dry mode, no replies and deletions"`
	Dbg     bool   `long:"dbg" env:"DEBUG" description:"debug mode"`
	Trace   bool   `long:"trace" env:"TRACE" description:"trace every evaluation step"`
}

var revision = "local"

func main() {
	fmt.Printf("scam-spotter %s\n", revision)
	if err := loadEnvFile(envFileName(os.Args[1:])); err != nil {
		log.Printf("[WARN] %v", err)
	}

	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Telegram.Token, opts.OCR.OpenAI.Token, opts.OCR.Gemini.Token, opts.Server.AuthPasswd)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	if opts.Dry {
		log.Print("[WARN] dry mode, no replies and deletions")
	}

	funcs, closeFuncs, err := makeRegistry(opts)
	if err != nil {
		return fmt.Errorf("can't make functions registry, %w", err)
	}
	defer closeFuncs()

	ocr, err := makeOCR(ctx, opts)
	if err != nil {
		return fmt.Errorf("can't make ocr, %w", err)
	}
	detector := makeDetector(opts, ocr)

	if checkMode(opts) {
		return checkOnce(ctx, opts, detector, funcs, os.Stdout)
	}

	if opts.Telegram.Token == "" && !opts.Server.Enabled {
		return errors.New("nothing to do, neither telegram token nor server enabled")
	}

	db, err := engine.New(ctx, opts.DataBaseURL, opts.InstanceID)
	if err != nil {
		return fmt.Errorf("can't make db, %w", err)
	}
	defer db.Close()

	detections, err := storage.NewDetections(ctx, db)
	if err != nil {
		return fmt.Errorf("can't make detections storage, %w", err)
	}
	stats, err := storage.NewStats(ctx, db)
	if err != nil {
		return fmt.Errorf("can't make stats storage, %w", err)
	}

	loggerWr, err := makeDetectionLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make detection log writer, %w", err)
	}
	defer loggerWr.Close()

	var metrics *webapi.Metrics
	if opts.Server.Metrics {
		metrics = webapi.NewMetrics()
	}

	scamBot, err := makeScamBot(ctx, opts, detector, funcs, stats,
		makeRecorders(opts, detections, stats, metrics, loggerWr)...)
	if err != nil {
		return fmt.Errorf("can't make scam bot, %w", err)
	}

	if opts.Server.Enabled {
		srv := webapi.NewServer(webapi.Config{
			Version:    revision,
			ListenAddr: opts.Server.ListenAddr,
			Checker:    scamBot,
			Detections: detections,
			Stats:      stats,
			Recent:     detector,
			Metrics:    metrics,
			AuthPasswd: opts.Server.AuthPasswd,
			RateLimit:  opts.Server.RateLimit,
		})
		if opts.Telegram.Token == "" {
			log.Printf("[INFO] telegram disabled, server only mode")
			return srv.Run(ctx)
		}
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("[ERROR] web server failed, %v", err)
			}
		}()
	}

	seen, err := storage.NewSeen(ctx, db)
	if err != nil {
		return fmt.Errorf("can't make seen storage, %w", err)
	}

	tbAPI, err := tbapi.NewBotAPI(opts.Telegram.Token)
	if err != nil {
		return fmt.Errorf("can't make telegram bot, %w", err)
	}
	tbAPI.Debug = opts.Telegram.Dbg

	tgListener := events.TelegramListener{
		TbAPI:      tbAPI,
		Bot:        scamBot,
		Seen:       seen,
		Group:      opts.Telegram.Group,
		AdminGroup: opts.AdminGroup,
		SuperUsers: opts.SuperUsers,
		StartupMsg: opts.Message.Startup,
		KeepSeen:   opts.KeepSeen,
		Dry:        opts.Dry,
	}
	log.Printf("[DEBUG] telegram listener config: {group: %s, super: %v, admin: %s, keep-seen: %d, dry: %v}",
		tgListener.Group, tgListener.SuperUsers, tgListener.AdminGroup, tgListener.KeepSeen, tgListener.Dry)

	if err := tgListener.Do(ctx); err != nil {
		return fmt.Errorf("telegram listener failed, %w", err)
	}
	return nil
}

// makeRegistry makes functions registry with built-in and lua functions, frozen after all loaded.
// Returned func closes lua engine.
func makeRegistry(opts options) (*scam.Registry, func(), error) {
	reg := scam.NewRegistry()
	closeFn := func() {}
	if opts.Files.Plugins != "" {
		luaEngine := lua.NewEngine()
		if err := luaEngine.LoadDirectory(opts.Files.Plugins); err != nil {
			luaEngine.Close()
			return nil, func() {}, fmt.Errorf("can't load lua plugins from %s: %w", opts.Files.Plugins, err)
		}
		if err := luaEngine.RegisterAll(reg); err != nil {
			luaEngine.Close()
			return nil, func() {}, err
		}
		closeFn = luaEngine.Close
		log.Printf("[INFO] lua functions loaded from %s: %v", opts.Files.Plugins, luaEngine.Names())
	}
	reg.Freeze()
	log.Printf("[DEBUG] registered functions: %v", reg.Names())
	return reg, closeFn, nil
}

// makeOCR makes ocr service for the selected provider, wrapped with cache. Returns nil for "none".
func makeOCR(ctx context.Context, opts options) (scam.OCR, error) {
	var res scam.OCR
	switch opts.OCR.Provider {
	case "", "none":
		log.Printf("[WARN] ocr disabled, images are not checked by ocr checkers")
		return nil, nil
	case "tesseract":
		res = &imagerecognizer.Tesseract{Binary: opts.OCR.Tesseract.Binary, Language: opts.OCR.Tesseract.Language,
			TempDir: opts.Files.TempDir}
	case "openai":
		if opts.OCR.OpenAI.Token == "" {
			return nil, errors.New("openai token is required for openai ocr")
		}
		res = imagerecognizer.NewOpenAI(openai.NewClient(opts.OCR.OpenAI.Token), imagerecognizer.OpenAIConfig{
			Model: opts.OCR.OpenAI.Model, Retries: opts.OCR.Retries, RetryDelay: time.Second})
	case "gemini":
		client, err := imagerecognizer.NewGeminiClient(ctx, opts.OCR.Gemini.Token)
		if err != nil {
			return nil, err
		}
		res = imagerecognizer.NewGemini(client, imagerecognizer.GeminiConfig{
			Model: opts.OCR.Gemini.Model, Retries: opts.OCR.Retries, RetryDelay: time.Second})
	default:
		return nil, fmt.Errorf("unknown ocr provider %q", opts.OCR.Provider)
	}
	log.Printf("[INFO] ocr provider: %s", opts.OCR.Provider)

	if opts.OCR.CacheSize > 0 {
		return imagerecognizer.NewCached(res, opts.OCR.CacheSize, opts.OCR.CacheTTL), nil
	}
	return res, nil
}

func makeDetector(opts options, ocr scam.OCR) *scam.Detector {
	detectorConfig := scam.Config{
		Threshold:      opts.Threshold,
		DataDir:        opts.Files.DataDir,
		MaxImages:      opts.MaxImages,
		OCRConcurrency: opts.OCR.Concurrency,
		HistorySize:    opts.HistorySize,
		Trace:          opts.Trace,
		RenderDir:      opts.Check.Render,
	}
	detector := scam.NewDetector(detectorConfig).WithMatcher(imgmatch.New())
	log.Printf("[DEBUG] detector config: %+v", detectorConfig)

	if ocr != nil {
		detector.WithOCR(ocr)
	}
	detector.WithFetcher(&imagerecognizer.Fetcher{
		Client:     &http.Client{Timeout: 30 * time.Second},
		TempDir:    opts.Files.TempDir,
		Retries:    3,
		RetryDelay: time.Second,
		LocalFiles: checkMode(opts), // local paths allowed for the command line only
	})
	return detector
}

func makeScamBot(ctx context.Context, opts options, detector bot.Detector, funcs scam.FunctionLookup, stats bot.Stats,
	recorders ...bot.Recorder) (*bot.ScamFilter, error) {
	scamBotParams := bot.ScamConfig{
		CorpusFile:   opts.Files.Corpus,
		TemplatesDir: opts.Files.Templates,
		Functions:    funcs,
		WatchDelay:   opts.Files.WatchInterval,
		IgnoreName:   opts.IgnoreName,
		WithSummary:  opts.Summary,
		Dry:          opts.Dry,
	}
	scamBot := bot.NewScamFilter(ctx, detector, scamBotParams).WithRecorders(recorders...)
	if stats != nil {
		scamBot.WithStats(stats)
	}
	log.Printf("[DEBUG] scam bot config: %+v", scamBotParams)

	if err := scamBot.Reload(); err != nil {
		return nil, fmt.Errorf("can't load corpus and templates, %w", err)
	}
	return scamBot, nil
}

// makeRecorders makes the list of recorders called for every checked item
func makeRecorders(opts options, detections *storage.Detections, stats *storage.Stats, metrics *webapi.Metrics,
	logWr io.Writer) []bot.Recorder {
	res := []bot.Recorder{
		bot.RecorderFunc(func(ctx context.Context, _ bot.Message, v scamcheck.Verdict) error { return stats.Record(ctx, v) }),
		bot.RecorderFunc(func(ctx context.Context, _ bot.Message, v scamcheck.Verdict) error { return detections.Write(ctx, v) }),
		makeDetectionLogger(logWr),
	}
	if metrics != nil {
		res = append(res, metrics)
	}
	if opts.Webhook.URL != "" {
		log.Printf("[INFO] webhook enabled for reported detections")
		res = append(res, webhook.New(webhook.Params{URL: opts.Webhook.URL, Username: opts.Webhook.Username,
			Content: opts.Webhook.Content, Retries: opts.Webhook.Retries, RetryDelay: time.Second}))
	}
	return res
}

func checkMode(opts options) bool {
	return len(opts.Check.Images) > 0 || opts.Check.Title != "" || opts.Check.Body != ""
}

// checkOnce checks a single item from the command line and prints the verdict
func checkOnce(ctx context.Context, opts options, detector *scam.Detector, funcs scam.FunctionLookup, out io.Writer) error {
	if err := detector.LoadCorpusFile(opts.Files.Corpus, funcs); err != nil {
		return fmt.Errorf("can't load corpus %s, %w", opts.Files.Corpus, err)
	}
	req := scamcheck.Request{Title: opts.Check.Title, Body: opts.Check.Body, Images: opts.Check.Images}
	res, verdict, err := detector.Check(ctx, req)
	if err != nil {
		return fmt.Errorf("check failed, %w", err)
	}

	fmt.Fprintf(out, "item: %s, images: %d, skipped: %d, duration: %v\n",
		verdict.ID, verdict.Images, verdict.Skipped, verdict.Duration.Round(time.Millisecond))
	if !verdict.Scam() {
		fmt.Fprintln(out, "clean")
		return nil
	}
	fmt.Fprintf(out, "scam, template: %s, report: %v\n", res.Template(), res.Report())
	fmt.Fprint(out, strings.ReplaceAll(res.String(), "\r\n", "\n"))
	if opts.Check.Render != "" {
		fmt.Fprintf(out, "annotated images saved to %s\n", opts.Check.Render)
	}
	return nil
}

// makeDetectionLogger creates detection logger to keep reports about detected scams
// it writes json lines to the provided writer
func makeDetectionLogger(wr io.Writer) bot.Recorder {
	return bot.RecorderFunc(func(_ context.Context, msg bot.Message, v scamcheck.Verdict) error {
		if !v.Scam() {
			return nil
		}
		text := strings.TrimSpace(strings.ReplaceAll(msg.Text, "\n", " "))
		log.Printf("[DEBUG] scam message: %s", text)
		m := struct {
			TimeStamp   string               `json:"ts"`
			ID          string               `json:"id"`
			DisplayName string               `json:"display_name"`
			UserName    string               `json:"user_name"`
			UserID      int64                `json:"user_id"`
			Title       string               `json:"title,omitempty"`
			Text        string               `json:"text"`
			Link        string               `json:"link,omitempty"`
			Checks      []scamcheck.Response `json:"checks"`
		}{
			TimeStamp:   time.Now().In(time.Local).Format(time.RFC3339),
			ID:          v.ID,
			DisplayName: msg.From.DisplayName,
			UserName:    msg.From.Username,
			UserID:      msg.From.ID,
			Title:       msg.Title,
			Text:        text,
			Link:        msg.Link,
			Checks:      v.Checks,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			return fmt.Errorf("can't marshal detection, %w", err)
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("can't write detection to log, %w", err)
		}
		return nil
	})
}

// makeDetectionLogWriter creates detection log writer to keep reports about detected scams
// it parses options and makes lumberjack logger with rotation
func makeDetectionLogWriter(opts options) (accessLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}
	maxSize /= 1048576

	log.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), //nolint:gosec // size in MB is small
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// sizeParse parses size with optional k, m, g or t suffix
func sizeParse(inp string) (uint64, error) {
	if inp == "" {
		return 0, errors.New("empty value")
	}
	for i, sfx := range []string{"k", "m", "g", "t"} {
		if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
			val, err := strconv.Atoi(inp[:len(inp)-1])
			if err != nil {
				return 0, fmt.Errorf("can't parse %s: %w", inp, err)
			}
			return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
		}
	}
	return strconv.ParseUint(inp, 10, 64)
}

// envFileName returns env file from --env-file argument or ENV_FILE, .env by default
func envFileName(args []string) string {
	for i, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return v
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("ENV_FILE"); v != "" {
		return v
	}
	return ".env"
}

// loadEnvFile loads variables from the env file if it exists, already set variables are not overridden
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // env file is optional
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("can't load env file %s: %w", path, err)
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	nonEmpty := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
