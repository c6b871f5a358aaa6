package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/substrbayes/nbclass/app/storage"
	"github.com/substrbayes/nbclass/app/storage/engine"
	"github.com/substrbayes/nbclass/app/trainer"
	"github.com/substrbayes/nbclass/app/webapi"
	"github.com/substrbayes/nbclass/lib/nbayes"
	"github.com/substrbayes/nbclass/lib/textprep"
)

type options struct {
	Files struct {
		Samples       []string      `long:"samples" env:"SAMPLES" env-delim:"," description:"samples file per class, position is the class index" required:"true"`
		Dynamic       []string      `long:"dynamic" env:"DYNAMIC" env-delim:"," description:"dynamic samples file per class, learned examples appended here"`
		Test          []string      `long:"test" env:"TEST" env-delim:"," description:"labelled test file per class, evaluated on start"`
		Watch         bool          `long:"watch" env:"WATCH" description:"reload samples on files change"`
		WatchInterval time.Duration `long:"watch-interval" env:"WATCH_INTERVAL" default:"5s" description:"delay before reload after the last change"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	Names      []string `long:"name" env:"NAMES" env-delim:"," description:"class names, same order as samples"`
	Vocabulary string   `long:"vocab" env:"VOCAB" default:"letters" choice:"letters" choice:"bigrams" choice:"trigrams" description:"feature vocabulary"`
	Alphabet   string   `long:"alphabet" env:"ALPHABET" default:"ABCDEFGHIJKLMNOPQRSTUVWXYZ" description:"alphabet for vocabulary"`
	Patterns   []string `long:"pattern" env:"PATTERNS" env-delim:"," description:"explicit feature patterns, replace vocabulary"`
	Matcher    string   `long:"matcher" env:"MATCHER" default:"substring" choice:"substring" choice:"fold" choice:"regexp" description:"feature presence test"`

	DB struct {
		URL     string        `long:"url" env:"URL" description:"database url, stores learned samples if set"`
		GID     string        `long:"gid" env:"GID" default:"nbclass" description:"group id of samples in database"`
		Presets bool          `long:"presets" env:"PRESETS" description:"import samples files into database as presets"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"5s" description:"database operation timeout"`
	} `group:"db" namespace:"db" env-namespace:"DB"`

	Server struct {
		Enabled    bool          `long:"enabled" env:"ENABLED" description:"enable web server"`
		ListenAddr string        `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthPasswd string        `long:"auth" env:"AUTH" default:"" description:"basic auth password for user nbclass"`
		RateLimit  float64       `long:"rate-limit" env:"RATE_LIMIT" default:"50" description:"max requests per second per client"`
		CacheTTL   time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"5m" description:"classification cache ttl, 0 to disable"`
		CacheSize  int           `long:"cache-size" env:"CACHE_SIZE" default:"1000" description:"max cached classifications"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable classification rotated logs"`
		FileName   string `long:"file" env:"FILE" default:"nbclass.log" description:"location of classification log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`

	Args struct {
		Texts []string `positional-arg-name:"text" description:"texts to classify"`
	} `positional-args:"yes"`
}

var revision = "local"

func main() {
	fmt.Printf("nbclass %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Server.AuthPasswd)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, opts, os.Stdout); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options, out io.Writer) error {
	tr, closeStore, err := makeTrainer(ctx, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	if len(opts.Files.Test) > 0 {
		rep, err := tr.Evaluate(ctx, opts.Files.Test)
		if err != nil {
			return fmt.Errorf("can't evaluate: %w", err)
		}
		printReport(out, rep)
	}

	for _, text := range opts.Args.Texts {
		res, err := tr.Classify(text)
		if err != nil {
			return fmt.Errorf("can't classify %q: %w", text, err)
		}
		printResult(out, res)
	}

	if !opts.Server.Enabled {
		return nil
	}

	if opts.Files.Watch {
		go func() {
			if err := tr.Watch(ctx); err != nil {
				log.Printf("[WARN] samples file watcher failed: %v", err)
			}
		}()
	}

	auditLog, err := makeAuditLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make classification log writer: %w", err)
	}
	defer auditLog.Close()

	srv := webapi.NewServer(webapi.Config{
		Version:    revision,
		ListenAddr: opts.Server.ListenAddr,
		Trainer:    tr,
		AuthPasswd: opts.Server.AuthPasswd,
		RateLimit:  opts.Server.RateLimit,
		CacheTTL:   opts.Server.CacheTTL,
		CacheSize:  opts.Server.CacheSize,
		AuditLog:   auditLog,
	})
	return srv.Run(ctx)
}

// makeTrainer makes the trainer with samples loaded, from files or storage.
// The returned func closes the storage and must be called when the trainer is not used anymore.
func makeTrainer(ctx context.Context, opts options) (*trainer.Trainer, func(), error) {
	nop := func() {}
	patterns, err := makePatterns(opts)
	if err != nil {
		return nil, nop, err
	}
	classes, err := makeClasses(opts)
	if err != nil {
		return nil, nop, err
	}
	params := trainer.Config{
		Classes:    classes,
		Patterns:   patterns,
		Matcher:    makeMatcher(opts.Matcher),
		WatchDelay: opts.Files.WatchInterval,
	}

	closeStore := nop
	if opts.DB.URL != "" {
		db, err := engine.New(ctx, opts.DB.URL, opts.DB.GID)
		if err != nil {
			return nil, nop, fmt.Errorf("can't make db engine: %w", err)
		}
		closeStore = func() {
			if err := db.Close(); err != nil {
				log.Printf("[WARN] can't close db: %v", err)
			}
		}
		samples, err := storage.NewSamples(ctx, db)
		if err != nil {
			closeStore()
			return nil, nop, fmt.Errorf("can't make samples storage: %w", err)
		}
		if err := setupStore(ctx, opts, samples, &params); err != nil {
			closeStore()
			return nil, nop, err
		}
	} else {
		params.Updaters = make([]trainer.SampleUpdater, len(classes))
		for i, cls := range classes {
			if cls.DynamicFile != "" {
				params.Updaters[i] = trainer.NewFileUpdater(cls.DynamicFile)
			}
		}
	}

	tr, err := trainer.New(params)
	if err != nil {
		closeStore()
		return nil, nop, fmt.Errorf("can't make trainer: %w", err)
	}
	if _, err := tr.Reload(ctx); err != nil {
		closeStore()
		return nil, nop, fmt.Errorf("can't load samples: %w", err)
	}
	log.Printf("[INFO] classifier ready, classes: %v, features: %d", tr.ClassNames(), len(patterns))
	return tr, closeStore, nil
}

// setupStore wires samples storage to the trainer. With presets all samples files are imported
// into storage and loaded from there, otherwise storage keeps learned samples only.
func setupStore(ctx context.Context, opts options, samples *storage.Samples, params *trainer.Config) error {
	params.Store = samples
	params.StoreOrigin = storage.SampleOriginUser
	params.Updaters = make([]trainer.SampleUpdater, len(params.Classes))
	for i := range params.Classes {
		params.Updaters[i] = storage.NewSampleUpdater(samples, i, opts.DB.Timeout)
	}
	if !opts.DB.Presets {
		return nil
	}

	params.StoreOrigin = storage.SampleOriginAny
	for i, cls := range params.Classes {
		if err := importPresets(ctx, samples, cls.SamplesFile, i); err != nil {
			return err
		}
		params.Classes[i].SamplesFile = ""
		params.Classes[i].DynamicFile = ""
	}
	st, err := samples.Stats(ctx)
	if err != nil {
		return fmt.Errorf("can't get samples stats: %w", err)
	}
	log.Printf("[INFO] samples in database: %s", st)
	return nil
}

// importPresets replaces preset samples of the class with cleaned lines of the file
func importPresets(ctx context.Context, samples *storage.Samples, file string, class int) error {
	lines, err := textprep.ReadFile(file)
	if err != nil {
		return fmt.Errorf("can't read presets: %w", err)
	}
	r := strings.NewReader(strings.Join(lines, "\n"))
	if _, err := samples.Import(ctx, class, storage.SampleOriginPreset, r, true); err != nil {
		return fmt.Errorf("can't import presets from %s: %w", file, err)
	}
	log.Printf("[DEBUG] imported %d presets for class %d from %s", len(lines), class, file)
	return nil
}

// makePatterns returns explicit patterns or the named vocabulary. Explicit literal patterns
// are cleaned the same way as classified text, regexp patterns are used as is.
func makePatterns(opts options) ([]string, error) {
	if len(opts.Patterns) > 0 && opts.Matcher == "regexp" {
		return opts.Patterns, nil
	}
	if len(opts.Patterns) > 0 {
		res := make([]string, 0, len(opts.Patterns))
		for _, p := range opts.Patterns {
			clean := textprep.Clean(p)
			if clean == "" {
				return nil, fmt.Errorf("pattern %q is empty after cleanup", p)
			}
			res = append(res, clean)
		}
		return res, nil
	}
	res, err := nbayes.ParseVocabulary(opts.Vocabulary, textprep.Upper(opts.Alphabet))
	if err != nil {
		return nil, fmt.Errorf("can't make vocabulary: %w", err)
	}
	return res, nil
}

// makeClasses pairs samples files with names and dynamic files
func makeClasses(opts options) ([]trainer.Class, error) {
	n := len(opts.Files.Samples)
	if len(opts.Names) > n {
		return nil, fmt.Errorf("%d class names for %d samples files", len(opts.Names), n)
	}
	if len(opts.Files.Dynamic) > n {
		return nil, fmt.Errorf("%d dynamic files for %d samples files", len(opts.Files.Dynamic), n)
	}
	res := make([]trainer.Class, n)
	for i, file := range opts.Files.Samples {
		res[i] = trainer.Class{Name: strconv.Itoa(i), SamplesFile: file}
		if i < len(opts.Names) && opts.Names[i] != "" {
			res[i].Name = opts.Names[i]
		}
		if i < len(opts.Files.Dynamic) {
			res[i].DynamicFile = opts.Files.Dynamic[i]
		}
	}
	return res, nil
}

func makeMatcher(name string) nbayes.Matcher {
	switch name {
	case "fold":
		return nbayes.FoldMatcher{}
	case "regexp":
		return nbayes.NewRegexpMatcher()
	}
	return nbayes.SubstringMatcher{}
}

func printResult(w io.Writer, res trainer.Result) {
	fmt.Fprintf(w, "%-30s -> ", textprep.Truncate(res.Text, textprep.DisplayWidth))
	color.New(color.FgGreen).Fprintf(w, "%s", res.Name)
	fmt.Fprintf(w, " (%.4f)\n", res.Posterior)
}

// printReport prints accuracy, per-class recall and precision, confusion matrix and misclassified examples
func printReport(w io.Writer, rep trainer.Report) {
	color.New(color.FgYellow).Fprintf(w, "accuracy: %.2f%% (%d of %d)\n", 100*rep.Accuracy(), rep.Correct, rep.Total)
	for i, name := range rep.Classes {
		fmt.Fprintf(w, "  %-12s recall: %6.2f%%, precision: %6.2f%%\n", name, 100*rep.Recall(i), 100*rep.Precision(i))
	}

	fmt.Fprintf(w, "confusion, rows are expected classes:\n%-14s", "")
	for _, name := range rep.Classes {
		fmt.Fprintf(w, "%12s", name)
	}
	fmt.Fprintln(w)
	for i, row := range rep.Confusion {
		fmt.Fprintf(w, "  %-12s", rep.Classes[i])
		for _, n := range row {
			fmt.Fprintf(w, "%12d", n)
		}
		fmt.Fprintln(w)
	}

	for _, r := range rep.Results {
		if r.Expected == r.Predicted {
			continue
		}
		fmt.Fprintf(w, "%-30s ", textprep.Truncate(r.Text, textprep.DisplayWidth))
		color.New(color.FgRed).Fprintf(w, "expected %s, got %s (%.4f)\n",
			rep.Classes[r.Expected], rep.Classes[r.Predicted], r.Posterior)
	}
}

// makeAuditLogWriter creates classification log writer to keep records about classified texts
// it parses options and makes lumberjack logger with rotation
func makeAuditLogWriter(opts options) (accessLog io.WriteCloser, err error) {
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
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// sizeParse parses sizes like 10K, 100M or 1G, plain numbers are bytes
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

	var nonEmpty []string
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
