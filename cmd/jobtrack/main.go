package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/jobtrack"
	"github.com/fwojciec/jobtrack/extract"
	"github.com/fwojciec/jobtrack/gemini"
	"github.com/fwojciec/jobtrack/goquery"
	"github.com/fwojciec/jobtrack/htmltomarkdown"
	jthttp "github.com/fwojciec/jobtrack/http"
	"github.com/fwojciec/jobtrack/ingest"
	"github.com/fwojciec/jobtrack/openai"
	"github.com/fwojciec/jobtrack/readability"
	"github.com/fwojciec/jobtrack/rod"
	jtslog "github.com/fwojciec/jobtrack/slog"
	"github.com/fwojciec/jobtrack/sqlite"
	"github.com/fwojciec/jobtrack/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// Stdin is read by the submit command when no file is given.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	PostingService jobtrack.PostingService
	RecordService  jobtrack.RecordService

	// Extractor replaces the configured completion backend when set.
	Extractor jobtrack.FieldExtractor

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	for i := len(m.closers) - 1; i >= 0; i-- {
		_ = m.closers[i].Close()
	}
	m.closers = nil
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jobtrack"),
		kong.Description("Extract structured records from job postings."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"openai_base_url": openai.DefaultBaseURL,
			"openai_token":    openai.DefaultToken,
			"timeout":         extract.DefaultTimeout.String(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'jobtrack --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := newLogger(stderr, cli.Verbose)
	deps.Logger = logger

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set JOBTRACK_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.PostingService = sqlite.NewPostingService(m.DB)
	m.RecordService = jtslog.NewLoggingRecordService(sqlite.NewRecordService(m.DB), logger)
	deps.Postings = m.PostingService
	deps.Records = m.RecordService

	switch cmd {
	case "serve", "process", "process-all":
		extractor := m.Extractor
		if extractor == nil {
			extractor, err = newExtractor(ctx, cli, stderr)
			if err != nil {
				return err
			}
		}
		deps.Processor = newProcessor(cli, m.PostingService, m.RecordService, jtslog.NewLoggingFieldExtractor(extractor, logger))
	}

	switch cmd {
	case "serve", "import":
		browser := (cmd == "serve" && cli.Serve.Browser) || (cmd == "import" && cli.Import.Browser)
		importer, err := m.newImporter(cli, logger, browser)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return err
		}
		deps.Importer = importer
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newExtractor(ctx context.Context, cli *CLI, stderr io.Writer) (jobtrack.FieldExtractor, error) {
	switch cli.Backend {
	case "gemini":
		if cli.GeminiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewFieldExtractor(client, firstNonEmpty(cli.Model, gemini.DefaultModel)), nil
	default:
		extractor, err := openai.NewFieldExtractor(cli.BaseURL, cli.APIKey, firstNonEmpty(cli.Model, openai.DefaultModel))
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Check OPENAI_BASE_URL (%s) points at an OpenAI-compatible server\n", cli.BaseURL)
			return nil, fmt.Errorf("failed to create completion client: %w", err)
		}
		return extractor, nil
	}
}

func newProcessor(cli *CLI, postings jobtrack.PostingService, records jobtrack.RecordService, extractor jobtrack.FieldExtractor) *extract.Processor {
	p := &extract.Processor{
		Postings:    postings,
		Records:     records,
		Extractor:   extractor,
		Normalizers: jobtrack.DefaultNormalizers(),
		Timeout:     cli.Timeout,
		Concurrency: cli.Concurrency,
	}
	if cli.RPS > 0 {
		p.RateLimiter = extract.NewLimiter(cli.RPS)
	}
	if cli.Retry {
		p.RetryDelays = extract.DefaultRetryDelays()
	}
	return p
}

func (m *Main) newImporter(cli *CLI, logger *slog.Logger, browser bool) (*ingest.Importer, error) {
	fetcher := jthttp.NewFetcher()
	m.closers = append(m.closers, fetcher)

	importer := &ingest.Importer{
		Postings:  m.PostingService,
		Fetcher:   jtslog.NewLoggingFetcher(fetcher, logger),
		Extractor: trafilatura.NewExtractor(),
		Fallback:  readability.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
		Inspector: goquery.NewInspector(),
	}

	if browser {
		b, err := rod.NewFetcher(rod.WithFetchTimeout(cli.FetchTimeout))
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, b)
		importer.Browser = jtslog.NewLoggingFetcher(b, logger)
	}
	return importer, nil
}

// Ensure the CLI's collaborators satisfy the server's interfaces.
var (
	_ jthttp.Processor = (*extract.Processor)(nil)
	_ jthttp.Importer  = (*ingest.Importer)(nil)
)

func defaultDBPath() string {
	if path := os.Getenv("JOBTRACK_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobtrack.db"
	}
	dir := filepath.Join(home, ".jobtrack")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "jobtrack.db")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
