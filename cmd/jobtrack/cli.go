package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtrack"
	jthttp "github.com/fwojciec/jobtrack/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Postings  jobtrack.PostingService
	Records   jobtrack.RecordService
	Processor jthttp.Processor
	Importer  jthttp.Importer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log debug output"`
	DB      string `env:"JOBTRACK_DB" help:"Database path (default ~/.jobtrack/jobtrack.db)"`

	Backend   string        `env:"JOBTRACK_BACKEND" enum:"openai,gemini" default:"openai" help:"Completion backend (openai, gemini)"`
	BaseURL   string        `name:"base-url" env:"OPENAI_BASE_URL" default:"${openai_base_url}" help:"OpenAI-compatible API base URL"`
	APIKey    string        `name:"api-key" env:"OPENAI_API_KEY" default:"${openai_token}" help:"OpenAI-compatible API key"`
	GeminiKey string        `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Model     string        `env:"JOBTRACK_MODEL" help:"Completion model (backend default if empty)"`
	Timeout   time.Duration `env:"JOBTRACK_TIMEOUT" default:"${timeout}" help:"Bound on each completion call"`
	RPS       float64       `name:"rps" env:"JOBTRACK_RPS" default:"0" help:"Completion calls per second (0 for unlimited)"`
	Retry     bool          `env:"JOBTRACK_RETRY" help:"Retry completion calls when the service is unavailable"`

	Concurrency  int           `short:"c" env:"JOBTRACK_CONCURRENCY" default:"1" help:"Postings processed at once by process-all"`
	FetchTimeout time.Duration `name:"fetch-timeout" default:"30s" help:"Bound on browser page loads"`

	Serve      ServeCmd      `cmd:"" help:"Serve the HTTP API"`
	Submit     SubmitCmd     `cmd:"" help:"Store a posting from a file or stdin"`
	Import     ImportCmd     `cmd:"" help:"Store a posting fetched from a URL"`
	Process    ProcessCmd    `cmd:"" help:"Extract the record for one posting"`
	ProcessAll ProcessAllCmd `cmd:"" name:"process-all" help:"Extract records for every unprocessed posting"`
	Records    RecordsCmd    `cmd:"" help:"List extracted records"`
	Show       ShowCmd       `cmd:"" help:"Show one record"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string `env:"JOBTRACK_ADDR" default:":5000" help:"Listen address"`
	Browser bool   `help:"Allow imports to render pages in a headless browser"`
}

// SubmitCmd is the "submit" subcommand.
type SubmitCmd struct {
	File   string `arg:"" optional:"" help:"File with the posting text (stdin if omitted or -)"`
	Source string `short:"s" enum:"linkedin,web" default:"linkedin" help:"Where the text came from (linkedin, web)"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	URL     string `arg:"" help:"Job posting URL"`
	Browser bool   `short:"b" help:"Render the page in a headless browser"`
}

// ProcessCmd is the "process" subcommand.
type ProcessCmd struct {
	ID string `arg:"" help:"Posting ID"`
}

// ProcessAllCmd is the "process-all" subcommand.
type ProcessAllCmd struct{}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	Limit  int `short:"n" default:"20" help:"Maximum records to list"`
	Offset int `help:"Records to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Record ID"`
	JSON bool   `help:"Print the record as JSON"`
}
