package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"skillbridge/gap-analyzer/internal/config"
	"skillbridge/gap-analyzer/internal/models"
	"skillbridge/gap-analyzer/internal/services"
)

// app keeps stdout for the transcript or JSON only; tables, progress and
// errors go to stderr.
type app struct {
	stdout      io.Writer
	stderr      io.Writer
	newAnalyzer func(cfg *config.Config, log zerolog.Logger) services.AnalyzerService
}

func main() {
	a := &app{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		newAnalyzer: newGeminiAnalyzer,
	}
	os.Exit(a.run(os.Args[1:]))
}

func newGeminiAnalyzer(cfg *config.Config, log zerolog.Logger) services.AnalyzerService {
	geminiService := services.NewGeminiService(services.GeminiOptions{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		TopK:        cfg.Gemini.TopK,
		TopP:        cfg.Gemini.TopP,
	}, log)
	return services.NewAnalyzerService(services.NewDocumentEncoder(), geminiService, log)
}

func (a *app) run(args []string) int {
	var (
		resumePath string
		targetRole string
		outputPath string
		asJSON     bool
	)
	flags := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	flags.SetOutput(a.stderr)
	flags.StringVarP(&resumePath, "resume", "r", "", "Path to the resume ("+services.AcceptedExtensions()+")")
	flags.StringVarP(&targetRole, "role", "t", "", "Target role, e.g. \"Data Scientist\"")
	flags.StringVarP(&outputPath, "output", "o", "", "Also write the transcript to this file")
	flags.BoolVar(&asJSON, "json", false, "Print the result as JSON instead of a transcript")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if resumePath == "" {
		return a.fail(models.ValidationMissingFile.Message())
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return a.fail(err.Error())
	}
	log := config.NewLogger(cfg).Output(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.TimeOnly})

	session := services.NewAnalysisSession(a.newAnalyzer(cfg, log), log)

	doc, err := services.NewDocumentSource().FromPath(resumePath)
	if err != nil {
		return a.fail(err.Error())
	}
	if verr := session.SelectDocument(doc); !verr.IsNone() {
		return a.fail(verr.Message())
	}
	a.printDocumentSummary(services.NewDocumentInspector(), doc)

	if verr := session.SetRole(targetRole); !verr.IsNone() {
		return a.fail(verr.Message())
	}

	fmt.Fprintln(a.stderr, color.Cyan.Sprintf("🔍 Analyzing resume for %q...", targetRole))
	if err := session.Submit(context.Background()); err != nil {
		var verr models.ValidationError
		if errors.As(err, &verr) {
			return a.fail(verr.Message())
		}
		return a.fail(services.FailureMessage(err))
	}

	state := session.State()
	transcript := services.FormatTranscript(state.AnalyzedRole, state.Result)
	if asJSON {
		out, err := json.MarshalIndent(state.Result, "", "  ")
		if err != nil {
			return a.fail(err.Error())
		}
		fmt.Fprintln(a.stdout, string(out))
	} else {
		fmt.Fprint(a.stdout, transcript)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(transcript), 0o644); err != nil {
			return a.fail(fmt.Sprintf("failed to write transcript: %v", err))
		}
		fmt.Fprintln(a.stderr, color.Green.Sprintf("✅ Transcript saved to %s", outputPath))
	}
	return 0
}

func (a *app) printDocumentSummary(inspector services.DocumentInspector, doc models.CandidateDocument) {
	info, err := inspector.Inspect(doc)
	if err != nil {
		fmt.Fprintln(a.stderr, color.Yellow.Sprintf("⚠️  Could not inspect %s: %v", doc.DisplayName, err))
	}

	table := tablewriter.NewWriter(a.stderr)
	table.SetHeader([]string{"File", "Type", "Size", "Pages", "Words"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.Append([]string{
		info.DisplayName,
		info.Extension,
		formatSize(info.SizeBytes),
		countOrDash(info.PageCount),
		countOrDash(info.WordCount),
	})
	table.Render()
	fmt.Fprintln(a.stderr)
}

func formatSize(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func countOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func (a *app) fail(message string) int {
	fmt.Fprintln(a.stderr, color.New(color.FgRed, color.OpBold).Render("❌ "+message))
	return 1
}
