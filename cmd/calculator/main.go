package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/calculator/internal/batch"
	"github.com/karupanerura/calculator/internal/expression"
	"github.com/karupanerura/calculator/internal/server"
	"github.com/karupanerura/calculator/internal/types"
	"github.com/mattn/go-isatty"
)

type Option struct {
	Exprs  []string `short:"e" long:"expr" description:"[OPTIONAL] Expression to evaluate (repeatable)" required:"false"`
	File   string   `short:"f" long:"file" description:"[OPTIONAL] Batch file of expressions (.json, .yaml)" required:"false"`
	Listen string   `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the evaluation API" required:"false"`
	Debug  bool     `long:"debug" description:"[OPTIONAL] Log tokens and parsed trees"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] [--] [EXPRESSION...]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}
	exprs := append(opt.Exprs, rest...)

	modes := 0
	for _, enabled := range []bool{len(exprs) != 0, opt.File != "", opt.Listen != ""} {
		if enabled {
			modes++
		}
	}
	if modes > 1 {
		parser.WriteHelp(stdout)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// server mode
	if opt.Listen != "" {
		if err := serve(ctx, opt.Listen); err != nil {
			log.Printf("failed to serve: %v", err)
			return 1
		}
		return 0
	}

	// batch mode
	if opt.File != "" {
		return runBatch(ctx, opt.File, stdout)
	}

	if len(exprs) == 0 {
		if f, ok := stdin.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
			parser.WriteHelp(stdout)
			return 1
		}

		exprs, err = readLines(stdin)
		if err != nil {
			log.Printf("failed to read expressions: %v", err)
			return 1
		}
		if len(exprs) == 0 {
			parser.WriteHelp(stdout)
			return 1
		}
	}

	parseExpr := expression.ParseExpr
	if opt.Debug {
		parseExpr = expression.ParseExprWithDebugOutput
	}

	status := 0
	for _, source := range exprs {
		ret, err := evaluate(parseExpr, source)
		if err != nil {
			status = 1
			dumpError(stderr, err)
			continue
		}
		if _, err = fmt.Fprintln(stdout, strconv.FormatInt(ret, 10)); err != nil {
			log.Printf("failed to write result: %v", err)
			return 1
		}
	}
	return status
}

func evaluate(parseExpr func(string) (*expression.Expr, error), source string) (int64, error) {
	expr, err := parseExpr(source)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate()
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Scan: %w", err)
	}
	return lines, nil
}

func runBatch(ctx context.Context, filePath string, stdout io.Writer) int {
	b, err := loadBatch(filePath)
	if err != nil {
		log.Printf("failed to load batch: %v", err)
		return 1
	}

	results, err := b.Execute(ctx)
	if err != nil {
		log.Printf("failed to execute batch: %v", err)
		return 1
	}
	if err = dumpJSON(stdout, results); err != nil {
		log.Printf("failed to dump batch results: %v", err)
		return 1
	}

	if failed := batch.Failed(results); len(failed) != 0 {
		log.Printf("%d of %d expressions failed", len(failed), len(results))
		return 1
	}
	return 0
}

func loadBatch(filePath string) (*batch.Batch, error) {
	var parseBatch func(io.Reader) (*batch.Batch, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseBatch = batch.ParseBatchJSON
	case ".yaml", ".yml":
		parseBatch = batch.ParseBatchYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	b, err := parseBatch(f)
	if err != nil {
		return nil, fmt.Errorf("batch.ParseBatch: %w", err)
	}
	return b, nil
}

func serve(ctx context.Context, listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Printf("failed to shutdown: %v", err)
		}
	}()

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpError(w io.Writer, err error) {
	if _, writeErr := fmt.Fprintln(w, err.Error()); writeErr != nil {
		log.Printf("failed to dump error: %v", writeErr)
	}

	var exception types.Exception
	if errors.As(err, &exception) {
		if dumpErr := dumpJSON(w, exception.Exception()); dumpErr != nil {
			log.Printf("failed to dump error as JSON: %v", dumpErr)
		}
	}
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
