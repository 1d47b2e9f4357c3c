package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/meenmo/optlib/config"
	"github.com/meenmo/optlib/registry"
)

const usage = "Usage: optprice [-config <path>] [-format json|yaml] -input <path>"

func main() {
	inputPath := flag.String("input", "", "request file path (reads stdin if omitted)")
	configPath := flag.String("config", "", "config file path (YAML, JSON or TOML)")
	format := flag.String("format", "", "request format: json or yaml (default by extension, else json)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "Price option, future and bond requests with the analytic, Monte Carlo, tree and PDE engines.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		exitError(fmt.Sprintf("load config: %v", err))
	}
	log := newLogger(cfg)
	decimal.MarshalJSONWithoutQuotes = true

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}
	inputs, isArray, err := parseInputs(raw, inputFormat(*format, path))
	if err != nil {
		exitError(fmt.Sprintf("parse input: %v", err))
	}

	start := time.Now()
	outputs, failed := run(cfg, log, inputs)
	log.Info().
		Int("requests", len(inputs)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("batch priced")

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := cfg.Level()
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Str("app", "optprice").Logger()
}

// run prices inputs with at most cfg.Workers in flight. Outputs keep input
// order; the second result counts failed requests.
func run(cfg config.Config, log zerolog.Logger, inputs []taskInput) ([]taskOutput, int) {
	reg := registry.New(registry.Options{Logger: log, Defaults: cfg.Pricing})
	f := formatter{precision: cfg.Precision}
	outputs := make([]taskOutput, len(inputs))
	failures := make([]bool, len(inputs))

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, in := range inputs {
		i, in := i, in
		if in.TaskID == "" {
			in.TaskID = uuid.New().String()
		}
		if cfg.DistinctStreams && in.Stream == 0 {
			in.Stream = uint64(i)
		}
		g.Go(func() error {
			out, err := process(reg, f, in)
			log.Debug().Str("task_id", in.TaskID).Str("key", out.Key).Bool("ok", err == nil).Msg("request done")
			if err != nil {
				failures[i] = true
				log.Warn().Str("task_id", in.TaskID).Err(err).Msg("request failed")
				outputs[i] = taskOutput{TaskID: in.TaskID, Error: err.Error()}
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, bad := range failures {
		if bad {
			failed++
		}
	}
	return outputs, failed
}

func process(reg *registry.Registry, f formatter, in taskInput) (taskOutput, error) {
	req, err := toRequest(in)
	if err != nil {
		return taskOutput{}, err
	}
	res, err := reg.Price(req)
	if err != nil {
		return taskOutput{}, err
	}
	return f.result(in.TaskID, req, res), nil
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func inputFormat(flagValue, path string) string {
	if f := strings.ToLower(strings.TrimSpace(flagValue)); f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// parseInputs accepts a single request or an array of them. The boolean
// reports whether the input was an array.
func parseInputs(raw []byte, format string) ([]taskInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}

	var unmarshal func([]byte, any) error
	var isArray bool
	switch format {
	case "json":
		unmarshal = json.Unmarshal
		isArray = trimmed[0] == '['
	case "yaml":
		unmarshal = yaml.UnmarshalStrict
		// Comments and document markers may precede a sequence.
		var doc any
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, false, err
		}
		_, isArray = doc.([]any)
	default:
		return nil, false, fmt.Errorf("unsupported format %q", format)
	}

	if isArray {
		var inputs []taskInput
		if err := unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input taskInput
	if err := unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []taskInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(taskOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
