package piimask

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/redactyl/piimask/internal/config"
	"github.com/redactyl/piimask/internal/engine"
	"github.com/redactyl/piimask/internal/formats"
	"github.com/redactyl/piimask/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// loadConfig layers, lowest first: global file, local file, --config,
// PIIMASK_* environment, then flags set on the command line.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (config.FileConfig, error) {
	var fc config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		fc = c
	}
	if wd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(wd); err == nil {
			fc = config.Merge(fc, c)
		}
	}
	if g.configPath != "" {
		c, err := config.LoadFile(g.configPath)
		if err != nil {
			return fc, err
		}
		fc = config.Merge(fc, c)
	}
	fc = config.Merge(fc, config.LoadEnv())
	over, err := g.flagConfig(cmd)
	if err != nil {
		return fc, err
	}
	return config.Merge(fc, over), nil
}

func (g *globalFlags) flagConfig(cmd *cobra.Command) (config.FileConfig, error) {
	var fc config.FileConfig
	f := cmd.Flags()
	if f.Changed("threads") {
		fc.Threads = &g.threads
	}
	if f.Changed("no-color") {
		fc.NoColor = &g.noColor
	}
	if f.Changed("log-level") {
		fc.LogLevel = &g.logLevel
	}
	if f.Changed("log-format") {
		fc.LogFormat = &g.logFormat
	}
	if f.Changed("min-confidence") {
		fc.MinConfidence = &g.minConfidence
	}
	if f.Changed("enable") {
		fc.Enable = &g.enable
	}
	if f.Changed("disable") {
		fc.Disable = &g.disable
	}
	if f.Changed("max-depth") {
		fc.MaxDepth = &g.maxDepth
	}
	if f.Changed("error-mode") {
		fc.ErrorMode = &g.errorMode
	}
	fc.Whitelist = g.whitelist
	fc.SkipPaths = g.skipPaths
	if len(g.patterns) > 0 {
		fc.CustomPatterns = map[string]string{}
		for _, p := range g.patterns {
			name, expr, ok := strings.Cut(p, "=")
			name = strings.TrimSpace(name)
			if !ok || name == "" || expr == "" {
				return fc, fmt.Errorf("--pattern %q: want name=regex", p)
			}
			fc.CustomPatterns[name] = expr
		}
	}
	return fc, nil
}

// newSession builds the logger and masking session described by fc.
func newSession(cmd *cobra.Command, fc config.FileConfig) (*engine.Session, *zap.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  deref(fc.LogLevel),
		Format: deref(fc.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	cfg := engine.DefaultConfig()
	fc.Apply(&cfg)
	sess, err := engine.NewSession(cfg, engine.WithLogger(logger.WithComponent(log, "engine")))
	if err != nil {
		return nil, nil, err
	}
	return sess, logger.WithComponent(log, "cli"), nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

const stdinName = "-"

// input is one document read from a file or stdin.
type input struct {
	name   string
	data   []byte
	format formats.Format
	value  any
}

func (in input) display() string {
	if in.name == stdinName {
		return "<stdin>"
	}
	return in.name
}

// readInputs reads every named file, or stdin when args is empty or "-",
// and decodes it with the forced format or the detected one.
func readInputs(cmd *cobra.Command, args []string, forced string) ([]input, error) {
	ff, err := formats.Parse(forced)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		args = []string{stdinName}
	}
	out := make([]input, 0, len(args))
	for _, name := range args {
		var data []byte
		if name == stdinName {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, err
		}
		in, err := decodeInput(name, data, ff)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func decodeInput(name string, data []byte, ff formats.Format) (input, error) {
	in := input{name: name, data: data, format: ff}
	if in.format == "" {
		in.format = formats.Detect(name, data)
	}
	v, err := formats.Decode(in.format, data)
	if err != nil {
		return in, fmt.Errorf("%s: %w", in.display(), err)
	}
	in.value = v
	return in, nil
}

// outputFlags decide where transformed documents go.
type outputFlags struct {
	output  string
	inPlace bool
	copy    bool
	// color highlights documents written to a terminal.
	color bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVarP(&o.inPlace, "in-place", "w", false, "rewrite input files in place")
	cmd.Flags().BoolVar(&o.copy, "copy", false, "also copy the result to the clipboard")
}

func (o *outputFlags) check(inputs []input) error {
	if o.inPlace && o.output != "" {
		return fmt.Errorf("--in-place and --output are mutually exclusive")
	}
	for _, in := range inputs {
		if o.inPlace && in.name == stdinName {
			return fmt.Errorf("--in-place cannot be used with stdin")
		}
	}
	if len(inputs) > 1 && !o.inPlace {
		return fmt.Errorf("%d inputs given: use --in-place to process several files", len(inputs))
	}
	return nil
}

// write encodes v in the input's format and stores it.
func (o *outputFlags) write(cmd *cobra.Command, in input, v any) error {
	b, err := formats.Encode(in.format, v)
	if err != nil {
		return fmt.Errorf("%s: %w", in.display(), err)
	}
	if o.copy {
		if err := clipboard.WriteAll(string(b)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	switch {
	case o.inPlace:
		mode := os.FileMode(0o644)
		if st, err := os.Stat(in.name); err == nil {
			mode = st.Mode().Perm()
		}
		return os.WriteFile(in.name, b, mode)
	case o.output != "":
		return os.WriteFile(o.output, b, 0o644)
	case o.color && in.format != formats.Text:
		return quick.Highlight(cmd.OutOrStdout(), string(b), string(in.format), "terminal256", "monokai")
	default:
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}
}

// useColor reports whether w is a terminal and color was not disabled.
func useColor(w io.Writer, noColor bool) bool {
	return !noColor && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
