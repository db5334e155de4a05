package config

// This file implements CLI flag parsing and help text for the movetrace
// binary. Flags are grouped into pose, retry, display, and utility.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/backmassage/movetrace/internal/pose"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing input path).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("movetrace", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var util utilityFlags

	definePoseFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &util)
	defineUtilityFlags(fs, &util)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if util.noColor {
		cfg.ColorMode = ColorNever
	} else if util.forceColor {
		cfg.ColorMode = ColorAlways
	}

	if util.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if util.showVersion {
		fmt.Fprintln(os.Stdout, "movetrace v"+version)
		os.Exit(0)
	}

	if configPath := util.configFile; configPath != "" {
		if err := LoadFile(configPath, cfg); err != nil {
			return err
		}
	}

	return parsePositionalArgs(fs, cfg)
}

// utilityFlags holds flags that are applied after Parse or trigger an exit.
type utilityFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
	configFile  string
}

// definePoseFlags registers estimator tuning flags.
func definePoseFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Float64Var(&cfg.DetectionConfidence, "detection-confidence", cfg.DetectionConfidence,
		"Minimum pose detection confidence [0, 1]")
	fs.Float64Var(&cfg.TrackingConfidence, "tracking-confidence", cfg.TrackingConfidence,
		"Minimum pose tracking confidence [0, 1]")
	fs.Var(&complexityValue{&cfg.ModelComplexity}, "complexity", "Model complexity: lite | full | heavy")
	fs.StringVar(&cfg.ModelDir, "model-dir", cfg.ModelDir, "Directory holding landmark model files")
}

// defineBehaviorFlags registers retry and output flags.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "Attempts per job before giving up")
	fs.StringVar(&cfg.OutputPath, "output", "", "Output video path (default: <input>_analyzed.mp4)")
	fs.StringVar(&cfg.OutputPath, "o", "", "Same as --output")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&u.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&u.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --config, --version, and --help.
func defineUtilityFlags(fs *flag.FlagSet, u *utilityFlags) {
	fs.StringVar(&u.configFile, "config", "", "Load analyzer settings from a YAML file")
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

// parsePositionalArgs sets InputPath from the single positional arg when not
// in CheckOnly mode, deriving OutputPath when --output was not given.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input video path")
	}
	cfg.InputPath = args[0]
	if cfg.OutputPath == "" {
		cfg.OutputPath = DeriveOutputPath(cfg.InputPath)
	}
	return nil
}

// --- flag.Value wrappers for enum fields ---

type complexityValue struct{ c *pose.Complexity }

func (v *complexityValue) String() string {
	if v.c == nil {
		return ""
	}
	return string(*v.c)
}

func (v *complexityValue) Set(s string) error {
	switch pose.Complexity(strings.ToLower(s)) {
	case pose.ComplexityLite, pose.ComplexityFull, pose.ComplexityHeavy:
		*v.c = pose.Complexity(strings.ToLower(s))
		return nil
	}
	return fmt.Errorf("invalid complexity %q (use lite, full, or heavy)", s)
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "movetrace v" + version + " — body-pose video analyzer"},
		{"", ""},
		{"  movetrace [OPTIONS] <input_video>", ""},
		{"", ""},
		{"Pose estimation", ""},
		{"  --detection-confidence <f>", "Minimum detection confidence (default: 0.5)"},
		{"  --tracking-confidence <f>", "Minimum tracking confidence (default: 0.5)"},
		{"  --complexity <lite|full|heavy>", "Landmark model complexity (default: full)"},
		{"  --model-dir <dir>", "Landmark model directory (default: models)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -o, --output <path>", "Output video path (default: <input>_analyzed.mp4)"},
		{"  --max-retries <n>", "Attempts per job before giving up (default: 3)"},
		{"  --config <file>", "Load analyzer settings from a YAML file"},
		{"", ""},
		{"Display & logging", ""},
		{"  --color / --no-color", "Force or disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  -l, --log <file>", "Append logs to file"},
		{"", ""},
		{"Utility", ""},
		{"  -c, --check", "Run system diagnostics and exit"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help"},
	}

	const col1 = 34
	for _, l := range lines {
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		pad := col1 - len(l.flags)
		if pad < 2 {
			pad = 2
		}
		fmt.Fprintf(os.Stderr, "%s%s%s\n", l.flags, strings.Repeat(" ", pad), l.desc)
	}
}
