package unitconv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// reservedFlags are flag names a unit code may not take over.
var reservedFlags = map[string]bool{
	"help":       true,
	"json":       true,
	"quiet":      true,
	"to":         true,
	"units-file": true,
	"verbose":    true,
	"version":    true,
}

// NewCommand creates the Cobra command tree for unit conversion.
// It can be executed directly or added to a parent CLI's root command.
//
// Commands provided:
//   - unitconv <value> <source-unit> [--<code>]... [--to <unit>]...
//   - unitconv units [category]
//   - unitconv batch [file]
//
// Global flags: --json, --quiet, --units-file
func NewCommand(cfg Config, opts ...ConverterOption) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
		rosterFile string
		targets    targetList
	)

	// Converter will be created in PersistentPreRunE
	var conv Converter

	cmd := &cobra.Command{
		Use:   "unitconv <value> <source-unit> [--<target>]...",
		Short: "Convert values between units",
		Long: `Convert a value from a source unit into one or more target units.

Select targets with one flag per unit (--km, --F, --hex) or with --to, which
accepts any unit code or name. Targets are converted in the order given.
Use -- before a negative value: unitconv --F -- -40 C`,
		Example: `  unitconv 100 F --C
  unitconv 10 km --m --mi
  unitconv 255 dec --hex --bin
  unitconv 3 "metric ton" --to pound`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				_ = cmd.Usage()
				return fmt.Errorf("expected <value> <source-unit>, got %d argument(s): %w", len(args), ErrUsage)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip converter creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			c, copts := cfg, opts
			if rosterFile != "" {
				c.RosterFile = rosterFile
				copts = append(copts[:len(copts):len(copts)], WithRegistry(nil))
			}

			var err error
			conv, err = NewConverter(c, copts...)
			if err != nil {
				return fmt.Errorf("failed to initialize converter: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer targets.reset()

			if len(targets.ids) == 0 {
				_ = cmd.Usage()
				return fmt.Errorf("select at least one target unit: %w", ErrNoTargets)
			}

			outcomes, err := conv.Convert(args[0], args[1], targets.ids...)
			if err != nil {
				return err
			}

			failed, err := outputOutcomes(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], outcomes, jsonOutput, quiet)
			if err != nil {
				return err
			}
			if failed > 0 {
				// Failures were reported line by line already.
				cmd.SilenceErrors = true
				return fmt.Errorf("%d of %d targets failed: %w", failed, len(outcomes), ErrConversionFailed)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Print converted values only")
	cmd.PersistentFlags().StringVar(&rosterFile, "units-file", "", "Load the unit roster from a YAML file")
	cmd.Flags().Var(&toFlag{list: &targets}, "to", "Convert to the named unit (code or name, repeatable)")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%v: %w", err, ErrUsage)
	})

	groups := addUnitFlags(cmd, flagRegistry(cfg, opts), &targets)
	defaultUsage := (&cobra.Command{}).UsageFunc()
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := defaultUsage(c); err != nil {
			return err
		}
		if c != cmd {
			return nil
		}
		return writeFlagGroups(c.OutOrStderr(), groups)
	})

	// Add subcommands
	cmd.AddCommand(unitsCmd(&conv, &jsonOutput))
	cmd.AddCommand(batchCmd(&conv, &jsonOutput, &quiet))

	return cmd
}

// flagRegistry returns the registry target flags are generated from. Roster
// errors are reported later, when the converter is created.
func flagRegistry(cfg Config, opts []ConverterOption) *Registry {
	ccfg := newConverterConfig()
	for _, opt := range opts {
		opt(ccfg)
	}
	if ccfg.registry != nil {
		return ccfg.registry
	}
	if cfg.RosterFile != "" {
		if reg, err := LoadRosterFile(cfg.RosterFile); err == nil {
			return reg
		}
	}
	return DefaultRegistry()
}

// flagGroup is the set of target flags of one category, used for help text.
type flagGroup struct {
	category Category
	flags    *pflag.FlagSet
}

// addUnitFlags registers one target flag per unit on cmd. The flags are hidden
// from the default flag listing and rendered per category instead.
func addUnitFlags(cmd *cobra.Command, reg *Registry, targets *targetList) []flagGroup {
	var groups []flagGroup
	for _, c := range reg.Categories() {
		fs := pflag.NewFlagSet(string(c), pflag.ContinueOnError)
		for _, u := range reg.UnitsIn(c) {
			if reservedFlags[u.Code] || cmd.Flags().Lookup(u.Code) != nil {
				continue
			}
			f := &pflag.Flag{
				Name:        u.Code,
				Usage:       "Convert to " + u.Name,
				Value:       &unitFlag{code: u.Code, list: targets},
				DefValue:    "false",
				NoOptDefVal: "true",
				Hidden:      true,
			}
			cmd.Flags().AddFlag(f)

			shown := *f
			shown.Hidden = false
			fs.AddFlag(&shown)
		}
		if fs.HasFlags() {
			groups = append(groups, flagGroup{category: c, flags: fs})
		}
	}
	return groups
}

// writeFlagGroups renders the per-category target flag sections.
func writeFlagGroups(w io.Writer, groups []flagGroup) error {
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "\n%s Units:\n%s", strings.ToUpper(string(g.category)), g.flags.FlagUsages()); err != nil {
			return err
		}
	}
	return nil
}

// targetList collects target identifiers in command-line order.
type targetList struct {
	ids []string
}

func (l *targetList) add(id string) { l.ids = append(l.ids, id) }

func (l *targetList) reset() { l.ids = nil }

// unitFlag is a boolean flag that appends its unit code each time it is set.
type unitFlag struct {
	code string
	set  bool
	list *targetList
}

func (f *unitFlag) String() string { return strconv.FormatBool(f.set) }

func (f *unitFlag) Set(v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	f.set = b
	if b {
		f.list.add(f.code)
	}
	return nil
}

func (f *unitFlag) Type() string { return "bool" }

// toFlag appends any unit identifier to the target list.
type toFlag struct {
	list *targetList
}

func (f *toFlag) String() string { return "" }

func (f *toFlag) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("empty unit")
	}
	f.list.add(v)
	return nil
}

func (f *toFlag) Type() string { return "unit" }

func unitsCmd(conv *Converter, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "units [category]",
		Short: "List convertible units",
		Long:  "List every unit of the roster grouped by category, or the units of one category.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := (*conv).Registry()

			var units []Unit
			if len(args) == 1 {
				units = reg.UnitsIn(Category(args[0]))
				if units == nil {
					return fmt.Errorf("unknown category %q", args[0])
				}
			} else {
				for _, u := range reg.Units() {
					units = append(units, u)
				}
			}
			return outputUnits(cmd.OutOrStdout(), units, *jsonOutput)
		},
	}
}

func batchCmd(conv *Converter, jsonOutput, quiet *bool) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Convert many values at once",
		Long: `Read conversion requests, one per line, from a file or standard input.

Each line holds a value, a source unit and one or more target units separated
by whitespace, e.g. "10 km m mi". Blank lines and lines starting with # are
skipped. Results are printed in input order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			reqs, lines, err := parseBatch(in)
			if err != nil {
				return err
			}

			results, err := (*conv).ConvertBatch(ctx, reqs, WithConcurrency(concurrency))
			if err != nil {
				return err
			}

			failed, err := outputBatch(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, lines, *jsonOutput, *quiet)
			if err != nil {
				return err
			}
			if failed > 0 {
				cmd.SilenceErrors = true
				return fmt.Errorf("%d of %d requests failed: %w", failed, len(results), ErrConversionFailed)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", DefaultConcurrency, "Number of requests converted in parallel")
	return cmd
}

// parseBatch reads batch requests and the input line number of each.
func parseBatch(r io.Reader) ([]Request, []int, error) {
	var (
		reqs  []Request
		lines []int
	)
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, nil, fmt.Errorf("line %d: expected <value> <source> <target>...: %w", n, ErrUsage)
		}
		reqs = append(reqs, Request{Value: fields[0], Source: fields[1], Targets: fields[2:]})
		lines = append(lines, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading batch input: %w", err)
	}
	return reqs, lines, nil
}

// Output helpers

// outcomeJSON is the JSON form of one conversion outcome.
type outcomeJSON struct {
	Line   int    `json:"line,omitempty"`
	Input  string `json:"input"`
	Source string `json:"source"`
	Target string `json:"target"`
	Value  string `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
}

// outputOutcomes writes successful outcomes to w and failures to errw.
// Returns the number of failed outcomes.
func outputOutcomes(w, errw io.Writer, value, source string, outcomes []Outcome, asJSON, quiet bool) (int, error) {
	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}

	if asJSON {
		out := make([]outcomeJSON, 0, len(outcomes))
		for _, o := range outcomes {
			out = append(out, toOutcomeJSON(0, value, source, o))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return failed, enc.Encode(out)
	}

	for _, o := range outcomes {
		writeOutcome(w, errw, o, quiet)
	}
	return failed, nil
}

// outputBatch writes every batch result in order. Returns the number of
// requests with at least one failure.
func outputBatch(w, errw io.Writer, results []BatchResult, lines []int, asJSON, quiet bool) (int, error) {
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}

	if asJSON {
		out := []outcomeJSON{}
		for i, r := range results {
			if r.Err != nil {
				out = append(out, outcomeJSON{
					Line:   lines[i],
					Input:  r.Request.Value,
					Source: r.Request.Source,
					Error:  r.Err.Error(),
				})
				continue
			}
			for _, o := range r.Outcomes {
				out = append(out, toOutcomeJSON(lines[i], r.Request.Value, r.Request.Source, o))
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return failed, enc.Encode(out)
	}

	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(errw, "Error: line %d: %v\n", lines[i], r.Err)
			continue
		}
		for _, o := range r.Outcomes {
			writeOutcome(w, errw, o, quiet)
		}
	}
	return failed, nil
}

func writeOutcome(w, errw io.Writer, o Outcome, quiet bool) {
	switch {
	case o.Err != nil:
		fmt.Fprintf(errw, "Error: %v\n", o.Err)
	case quiet:
		fmt.Fprintln(w, o.Result.Value)
	default:
		fmt.Fprintln(w, Format(*o.Result))
	}
}

// toOutcomeJSON converts an outcome. Successful outcomes report resolved unit
// codes, failed ones the identifiers as requested.
func toOutcomeJSON(line int, value, source string, o Outcome) outcomeJSON {
	if o.Err != nil {
		return outcomeJSON{Line: line, Input: value, Source: source, Target: o.Target, Error: o.Err.Error()}
	}
	return outcomeJSON{
		Line:   line,
		Input:  value,
		Source: o.Result.Source.Code,
		Target: o.Result.Target.Code,
		Value:  o.Result.Value.String(),
	}
}

// unitJSON is the JSON form of a registry entry.
type unitJSON struct {
	Category Category `json:"category"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
}

func outputUnits(w io.Writer, units []Unit, asJSON bool) error {
	if asJSON {
		out := make([]unitJSON, 0, len(units))
		for _, u := range units {
			out = append(out, unitJSON{Category: u.Category, Code: u.Code, Name: u.Name})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCODE\tNAME")
	for _, u := range units {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Category, u.Code, u.Name)
	}
	return tw.Flush()
}
