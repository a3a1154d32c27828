package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	ringws "github.com/reoring/ringws"
	"github.com/reoring/ringws/i18n"
	"github.com/reoring/ringws/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	commands := map[string]func([]string) error{
		"submit": submitCmd,
		"status": statusCmd,
		"wait":   waitCmd,
		"result": resultCmd,
		"run":    runCmd,
		"decode": decodeCmd,
		"form":   formCmd,
	}
	sub := os.Args[1]
	cmd, ok := commands[sub]
	if !ok {
		if sub == "help" || sub == "-h" || sub == "--help" {
			usage()
			return
		}
		usage()
		os.Exit(2)
	}
	if err := cmd(os.Args[2:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fatalf("ringws %s: %v", sub, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `ringws: client for the RING residue interaction network service

Usage:
  ringws submit [flags] <pdb-id | structure.pdb>
  ringws status [flags] <job-id>
  ringws wait   [flags] <job-id>
  ringws result [flags] [--format summary|json|edges] <job-id>
  ringws run    [flags] [--format summary|json|edges] <pdb-id | structure.pdb>
  ringws decode [flags] --kind submit|status|result <response.json>
  ringws form   [flags] <structure.pdb>

Configuration is read from --config or RINGWS_CONFIG (.yaml, .yml, .json, .jsonc).
RINGWS_LOG_LEVEL sets the log level (default warn).`)
}

// common holds the flags every subcommand accepts.
type common struct {
	configPath string
	baseURL    string
	logFile    string
	logPretty  bool
	lang       string
	failFast   bool
	onDup      string
}

func (c *common) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", os.Getenv("RINGWS_CONFIG"), "config file")
	fs.StringVar(&c.baseURL, "base-url", "", "service URL (overrides config)")
	fs.StringVar(&c.logFile, "log-file", "", "write JSON logs to this file")
	fs.BoolVar(&c.logPretty, "log-pretty", false, "human-readable logs on stderr")
	fs.StringVar(&c.lang, "lang", "en", "language of issue messages (en, ja)")
	fs.BoolVar(&c.failFast, "fail-fast", false, "stop decoding at the first issue")
	fs.StringVar(&c.onDup, "on-duplicate-key", "", "duplicate keys in responses: ignore, warn or error")
}

// config loads the configuration file, if any, and applies flag overrides.
// The returned closer releases the log file.
func (c *common) config() (ringws.Config, io.Closer, error) {
	i18n.SetLanguage(c.lang)
	cfg := ringws.DefaultConfig()
	if c.configPath != "" {
		var err error
		if cfg, err = ringws.LoadConfig(c.configPath); err != nil {
			return cfg, nil, err
		}
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.failFast {
		cfg.Decode.FailFast = true
	}
	if c.onDup != "" {
		if err := cfg.Decode.OnDuplicateKey.UnmarshalText([]byte(c.onDup)); err != nil {
			return cfg, nil, err
		}
	}
	log, closer, err := logger.Init(logger.Options{File: c.logFile, Pretty: c.logPretty})
	if err != nil {
		return cfg, nil, err
	}
	cfg.Logger = &log
	return cfg, closer, nil
}

func (c *common) client() (*ringws.Client, ringws.Config, io.Closer, error) {
	cfg, closer, err := c.config()
	if err != nil {
		return nil, cfg, nil, err
	}
	cl, err := ringws.NewClient(cfg)
	if err != nil {
		_ = closer.Close()
		return nil, cfg, nil, err
	}
	return cl, cfg, closer, nil
}

// settingsFlags override the configured settings when set on the command line.
type settingsFlags struct {
	chain        string
	policy       string
	interactions string
	seqSep       int
	relaxed      bool
	skipHetero   bool
	skipWater    bool
	skipEnergy   bool
	msa          bool
}

func (s *settingsFlags) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.chain, "chain", "", `chain to analyse, a single letter or "all"`)
	fs.StringVar(&s.policy, "policy", "", "network policy: closest, lollipop, ca, cb")
	fs.StringVar(&s.interactions, "interactions", "", "multiple, all, most_energetic or no_specific")
	fs.IntVar(&s.seqSep, "seq-separation", 3, "minimum sequence separation")
	fs.BoolVar(&s.relaxed, "relaxed", false, "use relaxed distance thresholds")
	fs.BoolVar(&s.skipHetero, "skip-hetero", false, "ignore hetero atoms")
	fs.BoolVar(&s.skipWater, "skip-water", true, "ignore water molecules")
	fs.BoolVar(&s.skipEnergy, "skip-energy", true, "skip energy calculation")
	fs.BoolVar(&s.msa, "msa", false, "run the multiple sequence alignment (slow)")
}

func (s *settingsFlags) apply(fs *pflag.FlagSet, base ringws.Settings) (ringws.Settings, error) {
	out := base
	if fs.Changed("chain") {
		c, err := ringws.ParseChain(s.chain)
		if err != nil {
			return out, err
		}
		out.Chain = c
	}
	if fs.Changed("policy") {
		p, err := ringws.ParseNetworkPolicy(s.policy)
		if err != nil {
			return out, err
		}
		out.NetworkPolicy = p
	}
	if fs.Changed("interactions") {
		it, err := ringws.ParseInteractionType(s.interactions)
		if err != nil {
			return out, err
		}
		out.Interactions = it
	}
	if fs.Changed("seq-separation") {
		if s.seqSep < 0 {
			return out, fmt.Errorf("seq-separation must not be negative")
		}
		out.SequenceSeparation = s.seqSep
	}
	if s.relaxed {
		out.Thresholds = ringws.RelaxedThresholds()
	}
	if fs.Changed("skip-hetero") {
		out.SkipHetero = s.skipHetero
	}
	if fs.Changed("skip-water") {
		out.SkipWater = s.skipWater
	}
	if fs.Changed("skip-energy") {
		out.SkipEnergy = s.skipEnergy
	}
	if fs.Changed("msa") {
		out.PerformMSA = s.msa
	}
	return out, nil
}

// submission picks SubmitID for a PDB id and SubmitStructure for a file.
// An existing file always wins over the PDB id interpretation.
func submission(arg string, settings ringws.Settings) (ringws.Request, error) {
	if _, err := os.Stat(arg); err == nil || !ringws.LooksLikePDBID(arg) {
		return ringws.SubmitStructureFromFile(arg, settings)
	}
	return ringws.SubmitID{PDBID: strings.ToLower(arg), Settings: settings}, nil
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func oneArg(fs *pflag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected one %s, got %d arguments", what, fs.NArg())
	}
	return fs.Arg(0), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func submitCmd(args []string) error {
	var c common
	var sf settingsFlags
	fs := newFlagSet("submit")
	c.addFlags(fs)
	sf.addFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := oneArg(fs, "PDB id or structure file")
	if err != nil {
		return err
	}
	cl, cfg, closer, err := c.client()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck
	settings, err := sf.apply(fs, cfg.Settings)
	if err != nil {
		return err
	}
	req, err := submission(target, settings)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	var sub ringws.SubmitResponse
	switch r := req.(type) {
	case ringws.SubmitID:
		sub, err = cl.SubmitID(ctx, r)
	case ringws.SubmitStructure:
		sub, err = cl.SubmitStructure(ctx, r)
	}
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, map[string]string{"jobId": sub.JobID.String(), "status": sub.Status.Token()})
}

func statusCmd(args []string) error {
	return jobCmd("status", args, func(ctx context.Context, cl *ringws.Client, id ringws.JobID) (ringws.StatusResponse, error) {
		return cl.Status(ctx, id)
	})
}

func waitCmd(args []string) error {
	return jobCmd("wait", args, func(ctx context.Context, cl *ringws.Client, id ringws.JobID) (ringws.StatusResponse, error) {
		return cl.Wait(ctx, id)
	})
}

func jobCmd(name string, args []string, call func(context.Context, *ringws.Client, ringws.JobID) (ringws.StatusResponse, error)) error {
	var c common
	fs := newFlagSet(name)
	c.addFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "job id")
	if err != nil {
		return err
	}
	cl, _, closer, err := c.client()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()
	st, err := call(ctx, cl, ringws.JobID(id))
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, statusView(st))
}

func resultCmd(args []string) error {
	var c common
	var format string
	fs := newFlagSet("result")
	c.addFlags(fs)
	fs.StringVar(&format, "format", "summary", "output: summary, json or edges")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "job id")
	if err != nil {
		return err
	}
	cl, _, closer, err := c.client()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()
	res, err := cl.Result(ctx, ringws.JobID(id))
	if err != nil {
		return err
	}
	return writeResult(os.Stdout, res, format)
}

func runCmd(args []string) error {
	var c common
	var sf settingsFlags
	var format string
	fs := newFlagSet("run")
	c.addFlags(fs)
	sf.addFlags(fs)
	fs.StringVar(&format, "format", "summary", "output: summary, json or edges")
	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := oneArg(fs, "PDB id or structure file")
	if err != nil {
		return err
	}
	cl, cfg, closer, err := c.client()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck
	settings, err := sf.apply(fs, cfg.Settings)
	if err != nil {
		return err
	}
	req, err := submission(target, settings)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	res, err := cl.Run(ctx, req)
	if err != nil {
		return err
	}
	return writeResult(os.Stdout, res, format)
}

// decodeCmd decodes a saved response offline and lists its issues.
func decodeCmd(args []string) error {
	var c common
	var kind string
	fs := newFlagSet("decode")
	c.addFlags(fs)
	fs.StringVar(&kind, "kind", "result", "response kind: submit, status or result")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := oneArg(fs, "response file")
	if err != nil {
		return err
	}
	cfg, closer, err := c.config()
	if err != nil {
		return err
	}
	defer closer.Close()           //nolint:errcheck
	data, err := os.ReadFile(path) //#nosec G304 -- user-chosen input file
	if err != nil {
		return err
	}

	var out any
	switch kind {
	case "submit":
		sub, derr := ringws.DecodeSubmitResponse(data, cfg.Decode)
		out, err = map[string]string{"jobId": sub.JobID.String(), "status": sub.Status.Token()}, derr
	case "status":
		st, derr := ringws.DecodeStatusResponse(data, cfg.Decode)
		out, err = statusView(st), derr
	case "result":
		res, derr := ringws.DecodeResultResponse(data, cfg.Decode)
		out, err = summarize(res), derr
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	if iss, ok := ringws.AsIssues(err); ok {
		printIssues(os.Stderr, iss)
		return fmt.Errorf("%d issue(s)", len(iss))
	}
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, out)
}

// formCmd prints the multipart body a structure submission would send.
func formCmd(args []string) error {
	var c common
	var sf settingsFlags
	fs := newFlagSet("form")
	c.addFlags(fs)
	sf.addFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := oneArg(fs, "structure file")
	if err != nil {
		return err
	}
	cfg, closer, err := c.config()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck
	settings, err := sf.apply(fs, cfg.Settings)
	if err != nil {
		return err
	}
	req, err := ringws.SubmitStructureFromFile(path, settings)
	if err != nil {
		return err
	}
	body, err := req.Body()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Content-Type: %s\n\n", body.ContentType)
	_, err = os.Stdout.Write(body.Data)
	return err
}

type statusOutput struct {
	JobID    string          `json:"jobId"`
	Status   string          `json:"status"`
	PDBID    string          `json:"pdbId,omitempty"`
	FileName string          `json:"fileName,omitempty"`
	Settings ringws.Settings `json:"settings"`
}

func statusView(st ringws.StatusResponse) statusOutput {
	return statusOutput{
		JobID:    st.JobID.String(),
		Status:   st.Status.String(),
		PDBID:    st.PDBID,
		FileName: st.FileName,
		Settings: st.Settings,
	}
}

type resultSummary struct {
	statusOutput
	Nodes        int            `json:"nodes"`
	Edges        int            `json:"edges"`
	Interactions map[string]int `json:"interactions"`
	Chains       []string       `json:"chains"`
}

func summarize(res ringws.ResultResponse) resultSummary {
	chains := lo.Uniq(lo.Map(res.Nodes, func(n ringws.Node, _ int) string { return n.Chain }))
	sort.Strings(chains)
	return resultSummary{
		statusOutput: statusView(res.StatusResponse),
		Nodes:        len(res.Nodes),
		Edges:        len(res.Edges),
		Interactions: lo.CountValuesBy(res.Edges, func(e ringws.Edge) string { return e.Interaction.Main.String() }),
		Chains:       chains,
	}
}

func writeResult(w io.Writer, res ringws.ResultResponse, format string) error {
	switch format {
	case "summary":
		return writeJSON(w, summarize(res))
	case "json":
		return writeJSON(w, res)
	case "edges":
		lines := lo.Map(res.Edges, func(e ringws.Edge, _ int) string {
			return fmt.Sprintf("%s\t%s\t%s\t%.3f\t%s", e.Source, e.Interaction, e.Target, e.Distance, e.Angle)
		})
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printIssues(w io.Writer, iss ringws.Issues) {
	for _, it := range iss {
		if it.InputFragment != "" {
			fmt.Fprintf(w, "%s\t%s\t%s\t%q\n", it.Path, it.Code, it.Message, it.InputFragment)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", it.Path, it.Code, it.Message)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
