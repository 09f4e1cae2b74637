package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truthgate/internal/firewall"
	"github.com/ppiankov/truthgate/internal/intent"
	"github.com/ppiankov/truthgate/internal/llm"
	"github.com/ppiankov/truthgate/internal/model"
	"github.com/ppiankov/truthgate/internal/truthpack"
	"github.com/ppiankov/truthgate/internal/worker"
)

var (
	checkMode     string
	checkAction   string
	truthpackDir  string
	checkJSON     string
	checkWorkers  int
	checkTimeout  time.Duration
	checkQuick    bool
	llmEnabled    bool
	llmModelName  string
	checkFailOpen bool

	checkMission      string
	checkMissionScope string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Evaluate files against the truthpack and policy rules",
	Long: `Check evaluates one or more files (or directories) as candidate changes:
- Extract verifiable claims (routes, env vars, imports, calls)
- Resolve every claim against the truthpack snapshot
- Run the configured policy rules and reduce to one decision per file

In enforce mode any BLOCK decision makes the command exit non-zero.
In observe mode violations are printed but the exit code stays zero.

Example:
  truthgate check src/handlers/payment.ts
  truthgate check src/ --mode observe --json report.json
  truthgate check src/api.ts --llm --llm-model gpt-4o-mini
  truthgate check src/ --mission "fix the payment handler" --mission-scope file`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkMode, "mode", "", "operating mode: enforce or observe (default from config)")
	checkCmd.Flags().StringVar(&checkAction, "action", "modify", "declared action for the change")
	checkCmd.Flags().StringVar(&truthpackDir, "truthpack", "", "truthpack directory (default from config)")
	checkCmd.Flags().StringVar(&checkJSON, "json", "", "write a JSON report to this path (single file) or directory")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", runtime.NumCPU(), "number of concurrent evaluations")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall timeout for the whole check")
	checkCmd.Flags().BoolVar(&checkQuick, "quick", false, "latency-sensitive mode: high-severity rules only")
	checkCmd.Flags().BoolVar(&checkFailOpen, "fail-open", false, "skip ghost rules when the truthpack is unreachable")

	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "append an advisory LLM summary to reports (never affects decisions)")
	checkCmd.Flags().StringVar(&llmModelName, "llm-model", "gpt-4o-mini", "LLM model name")

	checkCmd.Flags().StringVar(&checkMission, "mission", "", "declare a session mission for scope-creep checks")
	checkCmd.Flags().StringVar(&checkMissionScope, "mission-scope", "file", "declared mission scope: function, class, file, module, or project")
}

// checkJob evaluates one file through the firewall
type checkJob struct {
	fw         *firewall.Firewall
	summarizer *llm.Summarizer
	req        model.FirewallRequest
	mode       model.Mode
}

// checkResult carries the report back through the pool
type checkResult struct {
	report *model.Report
	target string
	err    error
}

func (r *checkResult) GetError() error { return r.err }

func (j *checkJob) Execute(ctx context.Context) worker.Result {
	result, err := j.fw.Evaluate(ctx, j.req, j.mode)
	if err != nil {
		return &checkResult{target: j.req.Target, err: fmt.Errorf("evaluate %s: %w", j.req.Target, err)}
	}
	report := model.NewReport(j.req, j.mode, result)
	if j.summarizer.IsEnabled() {
		report.LLM = j.summarizer.Summarize(ctx, *report)
	}
	return &checkResult{report: report, target: j.req.Target}
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg := buildCheckConfig()

	store, err := truthpack.Load(cfg.Truthpack.Dir)
	if err != nil {
		return fmt.Errorf("load truthpack: %w", err)
	}

	missions := intent.NewMissionStore(cfg.Intent.MissionTTL)
	if err := declareMission(missions, checkMission, checkMissionScope); err != nil {
		return err
	}

	fw, err := firewall.New(cfg, store, missions)
	if err != nil {
		return err
	}

	mode := fw.Mode()
	if checkMode != "" {
		mode = model.Mode(strings.ToLower(checkMode))
	}
	if mode != model.ModeEnforce && mode != model.ModeObserve {
		return fmt.Errorf("invalid mode %q (expected enforce or observe)", mode)
	}

	summarizer, err := newSummarizer(cfg)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no checkable files under %s", strings.Join(args, ", "))
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Truthpack:  %s (%s)\n", cfg.Truthpack.Dir, store.SnapshotID())
		fmt.Fprintf(os.Stderr, "Mode:       %s\n", mode)
		fmt.Fprintf(os.Stderr, "Files:      %d\n", len(files))
		fmt.Fprintln(os.Stderr)
	}

	if checkQuick {
		return runQuickCheck(ctx, fw, files)
	}

	pool := worker.NewPool(checkWorkers)
	pool.Start()
	for _, file := range files {
		// #nosec G304 -- check paths are explicit local user input.
		content, readErr := os.ReadFile(file)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", file, readErr)
			continue
		}
		pool.Submit(&checkJob{
			fw:         fw,
			summarizer: summarizer,
			mode:       mode,
			req: model.FirewallRequest{
				Action:  checkAction,
				Target:  file,
				Content: string(content),
			},
		})
	}

	results := pool.Wait()
	select {
	case <-ctx.Done():
		return fmt.Errorf("check timed out after %v", checkTimeout)
	default:
	}

	return renderResults(results, mode)
}

// runQuickCheck is the latency-sensitive path: first blocking violation
// wins, no unblock plan
func runQuickCheck(ctx context.Context, fw *firewall.Firewall, files []string) error {
	for _, file := range files {
		// #nosec G304 -- check paths are explicit local user input.
		content, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", file, err)
			continue
		}
		ok, violation, err := fw.QuickCheck(ctx, model.FirewallRequest{
			Action:  checkAction,
			Target:  file,
			Content: string(content),
		})
		if err != nil {
			return fmt.Errorf("quick check %s: %w", file, err)
		}
		if !ok {
			fmt.Printf("BLOCK  %s\n", file)
			fmt.Printf("  [%s] %s: %s\n", violation.Severity, violation.Policy, violation.Message)
			return fmt.Errorf("quick check blocked on %s", file)
		}
		fmt.Printf("ALLOW  %s\n", file)
	}
	return nil
}

// renderResults prints every report and reduces the exit status
func renderResults(results []worker.Result, mode model.Mode) error {
	reports := make([]*model.Report, 0, len(results))
	for _, raw := range results {
		res := raw.(*checkResult)
		if res.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", res.err)
			continue
		}
		reports = append(reports, res.report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Target < reports[j].Target })

	blocked := 0
	for _, report := range reports {
		renderReport(os.Stdout, report)
		if report.Decision == model.DecisionBlock {
			blocked++
		}
	}

	if checkJSON != "" {
		if err := writeReports(checkJSON, reports); err != nil {
			return err
		}
	}

	if blocked > 0 && mode == model.ModeEnforce {
		return fmt.Errorf("%d file(s) blocked", blocked)
	}
	return nil
}

// writeReports writes one JSON document per report (directory target) or a
// single document when checking a single file
func writeReports(target string, reports []*model.Report) error {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		for _, report := range reports {
			name := strings.ReplaceAll(strings.TrimPrefix(report.Target, string(filepath.Separator)), string(filepath.Separator), "_")
			if err := writeJSONReport(filepath.Join(target, name+".json"), report); err != nil {
				return err
			}
		}
		return nil
	}
	if len(reports) == 1 {
		return writeJSONReport(target, reports[0])
	}
	return fmt.Errorf("--json %s is not a directory but %d reports were produced", target, len(reports))
}

// buildCheckConfig layers check flags over the loaded configuration
func buildCheckConfig() *model.Config {
	cfg := loadConfig()
	if truthpackDir != "" {
		cfg.Truthpack.Dir = truthpackDir
	}
	if checkFailOpen {
		cfg.Evidence.FailOpen = true
	}
	if checkWorkers > 0 {
		cfg.Concurrency.Workers = checkWorkers
	}
	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModelName
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}

// newSummarizer builds the advisory summarizer when --llm is set
func newSummarizer(cfg *model.Config) (*llm.Summarizer, error) {
	if !llmEnabled {
		return nil, nil
	}
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return llm.NewSummarizer(cfg.LLM)
}

// checkableExts bound directory walks to source-like files
var checkableExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true,
	".go": true, ".py": true, ".rb": true, ".java": true, ".rs": true,
	".html": true, ".htm": true, ".vue": true, ".svelte": true, ".sql": true,
}

// collectFiles expands the path arguments into a file list
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if name == "node_modules" || name == ".git" || name == "vendor" {
					return filepath.SkipDir
				}
				return nil
			}
			if checkableExts[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
