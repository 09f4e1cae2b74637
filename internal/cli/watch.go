package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ppiankov/truthgate/internal/firewall"
	"github.com/ppiankov/truthgate/internal/intent"
	"github.com/ppiankov/truthgate/internal/model"
	"github.com/ppiankov/truthgate/internal/truthpack"
	"github.com/ppiankov/truthgate/internal/worker"
)

var (
	watchMode         string
	watchTruthpack    string
	watchRate         float64
	watchBurst        int
	watchMission      string
	watchMissionScope string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Watch directories and evaluate files as they change",
	Long: `Watch monitors one or more directories and runs the firewall pipeline on
every file that is created or written. A rapidly re-saved file is rate
limited per path, and a newer save supersedes any evaluation of the same
file that is still in flight.

Watch mode always reports; it cannot reject a write that already
happened. Use it to observe an agent session in real time.

Declaring a mission scopes the session: changes whose intent exceeds the
mission scope get a scope-creep warning.

Example:
  truthgate watch src/
  truthgate watch src/ --mode enforce --rate 1
  truthgate watch src/ --mission "fix the payment handler" --mission-scope file`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchMode, "mode", "", "operating mode: enforce or observe (default from config)")
	watchCmd.Flags().StringVar(&watchTruthpack, "truthpack", "", "truthpack directory (default from config)")
	watchCmd.Flags().Float64Var(&watchRate, "rate", 0, "max evaluations per second per path (default from config)")
	watchCmd.Flags().IntVar(&watchBurst, "burst", 0, "burst allowance per path (default from config)")
	watchCmd.Flags().StringVar(&watchMission, "mission", "", "declare a session mission for scope-creep checks")
	watchCmd.Flags().StringVar(&watchMissionScope, "mission-scope", "file", "declared mission scope: function, class, file, module, or project")
}

// declareMission records a session mission when a description is given.
// An empty description is a no-op; an unknown scope is an error.
func declareMission(store *intent.MissionStore, description, scope string) error {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	declared := model.IntentScope(strings.ToLower(strings.TrimSpace(scope)))
	for _, valid := range model.ValidScopes {
		if declared == valid {
			store.Declare(description, declared)
			return nil
		}
	}
	return fmt.Errorf("invalid mission scope %q (expected function, class, file, module, or project)", scope)
}

// inflightRun ties a cancel func to the generation that registered it
type inflightRun struct {
	cancel context.CancelFunc
	gen    uint64
}

// inflightTable tracks the newest evaluation per path. Generations make
// cleanup identity-aware: a superseded run finishing late must not remove
// the entry of the run that replaced it, or a later save could no longer
// cancel that run.
type inflightTable struct {
	mu   sync.Mutex
	gen  uint64
	runs map[string]inflightRun
}

func newInflightTable() *inflightTable {
	return &inflightTable{runs: make(map[string]inflightRun)}
}

// begin cancels any previous run for path, registers the new one, and
// returns its generation.
func (t *inflightTable) begin(path string, cancel context.CancelFunc) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.runs[path]; ok {
		prev.cancel()
	}
	t.gen++
	t.runs[path] = inflightRun{cancel: cancel, gen: t.gen}
	return t.gen
}

// finish removes the entry for path only while it still belongs to gen
func (t *inflightTable) finish(path string, gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.runs[path]; ok && cur.gen == gen {
		delete(t.runs, path)
	}
}

// watcher owns the fsnotify loop and the per-path in-flight bookkeeping
type watcher struct {
	fw       *firewall.Firewall
	mode     model.Mode
	limiter  *worker.Limiter
	inflight *inflightTable
	wg       sync.WaitGroup
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if watchTruthpack != "" {
		cfg.Truthpack.Dir = watchTruthpack
	}
	if watchRate > 0 {
		cfg.Concurrency.EventsPerSec = watchRate
	}
	if watchBurst > 0 {
		cfg.Concurrency.EventBurst = watchBurst
	}

	store, err := truthpack.Load(cfg.Truthpack.Dir)
	if err != nil {
		return fmt.Errorf("load truthpack: %w", err)
	}

	missions := intent.NewMissionStore(cfg.Intent.MissionTTL)
	if err := declareMission(missions, watchMission, watchMissionScope); err != nil {
		return err
	}

	fw, err := firewall.New(cfg, store, missions)
	if err != nil {
		return err
	}

	mode := fw.Mode()
	if watchMode != "" {
		mode = model.Mode(strings.ToLower(watchMode))
	}
	if mode != model.ModeEnforce && mode != model.ModeObserve {
		return fmt.Errorf("invalid mode %q (expected enforce or observe)", mode)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range args {
		if err := addRecursive(fsw, dir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &watcher{
		fw:       fw,
		mode:     mode,
		limiter:  worker.NewLimiter(cfg.Concurrency.EventsPerSec, cfg.Concurrency.EventBurst),
		inflight: newInflightTable(),
	}

	fmt.Printf("Watching %s (snapshot %s, mode %s). Ctrl-C to stop.\n",
		strings.Join(args, ", "), store.SnapshotID(), mode)

	w.loop(ctx, fsw)
	w.wg.Wait()
	return nil
}

func (w *watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}
	}
}

func (w *watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = addRecursive(fsw, event.Name)
			return
		}
	}

	if !checkableExts[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if !w.limiter.Allow(event.Name) {
		return
	}
	w.evaluate(ctx, event.Name)
}

// evaluate runs one file through the firewall. A newer event for the same
// path cancels the previous run before starting its own.
func (w *watcher) evaluate(parent context.Context, path string) {
	ctx, cancel := context.WithCancel(parent)
	gen := w.inflight.begin(path, cancel)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			cancel()
			w.inflight.finish(path, gen)
		}()

		// #nosec G304 -- path comes from the watched directory.
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}

		req := model.FirewallRequest{Action: "modify", Target: path, Content: string(content)}
		result, err := w.fw.Evaluate(ctx, req, w.mode)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "Error evaluating %s: %v\n", path, err)
			}
			return
		}

		renderReport(os.Stdout, model.NewReport(req, w.mode, result))
	}()
}

// addRecursive registers dir and every subdirectory with the watcher
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == "node_modules" || name == ".git" || name == "vendor" {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
