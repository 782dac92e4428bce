package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/iksnae/agent-transcript/internal"
	"github.com/iksnae/agent-transcript/internal/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchWidth      int
	watchNoMarkdown bool
	watchOnce       bool
)

const clearScreen = "\x1b[H\x1b[2J"

// watchCmd follows a live transcript file
var watchCmd = &cobra.Command{
	Use:   "watch <events.jsonl>",
	Short: "Follow a growing transcript file and re-render it",
	Long: `Follow a JSONL file of stream events as an agent writes it.

Each line is a turn, chunk or complete event (or a plain stored record).
New lines are applied to the live transcript and the whole transcript is drawn
again once writes pause for the configured debounce interval
(watch.debounce, 100ms by default). While writes keep coming, it is still
drawn at least every watch.max_wait (500ms by default). Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		out := cmd.OutOrStdout()
		r := render.New(renderOptions(out, watchWidth, watchNoMarkdown))

		if watchOnce {
			f := newTranscriptFollower(path, r, out)
			if _, err := f.follower.Poll(); err != nil {
				return err
			}
			f.draw()
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return followTranscript(ctx, path, r, out, cfg.DebounceDuration(), cfg.MaxWaitDuration())
	},
}

// transcriptFollower feeds a TurnStore from a file and redraws its snapshot
type transcriptFollower struct {
	path     string
	store    *internal.TurnStore
	follower *internal.EventFollower
	renderer *render.Renderer
	out      io.Writer
	log      *logrus.Entry
}

func newTranscriptFollower(path string, r *render.Renderer, out io.Writer) *transcriptFollower {
	store := internal.NewTurnStore()
	return &transcriptFollower{
		path:     path,
		store:    store,
		follower: internal.NewEventFollower(path, store),
		renderer: r,
		out:      out,
		log:      internal.Named("watch").WithField("path", path),
	}
}

// poll applies new lines; a file that does not exist yet is not an error
func (f *transcriptFollower) poll() error {
	n, err := f.follower.Poll()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if n > 0 {
		internal.LogDebug("Applied %d event(s) from %s", n, f.path)
	}
	return nil
}

func (f *transcriptFollower) draw() {
	t := internal.NewReconstructor().Reconstruct(fileSessionID(f.path), f.store.Snapshot())
	if internal.IsTerminal(f.out) {
		_, _ = fmt.Fprint(f.out, clearScreen)
	}
	_, _ = fmt.Fprint(f.out, f.renderer.RenderTranscript(t))
}

// followTranscript redraws path after every burst of writes until ctx ends.
// A burst longer than maxWait is redrawn every maxWait. The parent directory
// is watched so the file may be created or replaced after the watch starts.
func followTranscript(ctx context.Context, path string, r *render.Renderer, out io.Writer, debounce, maxWait time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return &internal.StorageError{Path: path, Op: "open", Err: err}
	}

	f := newTranscriptFollower(path, r, out)
	if err := f.poll(); err != nil {
		return err
	}
	f.draw()

	target := filepath.Clean(path)
	timer := time.NewTimer(debounce)
	timer.Stop()
	// first write not yet drawn; zero when nothing is pending
	var pending time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if pending.IsZero() {
				pending = time.Now()
			}
			timer.Reset(redrawDelay(debounce, maxWait, time.Since(pending)))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.log.Warnf("watch error: %v", err)
		case <-timer.C:
			pending = time.Time{}
			if err := f.poll(); err != nil {
				f.log.Warnf("failed to read new events: %v", err)
				continue
			}
			f.draw()
		}
	}
}

// redrawDelay is the debounce, shortened so the redraw happens no later than
// maxWait after the first pending write
func redrawDelay(debounce, maxWait, waited time.Duration) time.Duration {
	return max(min(debounce, maxWait-waited), 0)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVarP(&watchWidth, "width", "w", 0, "Output width (default from config, else terminal width)")
	watchCmd.Flags().BoolVar(&watchNoMarkdown, "no-markdown", false, "Print prose as wrapped plain text")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Render the current contents and exit")
}
