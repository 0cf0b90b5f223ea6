package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/harrison/labeller/internal/field"
	"github.com/harrison/labeller/internal/logger"
	"github.com/harrison/labeller/internal/receipt"
	"github.com/harrison/labeller/internal/reconfig"
	"github.com/harrison/labeller/internal/results"
	"github.com/harrison/labeller/internal/session"
)

// App wires the questionnaire session, the reconfiguration engine and
// the receipt store into one interactive run.
type App struct {
	session  *session.Session
	engine   *reconfig.Engine
	store    *receipt.Store
	results  *results.Log
	log      logger.Logger
	renderer *Renderer

	in  io.Reader
	out io.Writer
}

// Options configures an App.
type Options struct {
	Session *session.Session
	Engine  *reconfig.Engine
	Store   *receipt.Store
	Results *results.Log
	Log     logger.Logger
	Header  string

	// In and Out default to os.Stdin and os.Stdout. Raw mode is only
	// entered when In is the process's terminal.
	In  io.Reader
	Out io.Writer
}

// NewApp builds an App from options.
func NewApp(opts Options) *App {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = logger.Discard{}
	}
	return &App{
		session:  opts.Session,
		engine:   opts.Engine,
		store:    opts.Store,
		results:  opts.Results,
		log:      opts.Log,
		renderer: NewRenderer(opts.Out, opts.Header),
		in:       opts.In,
		out:      opts.Out,
	}
}

// Run drives the keystroke loop until the questionnaire terminates or
// the user quits. On termination the receipt is extracted and saved;
// on quit the raw answers go to the results log.
func (a *App) Run(ctx context.Context) error {
	restore, err := a.enterRawMode()
	if err != nil {
		return err
	}
	defer restore()

	reader := bufio.NewReader(a.in)
	for {
		if err := ctx.Err(); err != nil {
			return a.quit(err.Error())
		}
		a.renderer.Render(a.session)

		key, quit, err := readKey(reader)
		if err == io.EOF {
			return a.quit("input closed")
		}
		if err != nil {
			return fmt.Errorf("read keystroke: %w", err)
		}
		if quit || a.isQuitKey(key) {
			return a.quit("quit key")
		}
		if a.isHelpKey(key) {
			a.renderer.ToggleHelp()
			continue
		}
		a.log.LogTrace(fmt.Sprintf("key type=%d rune=%q on %s",
			key.Type, key.Rune, a.session.Focused().Descriptor.EffectiveID()))

		switch a.session.HandleKey(key) {
		case field.SignalReconfigure:
			if a.engine == nil {
				a.session.FocusFirstUnanswered()
				continue
			}
			next, err := a.engine.Rebuild(a.session)
			if err != nil {
				// The previous session is still valid; surface the
				// problem and keep going.
				a.log.LogWarn(fmt.Sprintf("reconfiguration failed: %v", err))
			}
			a.session = next
		case field.SignalTerminate:
			a.renderer.Render(a.session)
			return a.finish(ctx)
		}
	}
}

// enterRawMode switches the terminal to raw input when stdin is a
// terminal, returning the restore func. Non-terminal input (tests,
// pipes) runs without raw mode.
func (a *App) enterRawMode() (func(), error) {
	f, ok := a.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	return func() { term.Restore(int(f.Fd()), state) }, nil
}

// isQuitKey reports whether the keystroke quits the run. 'q' quits
// only when the focused field would not consume it as input.
func (a *App) isQuitKey(k field.Key) bool {
	if k.Type != field.KeyRune || k.Rune != 'q' {
		return false
	}
	_, isText := a.session.Focused().Controller.(*field.TextController)
	return !isText
}

// isHelpKey reports whether the keystroke toggles the help pane. '?'
// is never accepted by any input class, so it is safe globally.
func (a *App) isHelpKey(k field.Key) bool {
	return k.Type == field.KeyRune && k.Rune == '?'
}

// quit appends the answers typed so far to the results log and ends
// the run without saving a receipt.
func (a *App) quit(reason string) error {
	a.log.LogInfo(fmt.Sprintf("run quit (%s), logging partial answers", reason))
	if a.results == nil {
		return nil
	}
	raw := a.session.RawResults()
	if err := a.results.Append(raw); err != nil {
		a.log.LogWarn(fmt.Sprintf("append results log: %v", err))
	}
	if err := a.results.WriteLatest(raw); err != nil {
		a.log.LogWarn(fmt.Sprintf("write latest results: %v", err))
	}
	return nil
}

// finish collects the terminated session's answers, extracts the
// receipt and saves it.
func (a *App) finish(ctx context.Context) error {
	answers, err := a.session.Answers()
	if err != nil {
		// Termination gating should make this unreachable.
		a.log.LogError(fmt.Sprintf("answer collection after termination: %v", err))
		return err
	}
	r, err := receipt.FromAnswers(answers)
	if err != nil {
		return fmt.Errorf("extract receipt: %w", err)
	}
	if a.store != nil {
		if err := a.store.Save(ctx, r); err != nil {
			return fmt.Errorf("save receipt: %w", err)
		}
	}
	a.log.LogInfo(fmt.Sprintf("receipt %s saved (%s, %d transactions)", r.ID, r.Category, len(r.Transactions)))
	fmt.Fprintf(a.out, "\r\nreceipt %s saved\r\n", r.ID)
	return nil
}

// Session exposes the current session, which may have been swapped by
// a rebuild.
func (a *App) Session() *session.Session { return a.session }
