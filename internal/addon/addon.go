// Package addon binds the amateur radio helper actions to the host runtime.
// Actions run on the foreground goroutine; anything that blocks is pushed to
// a background worker through the dispatcher and its result posted back.
package addon

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jpavonabian/AMRadio-Addon/internal/database"
	"github.com/jpavonabian/AMRadio-Addon/internal/qrz"
	"github.com/jpavonabian/AMRadio-Addon/internal/stream"
	"github.com/jpavonabian/AMRadio-Addon/internal/ui"
)

// Category groups the actions on the host's discovery surface
const Category = "AM Radio Add-on"

// Action is one invocable helper
type Action struct {
	Name        string
	Description string
	Category    string
	Run         func(args []string)
}

// Directory looks up a callsign page
type Directory interface {
	Lookup(ctx context.Context, callsign string) (*qrz.FieldSet, error)
}

// Timer is the transmission countdown
type Timer interface {
	Arm() bool
	Stop() bool
	Remaining() time.Duration
}

// Announcer speaks the current UTC time
type Announcer interface {
	Announce() string
}

// Prompter asks the user for a line of text
type Prompter interface {
	Prompt(title, message string) (string, bool)
}

// Presenter shows a lookup result on the foreground goroutine
type Presenter interface {
	Present(fields *qrz.FieldSet, callsign string)
}

// OperatorFinder resolves callsigns in the local DMR ID list
type OperatorFinder interface {
	FindByCallsign(callsign string) (*database.Operator, error)
}

// Syncer refreshes the local DMR ID list
type Syncer interface {
	SyncNow(ctx context.Context) (int, error)
}

// Deps wires the plugin. Operators and Syncer are optional.
type Deps struct {
	Context    context.Context
	Dispatcher *ui.Dispatcher
	Speaker    ui.Speaker
	Prompter   Prompter
	Presenter  Presenter
	Directory  Directory
	Timer      Timer
	TimerLabel string // e.g. "3-minute"
	Announcer  Announcer
	Opener     stream.Opener
	StreamURL  string
	Operators  OperatorFinder
	Syncer     Syncer
	Logger     *log.Logger
}

// Plugin owns the registered actions
type Plugin struct {
	deps    Deps
	actions []Action
	byName  map[string]Action
}

// New registers every action
func New(deps Deps) *Plugin {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.TimerLabel == "" {
		deps.TimerLabel = "3-minute"
	}

	p := &Plugin{deps: deps, byName: make(map[string]Action)}
	p.register("callsign", "Open the callsign dialog.", p.showCallsignDialog)
	p.register("timer", fmt.Sprintf("Start a %s timer with tones.", deps.TimerLabel), p.startTimer)
	p.register("timer-stop", "Stop the running timer.", p.stopTimer)
	p.register("timer-status", "Announce the time left on the timer.", p.timerStatus)
	p.register("utc", "Announce the current UTC time (hour and minute).", p.announceUTCTime)
	p.register("hose", "Open the BrandMeister hoseline.", p.openBrandMeister)
	p.register("dmrid", "Announce the DMR ID registered for a callsign.", p.lookupDMRID)
	p.register("dmrsync", "Update the local DMR ID database from RadioID.net.", p.syncDMRIDs)
	p.register("help", "List the available commands.", p.help)
	return p
}

func (p *Plugin) register(name, description string, run func(args []string)) {
	a := Action{Name: name, Description: description, Category: Category, Run: run}
	p.actions = append(p.actions, a)
	p.byName[name] = a
}

// Actions returns the registered actions in registration order
func (p *Plugin) Actions() []Action {
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

// Invoke runs the action named by the first word of line with the rest as
// arguments. It reports whether an action was found.
func (p *Plugin) Invoke(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	a, ok := p.byName[strings.ToLower(words[0])]
	if !ok {
		p.speak(msgUnknownCommand, words[0])
		return false
	}
	a.Run(words[1:])
	return true
}

func (p *Plugin) speak(format string, args ...interface{}) {
	if p.deps.Speaker != nil {
		p.deps.Speaker.Speak(fmt.Sprintf(format, args...))
	}
}

func (p *Plugin) logf(format string, args ...interface{}) {
	if p.deps.Logger != nil {
		p.deps.Logger.Printf(format, args...)
	}
}

// callsignArg takes the callsign from args or asks for it, normalized to
// upper case. ok is false when the user gave nothing.
func (p *Plugin) callsignArg(args []string) (string, bool) {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else if p.deps.Prompter != nil {
		answer, ok := p.deps.Prompter.Prompt(msgPromptTitle, msgPromptText)
		if !ok {
			return "", false
		}
		raw = answer
	}
	callsign := database.NormalizeCallsign(raw)
	return callsign, callsign != ""
}

func (p *Plugin) showCallsignDialog(args []string) {
	callsign, ok := p.callsignArg(args)
	if !ok {
		return
	}

	p.deps.Dispatcher.Go(func() func() {
		fields, err := p.deps.Directory.Lookup(p.deps.Context, callsign)
		if err != nil {
			p.logf("Lookup for %s returned no record: %v", callsign, err)
			fields = nil
		}
		return func() { p.deps.Presenter.Present(fields, callsign) }
	})
}

func (p *Plugin) startTimer([]string) {
	if !p.deps.Timer.Arm() {
		p.speak(msgTimerRunning)
		return
	}
	p.speak(msgTimerStarted, p.deps.TimerLabel)
}

func (p *Plugin) stopTimer([]string) {
	if p.deps.Timer.Stop() {
		p.speak(msgTimerStopped)
		return
	}
	p.speak(msgTimerIdle)
}

func (p *Plugin) timerStatus([]string) {
	remaining := p.deps.Timer.Remaining()
	if remaining <= 0 {
		p.speak(msgTimerIdle)
		return
	}
	secs := int(remaining.Round(time.Second) / time.Second)
	p.speak(msgTimerRemaining, secs/60, secs%60)
}

func (p *Plugin) announceUTCTime([]string) {
	p.deps.Announcer.Announce()
}

func (p *Plugin) openBrandMeister([]string) {
	opener, url, logger := p.deps.Opener, p.deps.StreamURL, p.deps.Logger
	p.deps.Dispatcher.Go(func() func() {
		stream.Open(opener, url, logger)
		return nil
	})
}

func (p *Plugin) lookupDMRID(args []string) {
	if p.deps.Operators == nil {
		p.speak(msgDatabaseDisabled)
		return
	}
	callsign, ok := p.callsignArg(args)
	if !ok {
		return
	}

	p.deps.Dispatcher.Go(func() func() {
		op, err := p.deps.Operators.FindByCallsign(callsign)
		if err != nil {
			p.logf("DMR ID lookup for %s failed: %v", callsign, err)
		}
		return func() {
			if op == nil {
				p.speak(msgNoDMRID, callsign)
				return
			}
			p.speak("%s", op.String())
		}
	})
}

func (p *Plugin) syncDMRIDs([]string) {
	if p.deps.Syncer == nil {
		p.speak(msgDatabaseDisabled)
		return
	}
	p.speak(msgSyncStarted)

	p.deps.Dispatcher.Go(func() func() {
		n, err := p.deps.Syncer.SyncNow(p.deps.Context)
		if err != nil {
			p.logf("DMR ID sync failed: %v", err)
			return func() { p.speak(msgSyncFailed) }
		}
		return func() { p.speak(msgSyncDone, n) }
	})
}

func (p *Plugin) help([]string) {
	for _, a := range p.actions {
		p.speak("%s: %s", a.Name, a.Description)
	}
}
