// Package match implements the match clock state machine.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/fightclock/internal/audio"
	"github.com/verte-zerg/fightclock/internal/model"
	"github.com/verte-zerg/fightclock/internal/schedule"
	"github.com/verte-zerg/fightclock/internal/timefmt"
)

const (
	DefaultDuration = 120 * time.Second
	DefaultLeadIn   = 5 * time.Second

	CountStep     = time.Second
	FrameInterval = 16 * time.Millisecond
	FlashInterval = 250 * time.Millisecond
	FlashToggles  = 8

	// WarningSeconds is the displayed-seconds threshold for the warning.
	WarningSeconds = 10
)

// Status lines shown under the clock.
const (
	StatusIdle     = "Press Space to Start"
	StatusPrestart = "Get ready..."
	StatusRunning  = "Space -> Pause   r -> Reset"
	StatusPaused   = "Match Paused"
	StatusFinished = "Time! Press r to reset."
	StatusInvalid  = "Invalid time. Use M:SS from 0:01 to 59:59"
)

// Step is a sub-state of the pre-start sequence.
type Step int

const (
	StepNone Step = iota
	StepBlank
	StepThree
	StepTwo
	StepOne
	StepGo
)

// Recorder persists matches that leave play.
type Recorder interface {
	RecordMatch(ctx context.Context, rec model.MatchRecord) error
}

// Options configures a Controller. Zero values fall back to a real clock, a
// silent player, no recorder, a disabled logger and DefaultDuration.
type Options struct {
	Clock    clockwork.Clock
	Player   audio.Player
	Recorder Recorder
	Logger   *zerolog.Logger
	Duration time.Duration
	LeadIn   time.Duration
}

// Session is the observable state of the clock.
type Session struct {
	ConfiguredMs   int64
	RemainingMs    int64
	Phase          model.Phase
	Step           Step
	Status         string
	Overlay        string
	OverlayVisible bool
	Warning        bool
	Visible        bool
	FlashToggles   int
}

type matchState struct {
	id        string
	startedAt time.Time
	pauses    int
}

// Controller owns a single Session and every task scheduled on its behalf.
// It must be driven from one goroutine.
type Controller struct {
	sched    *schedule.Scheduler
	player   audio.Player
	recorder Recorder
	log      zerolog.Logger
	leadIn   time.Duration

	s Session

	runStartedAt time.Time
	runStartMs   int64

	match *matchState
}

// New constructs a Controller in the idle phase.
func New(opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	player := opts.Player
	if player == nil {
		player = audio.Nop{}
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	leadIn := opts.LeadIn
	if leadIn < 0 {
		leadIn = 0
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	c := &Controller{
		sched:    schedule.New(clock),
		player:   player,
		recorder: opts.Recorder,
		log:      logger,
		leadIn:   leadIn,
	}
	c.s.ConfiguredMs = duration.Milliseconds()
	c.resetSession()
	return c
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Session {
	return c.s
}

// NextDue returns when the earliest scheduled task fires.
func (c *Controller) NextDue() (time.Time, bool) {
	task, ok := c.sched.Next()
	if !ok {
		return time.Time{}, false
	}
	return task.Due, true
}

// Pending returns the number of scheduled tasks.
func (c *Controller) Pending() int {
	return c.sched.Len()
}

// Space starts, resumes or pauses depending on the phase.
func (c *Controller) Space() {
	switch c.s.Phase {
	case model.PhaseIdle:
		c.Start()
	case model.PhasePaused:
		c.Resume()
	case model.PhaseRunning:
		c.Pause()
	default:
		c.player.Wake()
	}
}

// Start begins the pre-start sequence from idle, lead-in included.
func (c *Controller) Start() {
	c.player.Wake()
	if c.s.Phase != model.PhaseIdle {
		return
	}
	c.sched.CancelAll()
	c.setPhase(model.PhasePrestart)
	c.s.Status = StatusPrestart
	c.s.Step = StepBlank
	c.s.Overlay = ""
	c.s.OverlayVisible = true
	c.sched.Schedule(schedule.Prestart, c.leadIn)
}

// Resume restarts a paused match through 3-2-1-GO without the lead-in.
func (c *Controller) Resume() {
	c.player.Wake()
	if c.s.Phase != model.PhasePaused {
		return
	}
	c.sched.CancelAll()
	c.setPhase(model.PhasePrestart)
	c.s.Status = StatusPrestart
	c.enterStep(StepThree, c.sched.Now())
}

// Pause freezes a running match.
func (c *Controller) Pause() {
	c.player.Wake()
	if c.s.Phase != model.PhaseRunning {
		return
	}
	now := c.sched.Now()
	c.refresh(now)
	if c.s.Phase != model.PhaseRunning {
		return
	}
	c.sched.Cancel(schedule.Frame, schedule.Tick)
	c.setPhase(model.PhasePaused)
	c.s.Status = StatusPaused
	c.s.Warning = false
	if c.match != nil {
		c.match.pauses++
	}
}

// Reset cancels everything in flight and returns to idle with the configured
// duration. It is honoured in every phase.
func (c *Controller) Reset() {
	c.player.Wake()
	c.sched.CancelAll()
	c.closeMatch(c.sched.Now(), model.OutcomeAbandoned)
	c.resetSession()
}

// Apply reconfigures the duration from "M:SS" text. Invalid input leaves the
// session untouched apart from the status line.
func (c *Controller) Apply(raw string) error {
	c.player.Wake()
	seconds, err := timefmt.ParseClock(raw)
	if err != nil {
		c.s.Status = StatusInvalid
		c.log.Debug().Str("input", raw).Err(err).Msg("rejected duration")
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	c.configure(seconds)
	return nil
}

// ApplyParts reconfigures the duration from separate minute and second values.
func (c *Controller) ApplyParts(minutes, seconds int) error {
	c.player.Wake()
	total, err := timefmt.FromParts(minutes, seconds)
	if err != nil {
		c.s.Status = StatusInvalid
		c.log.Debug().Int("minutes", minutes).Int("seconds", seconds).Err(err).Msg("rejected duration")
		return fmt.Errorf("invalid duration %d:%02d: %w", minutes, seconds, err)
	}
	c.configure(total)
	return nil
}

// Advance fires every task that is due and brings the running clock up to
// the current time.
func (c *Controller) Advance() {
	now := c.sched.Now()
	for {
		due := c.sched.Due(now)
		if len(due) == 0 {
			break
		}
		task := due[0]
		if !c.sched.Take(task) {
			continue
		}
		c.fire(task)
	}
	c.refresh(now)
}

func (c *Controller) fire(task schedule.Task) {
	switch task.Concern {
	case schedule.Prestart:
		c.nextStep(task.Due)
	case schedule.Frame:
		c.refresh(task.Due)
		if c.s.Phase == model.PhaseRunning {
			c.scheduleFrame(task.Due)
		}
	case schedule.Tick:
		if c.s.Phase == model.PhaseRunning && c.s.Warning {
			c.player.Play(audio.CueTick)
			c.sched.ScheduleAt(schedule.Tick, task.Due.Add(audio.TickInterval))
		}
	case schedule.Flash:
		if c.s.FlashToggles < FlashToggles {
			c.toggleFlash(task.Due)
			return
		}
		c.s.Visible = true
	}
}

func (c *Controller) configure(seconds int) {
	c.sched.CancelAll()
	c.closeMatch(c.sched.Now(), model.OutcomeAbandoned)
	c.s.ConfiguredMs = int64(seconds) * 1000
	c.resetSession()
	c.log.Debug().Int64("configured_ms", c.s.ConfiguredMs).Msg("duration applied")
}

func (c *Controller) resetSession() {
	c.setPhase(model.PhaseIdle)
	c.s.RemainingMs = c.s.ConfiguredMs
	c.s.Step = StepNone
	c.s.Status = StatusIdle
	c.s.Overlay = ""
	c.s.OverlayVisible = false
	c.s.Warning = false
	c.s.Visible = true
	c.s.FlashToggles = 0
}

func (c *Controller) nextStep(at time.Time) {
	switch c.s.Step {
	case StepBlank:
		c.enterStep(StepThree, at)
	case StepThree:
		c.enterStep(StepTwo, at)
	case StepTwo:
		c.enterStep(StepOne, at)
	case StepOne:
		c.enterStep(StepGo, at)
	case StepGo:
		c.s.Step = StepNone
		c.s.Overlay = ""
		c.s.OverlayVisible = false
		c.startRunning(at)
	}
}

func (c *Controller) enterStep(step Step, at time.Time) {
	c.s.Step = step
	c.s.OverlayVisible = true
	switch step {
	case StepThree:
		c.s.Overlay = "3"
		c.player.Play(audio.CueCount)
	case StepTwo:
		c.s.Overlay = "2"
		c.player.Play(audio.CueCount)
	case StepOne:
		c.s.Overlay = "1"
		c.player.Play(audio.CueCount)
	case StepGo:
		c.s.Overlay = "GO!"
		c.player.Play(audio.CueGo)
	}
	c.sched.ScheduleAt(schedule.Prestart, at.Add(CountStep))
}

func (c *Controller) startRunning(at time.Time) {
	c.setPhase(model.PhaseRunning)
	c.s.Status = StatusRunning
	c.runStartedAt = at
	c.runStartMs = c.s.RemainingMs
	if c.match == nil {
		c.match = &matchState{id: uuid.NewString(), startedAt: at}
	}
	c.refresh(at)
	if c.s.Phase == model.PhaseRunning {
		c.scheduleFrame(at)
	}
}

// refresh recomputes the remaining time from the captured start instant.
func (c *Controller) refresh(at time.Time) {
	if c.s.Phase != model.PhaseRunning {
		return
	}
	elapsed := at.Sub(c.runStartedAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := c.runStartMs - elapsed
	if remaining <= 0 {
		c.s.RemainingMs = 0
		c.finish(at)
		return
	}
	c.s.RemainingMs = remaining
	c.s.Warning = timefmt.CeilSeconds(remaining) <= WarningSeconds
	switch {
	case c.s.Warning && !c.sched.Active(schedule.Tick):
		c.player.Play(audio.CueTick)
		c.sched.ScheduleAt(schedule.Tick, at.Add(audio.TickInterval))
	case !c.s.Warning:
		c.sched.Cancel(schedule.Tick)
	}
}

func (c *Controller) scheduleFrame(at time.Time) {
	next := FrameInterval
	if left := time.Duration(c.s.RemainingMs) * time.Millisecond; left < next {
		next = left
	}
	c.sched.ScheduleAt(schedule.Frame, at.Add(next))
}

func (c *Controller) finish(at time.Time) {
	c.sched.Cancel(schedule.Frame, schedule.Tick)
	c.setPhase(model.PhaseFinished)
	c.s.Status = StatusFinished
	c.s.Warning = false
	c.player.Play(audio.CueBuzzer)
	c.closeMatch(at, model.OutcomeFinished)
	c.s.FlashToggles = 0
	c.toggleFlash(at)
}

func (c *Controller) toggleFlash(at time.Time) {
	c.s.Visible = c.s.FlashToggles%2 == 1
	c.s.FlashToggles++
	c.sched.ScheduleAt(schedule.Flash, at.Add(FlashInterval))
}

func (c *Controller) setPhase(p model.Phase) {
	if c.s.Phase == p {
		return
	}
	c.log.Debug().Stringer("from", c.s.Phase).Stringer("to", p).Msg("phase change")
	c.s.Phase = p
}

func (c *Controller) closeMatch(at time.Time, outcome string) {
	if c.match == nil {
		return
	}
	rec := model.MatchRecord{
		ID:           c.match.id,
		StartedAt:    c.match.startedAt,
		EndedAt:      at,
		ConfiguredMs: c.s.ConfiguredMs,
		ElapsedMs:    c.s.ConfiguredMs - c.s.RemainingMs,
		Pauses:       c.match.pauses,
		Outcome:      outcome,
	}
	c.match = nil
	c.log.Info().
		Str("match_id", rec.ID).
		Str("outcome", rec.Outcome).
		Int64("elapsed_ms", rec.ElapsedMs).
		Int("pauses", rec.Pauses).
		Msg("match ended")
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordMatch(context.Background(), rec); err != nil {
		c.log.Error().Err(err).Str("match_id", rec.ID).Msg("failed to record match")
	}
}
