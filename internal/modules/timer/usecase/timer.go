package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	ledgerdto "pomocoin/internal/modules/ledger/dto"
	ledgerin "pomocoin/internal/modules/ledger/port/in"
	"pomocoin/internal/modules/timer/domain"
	"pomocoin/internal/modules/timer/dto"
	timerin "pomocoin/internal/modules/timer/port/in"
	timerout "pomocoin/internal/modules/timer/port/out"
	"pomocoin/internal/modules/timer/service"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/schedule"
	"pomocoin/internal/platform/tx"
)

const defaultPollInterval = time.Second

type Interactor struct {
	svc       *service.TimerService
	ledger    ledgerin.Usecase
	tx        tx.Manager
	notifier  timerout.Notifier
	scheduler schedule.Scheduler
	interval  time.Duration
	log       logrus.FieldLogger

	// mu covers load, completion and save, so a finished session is
	// credited by exactly one poll.
	mu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func(dto.StateOutput)
	nextSub int
}

type Options struct {
	Ledger       ledgerin.Usecase
	Tx           tx.Manager
	Notifier     timerout.Notifier
	Scheduler    schedule.Scheduler
	PollInterval time.Duration
	Log          logrus.FieldLogger
}

func NewInteractor(svc *service.TimerService, opts Options) timerin.Usecase {
	i := &Interactor{
		svc:       svc,
		ledger:    opts.Ledger,
		tx:        opts.Tx,
		notifier:  opts.Notifier,
		scheduler: opts.Scheduler,
		interval:  opts.PollInterval,
		log:       opts.Log,
		subs:      map[int]func(dto.StateOutput){},
	}
	if i.tx == nil {
		i.tx = tx.NoopManager{}
	}
	if i.scheduler == nil {
		i.scheduler = schedule.NewTicker()
	}
	if i.interval <= 0 {
		i.interval = defaultPollInterval
	}
	if i.log == nil {
		i.log = logrus.StandardLogger()
	}
	return i
}

func (i *Interactor) Start(ctx context.Context) (dto.StateOutput, error) {
	return i.mutate(ctx, "timer started", func(ctx context.Context) (domain.Session, error) {
		session, err := i.svc.Start(ctx)
		if err == nil {
			i.arm()
		}
		return session, err
	})
}

func (i *Interactor) Pause(ctx context.Context) (dto.StateOutput, error) {
	return i.mutate(ctx, "timer paused", func(ctx context.Context) (domain.Session, error) {
		session, err := i.svc.Pause(ctx)
		if err == nil {
			i.scheduler.Cancel()
		}
		return session, err
	})
}

func (i *Interactor) Reset(ctx context.Context, input dto.ResetInput) (dto.StateOutput, error) {
	mode := domain.ModeFocus
	if input.Mode != "" {
		parsed, err := domain.ParseMode(input.Mode)
		if err != nil {
			return dto.StateOutput{}, err
		}
		mode = parsed
	}
	return i.mutate(ctx, "timer reset", func(ctx context.Context) (domain.Session, error) {
		i.scheduler.Cancel()
		return i.svc.Reset(ctx, mode)
	})
}

// Poll recomputes the remaining time from the stored end time and finishes
// the session once it reaches zero. Overlapping polls are safe.
func (i *Interactor) Poll(ctx context.Context) (dto.StateOutput, error) {
	i.mu.Lock()
	out, completion, err := i.poll(ctx)
	i.mu.Unlock()
	if err != nil {
		return dto.StateOutput{}, err
	}
	if completion != nil {
		i.notify(ctx, *completion)
	}
	i.publish(out)
	return out, nil
}

func (i *Interactor) Resume(ctx context.Context) (dto.StateOutput, error) {
	out, err := i.Poll(ctx)
	if err != nil {
		return out, err
	}
	if out.Running {
		i.arm()
	}
	return out, nil
}

func (i *Interactor) State(ctx context.Context) (dto.StateOutput, error) {
	session, err := i.svc.Load(ctx)
	if err != nil {
		return dto.StateOutput{}, err
	}
	return i.output(session, ""), nil
}

func (i *Interactor) Subscribe(fn func(dto.StateOutput)) func() {
	i.subMu.Lock()
	defer i.subMu.Unlock()
	id := i.nextSub
	i.nextSub++
	i.subs[id] = fn
	return func() {
		i.subMu.Lock()
		defer i.subMu.Unlock()
		delete(i.subs, id)
	}
}

func (i *Interactor) Stop() {
	i.scheduler.Cancel()
}

func (i *Interactor) poll(ctx context.Context) (dto.StateOutput, *dto.CompletionOutput, error) {
	session, err := i.svc.Load(ctx)
	if err != nil {
		return dto.StateOutput{}, nil, err
	}
	if !session.Running {
		i.scheduler.Cancel()
		return i.output(session, ""), nil, nil
	}
	if !session.Expired(i.svc.Now()) {
		return i.output(session, ""), nil, nil
	}

	i.scheduler.Cancel()
	var (
		next       domain.Session
		completion domain.Completion
		balance    int
	)
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		next, completion, err = i.svc.Complete(ctx, session)
		if err != nil {
			return err
		}
		if i.ledger == nil {
			return nil
		}
		if completion.Award > 0 {
			credited, err := i.ledger.Credit(ctx, ledgerdto.CreditInput{Amount: completion.Award, Reason: "focus session"})
			if err != nil {
				return err
			}
			balance = credited.Balance
			return nil
		}
		current, err := i.ledger.Balance(ctx)
		balance = current.Balance
		return err
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		return dto.StateOutput{}, nil, err
	}

	done := &dto.CompletionOutput{
		Finished: string(completion.Finished),
		Next:     string(completion.Next),
		Award:    completion.Award,
		Cycles:   completion.Cycles,
		Balance:  balance,
	}
	i.logEntry(next, warning).WithFields(logrus.Fields{
		"finished": completion.Finished,
		"award":    completion.Award,
	}).Info("timer session complete")

	out := i.output(next, warning)
	out.Completed = done
	return out, done, nil
}

func (i *Interactor) mutate(ctx context.Context, msg string, fn func(context.Context) (domain.Session, error)) (dto.StateOutput, error) {
	i.mu.Lock()
	var session domain.Session
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		session, err = fn(ctx)
		return err
	})
	warning, err := apperrors.Warning(err)
	if err != nil {
		i.mu.Unlock()
		return dto.StateOutput{}, err
	}
	i.logEntry(session, warning).Info(msg)
	out := i.output(session, warning)
	i.mu.Unlock()

	i.publish(out)
	return out, nil
}

func (i *Interactor) arm() {
	i.scheduler.Arm(i.interval, func() {
		if _, err := i.Poll(context.Background()); err != nil {
			i.log.WithError(err).Warn("timer poll failed")
		}
	})
}

func (i *Interactor) notify(ctx context.Context, c dto.CompletionOutput) {
	if i.notifier == nil {
		return
	}
	title := fmt.Sprintf("%s complete", c.Finished)
	body := fmt.Sprintf("Next up: %s", c.Next)
	if c.Award > 0 {
		body += fmt.Sprintf(" (+%d coins)", c.Award)
	}
	if err := i.notifier.Notify(ctx, title, body); err != nil {
		i.log.WithError(err).Debug("completion notice not delivered")
	}
}

func (i *Interactor) publish(out dto.StateOutput) {
	i.subMu.Lock()
	fns := make([]func(dto.StateOutput), 0, len(i.subs))
	for _, fn := range i.subs {
		fns = append(fns, fn)
	}
	i.subMu.Unlock()
	for _, fn := range fns {
		fn(out)
	}
}

func (i *Interactor) output(session domain.Session, warning string) dto.StateOutput {
	now := i.svc.Now()
	duration := int(i.svc.Settings().Duration(session.Mode) / time.Second)
	remaining := session.RemainingAt(now)
	out := dto.StateOutput{
		Mode:             string(session.Mode),
		Running:          session.Running,
		RemainingSeconds: remaining,
		DurationSeconds:  duration,
		Cycles:           session.Cycles,
		CycleDots:        session.Cycles % domain.LongBreakEvery,
		Warning:          warning,
	}
	if session.Running {
		out.EndsAt = session.EndTime
	}
	if duration > 0 {
		out.Progress = float64(duration-remaining) / float64(duration)
		if out.Progress < 0 {
			out.Progress = 0
		}
		if out.Progress > 1 {
			out.Progress = 1
		}
	}
	return out
}

func (i *Interactor) logEntry(session domain.Session, warning string) *logrus.Entry {
	entry := i.log.WithFields(logrus.Fields{
		"mode":    session.Mode,
		"running": session.Running,
		"cycles":  session.Cycles,
	})
	if warning != "" {
		entry = entry.WithField("warning", warning)
	}
	return entry
}
