package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	ledgerinadapter "pomocoin/internal/modules/ledger/adapter/in"
	ledgeroutadapter "pomocoin/internal/modules/ledger/adapter/out"
	ledgerservice "pomocoin/internal/modules/ledger/service"
	ledgerusecase "pomocoin/internal/modules/ledger/usecase"
	rewardsinadapter "pomocoin/internal/modules/rewards/adapter/in"
	rewardsoutadapter "pomocoin/internal/modules/rewards/adapter/out"
	rewardsservice "pomocoin/internal/modules/rewards/service"
	rewardsusecase "pomocoin/internal/modules/rewards/usecase"
	tasksinadapter "pomocoin/internal/modules/tasks/adapter/in"
	tasksoutadapter "pomocoin/internal/modules/tasks/adapter/out"
	tasksservice "pomocoin/internal/modules/tasks/service"
	tasksusecase "pomocoin/internal/modules/tasks/usecase"
	timerinadapter "pomocoin/internal/modules/timer/adapter/in"
	timeroutadapter "pomocoin/internal/modules/timer/adapter/out"
	timerdomain "pomocoin/internal/modules/timer/domain"
	timerout "pomocoin/internal/modules/timer/port/out"
	timerservice "pomocoin/internal/modules/timer/service"
	timerusecase "pomocoin/internal/modules/timer/usecase"
	"pomocoin/internal/platform/clock"
	"pomocoin/internal/platform/config"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/id"
	"pomocoin/internal/platform/kv"
	"pomocoin/internal/platform/schedule"
	uiapp "pomocoin/internal/ui/app"
)

type App struct {
	TasksCLI   tasksinadapter.CLIHandler
	RewardsCLI rewardsinadapter.CLIHandler
	LedgerCLI  ledgerinadapter.CLIHandler
	TimerCLI   timerinadapter.CLIHandler

	cache *kv.Cache
	gw    kv.Gateway
	log   logrus.FieldLogger
}

// Options carries the process-specific pieces of wiring.
type Options struct {
	Log   logrus.FieldLogger
	Clock clock.Clock
	// Bell receives the terminal bell on timer completion. Nil disables it.
	Bell io.Writer
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	ids := id.UUID{}

	gw, err := newGateway(cfg.Storage)
	if err != nil {
		return nil, err
	}
	cache := kv.NewCache(gw)
	if err := cache.Load(ctx); err != nil {
		_ = gw.Close()
		return nil, err
	}

	ledgerUC := ledgerusecase.NewInteractor(
		ledgerservice.NewLedgerService(ledgeroutadapter.NewKVBalanceStore(cache)),
		cache,
		log.WithField("module", "ledger"),
	)

	taskSvc := tasksservice.NewTaskService(ids, tasksoutadapter.NewKVTaskStore(cache))
	tasksUC := tasksusecase.NewInteractor(taskSvc, ledgerUC, cache, log.WithField("module", "tasks"))

	rewardSvc := rewardsservice.NewRewardService(ids, rewardsoutadapter.NewKVRewardStore(cache))
	rewardsUC := rewardsusecase.NewInteractor(rewardSvc, ledgerUC, cache, log.WithField("module", "rewards"))

	if err := importLegacy(ctx, log, "tasks", taskSvc.Import); err != nil {
		_ = gw.Close()
		return nil, err
	}
	if err := importLegacy(ctx, log, "rewards", rewardSvc.Import); err != nil {
		_ = gw.Close()
		return nil, err
	}

	settings := timerdomain.Settings{
		Focus:      cfg.Timer.Focus,
		ShortBreak: cfg.Timer.ShortBreak,
		LongBreak:  cfg.Timer.LongBreak,
		FocusAward: cfg.Timer.FocusAward,
	}
	timerLog := log.WithField("module", "timer")
	timerUC := timerusecase.NewInteractor(
		timerservice.NewTimerService(clk, timeroutadapter.NewKVSessionStore(cache, settings), settings),
		timerusecase.Options{
			Ledger:       ledgerUC,
			Tx:           cache,
			Notifier:     newNotifier(cfg.Notify, timerLog, opts.Bell),
			Scheduler:    schedule.NewTicker(),
			PollInterval: cfg.Timer.PollInterval,
			Log:          timerLog,
		},
	)
	if _, err := timerUC.Resume(ctx); err != nil {
		timerLog.WithError(err).Warn("resume timer")
	}

	return &App{
		TasksCLI:   tasksinadapter.NewCLIHandler(tasksUC),
		RewardsCLI: rewardsinadapter.NewCLIHandler(rewardsUC),
		LedgerCLI:  ledgerinadapter.NewCLIHandler(ledgerUC),
		TimerCLI:   timerinadapter.NewCLIHandler(timerUC),
		cache:      cache,
		gw:         gw,
		log:        log,
	}, nil
}

// Close stops the timer poll, retries unsaved writes once and releases the
// backend.
func (a *App) Close() error {
	a.TimerCLI.Stop()
	var errs []error
	if pending := a.cache.Pending(); len(pending) > 0 {
		if err := a.cache.Flush(context.Background()); err != nil {
			a.log.WithField("keys", pending).WithError(err).Error("unsaved changes lost")
			errs = append(errs, err)
		}
	}
	if err := a.gw.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.TasksCLI, app.RewardsCLI, app.LedgerCLI, app.TimerCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newGateway(cfg config.Storage) (kv.Gateway, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		gw, err := kv.NewSQLiteGateway(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return gw, nil
	case config.DriverFile:
		return kv.NewFileGateway(cfg.FilePath), nil
	case config.DriverRedis:
		return kv.NewRedisGateway(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix), nil
	case config.DriverMemory:
		return kv.NewMemoryGateway(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q: %w", cfg.Driver, apperrors.ErrInvalidInput)
	}
}

func newNotifier(cfg config.Notify, log logrus.FieldLogger, bell io.Writer) timerout.Notifier {
	if !cfg.Enabled {
		return timeroutadapter.NoopNotifier{}
	}
	sinks := timeroutadapter.FanoutNotifier{timeroutadapter.NewLogNotifier(log)}
	if cfg.Bell && bell != nil {
		sinks = append(sinks, timeroutadapter.NewBellNotifier(bell))
	}
	return sinks
}

func importLegacy(ctx context.Context, log logrus.FieldLogger, name string, fn func(context.Context) (int, error)) error {
	assigned, err := fn(ctx)
	warning, err := apperrors.Warning(err)
	if err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}
	if assigned > 0 {
		entry := log.WithFields(logrus.Fields{"collection": name, "assigned": assigned})
		if warning != "" {
			entry.WithField("warning", warning).Warn("assigned ids to stored items (not persisted yet)")
		} else {
			entry.Info("assigned ids to stored items")
		}
	}
	return nil
}
