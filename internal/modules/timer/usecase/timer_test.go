package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	ledgerout "pomocoin/internal/modules/ledger/adapter/out"
	ledgerin "pomocoin/internal/modules/ledger/port/in"
	ledgerservice "pomocoin/internal/modules/ledger/service"
	ledgerusecase "pomocoin/internal/modules/ledger/usecase"
	timerout "pomocoin/internal/modules/timer/adapter/out"
	"pomocoin/internal/modules/timer/domain"
	"pomocoin/internal/modules/timer/dto"
	timerin "pomocoin/internal/modules/timer/port/in"
	"pomocoin/internal/modules/timer/service"
	"pomocoin/internal/modules/timer/usecase"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/kv"
	"pomocoin/internal/platform/logging"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeScheduler struct {
	mu       sync.Mutex
	fn       func()
	arms     int
	cancels  int
	interval time.Duration
}

func (s *fakeScheduler) Arm(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arms++
	s.fn = fn
	s.interval = interval
}

func (s *fakeScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fn != nil {
		s.cancels++
	}
	s.fn = nil
}

func (s *fakeScheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

// Fire runs the armed task once, as a tick would.
func (s *fakeScheduler) Fire() {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type notice struct{ title, body string }

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice
	err     error
}

func (n *fakeNotifier) Notify(_ context.Context, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{title: title, body: body})
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

type recordingGateway struct {
	*kv.MemoryGateway
	mu   sync.Mutex
	sets [][]string
	fail bool
}

func (g *recordingGateway) Set(ctx context.Context, values map[string]json.RawMessage) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errors.New("write rejected")
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	g.sets = append(g.sets, keys)
	return g.MemoryGateway.Set(ctx, values)
}

type fixture struct {
	gw        *recordingGateway
	cache     *kv.Cache
	clock     *fakeClock
	scheduler *fakeScheduler
	notifier  *fakeNotifier
	ledger    ledgerin.Usecase
	uc        timerin.Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, &recordingGateway{MemoryGateway: kv.NewMemoryGateway()}, &fakeClock{now: epoch})
}

func newFixtureOn(t *testing.T, gw *recordingGateway, clk *fakeClock) *fixture {
	t.Helper()
	cache := kv.NewCache(gw)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	log := logging.Discard()
	settings := domain.DefaultSettings()
	ledger := ledgerusecase.NewInteractor(ledgerservice.NewLedgerService(ledgerout.NewKVBalanceStore(cache)), cache, log)
	svc := service.NewTimerService(clk, timerout.NewKVSessionStore(cache, settings), settings)
	f := &fixture{
		gw:        gw,
		cache:     cache,
		clock:     clk,
		scheduler: &fakeScheduler{},
		notifier:  &fakeNotifier{},
		ledger:    ledger,
	}
	f.uc = usecase.NewInteractor(svc, usecase.Options{
		Ledger:       ledger,
		Tx:           cache,
		Notifier:     f.notifier,
		Scheduler:    f.scheduler,
		PollInterval: time.Second,
		Log:          log,
	})
	return f
}

func (f *fixture) balance(t *testing.T) int {
	t.Helper()
	out, err := f.ledger.Balance(context.Background())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return out.Balance
}

func (f *fixture) poll(t *testing.T) dto.StateOutput {
	t.Helper()
	out, err := f.uc.Poll(context.Background())
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	return out
}

func TestInitialState(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.State(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if out.Mode != "Focus" || out.Running || out.RemainingSeconds != 1500 || out.Cycles != 0 {
		t.Fatalf("unexpected initial state: %+v", out)
	}
	if out.Progress != 0 {
		t.Fatalf("expected zero progress, got %v", out.Progress)
	}
}

func TestFocusSessionCompletesAndCredits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.uc.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !started.Running || !started.EndsAt.Equal(epoch.Add(1500*time.Second)) {
		t.Fatalf("unexpected start state: %+v", started)
	}
	if !f.scheduler.Active() || f.scheduler.interval != time.Second {
		t.Fatalf("expected armed poll at 1s, got active=%v interval=%v", f.scheduler.Active(), f.scheduler.interval)
	}

	f.clock.Set(epoch.Add(1499*time.Second + 200*time.Millisecond))
	if out := f.poll(t); out.RemainingSeconds != 1 || !out.Running {
		t.Fatalf("expected 1s left, got %+v", out)
	}

	f.clock.Set(epoch.Add(1500 * time.Second))
	out := f.poll(t)
	if out.Completed == nil {
		t.Fatalf("expected completion, got %+v", out)
	}
	if out.Mode != "Short Break" || out.Running || out.RemainingSeconds != 300 || out.Cycles != 1 || out.CycleDots != 1 {
		t.Fatalf("unexpected post-completion state: %+v", out)
	}
	if out.Completed.Award != 1 || out.Completed.Balance != 1 {
		t.Fatalf("unexpected completion: %+v", out.Completed)
	}
	if got := f.balance(t); got != 1 {
		t.Fatalf("expected balance 1, got %d", got)
	}
	if f.scheduler.Active() {
		t.Fatalf("expected poll cancelled after completion")
	}
	if f.notifier.count() != 1 {
		t.Fatalf("expected one notice, got %d", f.notifier.count())
	}
	if n := f.notifier.notices[0]; n.title != "Focus complete" || n.body != "Next up: Short Break (+1 coins)" {
		t.Fatalf("unexpected notice: %+v", n)
	}
}

func TestCompletionWritesCoinsAndSessionTogether(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.gw.sets = nil

	f.clock.Set(epoch.Add(1501 * time.Second))
	f.poll(t)

	if len(f.gw.sets) != 1 {
		t.Fatalf("expected one backend write, got %v", f.gw.sets)
	}
	want := map[string]bool{kv.KeyCoins: true, kv.KeyMode: true, kv.KeyCycles: true, kv.KeyPaused: true}
	for _, k := range f.gw.sets[0] {
		delete(want, k)
	}
	if len(want) != 0 {
		t.Fatalf("write %v missing keys %v", f.gw.sets[0], want)
	}
}

func TestOverlappingPollsCreditOnce(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Set(epoch.Add(2000 * time.Second))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.uc.Poll(context.Background())
			if err != nil {
				t.Errorf("poll: %v", err)
				return
			}
			if out.Completed != nil {
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if completed != 1 {
		t.Fatalf("expected exactly one completing poll, got %d", completed)
	}
	if got := f.balance(t); got != 1 {
		t.Fatalf("expected balance 1, got %d", got)
	}
	if f.notifier.count() != 1 {
		t.Fatalf("expected one notice, got %d", f.notifier.count())
	}
}

func TestRepeatedPollsAgree(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Set(epoch.Add(600*time.Second + 300*time.Millisecond))
	first := f.poll(t)
	second := f.poll(t)
	if first.RemainingSeconds != 900 || second.RemainingSeconds != first.RemainingSeconds {
		t.Fatalf("expected 900 twice, got %d and %d", first.RemainingSeconds, second.RemainingSeconds)
	}
}

func TestPauseAndResumeKeepRemaining(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Set(epoch.Add(100 * time.Second))
	paused, err := f.uc.Pause(ctx)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.Running || paused.RemainingSeconds != 1400 {
		t.Fatalf("unexpected paused state: %+v", paused)
	}
	if f.scheduler.Active() {
		t.Fatalf("expected poll cancelled on pause")
	}

	f.clock.Set(epoch.Add(5000 * time.Second))
	if out := f.poll(t); out.RemainingSeconds != 1400 || out.Completed != nil {
		t.Fatalf("paused timer must not move, got %+v", out)
	}

	restarted, err := f.uc.Start(ctx)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if !restarted.EndsAt.Equal(epoch.Add(6400 * time.Second)) {
		t.Fatalf("unexpected end time %v", restarted.EndsAt)
	}
}

func TestStartGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Pause(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected invalid state pausing a paused timer, got %v", err)
	}
	if _, err := f.uc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.uc.Start(ctx); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected invalid state starting twice, got %v", err)
	}
	if f.scheduler.arms != 1 {
		t.Fatalf("expected one armed handle, got %d arms", f.scheduler.arms)
	}
}

func TestResetCancelsAndLoadsMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := f.uc.Reset(ctx, dto.ResetInput{Mode: "long"})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if out.Mode != "Long Break" || out.Running || out.RemainingSeconds != 1200 {
		t.Fatalf("unexpected reset state: %+v", out)
	}
	if f.scheduler.Active() {
		t.Fatalf("expected poll cancelled on reset")
	}
	if got := f.balance(t); got != 0 {
		t.Fatalf("reset must not credit, got %d", got)
	}
	if _, err := f.uc.Reset(ctx, dto.ResetInput{Mode: "nap"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCadenceThroughPolls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := epoch
	var modes []string
	for n := 0; n < 8; n++ {
		f.clock.Set(now)
		started, err := f.uc.Start(ctx)
		if err != nil {
			t.Fatalf("start %d: %v", n, err)
		}
		now = started.EndsAt
		f.clock.Set(now)
		out := f.poll(t)
		if out.Completed == nil {
			t.Fatalf("expected completion on round %d", n)
		}
		modes = append(modes, out.Mode)
	}
	want := []string{"Short Break", "Focus", "Short Break", "Focus", "Short Break", "Focus", "Long Break", "Focus"}
	for n := range want {
		if modes[n] != want[n] {
			t.Fatalf("round %d: expected %s, got %s (all %v)", n, want[n], modes[n], modes)
		}
	}
	if got := f.balance(t); got != 4 {
		t.Fatalf("expected 4 coins from focus sessions only, got %d", got)
	}
	if f.notifier.notices[1].body != "Next up: Focus" {
		t.Fatalf("break completion must not mention coins: %+v", f.notifier.notices[1])
	}
}

func TestNotifierFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("no display")
	if _, err := f.uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Set(epoch.Add(1500 * time.Second))
	out := f.poll(t)
	if out.Completed == nil || f.balance(t) != 1 {
		t.Fatalf("completion must survive notifier failure: %+v", out)
	}
}

func TestResumeAfterSuspension(t *testing.T) {
	gw := &recordingGateway{MemoryGateway: kv.NewMemoryGateway()}
	clk := &fakeClock{now: epoch}
	first := newFixtureOn(t, gw, clk)
	if _, err := first.uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	clk.Set(epoch.Add(3 * time.Hour))
	second := newFixtureOn(t, gw, clk)
	out, err := second.uc.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if out.Completed == nil || out.Mode != "Short Break" {
		t.Fatalf("expected the overdue session to complete on resume, got %+v", out)
	}
	if second.scheduler.Active() {
		t.Fatalf("resume must not arm a finished session")
	}
	if got := second.balance(t); got != 1 {
		t.Fatalf("expected balance 1, got %d", got)
	}
}

func TestResumeRearmsRunningSession(t *testing.T) {
	gw := &recordingGateway{MemoryGateway: kv.NewMemoryGateway()}
	clk := &fakeClock{now: epoch}
	first := newFixtureOn(t, gw, clk)
	if _, err := first.uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	clk.Set(epoch.Add(10 * time.Minute))
	second := newFixtureOn(t, gw, clk)
	out, err := second.uc.Resume(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !out.Running || out.RemainingSeconds != 900 {
		t.Fatalf("unexpected resumed state: %+v", out)
	}
	if !second.scheduler.Active() {
		t.Fatalf("expected resume to arm the poll")
	}

	clk.Set(epoch.Add(25 * time.Minute))
	second.scheduler.Fire()
	if got := second.balance(t); got != 1 {
		t.Fatalf("expected the scheduled poll to credit, got %d", got)
	}
	if second.scheduler.Active() {
		t.Fatalf("expected the scheduled poll to cancel itself")
	}
}

func TestSubscribersSeeChanges(t *testing.T) {
	f := newFixture(t)
	var (
		mu   sync.Mutex
		seen []dto.StateOutput
	)
	unsubscribe := f.uc.Subscribe(func(out dto.StateOutput) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, out)
	})

	if _, err := f.uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Set(epoch.Add(1500 * time.Second))
	f.poll(t)
	unsubscribe()
	if _, err := f.uc.Reset(context.Background(), dto.ResetInput{}); err != nil {
		t.Fatalf("reset: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected two updates before unsubscribe, got %d", len(seen))
	}
	if seen[1].Completed == nil {
		t.Fatalf("expected the completion to be published")
	}
}

func TestDegradedPersistenceKeepsMemoryState(t *testing.T) {
	f := newFixture(t)
	f.gw.fail = true

	out, err := f.uc.Start(context.Background())
	if err != nil {
		t.Fatalf("start must not fail on a rejected write: %v", err)
	}
	if out.Warning == "" || !out.Running {
		t.Fatalf("expected a running state with a warning, got %+v", out)
	}
	if !f.scheduler.Active() {
		t.Fatalf("expected the poll armed despite the warning")
	}

	f.gw.fail = false
	f.clock.Set(epoch.Add(1500 * time.Second))
	done := f.poll(t)
	if done.Completed == nil || done.Warning != "" {
		t.Fatalf("expected a clean completion once the backend recovers, got %+v", done)
	}
	if len(f.cache.Pending()) != 0 {
		t.Fatalf("expected nothing pending, got %v", f.cache.Pending())
	}
}
