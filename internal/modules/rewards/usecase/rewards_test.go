package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"

	ledgerout "pomocoin/internal/modules/ledger/adapter/out"
	ledgerdto "pomocoin/internal/modules/ledger/dto"
	ledgerin "pomocoin/internal/modules/ledger/port/in"
	ledgerservice "pomocoin/internal/modules/ledger/service"
	ledgerusecase "pomocoin/internal/modules/ledger/usecase"
	rewardsout "pomocoin/internal/modules/rewards/adapter/out"
	"pomocoin/internal/modules/rewards/dto"
	rewardsin "pomocoin/internal/modules/rewards/port/in"
	"pomocoin/internal/modules/rewards/service"
	"pomocoin/internal/modules/rewards/usecase"
	apperrors "pomocoin/internal/platform/errors"
	"pomocoin/internal/platform/kv"
	"pomocoin/internal/platform/logging"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("reward-%d", s.n)
}

type recordingGateway struct {
	*kv.MemoryGateway
	sets [][]string
}

func (g *recordingGateway) Set(ctx context.Context, values map[string]json.RawMessage) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	g.sets = append(g.sets, keys)
	return g.MemoryGateway.Set(ctx, values)
}

type fixture struct {
	gw     *recordingGateway
	svc    *service.RewardService
	ledger ledgerin.Usecase
	uc     rewardsin.Usecase
}

func newFixture(t *testing.T, coins int) *fixture {
	t.Helper()
	ctx := context.Background()
	gw := &recordingGateway{MemoryGateway: kv.NewMemoryGateway()}
	cache := kv.NewCache(gw)
	if err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	log := logging.Discard()
	ledger := ledgerusecase.NewInteractor(ledgerservice.NewLedgerService(ledgerout.NewKVBalanceStore(cache)), cache, log)
	if coins > 0 {
		if _, err := ledger.Credit(ctx, ledgerdto.CreditInput{Amount: coins}); err != nil {
			t.Fatalf("seed coins: %v", err)
		}
	}
	svc := service.NewRewardService(&seqID{}, rewardsout.NewKVRewardStore(cache))
	return &fixture{gw: gw, svc: svc, ledger: ledger, uc: usecase.NewInteractor(svc, ledger, cache, log)}
}

func (f *fixture) balance(t *testing.T) int {
	t.Helper()
	out, err := f.ledger.Balance(context.Background())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return out.Balance
}

func TestRedeemWithoutEnoughCoinsFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 3)
	coffee, err := f.uc.Add(ctx, dto.AddRewardInput{Name: "Coffee", Cost: 5})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if coffee.Reward.Affordable {
		t.Fatalf("5-coin reward must not look affordable with 3 coins")
	}
	if _, err := f.uc.Redeem(ctx, coffee.Reward.ID); !errors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if f.balance(t) != 3 {
		t.Fatalf("balance must stay 3, got %d", f.balance(t))
	}
	got, _ := f.uc.Get(ctx, coffee.Reward.ID)
	if got.Redeemed != 0 {
		t.Fatalf("failed redemption must not count")
	}
}

func TestRedeemDebitsAndKeepsReward(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 12)
	tea, _ := f.uc.Add(ctx, dto.AddRewardInput{Name: "Tea", Cost: 5})
	f.gw.sets = nil

	first, err := f.uc.Redeem(ctx, tea.Reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if first.Balance != 7 || f.balance(t) != 7 {
		t.Fatalf("expected balance 7, got %d", first.Balance)
	}
	if len(f.gw.sets) != 1 || len(f.gw.sets[0]) != 2 || f.gw.sets[0][0] != kv.KeyCoins || f.gw.sets[0][1] != kv.KeyRewards {
		t.Fatalf("redemption must write coins and rewards together, got %v", f.gw.sets)
	}

	second, err := f.uc.Redeem(ctx, tea.Reward.ID)
	if err != nil || second.Balance != 2 || second.Reward.Redeemed != 2 {
		t.Fatalf("repeat redemption: %+v %v", second, err)
	}
	if second.Reward.Affordable {
		t.Fatalf("with 2 coins left a 5-coin reward is not affordable")
	}
	list, _ := f.uc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("redeemed reward must stay in the catalog: %+v", list)
	}
	if _, err := f.uc.Redeem(ctx, tea.Reward.ID); !errors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Fatalf("third redemption must fail, got %v", err)
	}
}

func TestRedeemSucceedsIffCostWithinBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, tc := range []struct{ balance, cost int }{{5, 5}, {5, 6}, {0, 1}, {999, 999}, {10, 3}} {
		f := newFixture(t, tc.balance)
		r, err := f.uc.Add(ctx, dto.AddRewardInput{Name: "Thing", Cost: tc.cost})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		_, err = f.uc.Redeem(ctx, r.Reward.ID)
		if tc.cost <= tc.balance {
			if err != nil || f.balance(t) != tc.balance-tc.cost {
				t.Fatalf("%+v: expected success, got %v balance %d", tc, err, f.balance(t))
			}
			continue
		}
		if !errors.Is(err, apperrors.ErrInsufficientFunds) || f.balance(t) != tc.balance {
			t.Fatalf("%+v: expected unchanged balance and insufficient funds, got %v %d", tc, err, f.balance(t))
		}
	}
}

func TestDeleteByIDWithDuplicateValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 10)
	first, _ := f.uc.Add(ctx, dto.AddRewardInput{Name: "Movie", Cost: 8})
	second, _ := f.uc.Add(ctx, dto.AddRewardInput{Name: "Movie", Cost: 8})

	if _, err := f.uc.Delete(ctx, second.Reward.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := f.uc.List(ctx)
	if len(list) != 1 || list[0].ID != first.Reward.ID {
		t.Fatalf("delete must remove exactly the addressed reward: %+v", list)
	}
	if f.balance(t) != 10 {
		t.Fatalf("delete must not refund or charge")
	}
	if _, err := f.uc.Delete(ctx, second.Reward.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.uc.Redeem(ctx, second.Reward.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on redeem, got %v", err)
	}
}

func TestAddAndEditValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 0)
	for _, in := range []dto.AddRewardInput{{Name: "", Cost: 3}, {Name: "Cake", Cost: 0}, {Name: "Cake", Cost: 1000}} {
		if _, err := f.uc.Add(ctx, in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}
	cake, _ := f.uc.Add(ctx, dto.AddRewardInput{Name: "Cake", Cost: 30})
	bad := 0
	if _, err := f.uc.Edit(ctx, dto.EditRewardInput{ID: cake.Reward.ID, Cost: &bad}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid cost, got %v", err)
	}
	name, cost := "Cheesecake", 40
	edited, err := f.uc.Edit(ctx, dto.EditRewardInput{ID: cake.Reward.ID, Name: &name, Cost: &cost})
	if err != nil || edited.Reward.Name != name || edited.Reward.Cost != cost {
		t.Fatalf("edit: %+v %v", edited, err)
	}
	got, _ := f.uc.Get(ctx, cake.Reward.ID)
	if got.Cost != 40 {
		t.Fatalf("edit not persisted: %+v", got)
	}
}

func TestImportRepairsLegacyRewards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 0)
	legacy := `[{"name":"Nap","cost":0},{"name":"Game","cost":20}]`
	_ = f.gw.MemoryGateway.Set(ctx, map[string]json.RawMessage{kv.KeyRewards: json.RawMessage(legacy)})
	// reload so the cache sees the legacy blob
	cache := kv.NewCache(f.gw)
	if err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	svc := service.NewRewardService(&seqID{}, rewardsout.NewKVRewardStore(cache))
	changed, err := svc.Import(ctx)
	if err != nil || changed != 2 {
		t.Fatalf("import: %d %v", changed, err)
	}
	rewards, _ := svc.List(ctx)
	if rewards[0].ID == "" || rewards[0].Cost != 1 || rewards[1].Cost != 20 {
		t.Fatalf("unexpected rewards after import %+v", rewards)
	}
}
