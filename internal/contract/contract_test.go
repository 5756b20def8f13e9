package contract

import (
	"encoding/json"
	"errors"
	"testing"

	"counter-contract/go-backend/internal/domains/contracts"
	"counter-contract/go-backend/internal/domains/contracts/ports"
	"counter-contract/go-backend/internal/domains/counter"
	"counter-contract/go-backend/internal/domains/registry"

	"github.com/google/go-cmp/cmp"
)

type mapStorage map[string][]byte

func (m mapStorage) Get(key []byte) []byte { return m[string(key)] }
func (m mapStorage) Set(key, value []byte) { m[string(key)] = append([]byte(nil), value...) }
func (m mapStorage) Delete(key []byte)     { delete(m, string(key)) }

func mockEnv(nanos uint64) ports.Env {
	return ports.Env{
		Block: ports.BlockInfo{
			Height:  12345,
			Time:    ports.Timestamp(nanos),
			ChainID: "cosmos-testnet-14002",
		},
		Contract: ports.ContractInfo{Address: "cosmos2contract"},
	}
}

func info(sender string) ports.MessageInfo {
	return ports.MessageInfo{Sender: sender}
}

const blockTime = 1571797419879305533

func mustInstantiate(t *testing.T, c *Contract, storage ports.Storage, count int32) {
	t.Helper()
	if _, err := c.Instantiate(storage, mockEnv(blockTime), info("creator"), InstantiateMsg{Count: count}); err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}
}

func mustCount(t *testing.T, c *Contract, storage ports.Storage) CountResponse {
	t.Helper()
	res, err := c.QueryCount(storage)
	if err != nil {
		t.Fatalf("query count failed: %v", err)
	}
	return res
}

func TestInstantiateThenQueryReturnsCountAndOwner(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}

	res, err := c.Instantiate(storage, mockEnv(blockTime), info("creator"), InstantiateMsg{Count: 17})
	if err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}
	wantAttrs := []ports.Attribute{
		{Key: "method", Value: "instantiate"},
		{Key: "owner", Value: "creator"},
		{Key: "count", Value: "17"},
	}
	if diff := cmp.Diff(wantAttrs, res.Attributes); diff != "" {
		t.Fatalf("unexpected attributes (-want +got):\n%s", diff)
	}

	want := CountResponse{
		Count:   17,
		Message: counter.InitialMessage,
		Owner:   "creator",
		Updated: 1571797419879,
	}
	if diff := cmp.Diff(want, mustCount(t, c, storage)); diff != "" {
		t.Fatalf("unexpected count response (-want +got):\n%s", diff)
	}
}

func TestInstantiateRecordsContractVersion(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}
	if _, err := c.QueryContractVersion(storage); !errors.Is(err, counter.ErrStateNotInitialized) {
		t.Fatalf("expected ErrStateNotInitialized before instantiate, got %v", err)
	}
	mustInstantiate(t, c, storage, 1)
	res, err := c.Query(storage, mockEnv(blockTime), QueryMsg{ContractVersion: &ContractVersionQuery{}})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	want := ContractVersionResponse{Contract: "crates.io:counter", Version: ContractVersion}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("unexpected version (-want +got):\n%s", diff)
	}
}

func TestReinstantiateOverwritesOwner(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}
	mustInstantiate(t, c, storage, 17)
	if _, err := c.Instantiate(storage, mockEnv(blockTime+1), info("someone-else"), InstantiateMsg{Count: 2}); err != nil {
		t.Fatalf("second instantiate failed: %v", err)
	}
	got := mustCount(t, c, storage)
	if got.Owner != "someone-else" || got.Count != 2 {
		t.Fatalf("expected overwritten state, got %+v", got)
	}
}

func TestIncrementAnyCallerIsMonotonic(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}
	mustInstantiate(t, c, storage, 17)

	callers := []string{"anyone", "creator", "somebody"}
	for i := 0; i < 9; i++ {
		res, err := c.Execute(storage, mockEnv(blockTime+uint64(i)), info(callers[i%len(callers)]), ExecuteMsg{Increment: &IncrementMsg{}})
		if err != nil {
			t.Fatalf("increment %d failed: %v", i, err)
		}
		if method, _ := res.Attribute("method"); method != "try_increment" {
			t.Fatalf("unexpected method attribute %q", method)
		}
	}
	got := mustCount(t, c, storage)
	if got.Count != 26 {
		t.Fatalf("expected count=26, got %d", got.Count)
	}
	if got.Message != "Counter incremented 26" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestResetAuthorization(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}
	mustInstantiate(t, c, storage, 17)

	_, err := c.Execute(storage, mockEnv(blockTime), info("anyone"), ExecuteMsg{Reset: &ResetMsg{Count: 5}})
	if !errors.Is(err, counter.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got := contracts.ErrorCategory(err); got != contracts.ErrorCategoryAuth {
		t.Fatalf("expected auth category, got %q", got)
	}
	if got := mustCount(t, c, storage).Count; got != 17 {
		t.Fatalf("expected count to stay 17, got %d", got)
	}

	res, err := c.Execute(storage, mockEnv(blockTime), info("creator"), ExecuteMsg{Reset: &ResetMsg{Count: 5}})
	if err != nil {
		t.Fatalf("owner reset failed: %v", err)
	}
	if method, _ := res.Attribute("method"); method != "reset" {
		t.Fatalf("unexpected method attribute %q", method)
	}
	got := mustCount(t, c, storage)
	if got.Count != 5 || got.Message != "Counter reset :5" {
		t.Fatalf("unexpected state after reset: %+v", got)
	}
}

func TestOwnerIdentityIsStoredVerbatim(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}
	if _, err := c.Instantiate(storage, mockEnv(blockTime), info("alice "), InstantiateMsg{Count: 1}); err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}
	if got := mustCount(t, c, storage).Owner; got != "alice " {
		t.Fatalf("expected owner to be stored verbatim, got %q", got)
	}
	if _, err := c.Execute(storage, mockEnv(blockTime), info("alice "), ExecuteMsg{Reset: &ResetMsg{Count: 9}}); err != nil {
		t.Fatalf("initializer reset failed: %v", err)
	}
	_, err := c.Execute(storage, mockEnv(blockTime), info("alice"), ExecuteMsg{Reset: &ResetMsg{Count: 0}})
	if !errors.Is(err, counter.ErrUnauthorized) {
		t.Fatalf("expected a different identity to be unauthorized, got %v", err)
	}
	if got := mustCount(t, c, storage).Count; got != 9 {
		t.Fatalf("expected count 9, got %d", got)
	}
	if _, err := c.Instantiate(mapStorage{}, mockEnv(blockTime), info("  "), InstantiateMsg{}); !errors.Is(err, counter.ErrInvalidOwner) {
		t.Fatalf("expected blank owner to be rejected, got %v", err)
	}
}

func TestCounterScenario(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}

	mustInstantiate(t, c, storage, 17)
	if got := mustCount(t, c, storage).Count; got != 17 {
		t.Fatalf("expected 17, got %d", got)
	}

	if _, err := c.Execute(storage, mockEnv(blockTime), info("anyone"), ExecuteMsg{Increment: &IncrementMsg{}}); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if got := mustCount(t, c, storage).Count; got != 18 {
		t.Fatalf("expected 18, got %d", got)
	}

	if _, err := c.Execute(storage, mockEnv(blockTime), info("creator"), ExecuteMsg{Reset: &ResetMsg{Count: 5}}); err != nil {
		t.Fatalf("owner reset failed: %v", err)
	}
	if got := mustCount(t, c, storage).Count; got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}

	if _, err := c.Execute(storage, mockEnv(blockTime), info("anyone"), ExecuteMsg{Reset: &ResetMsg{Count: 99}}); !errors.Is(err, counter.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got := mustCount(t, c, storage).Count; got != 5 {
		t.Fatalf("expected 5 after rejected reset, got %d", got)
	}
}

func TestMemberScenario(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}

	res, err := c.Execute(storage, mockEnv(blockTime), info("creator"), ExecuteMsg{
		AddNewMember: &AddNewMemberMsg{Key: "mem-0001", Name: "Katherine Tey", Age: 44},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if method, _ := res.Attribute("method"); method != "add_member" {
		t.Fatalf("unexpected method attribute %q", method)
	}

	got, err := c.QueryMember(storage, "mem-0001")
	if err != nil {
		t.Fatalf("query member failed: %v", err)
	}
	want := MemberResponse{
		Found:  true,
		Member: &MemberView{Name: "Katherine Tey", Age: 44, DateJoined: blockTime},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected member response (-want +got):\n%s", diff)
	}

	res, err = c.Execute(storage, mockEnv(blockTime), info("creator"), ExecuteMsg{DeleteMember: &DeleteMemberMsg{Key: "mem-0001"}})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if method, _ := res.Attribute("method"); method != "member.deleted!" {
		t.Fatalf("unexpected method attribute %q", method)
	}

	got, err = c.QueryMember(storage, "mem-0001")
	if err != nil {
		t.Fatalf("query member failed: %v", err)
	}
	if got.Found || got.Member != nil {
		t.Fatalf("expected member to be gone, got %+v", got)
	}
}

func TestMemberRegistryErrors(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}

	_, err := c.Execute(storage, mockEnv(blockTime), info("creator"), ExecuteMsg{
		UpdateMember: &UpdateMemberMsg{Key: "ghost", Name: "x", Age: 1},
	})
	if !errors.Is(err, registry.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound on update, got %v", err)
	}
	_, err = c.Execute(storage, mockEnv(blockTime), info("creator"), ExecuteMsg{DeleteMember: &DeleteMemberMsg{Key: "ghost"}})
	if !errors.Is(err, registry.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound on delete, got %v", err)
	}
	if got := contracts.ErrorCategory(err); got != contracts.ErrorCategoryRegistry {
		t.Fatalf("expected registry category, got %q", got)
	}

	add := ExecuteMsg{AddNewMember: &AddNewMemberMsg{Key: "mem-0001", Name: "Katherine Tey", Age: 44}}
	if _, err := c.Execute(storage, mockEnv(blockTime), info("creator"), add); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := c.Execute(storage, mockEnv(blockTime+5), info("creator"), add); !errors.Is(err, registry.ErrMemberAlreadyExists) {
		t.Fatalf("expected ErrMemberAlreadyExists, got %v", err)
	}
}

func TestUpdateMemberJoinDatePolicies(t *testing.T) {
	const joined, edited = blockTime, blockTime + 60_000_000_000
	run := func(policy registry.JoinDatePolicy) ports.Timestamp {
		c := New(Options{JoinDate: policy})
		storage := mapStorage{}
		if _, err := c.Execute(storage, mockEnv(joined), info("creator"), ExecuteMsg{
			AddNewMember: &AddNewMemberMsg{Key: "mem-0001", Name: "Katherine Tey", Age: 44},
		}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		res, err := c.Execute(storage, mockEnv(edited), info("creator"), ExecuteMsg{
			UpdateMember: &UpdateMemberMsg{Key: "mem-0001", Name: "Katherine Tey", Age: 45},
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if method, _ := res.Attribute("method"); method != "member updated!" {
			t.Fatalf("unexpected method attribute %q", method)
		}
		got, err := c.QueryMember(storage, "mem-0001")
		if err != nil || !got.Found {
			t.Fatalf("query member failed: found=%v err=%v", got.Found, err)
		}
		if got.Member.Age != 45 {
			t.Fatalf("expected age=45, got %d", got.Member.Age)
		}
		return got.Member.DateJoined
	}

	if got := run(registry.JoinDateRestamp); got != edited {
		t.Fatalf("restamp policy: expected date_joined=%d, got %d", uint64(edited), got)
	}
	if got := run(registry.JoinDatePreserve); got != joined {
		t.Fatalf("preserve policy: expected date_joined=%d, got %d", uint64(joined), got)
	}
	if New(Options{}).Options().JoinDate != registry.JoinDateRestamp {
		t.Fatal("expected restamp to be the default policy")
	}
}

func TestQueryBeforeInstantiateFails(t *testing.T) {
	c := New(Options{})
	_, err := c.Query(mapStorage{}, mockEnv(blockTime), QueryMsg{GetCount: &GetCountQuery{}})
	if !errors.Is(err, counter.ErrStateNotInitialized) {
		t.Fatalf("expected ErrStateNotInitialized, got %v", err)
	}
	if got := contracts.ErrorCategory(err); got != contracts.ErrorCategoryState {
		t.Fatalf("expected state category, got %q", got)
	}
	_, err = c.Execute(mapStorage{}, mockEnv(blockTime), info("anyone"), ExecuteMsg{Increment: &IncrementMsg{}})
	if !errors.Is(err, counter.ErrStateNotInitialized) {
		t.Fatalf("expected ErrStateNotInitialized on increment, got %v", err)
	}
}

func TestDispatchRejectsAmbiguousMessages(t *testing.T) {
	c := New(Options{})
	storage := mapStorage{}
	mustInstantiate(t, c, storage, 1)

	if _, err := c.Execute(storage, mockEnv(blockTime), info("creator"), ExecuteMsg{}); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage for empty message, got %v", err)
	}
	both := ExecuteMsg{Increment: &IncrementMsg{}, Reset: &ResetMsg{Count: 3}}
	if _, err := c.Execute(storage, mockEnv(blockTime), info("creator"), both); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage for two variants, got %v", err)
	}
	if got := mustCount(t, c, storage).Count; got != 1 {
		t.Fatalf("expected no mutation, count=%d", got)
	}
	if _, err := c.Query(storage, mockEnv(blockTime), QueryMsg{}); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage for empty query, got %v", err)
	}
}

func TestMessagesDecodeFromWireShape(t *testing.T) {
	var exec ExecuteMsg
	if err := json.Unmarshal([]byte(`{"add_new_member":{"key":"mem-0001","name":"Katherine Tey","age":44}}`), &exec); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	kind, err := exec.Kind()
	if err != nil || kind != "add_new_member" {
		t.Fatalf("unexpected kind=%q err=%v", kind, err)
	}
	if err := json.Unmarshal([]byte(`{"increment":{}}`), &exec); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if exec.Increment == nil {
		t.Fatal("expected increment variant to be set")
	}

	var query QueryMsg
	if err := json.Unmarshal([]byte(`{"get_member":{"key":"mem-0001"}}`), &query); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if kind, _ := query.Kind(); kind != "get_member" {
		t.Fatalf("unexpected query kind %q", kind)
	}

	raw, err := json.Marshal(MemberResponse{Found: false})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if string(raw) != `{"found":false,"member":null}` {
		t.Fatalf("unexpected encoding: %s", raw)
	}
}
