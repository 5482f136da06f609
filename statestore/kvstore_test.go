package statestore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/statekit/errors"
	"github.com/c360/statekit/pkg/retry"
	"github.com/c360/statekit/statekey"
)

// fakeKV is an in-memory stand-in for a JetStream KV bucket. Only the
// methods the store touches are implemented; the embedded interface
// panics on anything else, which keeps the fake honest.
type fakeKV struct {
	jetstream.KeyValue

	mu          sync.Mutex
	data        map[string]fakeVal
	nextRev     uint64
	failUpdates int // inject this many CAS conflicts before succeeding
}

type fakeVal struct {
	value    []byte
	revision uint64
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]fakeVal)}
}

func (f *fakeKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return fakeEntry{key: key, value: v.value, revision: v.revision}, nil
}

func (f *fakeKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRev++
	f.data[key] = fakeVal{value: value, revision: f.nextRev}
	return f.nextRev, nil
}

func (f *fakeKV) Create(_ context.Context, key string, value []byte) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return 0, jetstream.ErrKeyExists
	}
	f.nextRev++
	f.data[key] = fakeVal{value: value, revision: f.nextRev}
	return f.nextRev, nil
}

func (f *fakeKV) Update(_ context.Context, key string, value []byte, revision uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates > 0 {
		f.failUpdates--
		return 0, fmt.Errorf("nats: API error: code=10071 err_code=10071 description=wrong last sequence")
	}
	v, ok := f.data[key]
	if !ok {
		return 0, jetstream.ErrKeyNotFound
	}
	if v.revision != revision {
		return 0, fmt.Errorf("nats: API error: code=10071 err_code=10071 description=wrong last sequence")
	}
	f.nextRev++
	f.data[key] = fakeVal{value: value, revision: f.nextRev}
	return f.nextRev, nil
}

func (f *fakeKV) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(f.data, key)
	return nil
}

func (f *fakeKV) ListKeys(_ context.Context, _ ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan string, len(f.data))
	for key := range f.data {
		ch <- key
	}
	close(ch)
	return fakeLister{ch: ch}, nil
}

type fakeEntry struct {
	key      string
	value    []byte
	revision uint64
}

func (e fakeEntry) Bucket() string                  { return "test" }
func (e fakeEntry) Key() string                     { return e.key }
func (e fakeEntry) Value() []byte                   { return e.value }
func (e fakeEntry) Revision() uint64                { return e.revision }
func (e fakeEntry) Created() time.Time              { return time.Time{} }
func (e fakeEntry) Delta() uint64                   { return 0 }
func (e fakeEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

type fakeLister struct {
	ch chan string
}

func (l fakeLister) Keys() <-chan string { return l.ch }
func (l fakeLister) Stop() error         { return nil }

func testStore(kv jetstream.KeyValue) *KVStore {
	return New(kv, func(o *Options) {
		o.CASRetry = retry.Config{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	})
}

func testInstance(key string) statekey.Instance {
	return statekey.Instance{
		StateKey: key,
		State:    json.RawMessage(`{"battery":90}`),
	}
}

func TestKeyMapping(t *testing.T) {
	assert.Equal(t, "my-service/12//", storeKey("my-service:12::"))
	assert.Equal(t, "my-service:12::", addressingKey("my-service/12//"))
}

func TestPutAndGet(t *testing.T) {
	kv := newFakeKV()
	store := testStore(kv)
	ctx := context.Background()

	rev, err := store.Put(ctx, testInstance("my-service:12::"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	// Stored under the mapped keyspace.
	_, ok := kv.data["my-service/12//"]
	assert.True(t, ok)

	inst, err := store.Get(ctx, "my-service:12::")
	require.NoError(t, err)
	assert.Equal(t, "my-service:12::", inst.StateKey)
	assert.Equal(t, ":my-service:", inst.Kind)
	assert.JSONEq(t, `{"battery":90}`, string(inst.State))
	assert.Equal(t, uint64(1), inst.Revision)
}

func TestPutMissingStateKey(t *testing.T) {
	store := testStore(newFakeKV())

	_, err := store.Put(context.Background(), statekey.Instance{State: json.RawMessage(`{}`)})
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.True(t, statekey.IsKind(err, statekey.ErrMissingStateKey))
}

func TestPutOversizedValue(t *testing.T) {
	store := New(newFakeKV(), func(o *Options) {
		o.MaxValueSize = 16
	})

	_, err := store.Put(context.Background(), testInstance("my-service:12::"))
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.ErrorIs(t, err, errors.ErrValueTooLarge)
}

func TestGetNotFound(t *testing.T) {
	store := testStore(newFakeKV())

	_, err := store.Get(context.Background(), "my-service:12::")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestGetCorruptInstance(t *testing.T) {
	kv := newFakeKV()
	kv.data["my-service/12//"] = fakeVal{value: []byte("not json"), revision: 1}
	store := testStore(kv)

	_, err := store.Get(context.Background(), "my-service:12::")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.ErrorIs(t, err, errors.ErrDataCorrupted)
}

func TestUpdateCreatesWhenAbsent(t *testing.T) {
	store := testStore(newFakeKV())
	ctx := context.Background()

	inst, err := store.Update(ctx, "my-service:12::", func(current statekey.Instance) (statekey.Instance, error) {
		assert.Equal(t, uint64(0), current.Revision)
		assert.Equal(t, "my-service:12::", current.StateKey)
		current.State = json.RawMessage(`{"count":1}`)
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), inst.Revision)

	stored, err := store.Get(ctx, "my-service:12::")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1}`, string(stored.State))
}

func TestUpdateMutatesExisting(t *testing.T) {
	store := testStore(newFakeKV())
	ctx := context.Background()

	_, err := store.Put(ctx, testInstance("my-service:12::"))
	require.NoError(t, err)

	inst, err := store.Update(ctx, "my-service:12::", func(current statekey.Instance) (statekey.Instance, error) {
		var state map[string]int
		require.NoError(t, json.Unmarshal(current.State, &state))
		state["battery"]--
		data, _ := json.Marshal(state)
		current.State = data
		return current, nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"battery":89}`, string(inst.State))
	assert.Equal(t, uint64(2), inst.Revision)
}

func TestUpdateRetriesConflicts(t *testing.T) {
	kv := newFakeKV()
	store := testStore(kv)
	ctx := context.Background()

	_, err := store.Put(ctx, testInstance("my-service:12::"))
	require.NoError(t, err)
	kv.failUpdates = 2

	mutations := 0
	_, err = store.Update(ctx, "my-service:12::", func(current statekey.Instance) (statekey.Instance, error) {
		mutations++
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, mutations)
}

func TestUpdateMutateErrorNotRetried(t *testing.T) {
	store := testStore(newFakeKV())
	boom := stderrors.New("domain rejected the change")

	calls := 0
	_, err := store.Update(context.Background(), "my-service:12::", func(statekey.Instance) (statekey.Instance, error) {
		calls++
		return statekey.Instance{}, boom
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
}

func TestDeleteIdempotent(t *testing.T) {
	store := testStore(newFakeKV())
	ctx := context.Background()

	_, err := store.Put(ctx, testInstance("my-service:12::"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "my-service:12::"))
	require.NoError(t, store.Delete(ctx, "my-service:12::"))

	_, err = store.Get(ctx, "my-service:12::")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestListByDescriptor(t *testing.T) {
	store := testStore(newFakeKV())
	ctx := context.Background()

	for _, key := range []string{"my-service:1::", "my-service:2::", "other:9"} {
		_, err := store.Put(ctx, testInstance(key))
		require.NoError(t, err)
	}

	d := statekey.Descriptor{DisplayName: "myService", KeyProps: []string{"a", "propB", "c"}}
	keys, err := store.List(ctx, d)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"my-service:1::", "my-service:2::"}, keys)
}

func TestMetricsObserved(t *testing.T) {
	metrics := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	kv := newFakeKV()
	store := New(kv, func(o *Options) {
		o.Metrics = metrics
		o.CASRetry = retry.Config{MaxAttempts: 5, InitialDelay: time.Millisecond, Multiplier: 1}
	})
	ctx := context.Background()

	_, err := store.Put(ctx, testInstance("my-service:12::"))
	require.NoError(t, err)
	_, err = store.Get(ctx, "my-service:12::")
	require.NoError(t, err)
	_, err = store.Get(ctx, "my-service:missing::")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("put", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("get", "error")))

	kv.failUpdates = 1
	_, err = store.Update(ctx, "my-service:12::", func(c statekey.Instance) (statekey.Instance, error) {
		return c, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CASConflicts))
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.observe("put", time.Now(), nil)
	m.conflict()
	assert.NoError(t, m.Register(prometheus.NewRegistry()))
}
