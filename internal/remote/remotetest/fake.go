// Package remotetest provides an in-memory remote.Client for tests.
package remotetest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

type row struct {
	id  string
	doc json.RawMessage
}

// Fake is a remote store kept in memory. Failures and hangs can be
// switched on per test.
type Fake struct {
	mu           sync.Mutex
	tables       map[string][]row
	unconfigured bool
	readErr      error
	writeErr     error
	block        chan struct{}
	calls        map[string]int
}

// New returns a configured, empty Fake.
func New() *Fake {
	return &Fake{tables: make(map[string][]row), calls: make(map[string]int)}
}

// SetConfigured toggles whether the fake reports credentials.
func (f *Fake) SetConfigured(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unconfigured = !ok
}

// FailReads makes SelectAll return err; nil restores normal reads.
func (f *Fake) FailReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// FailWrites makes Upsert and DeleteByID return err; nil restores them.
func (f *Fake) FailWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

// Hang makes SelectAll block, ignoring its context, until release is
// called.
func (f *Fake) Hang() (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.block = ch
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.block = nil
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Seed appends items to table as JSON documents. Each item must encode
// with an "id" field.
func (f *Fake) Seed(table string, items ...any) error {
	for _, it := range items {
		doc, err := json.Marshal(it)
		if err != nil {
			return err
		}
		var key struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(doc, &key); err != nil {
			return err
		}
		f.put(table, key.ID, doc)
	}
	return nil
}

// SeedRaw appends a raw document, which need not be valid JSON.
func (f *Fake) SeedRaw(table, id string, doc []byte) {
	f.put(table, id, doc)
}

// Docs returns the documents of table in insertion order.
func (f *Fake) Docs(table string) []json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]json.RawMessage, 0, len(f.tables[table]))
	for _, r := range f.tables[table] {
		out = append(out, r.doc)
	}
	return out
}

// Calls returns how many times op ("select", "upsert", "delete") ran.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Fake) Configured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.unconfigured
}

func (f *Fake) Endpoint() string { return "fake://remote" }

func (f *Fake) SelectAll(_ context.Context, table string) ([]json.RawMessage, error) {
	f.mu.Lock()
	f.calls["select"]++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	err := f.readErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Docs(table), nil
}

func (f *Fake) Upsert(_ context.Context, table, id string, doc json.RawMessage) error {
	f.mu.Lock()
	f.calls["upsert"]++
	err := f.writeErr
	f.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, "fake upsert")
	}
	f.put(table, id, doc)
	return nil
}

func (f *Fake) DeleteByID(_ context.Context, table, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.writeErr != nil {
		return errors.Wrap(f.writeErr, "fake delete")
	}
	rows := f.tables[table]
	for i, r := range rows {
		if r.id == id {
			f.tables[table] = append(rows[:i:i], rows[i+1:]...)
			break
		}
	}
	return nil
}

func (f *Fake) put(table, id string, doc []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make(json.RawMessage, len(doc))
	copy(cp, doc)
	rows := f.tables[table]
	for i, r := range rows {
		if r.id == id {
			next := append([]row(nil), rows...)
			next[i] = row{id: id, doc: cp}
			f.tables[table] = next
			return
		}
	}
	f.tables[table] = append(rows, row{id: id, doc: cp})
}
