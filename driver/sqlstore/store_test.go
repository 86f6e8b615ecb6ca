package sqlstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash/driver"
	"github.com/youssefsiam38/admindash/storage"
)

var errNoRows = errors.New("no rows")

type fakeRow struct{ err error }

func (r fakeRow) Scan(...any) error { return r.err }

// fakeExec records statements and fails the ones matching failOn.
type fakeExec struct {
	stmts     []string
	failOn    string
	rowErr    error
	affected  int64
	committed bool
	rolled    bool
}

func (f *fakeExec) Begin(context.Context) (driver.ExecutorTx, error) { return f, nil }

func (f *fakeExec) Exec(_ context.Context, sql string, _ ...any) (int64, error) {
	f.stmts = append(f.stmts, strings.Fields(sql)[0])
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return 0, errors.New("boom")
	}
	return f.affected, nil
}

func (f *fakeExec) Query(context.Context, string, ...any) (driver.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeExec) QueryRow(context.Context, string, ...any) driver.Row { return fakeRow{f.rowErr} }

func (f *fakeExec) Commit(context.Context) error   { f.committed = true; return nil }
func (f *fakeExec) Rollback(context.Context) error { f.rolled = true; return nil }

type batchExec struct {
	*fakeExec
	batches [][]driver.BatchItem
}

func (b *batchExec) Begin(context.Context) (driver.ExecutorTx, error) { return b, nil }

func (b *batchExec) SendBatch(_ context.Context, items []driver.BatchItem) ([]int64, error) {
	b.batches = append(b.batches, items)
	return make([]int64, len(items)), nil
}

func TestReplaceAll_Sequential(t *testing.T) {
	exec := &fakeExec{}
	s := New(exec, IsNoRows(errNoRows))

	err := s.ReplaceAll(context.Background(),
		[]*storage.User{{ID: 1}, {ID: 2}},
		[]*storage.Product{{ID: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"DELETE", "DELETE", "INSERT", "INSERT", "INSERT"}, exec.stmts)
	assert.True(t, exec.committed)
	assert.False(t, exec.rolled)
}

func TestReplaceAll_RollsBackOnError(t *testing.T) {
	exec := &fakeExec{failOn: "admindash_products ("}
	s := New(exec, IsNoRows(errNoRows))

	err := s.ReplaceAll(context.Background(), []*storage.User{{ID: 1}}, []*storage.Product{{ID: 1}})
	require.Error(t, err)
	assert.True(t, exec.rolled)
	assert.False(t, exec.committed)
}

func TestReplaceAll_Batch(t *testing.T) {
	exec := &batchExec{fakeExec: &fakeExec{}}
	s := New(exec, IsNoRows(errNoRows))

	require.NoError(t, s.ReplaceAll(context.Background(), []*storage.User{{ID: 1}}, nil))
	require.Len(t, exec.batches, 1)
	assert.Len(t, exec.batches[0], 3)
	assert.Empty(t, exec.stmts)
}

func TestNotFoundMapping(t *testing.T) {
	ctx := context.Background()

	s := New(&fakeExec{rowErr: errNoRows}, IsNoRows(errNoRows))
	_, err := s.GetUser(ctx, 4)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetSetting(ctx, storage.SettingRole)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	s = New(&fakeExec{rowErr: errors.New("conn reset")}, IsNoRows(errNoRows))
	_, err = s.GetProduct(ctx, 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	// Zero rows affected on update or delete.
	s = New(&fakeExec{}, IsNoRows(errNoRows))
	assert.ErrorIs(t, s.DeleteUser(ctx, 1), storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdateProduct(ctx, &storage.Product{ID: 1}), storage.ErrNotFound)
}

func TestContextExecutorWins(t *testing.T) {
	pool := &fakeExec{affected: 1}
	tx := &fakeExec{affected: 1}
	s := New(pool, IsNoRows(errNoRows))

	ctx := driver.WithExecutor(context.Background(), tx)
	require.NoError(t, s.DeleteProduct(ctx, 1))
	assert.Empty(t, pool.stmts)
	assert.Equal(t, []string{"DELETE"}, tx.stmts)

	require.NoError(t, s.DeleteProduct(driver.StripExecutor(ctx), 1))
	assert.Equal(t, []string{"DELETE"}, pool.stmts)
}
