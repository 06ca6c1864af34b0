package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dayanaadylkhanova/view-tracker/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRow struct {
	content []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.content
	return nil
}

// fakeDB keeps rows in a map and records executed statements.
type fakeDB struct {
	rows    map[string][]byte
	execs   []string
	execErr error
	rowErr  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if strings.HasPrefix(sql, "INSERT") {
		f.rows[args[0].(string)] = args[1].([]byte)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.rowErr != nil {
		return fakeRow{err: f.rowErr}
	}
	b, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{content: b}
}

func newTestStore() (*Store, *fakeDB) {
	db := &fakeDB{rows: map[string][]byte{}}
	return &Store{db: db, log: zap.NewNop()}, db
}

func TestStore_Init(t *testing.T) {
	s, db := newTestStore()
	require.NoError(t, s.Init(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS blobs")
}

func TestStore_PutThenGet(t *testing.T) {
	s, db := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "youtube-quota.json", []byte(`{"usage":1}`)))
	require.NoError(t, s.Put(ctx, "youtube-quota.json", []byte(`{"usage":2}`)))
	assert.Contains(t, db.execs[0], "ON CONFLICT (key) DO UPDATE")

	got, err := s.Get(ctx, "youtube-quota.json")
	require.NoError(t, err)
	assert.Equal(t, `{"usage":2}`, string(got))
}

func TestStore_Get_NoRowsIsNotFound(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.Get(context.Background(), "missing.json")
	assert.ErrorIs(t, err, service.ErrBlobNotFound)
}

func TestStore_Errors(t *testing.T) {
	s, db := newTestStore()
	db.rowErr = errors.New("conn closed")
	db.execErr = errors.New("conn closed")

	_, err := s.Get(context.Background(), "a")
	assert.EqualError(t, err, "conn closed")
	assert.NotErrorIs(t, err, service.ErrBlobNotFound)
	assert.Error(t, s.Put(context.Background(), "a", []byte("x")))
	s.Close()
}
