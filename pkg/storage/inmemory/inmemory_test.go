package inmemory

import (
	"context"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/flamescale/flamescale/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestTrace(t *testing.T, st *Storage, service string, createdAt time.Time) *storage.Meta {
	t.Helper()
	meta := &storage.Meta{
		TraceID:   storage.NewTraceID(),
		Service:   service,
		CreatedAt: createdAt,
	}
	err := st.WriteTrace(context.Background(), meta, strings.NewReader("trace-data-"+service))
	require.NoError(t, err)
	return meta
}

func TestStorage_writeGet(t *testing.T) {
	st := New()
	meta := writeTestTrace(t, st, "svc1", time.Now().UTC())

	rc, err := st.GetTrace(context.Background(), meta.TraceID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "trace-data-svc1", string(data))
}

func TestStorage_getNotFound(t *testing.T) {
	st := New()

	_, err := st.GetTrace(context.Background(), storage.NewTraceID())
	assert.Equal(t, storage.ErrNotFound, err)
}

func TestStorage_findTraces(t *testing.T) {
	st := New()
	now := time.Now().UTC()

	old := writeTestTrace(t, st, "svc1", now.Add(-2*time.Hour))
	recent := writeTestTrace(t, st, "svc1", now)
	writeTestTrace(t, st, "svc2", now)

	metas, err := st.FindTraces(context.Background(), &storage.FindTracesParams{Service: "svc1"})
	require.NoError(t, err)
	require.Len(t, metas, 2)
	// sorted by creation time
	assert.Equal(t, old.TraceID, metas[0].TraceID)
	assert.Equal(t, recent.TraceID, metas[1].TraceID)

	metas, err = st.FindTraces(context.Background(), &storage.FindTracesParams{
		Service:      "svc1",
		CreatedAtMin: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, recent.TraceID, metas[0].TraceID)

	_, err = st.FindTraces(context.Background(), &storage.FindTracesParams{Service: "unknown"})
	assert.Equal(t, storage.ErrNotFound, err)

	_, err = st.FindTraces(context.Background(), &storage.FindTracesParams{})
	assert.Error(t, err, "params must be validated")
}

func TestStorage_listServices(t *testing.T) {
	st := New()

	_, err := st.ListServices(context.Background())
	assert.Equal(t, storage.ErrEmpty, err)

	now := time.Now().UTC()
	writeTestTrace(t, st, "svc2", now)
	writeTestTrace(t, st, "svc1", now)
	writeTestTrace(t, st, "svc1", now)

	services, err := st.ListServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"svc1", "svc2"}, services)
}
