package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

func TestEventAdd(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute(t, "event", "add", "new_all_versions", "42", "7",
		"--public", "--time", "2023-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued WS NEW_ALL_VERSIONS ag=42 obj=7")

	events, err := env.store.List(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.NewStatusEvent("WS", testTime, domain.EventNewAllVersions,
		domain.WithAccessGroupID(42), domain.WithObjectID("7"), domain.WithPublic(true)), events[0].Event)
}

func TestEventAdd_Invalid(t *testing.T) {
	newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown type", []string{"event", "add", "EXPLODE", "1"}, "unsupported type"},
		{"bad container", []string{"event", "add", "COPY_ACCESS_GROUP", "x"}, "container id"},
		{"bad time", []string{"event", "add", "COPY_ACCESS_GROUP", "1", "--time", "yesterday"}, "--time"},
		{"unknown storage", []string{"event", "add", "COPY_ACCESS_GROUP", "1", "--storage", "XX"}, "no handler"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEventList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out, err := execute(t, "event", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No events.")

	a, err := env.store.Add(ctx, granular("1"), "")
	require.NoError(t, err)
	_, err = env.store.Add(ctx, granular("2"), "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetStatus(ctx, a.ID, domain.StatusFailed, "Illegal workspace object id: 1"))

	out, err = execute(t, "event", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "obj=1")
	assert.Contains(t, out, "obj=2")

	out, err = execute(t, "event", "list", "--status", "fail")
	require.NoError(t, err)
	assert.Contains(t, out, a.ID)
	assert.Contains(t, out, "Illegal workspace object id")
	assert.NotContains(t, out, "obj=2")

	_, err = execute(t, "event", "list", "--status", "DONE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEventRetryAndStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.store.Add(ctx, granular("1"), "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetStatus(ctx, a.ID, domain.StatusFailed, "boom"))

	out, err := execute(t, "event", "status")
	require.NoError(t, err)
	assert.Regexp(t, `FAIL\s+1`, out)
	assert.Regexp(t, `READY\s+0`, out)

	out, err = execute(t, "event", "retry", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Event "+a.ID+" is READY")

	_, err = execute(t, "event", "retry", a.ID)
	require.Error(t, err, "a READY event cannot be retried")
}

func TestEventCmd_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	for _, args := range [][]string{
		{"event", "add", "COPY_ACCESS_GROUP", "1"},
		{"event", "list"},
		{"event", "retry", "x"},
		{"event", "status"},
		{"process", "--once"},
	} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, errNoEvents, "%v", args)
	}
}
