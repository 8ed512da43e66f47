package deprecation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/hellocms/internal/cache"
	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/metrics"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/store/memory"
)

func observedCtx() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.ToContext(context.Background(), zap.New(core)), logs
}

func TestLog_WarnsOncePerWindow(t *testing.T) {
	ctx, logs := observedCtx()
	d := New(cache.NewMemory("", 0), WithDedupeTTL(time.Hour))

	before := testutil.ToFloat64(metrics.DeprecationsLogged.WithLabelValues("test.once"))
	for i := 0; i < 3; i++ {
		d.Log(ctx, "test.once", "test.once is deprecated")
	}

	warns := logs.FilterMessage("test.once is deprecated").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	assert.Equal(t, before+3, testutil.ToFloat64(metrics.DeprecationsLogged.WithLabelValues("test.once")))
}

func TestLog_NoCacheAlwaysWarns(t *testing.T) {
	ctx, logs := observedCtx()
	d := New(nil)
	d.Log(ctx, "k", "m")
	d.Log(ctx, "k", "m")
	assert.Equal(t, 2, logs.FilterMessage("m").Len())
}

func TestLog_Persists(t *testing.T) {
	st := memory.New()
	d := New(nil, WithRepository(st.Deprecations()))
	ctx := WithOrigin(context.Background(), "/v1/request")

	d.Log(ctx, "craft.request.getQuery()", "deprecated")
	d.Log(ctx, "craft.request.getQuery()", "deprecated")

	list, err := st.Deprecations().List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].Occurrences)
	assert.Equal(t, "/v1/request", list[0].Origin)
}

type failingRepo struct{}

func (failingRepo) Upsert(context.Context, repository.DeprecationRecord) error {
	return errors.New("db down")
}
func (failingRepo) List(context.Context, int) ([]repository.DeprecationRecord, error) {
	return nil, nil
}

func TestLog_PersistErrorIsLogged(t *testing.T) {
	ctx, logs := observedCtx()
	d := New(nil, WithRepository(failingRepo{}))
	d.Log(ctx, "k", "m")
	assert.Equal(t, 1, logs.FilterMessage("persist deprecation failed").Len())
}
