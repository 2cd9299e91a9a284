package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnDirectiveEnd(ctx, &domain.DirectiveEvent{
		Directive: "Driver.isAdult", Kind: domain.KindClassSubsumption,
		Candidates: 3, Changes: 2, Duration: 10 * time.Millisecond,
	})
	hooks.OnDirectiveEnd(ctx, &domain.DirectiveEvent{
		Directive: "Driver.isAdult", Kind: domain.KindClassSubsumption, Err: errors.New("x"),
	})
	hooks.OnMutation(ctx, &domain.MutationEvent{Directive: "Driver.isAdult", Effect: domain.EffectClassAdded})
	hooks.OnMutation(ctx, &domain.MutationEvent{Directive: "Driver.isAdult", Effect: domain.EffectClassAdded})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Status: domain.StatusAugmented})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Directives.WithLabelValues("Driver.isAdult", "class_subsumption", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Directives.WithLabelValues("Driver.isAdult", "class_subsumption", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Candidates.WithLabelValues("Driver.isAdult")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("Driver.isAdult", "class_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("augmented")))

	rec := httptest.NewRecorder()
	observability.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "augur_mutations_total")
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LoggingHooks(logger)
	ctx := context.Background()

	hooks.OnRunStart(ctx, &domain.RunEvent{EventBase: domain.EventBase{OntologyID: "traffic"}})
	hooks.OnMutation(ctx, &domain.MutationEvent{Directive: "Driver.isAdult", Effect: domain.EffectClassAdded, Tuple: domain.Tuple{"d1"}})
	hooks.OnRunEnd(ctx, &domain.RunEvent{EventBase: domain.EventBase{OntologyID: "traffic"}, Status: domain.StatusFailed, Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, "run_start")
	assert.Contains(t, out, "tuple=(d1)")
	assert.True(t, strings.Contains(out, "level=ERROR") && strings.Contains(out, "boom"))
}
