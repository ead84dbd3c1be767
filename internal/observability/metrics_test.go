package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordGenerationCountsPerOutcome(t *testing.T) {
	before := testutil.ToFloat64(generationRequests.WithLabelValues("cached"))

	RecordGeneration("cached")
	RecordGeneration("cached")
	RecordGeneration("rest")

	require.Equal(t, before+2, testutil.ToFloat64(generationRequests.WithLabelValues("cached")))
	require.GreaterOrEqual(t, testutil.ToFloat64(generationRequests.WithLabelValues("rest")), 1.0)
}

func TestRecordPipelineCounters(t *testing.T) {
	repairsBefore := testutil.ToFloat64(parseRepairs)
	failuresBefore := testutil.ToFloat64(parseFailures)
	regensBefore := testutil.ToFloat64(regenerations)

	RecordParseRepair()
	RecordParseFailure()
	RecordRegeneration()

	require.Equal(t, repairsBefore+1, testutil.ToFloat64(parseRepairs))
	require.Equal(t, failuresBefore+1, testutil.ToFloat64(parseFailures))
	require.Equal(t, regensBefore+1, testutil.ToFloat64(regenerations))
}
