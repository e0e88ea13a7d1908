// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	noop := defaultNoopMetrics()
	noop.GetOrCreateCountMeter("c").Add(1)
	noop.GetOrCreateGaugeVecMeter("g", []string{"l"}).SetWithLabel(1, map[string]string{"l": "v"})

	rec := httptest.NewRecorder()
	noop.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	require.NotNil(t, Gatherer())

	ops := CounterVec("test_ops_count", []string{"op", "result"})
	ops.AddWithLabel(2, map[string]string{"op": "deposit", "result": "ok"})
	CounterVec("test_ops_count", []string{"op", "result"}).AddWithLabel(1, map[string]string{"op": "deposit", "result": "ok"})

	staked := Gauge("test_total_staked")
	staked.Set(10)
	staked.Add(-3)

	HistogramVec("test_duration_ms", []string{"route"}, BucketHTTPReqs).
		ObserveWithLabels(12, map[string]string{"route": "/farm"})

	families, err := Gatherer().Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}

	require.Contains(t, byName, "farm_test_ops_count")
	assert.Equal(t, float64(3), byName["farm_test_ops_count"].GetMetric()[0].GetCounter().GetValue())

	require.Contains(t, byName, "farm_test_total_staked")
	assert.Equal(t, float64(7), byName["farm_test_total_staked"].GetMetric()[0].GetGauge().GetValue())

	require.Contains(t, byName, "farm_test_duration_ms")
	assert.Equal(t, uint64(1), byName["farm_test_duration_ms"].GetMetric()[0].GetHistogram().GetSampleCount())

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "farm_test_total_staked 7")
}
