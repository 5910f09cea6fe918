// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics() // make sure it starts in the default state of noopMeter

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", []string{"kind"})
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", []string{"kind"})

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
}

func TestPromSnapshot(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("snapshot_count")
	countVec := CounterVec("snapshot_count_vec", []string{"status"})
	gauge := Gauge("snapshot_gauge")
	gaugeVec := GaugeVec("snapshot_gauge_vec", []string{"token", "kind"})

	count.Add(3)
	Counter("snapshot_count").Add(2)
	countVec.AddWithLabel(4, map[string]string{"status": "ok"})
	countVec.AddWithLabel(1, map[string]string{"status": "reverted"})
	gauge.Set(10)
	gauge.Add(-4)
	gaugeVec.SetWithLabel(7, map[string]string{"token": "MT", "kind": "supply"})
	gaugeVec.AddWithLabel(1, map[string]string{"token": "MT", "kind": "supply"})

	values, err := Snapshot()
	require.NoError(t, err)

	require.Equal(t, float64(5), values["tinybank_snapshot_count"])
	require.Equal(t, float64(4), values["tinybank_snapshot_count_vec{status=ok}"])
	require.Equal(t, float64(1), values["tinybank_snapshot_count_vec{status=reverted}"])
	require.Equal(t, float64(6), values["tinybank_snapshot_gauge"])
	require.Equal(t, float64(8), values["tinybank_snapshot_gauge_vec{kind=supply,token=MT}"])
}
