// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noopMetrics is the service in place until prometheus is initialized.
// It hands out itself as every kind of meter and drops all samples.
type noopMetrics struct{}

func defaultNoopMetrics() Metrics { return &noopMetrics{} }

func (n *noopMetrics) GetOrCreateCountMeter(string) CountMeter                 { return n }
func (n *noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return n }
func (n *noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter                 { return n }
func (n *noopMetrics) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter { return n }

func (n *noopMetrics) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return n }
func (n *noopMetrics) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return n
}

func (n *noopMetrics) GetOrCreateHandler() http.Handler { return nil }

func (n *noopMetrics) Add(int64)                                  {}
func (n *noopMetrics) AddWithLabel(int64, map[string]string)      {}
func (n *noopMetrics) Set(int64)                                  {}
func (n *noopMetrics) SetWithLabel(int64, map[string]string)      {}
func (n *noopMetrics) Observe(int64)                              {}
func (n *noopMetrics) ObserveWithLabels(int64, map[string]string) {}
