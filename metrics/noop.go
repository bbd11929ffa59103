// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopRegistry struct{}

func (noopRegistry) CounterMeter(string) CountMeter { return noopMeter{} }

func (noopRegistry) CounterVecMeter(string, []string) CountVecMeter { return noopMeter{} }

func (noopRegistry) GaugeMeter(string) GaugeMeter { return noopMeter{} }

func (noopRegistry) HistogramMeter(string, []int64) HistogramMeter { return noopMeter{} }

func (noopRegistry) Handler() http.Handler { return http.NotFoundHandler() }

type noopMeter struct{}

func (noopMeter) Add(int64) {}

func (noopMeter) Set(int64) {}

func (noopMeter) Observe(int64) {}

func (noopMeter) AddWithLabel(int64, map[string]string) {}
