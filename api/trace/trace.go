// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package trace exposes trace conversion over REST.
package trace

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/doytsujin/besu/api/restutil"
	"github.com/doytsujin/besu/log"
	"github.com/doytsujin/besu/metrics"
	"github.com/doytsujin/besu/tracers/flat"
)

var (
	logger = log.WithContext("pkg", "trace")

	metricFlatRecordCount = metrics.LazyLoadCounter("api_trace_flat_record_count")
	metricFlatRecordTypes = metrics.LazyLoadCounterVec("api_trace_flat_record_type_count", []string{"type"})
	metricFlatInFlight    = metrics.LazyLoadGauge("api_trace_flat_inflight_count")
	metricFlatDuration    = metrics.LazyLoadHistogram("api_trace_flat_duration_ms", metrics.BucketHTTPReqs)
)

// Trace is the REST endpoint group converting execution traces.
type Trace struct{}

func New() *Trace {
	return &Trace{}
}

func (t *Trace) handleFlatTrace(w http.ResponseWriter, r *http.Request) error {
	metricFlatInFlight().Add(1)
	defer metricFlatInFlight().Add(-1)
	started := time.Now()

	var req TransactionTrace
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(err)
	}
	txTrace, err := req.toTrace()
	if err != nil {
		return restutil.BadRequest(err)
	}

	traces, err := flat.Generate(txTrace)
	if err != nil {
		logger.Debug("rejected malformed trace", "err", err)
		return restutil.BadRequest(err)
	}

	metricFlatRecordCount().Add(int64(len(traces)))
	for _, rec := range traces {
		metricFlatRecordTypes().AddWithLabel(1, map[string]string{"type": rec.Type})
	}
	metricFlatDuration().Observe(time.Since(started).Milliseconds())
	return restutil.WriteJSON(w, traces)
}

func (t *Trace) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/flat").Methods(http.MethodPost).HandlerFunc(restutil.WrapHandlerFunc(t.handleFlatTrace))
}
