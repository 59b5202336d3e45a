// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	serializerMetricSubsystem = "serializer"
)

var (
	serializerMetricsRegisterOnce sync.Once

	SerializerResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: zeusNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "resolve_total",
		Help:      "序列化器查找次数，按缓存命中与否区分",
	}, []string{resultLabelName})

	SerializerFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: zeusNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "fallback_total",
		Help:      "查找失败后回退到通用序列化器的次数",
	})

	SerializerNotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: zeusNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "not_found_total",
		Help:      "严格查找返回 not found 的次数",
	})

	SerializerRegisteredNum = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: zeusNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "registered_num",
		Help:      "已注册的序列化器数量",
	})

	SerializeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: zeusNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "serialize_latency",
		Help:      "一次完整序列化（AsJSON）的耗时，单位毫秒",
		Buckets:   latencyBuckets,
	}, []string{kindLabelName})
)

func registerSerializerMetrics(r prometheus.Registerer) {
	serializerMetricsRegisterOnce.Do(func() {
		r.MustRegister(SerializerResolveTotal)
		r.MustRegister(SerializerFallbackTotal)
		r.MustRegister(SerializerNotFoundTotal)
		r.MustRegister(SerializerRegisteredNum)
		r.MustRegister(SerializeLatency)
	})
}
