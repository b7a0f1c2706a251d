package zkbackend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 证明后端的Prometheus指标集
//
// 📊 指标按"缓存命中率、证明吞吐、在途任务"三类组织，
// 供运维侧观察缓存收益和容量压力。
type Metrics struct {
	CircuitCacheHits   prometheus.Counter
	CircuitCacheMisses prometheus.Counter
	ProofCacheHits     prometheus.Counter
	ProofCacheMisses   prometheus.Counter
	CacheEvictions     prometheus.Counter

	ProofsGenerated     prometheus.Counter
	ProofsFailed        prometheus.Counter
	VerificationsTotal  prometheus.Counter
	VerificationsFailed prometheus.Counter

	ActiveTasks prometheus.Gauge
	QueueDepth  prometheus.Gauge
}

// NewMetrics 在给定的registerer上注册并返回指标集
//
// 测试中为每个后端实例传入独立的prometheus.NewRegistry()，
// 避免重复注册冲突。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CircuitCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_circuit_cache_hits_total",
			Help: "Number of circuit cache hits",
		}),
		CircuitCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_circuit_cache_misses_total",
			Help: "Number of circuit cache misses",
		}),
		ProofCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_proof_cache_hits_total",
			Help: "Number of proof cache hits",
		}),
		ProofCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_proof_cache_misses_total",
			Help: "Number of proof cache misses",
		}),
		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_cache_evictions_total",
			Help: "Number of cache entries evicted by capacity or age",
		}),
		ProofsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_proofs_generated_total",
			Help: "Number of proofs generated successfully",
		}),
		ProofsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_proofs_failed_total",
			Help: "Number of failed proof generation attempts",
		}),
		VerificationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_verifications_total",
			Help: "Number of proof verifications performed",
		}),
		VerificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "zkbackend_verifications_failed_total",
			Help: "Number of failed proof verifications",
		}),
		ActiveTasks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zkbackend_active_tasks",
			Help: "Number of proving tasks currently in flight",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zkbackend_queue_depth",
			Help: "Number of proving tasks queued for dispatch",
		}),
	}
}
