package zkbackend

import (
	"sync"
	"time"

	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
)

// StatsTracker 进程级统计追踪器
//
// 📊 构造时归零，每次prove/verify尝试后更新（无论成败），
// 除显式运维操作外从不重置。平均耗时采用增量平均，
// 避免累计和溢出。
type StatsTracker struct {
	mu sync.RWMutex

	totalProofs         uint64
	totalVerifications  uint64
	totalFailures       uint64
	avgProvingTime      time.Duration
	avgVerificationTime time.Duration

	metrics *Metrics
}

// NewStatsTracker 创建统计追踪器
func NewStatsTracker(metrics *Metrics) *StatsTracker {
	return &StatsTracker{metrics: metrics}
}

// RecordProofGenerated 记录一次成功的证明生成
func (s *StatsTracker) RecordProofGenerated(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalProofs++
	s.avgProvingTime += (elapsed - s.avgProvingTime) / time.Duration(s.totalProofs)

	if s.metrics != nil {
		s.metrics.ProofsGenerated.Inc()
	}
}

// RecordProofFailure 记录一次失败的证明生成尝试
func (s *StatsTracker) RecordProofFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalFailures++

	if s.metrics != nil {
		s.metrics.ProofsFailed.Inc()
	}
}

// RecordVerification 记录一次完成的验证
//
// 验证返回false或出错都计入失败计数；耗时只在验证流程
// 真正跑完时统计。
func (s *StatsTracker) RecordVerification(elapsed time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalVerifications++
	s.avgVerificationTime += (elapsed - s.avgVerificationTime) / time.Duration(s.totalVerifications)
	if !ok {
		s.totalFailures++
	}

	if s.metrics != nil {
		s.metrics.VerificationsTotal.Inc()
		if !ok {
			s.metrics.VerificationsFailed.Inc()
		}
	}
}

// RecordVerificationFailure 记录一次未完成的验证尝试（解码或反序列化失败）
func (s *StatsTracker) RecordVerificationFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalFailures++

	if s.metrics != nil {
		s.metrics.VerificationsFailed.Inc()
	}
}

// Snapshot 返回统计数据的所有权副本
func (s *StatsTracker) Snapshot() *ifacezk.ZkStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &ifacezk.ZkStats{
		TotalProofs:         s.totalProofs,
		TotalVerifications:  s.totalVerifications,
		TotalFailures:       s.totalFailures,
		AvgProvingTime:      s.avgProvingTime,
		AvgVerificationTime: s.avgVerificationTime,
	}
}
