package zkbackend

import (
	"sync"
	"time"

	"github.com/frostgate/v1/internal/core/zkbackend/engine"
	cryptointf "github.com/frostgate/v1/pkg/interfaces/infrastructure/crypto"
	logintf "github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// ==================== 缓存条目 ====================

// CircuitCacheEntry 电路缓存条目
//
// 键为程序内容哈希；每次命中更新访问时间与计数，
// 按容量（LRU）或存活时间淘汰。
type CircuitCacheEntry struct {
	EnginePayload []byte                  // 引擎载荷
	Compiled      *engine.CompiledCircuit // 编译/装载产物
	ContentHash   [32]byte                // 程序内容哈希
	LastAccess    time.Time               // 最近访问时间
	AccessCount   uint64                  // 累计命中次数
	CompileTime   time.Duration           // 编译耗时
}

// ProofCacheEntry 证明缓存条目
//
// ⚠️ 键必须同时包含程序哈希与输入哈希：同一程序对两个不同
// 输入的证明绝不允许在缓存中碰撞。
type ProofCacheEntry struct {
	Proof          []byte        // 证明字节串
	ProgramHash    [32]byte      // 程序内容哈希
	InputHash      [32]byte      // 输入内容哈希
	GenerationTime time.Duration // 原始生成耗时
	LastAccess     time.Time     // 最近访问时间
	AccessCount    uint64        // 累计命中次数
}

// proofKey 证明缓存的复合键：程序哈希 ++ 输入哈希
type proofKey [64]byte

func makeProofKey(programHash, inputHash [32]byte) proofKey {
	var key proofKey
	copy(key[:32], programHash[:])
	copy(key[32:], inputHash[:])
	return key
}

// ==================== 两级缓存 ====================

// Cache 两级缓存：电路缓存 + 证明缓存
//
// 🎯 **设计要点**
// - LRU淘汰：容量固定，超出时先淘汰最久未访问的条目
// - 存活时间：命中路径上惰性过期，ClearExpired提供主动清扫
// - 读写分离：RWMutex保护，临界区只做O(1)的map操作
// - 独立开关：证明缓存可单独禁用（Get恒未命中、Store为空操作）
type Cache struct {
	mu sync.RWMutex

	circuits *lru.LRU[[32]byte, *CircuitCacheEntry]
	proofs   *lru.LRU[proofKey, *ProofCacheEntry]

	maxCircuits      int
	maxProofs        int
	maxAge           time.Duration
	enableProofCache bool

	hasher  cryptointf.HashManager
	logger  logintf.Logger
	metrics *Metrics
}

// NewCache 创建两级缓存
//
// 容量必须>=1，maxAge必须为正。
func NewCache(maxCircuits, maxProofs int, maxAge time.Duration, enableProofCache bool,
	hasher cryptointf.HashManager, logger logintf.Logger, metrics *Metrics) (*Cache, error) {

	if maxCircuits < 1 || maxProofs < 1 {
		return nil, WrapInvalidInputError("cache capacity must be at least 1")
	}
	if maxAge <= 0 {
		return nil, WrapInvalidInputError("cache max age must be positive")
	}

	c := &Cache{
		maxCircuits:      maxCircuits,
		maxProofs:        maxProofs,
		maxAge:           maxAge,
		enableProofCache: enableProofCache,
		hasher:           hasher,
		logger:           logger,
		metrics:          metrics,
	}

	onEvict := func() {
		if c.metrics != nil {
			c.metrics.CacheEvictions.Inc()
		}
	}

	var err error
	c.circuits, err = lru.NewLRU[[32]byte, *CircuitCacheEntry](maxCircuits,
		func(key [32]byte, value *CircuitCacheEntry) { onEvict() })
	if err != nil {
		return nil, WrapInvalidInputError(err.Error())
	}
	c.proofs, err = lru.NewLRU[proofKey, *ProofCacheEntry](maxProofs,
		func(key proofKey, value *ProofCacheEntry) { onEvict() })
	if err != nil {
		return nil, WrapInvalidInputError(err.Error())
	}

	return c, nil
}

// HashBytes 计算内容哈希（缓存键派生）
func (c *Cache) HashBytes(data []byte) [32]byte {
	var digest [32]byte
	copy(digest[:], c.hasher.SHA256(data))
	return digest
}

// GetCircuit 查找电路缓存
//
// 命中但已过期的条目在查找路径上就地淘汰（惰性自愈）。
// 返回的条目是快照副本，调用方可自由持有。
func (c *Cache) GetCircuit(program []byte) (*CircuitCacheEntry, bool) {
	contentHash := c.HashBytes(program)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.circuits.Get(contentHash)
	if !ok {
		if c.metrics != nil {
			c.metrics.CircuitCacheMisses.Inc()
		}
		return nil, false
	}

	if time.Since(entry.LastAccess) >= c.maxAge {
		c.circuits.Remove(contentHash)
		if c.metrics != nil {
			c.metrics.CircuitCacheMisses.Inc()
		}
		c.logger.Debugf("电路缓存条目过期淘汰: hash=%x", contentHash[:8])
		return nil, false
	}

	entry.LastAccess = time.Now()
	entry.AccessCount++
	if c.metrics != nil {
		c.metrics.CircuitCacheHits.Inc()
	}

	snapshot := *entry
	return &snapshot, true
}

// StoreCircuit 写入电路缓存
//
// 同键覆盖写入，不产生重复条目；容量满时先做LRU淘汰。
// 返回程序内容哈希。
func (c *Cache) StoreCircuit(program []byte, compiled *engine.CompiledCircuit,
	compileTime time.Duration) [32]byte {

	contentHash := c.HashBytes(program)
	entry := &CircuitCacheEntry{
		EnginePayload: compiled.Image,
		Compiled:      compiled,
		ContentHash:   contentHash,
		LastAccess:    time.Now(),
		AccessCount:   0,
		CompileTime:   compileTime,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.circuits.Add(contentHash, entry)
	return contentHash
}

// GetProof 查找证明缓存
//
// 禁用时恒未命中。返回的条目是快照副本（证明字节一并拷贝）。
func (c *Cache) GetProof(programHash, inputHash [32]byte) (*ProofCacheEntry, bool) {
	if !c.enableProofCache {
		return nil, false
	}
	key := makeProofKey(programHash, inputHash)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.proofs.Get(key)
	if !ok {
		if c.metrics != nil {
			c.metrics.ProofCacheMisses.Inc()
		}
		return nil, false
	}

	if time.Since(entry.LastAccess) >= c.maxAge {
		c.proofs.Remove(key)
		if c.metrics != nil {
			c.metrics.ProofCacheMisses.Inc()
		}
		return nil, false
	}

	entry.LastAccess = time.Now()
	entry.AccessCount++
	if c.metrics != nil {
		c.metrics.ProofCacheHits.Inc()
	}

	snapshot := *entry
	snapshot.Proof = append([]byte(nil), entry.Proof...)
	return &snapshot, true
}

// StoreProof 写入证明缓存
//
// 禁用时为空操作，缓存永不增长。
func (c *Cache) StoreProof(programHash, inputHash [32]byte, proof []byte,
	generationTime time.Duration) {

	if !c.enableProofCache {
		return
	}
	entry := &ProofCacheEntry{
		Proof:          append([]byte(nil), proof...),
		ProgramHash:    programHash,
		InputHash:      inputHash,
		GenerationTime: generationTime,
		LastAccess:     time.Now(),
		AccessCount:    0,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.proofs.Add(makeProofKey(programHash, inputHash), entry)
}

// ClearExpired 主动清扫所有过期条目，返回淘汰数量
//
// 查找路径已有惰性自愈，本方法用于周期性管家任务。
func (c *Cache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()

	for _, key := range c.circuits.Keys() {
		if entry, ok := c.circuits.Peek(key); ok && now.Sub(entry.LastAccess) >= c.maxAge {
			c.circuits.Remove(key)
			removed++
		}
	}
	for _, key := range c.proofs.Keys() {
		if entry, ok := c.proofs.Peek(key); ok && now.Sub(entry.LastAccess) >= c.maxAge {
			c.proofs.Remove(key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debugf("缓存清扫完成: 淘汰%d个过期条目", removed)
	}
	return removed
}

// ClearAll 清空两级缓存
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.circuits.Purge()
	c.proofs.Purge()
}

// Stats 返回缓存统计快照
//
// 命中计数聚合自驻留条目的访问历史；被淘汰条目的历史不保留。
func (c *Cache) Stats() *ifacezk.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &ifacezk.CacheStats{
		CircuitEntries: c.circuits.Len(),
		ProofEntries:   c.proofs.Len(),
		MaxCircuits:    c.maxCircuits,
		MaxProofs:      c.maxProofs,
	}
	for _, key := range c.circuits.Keys() {
		if entry, ok := c.circuits.Peek(key); ok {
			stats.CircuitHits += entry.AccessCount
		}
	}
	for _, key := range c.proofs.Keys() {
		if entry, ok := c.proofs.Peek(key); ok {
			stats.ProofHits += entry.AccessCount
		}
	}
	return stats
}
