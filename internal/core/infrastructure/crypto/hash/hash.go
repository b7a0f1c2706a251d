package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"sync"

	cryptointf "github.com/frostgate/v1/pkg/interfaces/infrastructure/crypto"
)

// 确保HashService实现了cryptointf.HashManager接口
var _ cryptointf.HashManager = (*HashService)(nil)

// HashCache 简单的哈希缓存结构
type HashCache struct {
	cache map[string][]byte
	mu    sync.RWMutex
}

// NewHashCache 创建新的哈希缓存
func NewHashCache() *HashCache {
	return &HashCache{
		cache: make(map[string][]byte),
	}
}

// Get 从缓存获取哈希值
func (c *HashCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.cache[key]
	if ok {
		result := make([]byte, len(value))
		copy(result, value) // 返回副本而非引用
		return result, true
	}
	return nil, false
}

// Set 设置缓存中的哈希值
func (c *HashCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value) // 存储副本而非引用
	c.cache[key] = valueCopy
}

// HashService 提供哈希计算功能
type HashService struct {
	// 缓存最近的哈希结果，避免重复计算
	doubleSHA256Cache *HashCache
}

// NewHashService 创建新的哈希服务
//
// 返回一个包含优化缓存的哈希服务实例
func NewHashService() *HashService {
	return &HashService{
		doubleSHA256Cache: NewHashCache(),
	}
}

// SHA256 计算SHA-256哈希
//
// 参数:
//   - data: 要计算哈希的数据
//
// 返回:
//   - []byte: 32字节的SHA-256哈希结果
func (s *HashService) SHA256(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// DoubleSHA256 计算双重SHA-256哈希
//
// 参数:
//   - data: 要计算哈希的数据
//
// 返回:
//   - []byte: 32字节的双重SHA-256哈希结果
func (s *HashService) DoubleSHA256(data []byte) []byte {
	// 单次SHA256同时充当缓存键，第二次哈希只在未命中时计算
	first := sha256.Sum256(data)
	key := string(first[:])
	if cachedHash, ok := s.doubleSHA256Cache.Get(key); ok {
		return cachedHash
	}

	second := sha256.Sum256(first[:])
	result := second[:]

	s.doubleSHA256Cache.Set(key, result)
	return result
}

// ConstantTimeCompare 在常量时间内比较两个哈希值是否相等
// 用于防止时序攻击，无论何时都会比较整个字节数组
//
// 参数:
//   - a: 第一个哈希值
//   - b: 第二个哈希值
//
// 返回:
//   - bool: 如果两个哈希值相等返回true，否则返回false
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
