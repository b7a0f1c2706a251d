// Package crypto 提供Frostgate系统的哈希计算接口定义
//
// #️⃣ **哈希计算服务 (Hash Computation Service)**
//
// 本文件定义了Frostgate系统的哈希计算接口，专注于：
// - 内容寻址：程序字节串与输入数据的内容哈希派生
// - 安全哈希：双重SHA256等安全哈希算法
// - 数据校验：数据完整性和一致性校验机制
//
// 🎯 **核心功能**
// - HashManager：哈希管理器接口，提供完整的哈希计算服务
// - 缓存键派生：电路缓存与证明缓存的键均由内容哈希派生
//
// 🔗 **组件关系**
// - HashManager：被程序编解码、缓存、证明引擎等模块使用
package crypto

// HashManager 定义哈希计算相关接口
//
// 提供Frostgate系统的完整哈希计算服务：
// - 内容哈希：SHA256内容寻址，用于缓存键派生
// - 安全增强：双重SHA256安全哈希机制
type HashManager interface {
	// SHA256 计算SHA-256哈希
	// 参数：
	//   - data: 输入数据
	// 返回：哈希值（32字节）
	SHA256(data []byte) []byte

	// DoubleSHA256 计算双重SHA-256哈希
	// 参数：
	//   - data: 输入数据
	// 返回：哈希值（32字节）
	DoubleSHA256(data []byte) []byte
}
