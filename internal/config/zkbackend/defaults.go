package zkbackend

import "time"

// 证明后端配置默认值
const (
	// defaultMaxThreads 默认最大并发证明线程数设为4
	// 原因：证明生成是CPU密集型任务，4个并发在常见服务器上
	// 既能吃满多核，又不会因过度调度拖慢单个证明
	defaultMaxThreads = 4

	// defaultMaxMemoryBytes 默认内存上限设为0（按系统总内存的80%推导）
	// 原因：证明引擎的峰值内存和电路规模强相关，固定上限容易误杀，
	// 按比例推导可在不同规格的机器上保持一致的安全边际
	defaultMaxMemoryBytes = uint64(0)

	// defaultMaxCircuits 电路缓存容量设为100
	// 原因：电路编译是整个证明流程中最昂贵的一步，但实际部署中
	// 活跃电路种类有限，100个条目足以覆盖常见工作负载
	defaultMaxCircuits = 100

	// defaultMaxProofs 证明缓存容量设为1000
	// 原因：证明条目远小于编译产物，更大的容量换取更高的命中率
	defaultMaxProofs = 1000

	// defaultCacheMaxAge 缓存条目最大存活时间设为1小时
	// 原因：1小时覆盖典型的重复提交窗口，同时保证长期运行的
	// 进程不会无限持有陈旧的编译产物
	defaultCacheMaxAge = time.Hour

	// defaultEnableProofCache 默认启用证明缓存
	// 原因：相同(程序,输入)对的重复证明在跨链消息重放场景中很常见，
	// 缓存命中将秒级的证明压缩为近零成本
	defaultEnableProofCache = true

	// defaultEngine 默认证明引擎
	defaultEngine = "simulated"
)
