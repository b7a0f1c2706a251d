// Package simulated 实现本地模拟证明引擎
//
// 🧪 **模拟证明引擎 (Simulated Proving Engine)**
//
// 🎯 **设计定位**：真实执行客体语义，但用廉价的哈希封签代替
// SNARK证明。用于开发、测试和不要求密码学证明强度的部署：
// 收据的journal与真实引擎完全一致，只有封签方式不同。
package simulated

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/frostgate/v1/internal/core/zkbackend/engine"
	"github.com/frostgate/v1/internal/core/infrastructure/crypto/hash"
	logintf "github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
)

// EngineName 引擎名称
const EngineName = "simulated"

// sealDomainTag 封签域分隔标签，防止封签与其他哈希用途混淆
const sealDomainTag = "frostgate/simulated/seal/v1"

// 确保Engine实现了证明引擎契约
var _ engine.ProvingEngine = (*Engine)(nil)

// Engine 本地模拟证明引擎
type Engine struct {
	logger logintf.Logger
}

// New 创建模拟证明引擎
func New(logger logintf.Logger) *Engine {
	return &Engine{logger: logger}
}

// Name 返回引擎名称
func (e *Engine) Name() string {
	return EngineName
}

// Capabilities 返回引擎能力标签
func (e *Engine) Capabilities() []string {
	return []string{"deterministic", "local_execution"}
}

// Compile 装载引擎载荷
//
// 模拟引擎没有真实的编译步骤：载荷首字节是客体入口标签，
// 内容摘要锚定后续收据与镜像的对应关系。
func (e *Engine) Compile(ctx context.Context, payload []byte) (*engine.CompiledCircuit, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty engine payload")
	}

	compiled := &engine.CompiledCircuit{
		EntryTag: payload[0],
		Image:    append([]byte(nil), payload...),
		Digest:   sha256.Sum256(payload),
	}
	e.logger.Debugf("模拟引擎装载电路: entry=0x%02x, digest=%x", compiled.EntryTag, compiled.Digest[:8])
	return compiled, nil
}

// Execute 执行客体并用哈希封签收据
func (e *Engine) Execute(ctx context.Context, compiled *engine.CompiledCircuit, publicInputs []uint32, privateInput []byte) (*engine.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	journal, err := engine.GuestExecute(compiled, publicInputs, privateInput)
	if err != nil {
		return nil, fmt.Errorf("guest execution failed: %w", err)
	}

	receipt := &engine.Receipt{
		Journal:     journal,
		Seal:        computeSeal(compiled.Digest, journal),
		ImageDigest: compiled.Digest,
		EngineName:  EngineName,
	}
	return receipt, nil
}

// Check 重算封签验证收据结构有效性
func (e *Engine) Check(ctx context.Context, receipt *engine.Receipt) (bool, error) {
	if receipt == nil || len(receipt.Seal) != 32 {
		return false, nil
	}
	expected := computeSeal(receipt.ImageDigest, receipt.Journal)
	return hash.ConstantTimeCompare(receipt.Seal, expected), nil
}

// computeSeal 计算收据封签：SHA256(域标签 || 镜像摘要 || journal)
func computeSeal(imageDigest [32]byte, journal []byte) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(sealDomainTag))
	hasher.Write(imageDigest[:])
	hasher.Write(journal)
	return hasher.Sum(nil)
}
