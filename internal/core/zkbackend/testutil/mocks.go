// Package testutil 提供证明后端模块测试的辅助工具
//
// 🧪 **测试辅助工具包**
//
// 本包提供测试所需的 Mock 对象、测试数据和辅助函数，用于简化测试代码编写。
package testutil

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/frostgate/v1/internal/core/zkbackend/engine"
	"github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
)

// ==================== Mock 对象 ====================

// MockLogger 统一的日志Mock实现
//
// ✅ **设计原则**：最小实现，所有方法返回空值，不记录日志
// 📋 **使用场景**：绝大多数测试用例，不需要验证日志调用
type MockLogger struct{}

func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(msg string)                           {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Fatal(msg string)                          {}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {}
func (m *MockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *MockLogger) Sync() error                               { return nil }
func (m *MockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// ==================== 证明引擎 Mock ====================

// 确保Mock引擎实现了证明引擎契约
var _ engine.ProvingEngine = (*FailingEngine)(nil)
var _ engine.ProvingEngine = (*CountingEngine)(nil)

// FailingEngine 始终失败的证明引擎Mock
//
// 📋 **使用场景**：验证失败路径的统计、错误包装与批量
// 首错语义。FailCompile/FailExecute/FailCheck分别控制
// 各阶段是否注入失败。
type FailingEngine struct {
	FailCompile bool
	FailExecute bool
	FailCheck   bool
}

func (e *FailingEngine) Name() string {
	return "failing"
}

func (e *FailingEngine) Capabilities() []string {
	return []string{"mock"}
}

func (e *FailingEngine) Compile(ctx context.Context, payload []byte) (*engine.CompiledCircuit, error) {
	if e.FailCompile {
		return nil, fmt.Errorf("mock compile failure")
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty engine payload")
	}
	return &engine.CompiledCircuit{
		EntryTag: payload[0],
		Image:    append([]byte(nil), payload...),
		Digest:   sha256.Sum256(payload),
	}, nil
}

func (e *FailingEngine) Execute(ctx context.Context, compiled *engine.CompiledCircuit, publicInputs []uint32, privateInput []byte) (*engine.Receipt, error) {
	if e.FailExecute {
		return nil, fmt.Errorf("mock execute failure")
	}
	journal, err := engine.GuestExecute(compiled, publicInputs, privateInput)
	if err != nil {
		return nil, err
	}
	return &engine.Receipt{
		Journal:     journal,
		Seal:        []byte("mock-seal"),
		ImageDigest: compiled.Digest,
		EngineName:  e.Name(),
	}, nil
}

func (e *FailingEngine) Check(ctx context.Context, receipt *engine.Receipt) (bool, error) {
	if e.FailCheck {
		return false, fmt.Errorf("mock check failure")
	}
	return receipt != nil && len(receipt.Seal) > 0, nil
}

// CountingEngine 记录调用次数的证明引擎Mock
//
// 📋 **使用场景**：验证缓存命中时引擎确实没有被调用。
// 内部委托给被包装的真实引擎，只负责计数。
type CountingEngine struct {
	Inner engine.ProvingEngine

	mu           sync.Mutex
	compileCalls int
	executeCalls int
	checkCalls   int
}

func (e *CountingEngine) Name() string {
	return e.Inner.Name()
}

func (e *CountingEngine) Capabilities() []string {
	return e.Inner.Capabilities()
}

func (e *CountingEngine) Compile(ctx context.Context, payload []byte) (*engine.CompiledCircuit, error) {
	e.mu.Lock()
	e.compileCalls++
	e.mu.Unlock()
	return e.Inner.Compile(ctx, payload)
}

func (e *CountingEngine) Execute(ctx context.Context, compiled *engine.CompiledCircuit, publicInputs []uint32, privateInput []byte) (*engine.Receipt, error) {
	e.mu.Lock()
	e.executeCalls++
	e.mu.Unlock()
	return e.Inner.Execute(ctx, compiled, publicInputs, privateInput)
}

func (e *CountingEngine) Check(ctx context.Context, receipt *engine.Receipt) (bool, error) {
	e.mu.Lock()
	e.checkCalls++
	e.mu.Unlock()
	return e.Inner.Check(ctx, receipt)
}

// CompileCalls 返回Compile被调用的次数
func (e *CountingEngine) CompileCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.compileCalls
}

// ExecuteCalls 返回Execute被调用的次数
func (e *CountingEngine) ExecuteCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executeCalls
}

// CheckCalls 返回Check被调用的次数
func (e *CountingEngine) CheckCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkCalls
}
