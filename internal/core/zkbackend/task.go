package zkbackend

import (
	"sync"
	"time"

	"github.com/google/uuid"

	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
)

// taskKind 调度任务类型
type taskKind int

const (
	taskProve taskKind = iota
	taskVerify
)

// TaskStatus 任务状态
type TaskStatus string

const (
	// TaskStatusPending 等待调度
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusRunning 执行中
	TaskStatusRunning TaskStatus = "running"

	// TaskStatusCompleted 已完成
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusFailed 已失败
	TaskStatusFailed TaskStatus = "failed"
)

// proofTask 调度任务
//
// 🎯 **散集协议**：批量操作为每个工作项创建一个任务并打上
// 原始下标，工作线程按完成顺序执行，结果按下标写回预先分配
// 的结果数组——输出顺序因此与输入顺序严格一致。
type proofTask struct {
	// 任务标识
	TaskID string
	Index  int

	// 任务类型与载荷
	Kind    taskKind
	Program []byte
	Input   []byte
	Proof   []byte

	// 调用配置
	proveOpts  *ifacezk.ProveOptions
	verifyOpts *ifacezk.VerifyOptions

	// 状态与时间
	Status      TaskStatus
	SubmittedAt time.Time

	// 执行结果（done.Wait()返回后可读）
	result   *ifacezk.ProofResult
	verifyOK bool
	err      error
	done     *sync.WaitGroup

	mu sync.Mutex
}

// newProveTask 创建证明任务
func newProveTask(index int, program, input []byte, opts *ifacezk.ProveOptions, done *sync.WaitGroup) *proofTask {
	return &proofTask{
		TaskID:      uuid.New().String(),
		Index:       index,
		Kind:        taskProve,
		Program:     program,
		Input:       input,
		proveOpts:   opts,
		Status:      TaskStatusPending,
		SubmittedAt: time.Now(),
		done:        done,
	}
}

// newVerifyTask 创建验证任务
func newVerifyTask(index int, program, proof []byte, opts *ifacezk.VerifyOptions, done *sync.WaitGroup) *proofTask {
	return &proofTask{
		TaskID:      uuid.New().String(),
		Index:       index,
		Kind:        taskVerify,
		Program:     program,
		Proof:       proof,
		verifyOpts:  opts,
		Status:      TaskStatusPending,
		SubmittedAt: time.Now(),
		done:        done,
	}
}

// MarkRunning 标记任务为执行中
func (t *proofTask) MarkRunning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = TaskStatusRunning
}

// MarkCompleted 标记任务完成并记录结果
func (t *proofTask) MarkCompleted() {
	t.mu.Lock()
	t.Status = TaskStatusCompleted
	t.mu.Unlock()
	t.done.Done()
}

// MarkFailed 标记任务失败并记录错误
func (t *proofTask) MarkFailed(err error) {
	t.mu.Lock()
	t.Status = TaskStatusFailed
	t.err = err
	t.mu.Unlock()
	t.done.Done()
}
