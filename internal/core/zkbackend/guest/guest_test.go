package guest

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// guest.go 测试
// ============================================================================

// TestExecute_EmptyInput 测试空见证被拒绝
func TestExecute_EmptyInput(t *testing.T) {
	_, err := Execute(EntryMessageVerify, 0, nil)
	require.Error(t, err)

	_, err = Execute(EntryMessageVerify, 0, []byte{})
	require.Error(t, err)
}

// TestExecute_UnknownEntry 测试未知入口标签被拒绝
func TestExecute_UnknownEntry(t *testing.T) {
	_, err := Execute(0x7F, 0, []byte("payload"))
	require.Error(t, err)
}

// TestMessageVerify_Journal 测试消息客体提交32字节摘要
func TestMessageVerify_Journal(t *testing.T) {
	message := []byte("Hello, World!")
	journal, err := Execute(EntryMessageVerify, 0, message)
	require.NoError(t, err)

	expected := sha256.Sum256(message)
	require.Equal(t, expected[:], journal)
}

// TestTxVerify_Journal 测试交易客体的journal布局
func TestTxVerify_Journal(t *testing.T) {
	txBytes := []byte(`{"from":"0xalice","to":"0xbob","value":"12345"}`)
	journal, err := Execute(EntryTxVerify, 0, txBytes)
	require.NoError(t, err)
	require.Len(t, journal, 64)

	digest := sha256.Sum256(txBytes)
	require.Equal(t, digest[:], journal[:32])
	require.Equal(t, uint64(len("0xalice")), binary.LittleEndian.Uint64(journal[32:40]))
	require.Equal(t, uint64(len("0xbob")), binary.LittleEndian.Uint64(journal[40:48]))
	require.Equal(t, uint64(12345), binary.LittleEndian.Uint64(journal[48:56]))
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(journal[56:64]))
}

// TestTxVerify_Rejections 测试交易客体的断言失败路径
func TestTxVerify_Rejections(t *testing.T) {
	cases := []struct {
		name string
		tx   string
	}{
		{"非JSON", `not json at all`},
		{"from缺少0x前缀", `{"from":"alice","to":"0xbob","value":"1"}`},
		{"to缺少0x前缀", `{"from":"0xalice","to":"bob","value":"1"}`},
		{"value非十进制", `{"from":"0xalice","to":"0xbob","value":"abc"}`},
		{"value溢出u64", `{"from":"0xalice","to":"0xbob","value":"99999999999999999999999"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Execute(EntryTxVerify, 0, []byte(tc.tx))
			require.Error(t, err)
		})
	}
}

// blockHeaderJSON 构造区块头JSON
func blockHeaderJSON(number, timestamp, gasUsed, gasLimit uint64) []byte {
	return []byte(fmt.Sprintf(
		`{"parent_hash":"0x00","number":%d,"timestamp":%d,"gas_used":%d,"gas_limit":%d,"miner":"0x01"}`,
		number, timestamp, gasUsed, gasLimit))
}

// TestBlockVerify_Journal 测试区块客体的journal布局
func TestBlockVerify_Journal(t *testing.T) {
	headerBytes := blockHeaderJSON(42, 1_700_000_000, 21_000, 30_000_000)
	journal, err := Execute(EntryBlockVerify, 42, headerBytes)
	require.NoError(t, err)
	require.Len(t, journal, 64)

	digest := sha256.Sum256(headerBytes)
	require.Equal(t, digest[:], journal[:32])
	require.Equal(t, uint64(42), binary.LittleEndian.Uint64(journal[32:40]))
	require.Equal(t, uint64(1_700_000_000), binary.LittleEndian.Uint64(journal[40:48]))
	require.Equal(t, uint64(21_000), binary.LittleEndian.Uint64(journal[48:56]))
	require.Equal(t, uint64(30_000_000), binary.LittleEndian.Uint64(journal[56:64]))
}

// TestBlockVerify_Rejections 测试区块客体的断言失败路径
func TestBlockVerify_Rejections(t *testing.T) {
	// 区块号与期望不一致
	_, err := Execute(EntryBlockVerify, 43, blockHeaderJSON(42, 1_700_000_000, 0, 1))
	require.Error(t, err)

	// 2010年的时间戳在窗口下界之前
	_, err = Execute(EntryBlockVerify, 42, blockHeaderJSON(42, 1_262_304_000, 0, 1))
	require.Error(t, err)

	// 时间戳达到窗口上界
	_, err = Execute(EntryBlockVerify, 42, blockHeaderJSON(42, 2_000_000_000, 0, 1))
	require.Error(t, err)

	// gas_used超过gas_limit
	_, err = Execute(EntryBlockVerify, 42, blockHeaderJSON(42, 1_700_000_000, 2, 1))
	require.Error(t, err)

	// parent_hash缺少0x前缀
	_, err = Execute(EntryBlockVerify, 42, []byte(
		`{"parent_hash":"00","number":42,"timestamp":1700000000,"gas_used":0,"gas_limit":1,"miner":"0x01"}`))
	require.Error(t, err)

	// miner缺少0x前缀
	_, err = Execute(EntryBlockVerify, 42, []byte(
		`{"parent_hash":"0x00","number":42,"timestamp":1700000000,"gas_used":0,"gas_limit":1,"miner":"01"}`))
	require.Error(t, err)
}

// TestBlockVerify_TimestampBoundaries 测试时间戳窗口边界语义（含下界、不含上界）
func TestBlockVerify_TimestampBoundaries(t *testing.T) {
	_, err := Execute(EntryBlockVerify, 1, blockHeaderJSON(1, 1_600_000_000, 0, 1))
	require.NoError(t, err)

	_, err = Execute(EntryBlockVerify, 1, blockHeaderJSON(1, 1_999_999_999, 0, 1))
	require.NoError(t, err)

	_, err = Execute(EntryBlockVerify, 1, blockHeaderJSON(1, 1_599_999_999, 0, 1))
	require.Error(t, err)
}
