package executor

import (
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-sniper-go/internal/config"
)

func testKeys() (mint, curve, assocCurve, ata, user common.PublicKey) {
	mint = common.PublicKeyFromString("So11111111111111111111111111111111111111112")
	curve = common.PublicKeyFromString("Vote111111111111111111111111111111111111111")
	assocCurve = common.PublicKeyFromString("Stake11111111111111111111111111111111111111")
	ata = common.PublicKeyFromString("SysvarC1ock11111111111111111111111111111111")
	user = common.PublicKeyFromString("SysvarS1otHashes111111111111111111111111111")
	return
}

func TestSellInstructionLayout(t *testing.T) {
	mint, curve, assocCurve, ata, user := testKeys()

	inst := createSellInstruction(mint, curve, assocCurve, ata, user, 1_500_000, 42_000_000)

	assert.Equal(t, common.PublicKeyFromBytes(config.PumpFunProgramID), inst.ProgramID)
	require.Len(t, inst.Data, 24)

	// 8-byte discriminator, then amount and min SOL output as LE u64
	assert.Equal(t, []byte{0x33, 0xe6, 0x85, 0xa4, 0x01, 0x7f, 0x83, 0xad}, inst.Data[:8])
	assert.Equal(t, uint64(1_500_000), binary.LittleEndian.Uint64(inst.Data[8:16]))
	assert.Equal(t, uint64(42_000_000), binary.LittleEndian.Uint64(inst.Data[16:24]))
}

func TestBuyInstructionLayout(t *testing.T) {
	mint, curve, assocCurve, ata, user := testKeys()

	inst := createBuyInstruction(mint, curve, assocCurve, ata, user, 1_000_000, 10_500_000)

	require.Len(t, inst.Data, 24)
	assert.Equal(t, []byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}, inst.Data[:8])
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(inst.Data[8:16]))
	assert.Equal(t, uint64(10_500_000), binary.LittleEndian.Uint64(inst.Data[16:24]))
}

func TestPumpFunAccountOrder(t *testing.T) {
	mint, curve, assocCurve, ata, user := testKeys()

	accounts := pumpFunAccountMetas(mint, curve, assocCurve, ata, user)
	require.Len(t, accounts, 11)

	assert.Equal(t, common.PublicKeyFromBytes(config.PumpFunGlobal), accounts[0].PubKey)
	assert.Equal(t, common.PublicKeyFromBytes(config.PumpFunFeeRecipient), accounts[1].PubKey)
	assert.Equal(t, mint, accounts[2].PubKey)
	assert.Equal(t, curve, accounts[3].PubKey)
	assert.Equal(t, assocCurve, accounts[4].PubKey)
	assert.Equal(t, ata, accounts[5].PubKey)
	assert.Equal(t, user, accounts[6].PubKey)
	assert.Equal(t, common.SystemProgramID, accounts[7].PubKey)
	assert.Equal(t, common.TokenProgramID, accounts[8].PubKey)
	assert.Equal(t, common.PublicKeyFromBytes(config.PumpFunEventAuthority), accounts[9].PubKey)
	assert.Equal(t, common.PublicKeyFromBytes(config.PumpFunProgramID), accounts[10].PubKey)

	// Only the user signs; curve, fee recipient, and token accounts are writable
	assert.True(t, accounts[6].IsSigner)
	assert.True(t, accounts[6].IsWritable)
	for i, meta := range accounts {
		if i != 6 {
			assert.False(t, meta.IsSigner, "account %d must not sign", i)
		}
	}
	assert.True(t, accounts[1].IsWritable)
	assert.True(t, accounts[3].IsWritable)
	assert.True(t, accounts[4].IsWritable)
	assert.True(t, accounts[5].IsWritable)
}

func TestComputeBudgetInstructions(t *testing.T) {
	limit := createComputeBudgetInstruction()
	require.Len(t, limit.Data, 5)
	assert.Equal(t, uint8(config.SetComputeUnitLimitInstruction), limit.Data[0])
	assert.Equal(t, uint32(200000), binary.LittleEndian.Uint32(limit.Data[1:]))

	fee := createPriorityFeeInstruction(25_000)
	require.Len(t, fee.Data, 9)
	assert.Equal(t, uint8(config.SetComputeUnitPriceInstruction), fee.Data[0])
	assert.Equal(t, uint64(25_000), binary.LittleEndian.Uint64(fee.Data[1:]))
}

func TestCloseAccountInstruction(t *testing.T) {
	_, _, _, ata, user := testKeys()

	inst := createCloseAccountInstruction(ata, user)
	assert.Equal(t, common.TokenProgramID, inst.ProgramID)
	assert.Equal(t, []byte{9}, inst.Data)
	require.Len(t, inst.Accounts, 3)
	assert.True(t, inst.Accounts[2].IsSigner)
}

func TestDecodeTokenAccountAmount(t *testing.T) {
	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[64:72], 123_456_789)

	amount, err := decodeTokenAccountAmount(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(123_456_789), amount)

	_, err = decodeTokenAccountAmount(data[:64])
	assert.Error(t, err)
}
