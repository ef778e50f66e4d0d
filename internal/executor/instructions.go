package executor

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"pump-sniper-go/internal/config"
)

// pumpFunAccountMetas builds the shared account list for pump.fun buy
// and sell instructions. The order is fixed by the program.
func pumpFunAccountMetas(mint, bondingCurve, associatedBondingCurve, userATA, user common.PublicKey) []types.AccountMeta {
	return []types.AccountMeta{
		{PubKey: common.PublicKeyFromBytes(config.PumpFunGlobal), IsSigner: false, IsWritable: false},
		{PubKey: common.PublicKeyFromBytes(config.PumpFunFeeRecipient), IsSigner: false, IsWritable: true},
		{PubKey: mint, IsSigner: false, IsWritable: false},
		{PubKey: bondingCurve, IsSigner: false, IsWritable: true},
		{PubKey: associatedBondingCurve, IsSigner: false, IsWritable: true},
		{PubKey: userATA, IsSigner: false, IsWritable: true},
		{PubKey: user, IsSigner: true, IsWritable: true},
		{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
		{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
		{PubKey: common.PublicKeyFromBytes(config.PumpFunEventAuthority), IsSigner: false, IsWritable: false},
		{PubKey: common.PublicKeyFromBytes(config.PumpFunProgramID), IsSigner: false, IsWritable: false},
	}
}

// createBuyInstruction creates the pump.fun buy instruction
func createBuyInstruction(mint, bondingCurve, associatedBondingCurve, userATA, user common.PublicKey,
	tokenAmount, maxSolCost uint64) types.Instruction {

	discriminator, _ := hex.DecodeString(config.BuyInstructionDiscriminator)
	data := make([]byte, 24)
	copy(data[0:8], discriminator)
	binary.LittleEndian.PutUint64(data[8:16], tokenAmount)
	binary.LittleEndian.PutUint64(data[16:24], maxSolCost)

	return types.Instruction{
		ProgramID: common.PublicKeyFromBytes(config.PumpFunProgramID),
		Accounts:  pumpFunAccountMetas(mint, bondingCurve, associatedBondingCurve, userATA, user),
		Data:      data,
	}
}

// createSellInstruction creates the pump.fun sell instruction
func createSellInstruction(mint, bondingCurve, associatedBondingCurve, userATA, user common.PublicKey,
	tokenAmount, minSolOutput uint64) types.Instruction {

	discriminator, _ := hex.DecodeString(config.SellInstructionDiscriminator)
	data := make([]byte, 24)
	copy(data[0:8], discriminator)
	binary.LittleEndian.PutUint64(data[8:16], tokenAmount)
	binary.LittleEndian.PutUint64(data[16:24], minSolOutput)

	return types.Instruction{
		ProgramID: common.PublicKeyFromBytes(config.PumpFunProgramID),
		Accounts:  pumpFunAccountMetas(mint, bondingCurve, associatedBondingCurve, userATA, user),
		Data:      data,
	}
}

// createAssociatedAccountInstruction creates the user's ATA for the
// mint if it does not already exist (CreateIdempotent)
func createAssociatedAccountInstruction(mint, ata, user common.PublicKey) types.Instruction {
	return types.Instruction{
		ProgramID: common.PublicKeyFromBytes(config.AssociatedTokenProgramID),
		Accounts: []types.AccountMeta{
			{PubKey: user, IsSigner: true, IsWritable: true},
			{PubKey: ata, IsSigner: false, IsWritable: true},
			{PubKey: user, IsSigner: false, IsWritable: false},
			{PubKey: mint, IsSigner: false, IsWritable: false},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
		},
		Data: []byte{1},
	}
}

// createCloseAccountInstruction closes the user's ATA and reclaims rent
func createCloseAccountInstruction(ata, user common.PublicKey) types.Instruction {
	return types.Instruction{
		ProgramID: common.TokenProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: ata, IsSigner: false, IsWritable: true},
			{PubKey: user, IsSigner: false, IsWritable: true},
			{PubKey: user, IsSigner: true, IsWritable: false},
		},
		Data: []byte{9}, // CloseAccount
	}
}

// createPriorityFeeInstruction sets the compute unit price in
// micro-lamports
func createPriorityFeeInstruction(priorityFee uint64) types.Instruction {
	data := make([]byte, 9)
	data[0] = config.SetComputeUnitPriceInstruction
	binary.LittleEndian.PutUint64(data[1:], priorityFee)

	return types.Instruction{
		ProgramID: common.PublicKeyFromBytes(config.ComputeBudgetProgramID),
		Accounts:  []types.AccountMeta{},
		Data:      data,
	}
}

// createComputeBudgetInstruction sets a fixed compute unit limit
func createComputeBudgetInstruction() types.Instruction {
	data := make([]byte, 5)
	data[0] = config.SetComputeUnitLimitInstruction
	binary.LittleEndian.PutUint32(data[1:], 200000)

	return types.Instruction{
		ProgramID: common.PublicKeyFromBytes(config.ComputeBudgetProgramID),
		Accounts:  []types.AccountMeta{},
		Data:      data,
	}
}
