package payout

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestMemoryBankAccumulates(t *testing.T) {
	bank := NewMemoryBank()
	account := common.BytesToAddress([]byte{1})

	require.True(t, bank.BalanceOf(account).IsZero())

	require.NoError(t, bank.Pay(context.Background(), account, uint256.NewInt(100)))
	require.NoError(t, bank.Pay(context.Background(), account, uint256.NewInt(50)))
	require.Equal(t, uint256.NewInt(150), bank.BalanceOf(account))
}

func TestMemoryBankRejection(t *testing.T) {
	bank := NewMemoryBank()
	account := common.BytesToAddress([]byte{2})

	bank.Reject(account)
	err := bank.Pay(context.Background(), account, uint256.NewInt(100))
	require.ErrorIs(t, err, ErrRecipientRejected)
	require.True(t, bank.BalanceOf(account).IsZero())

	bank.Accept(account)
	require.NoError(t, bank.Pay(context.Background(), account, uint256.NewInt(100)))
	require.Equal(t, uint256.NewInt(100), bank.BalanceOf(account))
}
