package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSaleRecalculate(t *testing.T) {
	sale := Sale{
		Items: []SaleItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(60), Discount: decimal.NewFromInt(10)},
		},
		TaxTotal: decimal.NewFromInt(15),
		Payments: []SalePayment{
			{Method: MethodCash, Amount: decimal.NewFromInt(100)},
			{Method: MethodCard, Amount: decimal.NewFromInt(80)},
		},
	}

	sale.Recalculate()

	assert.True(t, sale.Items[0].Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, sale.Items[1].Subtotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, sale.DiscountTotal.Equal(decimal.NewFromInt(10)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(165)))
	assert.True(t, sale.Paid.Equal(decimal.NewFromInt(180)))
	assert.True(t, sale.Change.Equal(decimal.NewFromInt(15)))
}

func TestSaleRecalculateUnderpaid(t *testing.T) {
	sale := Sale{
		Items:    []SaleItem{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
		Payments: []SalePayment{{Method: MethodCash, Amount: decimal.NewFromInt(40)}},
	}

	sale.Recalculate()

	assert.True(t, sale.Paid.Equal(decimal.NewFromInt(40)))
	assert.True(t, sale.Change.IsZero(), "change never goes negative")
}

func TestTransactionSignedTotal(t *testing.T) {
	cases := []struct {
		txnType TransactionType
		want    decimal.Decimal
	}{
		{Income, decimal.NewFromInt(110)},
		{TransferIn, decimal.NewFromInt(110)},
		{Expense, decimal.NewFromInt(-110)},
		{TransferOut, decimal.NewFromInt(-110)},
	}
	for _, tc := range cases {
		txn := Transaction{Type: tc.txnType, Amount: decimal.NewFromInt(100), TaxAmount: decimal.NewFromInt(10), TotalAmount: decimal.NewFromInt(110)}
		assert.True(t, txn.SignedTotal().Equal(tc.want), string(tc.txnType))
	}
}

func TestAccountForMethodFallsBackToCash(t *testing.T) {
	session := RegisterSession{
		AccountMappings: map[AccountRole]string{
			RoleCash: "acc-cash",
			RoleCard: "acc-card",
		},
	}

	id, ok := session.AccountForMethod(MethodCard)
	assert.True(t, ok)
	assert.Equal(t, "acc-card", id)

	id, ok = session.AccountForMethod(MethodDigitalWallet)
	assert.True(t, ok)
	assert.Equal(t, "acc-cash", id)
}
