package domain

import "github.com/shopspring/decimal"

// CurrentBalance returns initial + Σ income − Σ expense over txs.
// The result does not depend on the order of txs.
func CurrentBalance(initial Money, txs []Transaction) Money {
	balance := initial
	for _, tx := range txs {
		switch tx.Type {
		case TransactionIncome:
			balance = balance.Add(tx.Value)
		case TransactionExpense:
			balance = balance.Sub(tx.Value)
		}
	}
	return balance
}

// Totals returns the income and expense sums of txs.
func Totals(txs []Transaction) (income, expense Money) {
	income, expense = decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case TransactionIncome:
			income = income.Add(tx.Value)
		case TransactionExpense:
			expense = expense.Add(tx.Value)
		}
	}
	return income, expense
}
