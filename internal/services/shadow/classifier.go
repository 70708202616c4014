// Package shadow flags internal fund movement so money shuffled between
// the user's own wallets never inflates spend totals.
package shadow

import (
	"strings"

	"finance-dashboard-backend/internal/models"
)

// Direction keywords describing internal movement: transfers,
// repayments, withdrawals, top-ups.
var internalMovement = []string{"转账", "还款", "提现", "充值", models.TypeTransfer}

// Counterparty keywords for the user's own instruments: money-market
// fund wallets, wealth-management products, credit cards.
var internalWallet = []string{"余额宝", "零钱通", "理财", "余利宝", "理财通", "信用卡"}

// Classify decides the stored status for a transaction. It runs once at
// insert time; the result is never changed afterward.
func Classify(tx *models.Transaction) string {
	if containsAny(tx.Type, internalMovement) || containsAny(tx.Peer, internalWallet) {
		return models.StatusShadow
	}
	if tx.Status != "" {
		return tx.Status
	}
	return models.StatusNormal
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
