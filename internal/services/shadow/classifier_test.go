package shadow

import (
	"testing"

	"finance-dashboard-backend/internal/models"
)

func TestClassifyInternalMovementByType(t *testing.T) {
	for _, typ := range []string{"转账", "还款", "提现", "充值", models.TypeTransfer} {
		tx := models.Transaction{Type: typ, Peer: "某商户", Amount: 100}
		if got := Classify(&tx); got != models.StatusShadow {
			t.Fatalf("type %s classified %s, want shadow", typ, got)
		}
	}
}

func TestClassifyInternalWalletByPeer(t *testing.T) {
	// wallet peers shadow regardless of amount or direction
	for _, peer := range []string{"余额宝", "零钱通", "招行信用卡", "余利宝", "理财通"} {
		for _, amount := range []float64{0.01, 99999} {
			tx := models.Transaction{Type: models.TypeExpense, Peer: peer, Amount: amount}
			if got := Classify(&tx); got != models.StatusShadow {
				t.Fatalf("peer %s amount %v classified %s, want shadow", peer, amount, got)
			}
		}
	}
}

func TestClassifyNormalExpense(t *testing.T) {
	tx := models.Transaction{Type: models.TypeExpense, Peer: "老王早餐店", Amount: 35}
	if got := Classify(&tx); got != models.StatusNormal {
		t.Fatalf("got %s, want normal", got)
	}
}

func TestClassifyKeepsSourceStatus(t *testing.T) {
	tx := models.Transaction{Type: models.TypeExpense, Peer: "老王早餐店", Status: "成功"}
	if got := Classify(&tx); got != "成功" {
		t.Fatalf("got %s, want source status preserved", got)
	}
}
