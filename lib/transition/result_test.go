// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transition

import (
	"testing"
	"time"

	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/state"
)

func TestEncodedReceiptDecode(t *testing.T) {
	h := newHarness(t, state.NewMemoryStore())
	h.bootstrap(1_000_000 * billion)
	now := h.clock.Now().Unix()
	h.mustSubmit(h.owner, LedgerCreateRelease, CreateReleaseBody{
		Beneficiary: h.beneficiary.Identity,
		Mint:        h.tokenID,
		Amount:      1000 * billion,
		StartTS:     now,
		EndTS:       now + 20,
	})
	h.clock.Advance(10 * time.Second)
	receipt := h.mustSubmit(h.beneficiary, LedgerWithdraw, WithdrawBody{})

	data, err := codec.Marshal(receipt)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var encoded EncodedReceipt
	if err := codec.Unmarshal(data, &encoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	decoded, err := encoded.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.ID != receipt.ID || decoded.Kind != LedgerWithdraw || decoded.Signer != h.beneficiary.Identity {
		t.Errorf("decoded envelope = %+v", decoded)
	}
	withdrawal, ok := decoded.Result.(*lockup.Withdrawal)
	if !ok {
		t.Fatalf("Result is %T, want *lockup.Withdrawal", decoded.Result)
	}
	if withdrawal.Amount != 500*billion || withdrawal.Release.WithdrawnAmount != 500*billion {
		t.Errorf("withdrawal = amount %d withdrawn %d", withdrawal.Amount, withdrawal.Release.WithdrawnAmount)
	}
}

func TestEncodedReceiptWithoutResult(t *testing.T) {
	encoded := EncodedReceipt{ID: "abc", Kind: ProxyRemoveMinter}
	decoded, err := encoded.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Result != nil {
		t.Errorf("Result = %v, want nil", decoded.Result)
	}

	encoded.Result = codec.RawMessage{0xa0}
	if _, err := encoded.Decode(); err == nil {
		t.Error("result on a kind that produces none should fail")
	}
}

func TestEveryKindWithResultDecodes(t *testing.T) {
	for _, kind := range Kinds() {
		if kind == ProxyRemoveMinter {
			if NewResult(kind) != nil {
				t.Errorf("%s should produce no result", kind)
			}
			continue
		}
		if NewResult(kind) == nil {
			t.Errorf("%s has no result type", kind)
		}
	}
}
