package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewRejectsNegative(t *testing.T) {
	if _, err := New(decimal.NewFromFloat(-0.01)); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if _, err := FromFloat(-1); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestParse(t *testing.T) {
	m, err := Parse("1250.50")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.String() != "1250.5" {
		t.Fatalf("unexpected value %s", m.String())
	}
	if _, err := Parse("-3"); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if _, err := Parse("abc"); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAddSubCmp(t *testing.T) {
	a := MustFromFloat(1000)
	b := MustFromFloat(100)

	sum := a.Add(b)
	if sum.Cmp(MustFromFloat(1100)) != 0 {
		t.Fatalf("unexpected sum %s", sum)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if diff.Cmp(MustFromFloat(900)) != 0 {
		t.Fatalf("unexpected diff %s", diff)
	}

	if _, err := b.Sub(a); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	if Zero().Cmp(b) != -1 || b.Cmp(Zero()) != 1 {
		t.Fatal("cmp ordering broken")
	}
	if !Zero().IsZero() {
		t.Fatal("zero value must be zero")
	}
}

func TestDecimalExactness(t *testing.T) {
	// 0.1 + 0.2 must equal 0.3 exactly, unlike float64.
	sum := MustFromFloat(0.1).Add(MustFromFloat(0.2))
	if sum.Cmp(MustFromFloat(0.3)) != 0 {
		t.Fatalf("0.1 + 0.2 != 0.3: got %s", sum)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(MustFromFloat(750.25))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m Money
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cmp(MustFromFloat(750.25)) != 0 {
		t.Fatalf("round trip mismatch: %s", m)
	}
	if err := json.Unmarshal([]byte(`-5`), &m); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}
