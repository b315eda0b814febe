package security

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty hash")
	}
	if err := h.VerifyPassword(hash, "secret123"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
}

func TestHasher_VerifyWrongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, _ := h.HashPassword("secret123")
	err := h.VerifyPassword(hash, "wrong")
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Fatalf("VerifyPassword wrong password: err = %v, want mismatch", err)
	}
}

func TestHasher_EmptyPasswordRejected(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	if _, err := h.HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("HashPassword(\"\"): err = %v, want ErrEmptyPassword", err)
	}
}

func TestNewHasher_CostClamping(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"in range", 12, 12},
		{"zero defaults", 0, bcrypt.DefaultCost},
		{"below min", 2, bcrypt.MinCost},
		{"above max", 40, bcrypt.MaxCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewHasher(tt.cost).Cost(); got != tt.want {
				t.Errorf("Cost() = %d, want %d", got, tt.want)
			}
		})
	}
}
