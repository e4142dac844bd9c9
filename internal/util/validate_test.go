package util

import (
	"strings"
	"testing"
)

func TestValidatePersonName_Valid(t *testing.T) {
	testCases := []string{"Pak Budi", "Siti", "Wayan Sudarma"}

	for _, name := range testCases {
		err := ValidatePersonName("nama petani", name)
		if err != nil {
			t.Errorf("ValidatePersonName(%q) error = %v, want nil", name, err)
		}
	}
}

func TestValidatePersonName_Empty(t *testing.T) {
	testCases := []string{"", "   "}

	for _, name := range testCases {
		err := ValidatePersonName("nama petani", name)
		if err == nil {
			t.Errorf("ValidatePersonName(%q) error = nil, want error", name)
		}
	}
}

func TestValidatePersonName_WithDigits(t *testing.T) {
	err := ValidatePersonName("nama petani", "Budi 123")
	if err == nil {
		t.Error("ValidatePersonName with digits error = nil, want error")
	}
}

func TestValidatePersonName_TooLong(t *testing.T) {
	err := ValidatePersonName("nama petani", strings.Repeat("a", 31))
	if err == nil {
		t.Error("ValidatePersonName with 31 chars error = nil, want error")
	}
}

func TestValidatePhone(t *testing.T) {
	if err := ValidatePhone("0812345678"); err != nil {
		t.Errorf("ValidatePhone(10 digits) error = %v, want nil", err)
	}
	if err := ValidatePhone("081234567"); err == nil {
		t.Error("ValidatePhone(9 digits) error = nil, want error")
	}
	if err := ValidatePhone("0812345678901234"); err == nil {
		t.Error("ValidatePhone(16 digits) error = nil, want error")
	}
}

func TestValidateAddress(t *testing.T) {
	if err := ValidateAddress("Jl. Mawar No. 5"); err != nil {
		t.Errorf("ValidateAddress error = %v, want nil", err)
	}
	if err := ValidateAddress("Jl."); err == nil {
		t.Error("ValidateAddress(3 chars) error = nil, want error")
	}
	if err := ValidateAddress(strings.Repeat("a", 51)); err == nil {
		t.Error("ValidateAddress(51 chars) error = nil, want error")
	}
}

func TestValidateQuantityKg(t *testing.T) {
	valid := []float64{1, 2.5, 999999}
	for _, q := range valid {
		if err := ValidateQuantityKg(q); err != nil {
			t.Errorf("ValidateQuantityKg(%v) error = %v, want nil", q, err)
		}
	}

	invalid := []float64{0, 0.5, -3, 1000000}
	for _, q := range invalid {
		if err := ValidateQuantityKg(q); err == nil {
			t.Errorf("ValidateQuantityKg(%v) error = nil, want error", q)
		}
	}
}

func TestValidatePricePerKg(t *testing.T) {
	valid := []int64{1000, 5000, 999999}
	for _, p := range valid {
		if err := ValidatePricePerKg(p); err != nil {
			t.Errorf("ValidatePricePerKg(%d) error = %v, want nil", p, err)
		}
	}

	invalid := []int64{0, 999, 1000000}
	for _, p := range invalid {
		if err := ValidatePricePerKg(p); err == nil {
			t.Errorf("ValidatePricePerKg(%d) error = nil, want error", p)
		}
	}
}

func TestValidateNote(t *testing.T) {
	if err := ValidateNote("beli bibit"); err != nil {
		t.Errorf("ValidateNote error = %v, want nil", err)
	}
	if err := ValidateNote("abc"); err == nil {
		t.Error("ValidateNote(3 chars) error = nil, want error")
	}
	if err := ValidateNote("    a    "); err == nil {
		t.Error("ValidateNote(padded 1 char) error = nil, want error")
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2024-01-01", "2025-12-31"}
	for _, d := range valid {
		if err := ValidateDate(d); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", d, err)
		}
	}

	invalid := []string{"", "2024/01/01", "2024-13-01", "not-a-date"}
	for _, d := range invalid {
		if err := ValidateDate(d); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", d)
		}
	}
}
