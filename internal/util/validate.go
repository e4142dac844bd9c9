package util

import (
	"fmt"
	"strings"
	"time"
)

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// ValidatePersonName checks farmer/buyer names: 1-30 chars, no digits.
func ValidatePersonName(label, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s wajib diisi", label)
	}
	if len(name) > 30 {
		return fmt.Errorf("%s maksimal 30 karakter", label)
	}
	if containsDigit(name) {
		return fmt.Errorf("%s tidak boleh mengandung angka", label)
	}
	return nil
}

// ValidatePhone checks an optional phone number: 10-15 characters.
func ValidatePhone(phone string) error {
	if len(phone) < 10 {
		return fmt.Errorf("nomor HP minimal 10 digit")
	}
	if len(phone) > 15 {
		return fmt.Errorf("nomor HP maksimal 15 digit")
	}
	return nil
}

// ValidateAddress checks an optional address: 4-50 characters.
func ValidateAddress(address string) error {
	if len(address) < 4 {
		return fmt.Errorf("alamat minimal 4 karakter")
	}
	if len(address) > 50 {
		return fmt.Errorf("alamat maksimal 50 karakter")
	}
	return nil
}

// ValidateQuantityKg checks a line quantity: at least 1 kg, at most 6 digits.
func ValidateQuantityKg(quantity float64) error {
	if quantity < 1 {
		return fmt.Errorf("jumlah kg minimal 1")
	}
	if quantity > 999999 {
		return fmt.Errorf("jumlah kg maksimal 6 digit")
	}
	return nil
}

// ValidatePricePerKg checks a unit price: 4 to 6 digits of rupiah.
func ValidatePricePerKg(price int64) error {
	if price < 1000 {
		return fmt.Errorf("harga per kg minimal 4 digit")
	}
	if price > 999999 {
		return fmt.Errorf("harga per kg maksimal 6 digit")
	}
	return nil
}

// ValidateNote checks an optional note: at least 5 characters when present.
func ValidateNote(note string) error {
	if len(strings.TrimSpace(note)) < 5 {
		return fmt.Errorf("catatan minimal 5 karakter")
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("parameter date wajib diisi")
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("format date tidak valid (YYYY-MM-DD)")
	}
	return nil
}
