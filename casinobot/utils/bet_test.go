package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/casino-bot/casinobot/economy"
)

func TestParseBetAmount(t *testing.T) {
	tests := []struct {
		in      string
		balance int64
		want    int64
		wantErr bool
	}{
		{"100", 5000, 100, false},
		{" 250 ", 5000, 250, false},
		{"1,000", 5000, 1000, false},
		{"12.9", 5000, 12, false},
		{"1k", 0, 1000, false},
		{"2.5K", 0, 2500, false},
		{"1.5m", 0, 1_500_000, false},
		{"3b", 0, 3_000_000_000, false},
		{"m", 777, 777, false},
		{"max", 777, 777, false},
		{"all", 777, 777, false},
		{"a", 777, 777, false},
		{"allin", 777, 777, false},
		{"50%", 999, 499, false},
		{"100%", 999, 999, false},
		{"150%", 999, 0, true},
		{"lots", 999, 0, true},
		{"", 999, 0, true},
		{"nan", 999, 0, true},
		{"1e30", 999, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBetAmount(tt.in, tt.balance)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBetAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBetAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateBet(t *testing.T) {
	if err := ValidateBet(100, 100); err != nil {
		t.Errorf("ValidateBet(100, 100) = %v, want nil", err)
	}
	if err := ValidateBet(0, 100); !errors.Is(err, ErrBetTooSmall) {
		t.Errorf("ValidateBet(0, 100) = %v, want ErrBetTooSmall", err)
	}
	if err := ValidateBet(-5, 100); !errors.Is(err, ErrBetTooSmall) {
		t.Errorf("ValidateBet(-5, 100) = %v, want ErrBetTooSmall", err)
	}
	if err := ValidateBet(101, 100); !errors.Is(err, economy.ErrInsufficientFunds) {
		t.Errorf("ValidateBet(101, 100) = %v, want ErrInsufficientFunds", err)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		123456:     "123,456",
		1234567:    "1,234,567",
		-1234567:   "-1,234,567",
		1000000000: "1,000,000,000",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCoins(t *testing.T) {
	tests := map[int64]string{
		500:           "500",
		1500:          "1.5K",
		2_000_000:     "2.0M",
		3_100_000_000: "3.1B",
	}
	for in, want := range tests {
		if got := FormatCoins(in); got != want {
			t.Errorf("FormatCoins(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		0:                                "Ready",
		1500 * time.Millisecond:          "1.5s",
		90 * time.Second:                 "1m 30s",
		3*time.Hour + 25*time.Minute + 9: "3h 25m",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(45); got != "████░░░░░░" {
		t.Errorf("ProgressBar(45) = %q", got)
	}
	if got := ProgressBar(250); got != "██████████" {
		t.Errorf("ProgressBar(250) = %q", got)
	}
}
