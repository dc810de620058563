package ui

import (
	"testing"
	"time"
)

func TestUnitToNumber(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"1000", 1000},
		{"1K", 1000},
		{"16KB", 16000},
		{"10MB", 10 * MEGA},
		{"1.5G", 1500 * MEGA},
		{"2TB", 2 * TERA},
		{"1000B", 1000},
		{" 4kb ", 4000},
		{"", 0},
		{"-5K", 0},
		{"0", 0},
		{"10XB", 0},
		{"junk", 0},
	}
	for _, c := range cases {
		if got := UnitToNumber(c.in); got != c.want {
			t.Errorf("UnitToNumber(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestNumberToUnit(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1500, "1.50K"},
		{2 * MEGA, "2M"},
		{3 * GIGA, "3G"},
		{4 * TERA, "4T"},
	}
	for _, c := range cases {
		if got := NumberToUnit(c.in); got != c.want {
			t.Errorf("NumberToUnit(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBpsToString(t *testing.T) {
	if got := BpsToString(80_000_000); got != "80Mbits/s" {
		t.Errorf("BpsToString = %q, want 80Mbits/s", got)
	}
	if got := BpsToString(-1); got != "0bits/s" {
		t.Errorf("BpsToString(-1) = %q, want 0bits/s", got)
	}
}

func TestRateToString(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.9, "90.00%"},
		{1, "100.00%"},
		{0, "0.00%"},
		{1.2, "100.00%"},
		{-0.5, "0.00%"},
	}
	for _, c := range cases {
		if got := RateToString(c.in); got != c.want {
			t.Errorf("RateToString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDurationToString(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500.00ns"},
		{250 * time.Microsecond, "250.00us"},
		{15 * time.Millisecond, "15.00ms"},
		{2 * time.Second, "2.00s"},
	}
	for _, c := range cases {
		if got := DurationToString(c.in); got != c.want {
			t.Errorf("DurationToString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncateStringFromStart(t *testing.T) {
	got := TruncateStringFromStart("192.168.100.200:17000", 13)
	if len(got) != 13 || got[:3] != "..." {
		t.Errorf("TruncateStringFromStart = %q, want 13 chars with leading ellipsis", got)
	}
	if got := TruncateStringFromStart("short", 13); got != "short" {
		t.Errorf("TruncateStringFromStart(short) = %q", got)
	}
}
