package number

import "testing"

func TestParseFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sci small exponent", "1e10", "1e10"},
		{"fixed with leading zeros", "101e-5", "0.00101"},
		{"zero", "0", "0"},
		{"negative fixed", "-1.5", "-1.5"},
		{"plain integer", "42", "42"},
		{"trailing zero mantissa", "100", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Parse(tt.in)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.in)
			}
			if got := Format(n); got != tt.want {
				t.Errorf("Format(Parse(%q)) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOverflow(t *testing.T) {
	n, ok := Parse("1000e124")
	if !ok {
		t.Fatalf("Parse failed unexpectedly")
	}
	if !n.IsInf() {
		t.Errorf("expected overflow sentinel, got mantissa=%d exponent=%d", n.Mantissa(), n.Exponent())
	}
}

func TestParseUnderflowClampsToMinimumMagnitude(t *testing.T) {
	// 1000e-123 cannot be represented exactly: after stripping the mantissa's
	// trailing zeros the exponent (-120) still falls outside [-MaxExponent,
	// MaxExponent], so normalization clamps to the smallest representable
	// magnitude with the original sign, rather than the literal 1e-120.
	n, ok := Parse("1000e-123")
	if !ok {
		t.Fatalf("Parse failed unexpectedly")
	}
	if n.Mantissa() != 1 || n.Exponent() != -MaxExponent {
		t.Errorf("got mantissa=%d exponent=%d, want mantissa=1 exponent=%d", n.Mantissa(), n.Exponent(), -MaxExponent)
	}
}

func TestParseRejectsInvalidText(t *testing.T) {
	// A second '.' outside the grammar and a non-digit lead character are
	// rejected; a truncated exponent ("1e") or repeated sign ("--1") are not
	// errors in this state machine, matching the original parser.
	for _, in := range []string{"abc", "1.2.3", "$5"} {
		if _, ok := Parse(in); ok {
			t.Errorf("Parse(%q) unexpectedly succeeded", in)
		}
	}
}

func TestNormalizeStripsTrailingZeros(t *testing.T) {
	a := Normalize(1000, 9, false)
	b := Normalize(1, 12, false)
	if a != b {
		t.Errorf("Normalize(1000, 9) = %v, want equal to Normalize(1, 12) = %v", a, b)
	}
}

func TestNormalizeRoundsOversizedMantissa(t *testing.T) {
	n := Normalize(314159265, -9, true)
	if n.Mantissa() != -31415927 {
		t.Errorf("mantissa = %d, want -31415927 (rounded half away from zero)", n.Mantissa())
	}
	if n.Exponent() != -8 {
		t.Errorf("exponent = %d, want -8", n.Exponent())
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal values different form", "1e2", "100", 0},
		{"less than", "1", "2", -1},
		{"greater than", "2", "1", 1},
		{"negative less than positive", "-1", "1", -1},
		{"zero equals negative zero form", "0", "-0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := Parse(tt.a)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.a)
			}
			b, ok := Parse(tt.b)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.b)
			}
			if got := Compare(a, b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAsInt64Saturates(t *testing.T) {
	n := Normalize(MaxMantissa, MaxExponent, false)
	if got := n.AsInt64(); got != 1<<63-1 {
		t.Errorf("AsInt64() = %d, want max int64", got)
	}
}

func TestAsFloat(t *testing.T) {
	n, ok := Parse("1.5")
	if !ok {
		t.Fatalf("Parse failed")
	}
	if got := n.AsFloat(); got != 1.5 {
		t.Errorf("AsFloat() = %v, want 1.5", got)
	}
}
