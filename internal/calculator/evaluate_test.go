package calculator

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{expr: "12 + 5 / 2", want: 14.5},
		{expr: "10%", want: 0.1},
		{expr: "200%", want: 2},
		{expr: "50%%", want: 0.005},
		{expr: "-5+2", want: -3},
		{expr: "0.1 + 0.2", want: 0.3},
		{expr: "(1+2)*3", want: 9},
		{expr: "2*(3+4)-5/(1+1)", want: 11.5},
		{expr: "10-4-3", want: 3},
		{expr: "100/10/5", want: 2},
		{expr: ".5 + 5.", want: 5.5},
		{expr: " 7 ", want: 7},
		{expr: "1/3", want: 0.333333333333},
		{expr: "2/3", want: 0.666666666667},
		{expr: "-0", want: 0},
		{expr: "0.5", want: 0.5},
		{expr: "\t3 *\n4", want: 12},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Evaluate(tc.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): unexpected error %v", tc.expr, err)
			}
			if got != tc.want {
				t.Fatalf("Evaluate(%q): expected %v, got %v", tc.expr, tc.want, got)
			}
		})
	}
}

// The operator-sequence rule is deliberately narrow. These cases pin the
// exact acceptance boundary.
func TestEvaluateOperatorSequenceBoundary(t *testing.T) {
	tests := []struct {
		expr    string
		want    float64
		wantErr error
	}{
		// No operator run once whitespace is stripped.
		{expr: "(-5+2)", want: -3},
		{expr: "-(-2)", want: 2},
		// A leading "-digit" exempts the whole expression from the rule.
		{expr: "-2 - -3", want: 1},
		{expr: "-1+ +2", want: 1},
		{expr: "-2*-3", want: 6},
		// ...but adjacent "++"/"--" still fail to evaluate.
		{expr: "-1++2", wantErr: ErrEvaluation},
		{expr: "-1--2", wantErr: ErrEvaluation},
		// "**" is not an operator.
		{expr: "-2**3", wantErr: ErrEvaluation},
		// Without the leading "-digit", any run is rejected.
		{expr: "2++2", wantErr: ErrOperatorSequence},
		{expr: "2 + + 2", wantErr: ErrOperatorSequence},
		{expr: "2+-3", wantErr: ErrOperatorSequence},
		{expr: "5*/2", wantErr: ErrOperatorSequence},
		{expr: "2**3", wantErr: ErrOperatorSequence},
		{expr: "1//2", wantErr: ErrOperatorSequence},
		{expr: "--5", wantErr: ErrOperatorSequence},
		{expr: "- 5 * -1", wantErr: ErrOperatorSequence},
		// Unary plus is never a leading exemption.
		{expr: "+5+-1", wantErr: ErrOperatorSequence},
		// Trailing operators are left to evaluation.
		{expr: "5+", wantErr: ErrEvaluation},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Evaluate(tc.expr)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Evaluate(%q): expected %v, got result %v err %v", tc.expr, tc.wantErr, got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate(%q): unexpected error %v", tc.expr, err)
			}
			if got != tc.want {
				t.Fatalf("Evaluate(%q): expected %v, got %v", tc.expr, tc.want, got)
			}
		})
	}
}

func TestEvaluateRejectsUnsafeCharacters(t *testing.T) {
	inputs := []string{
		"2+a",
		"alert(1)",
		"1;2",
		"[1]",
		"1e5",
		"1,5",
		"Math.PI",
		"2^3",
		"1_000",
		"constructor",
		"`1`",
		"1 = 1",
		"½",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Evaluate(in)
			if !errors.Is(err, ErrCharacterSet) {
				t.Fatalf("Evaluate(%q): expected character set violation, got %v", in, err)
			}
			if KindOf(err) != KindCharacterSet {
				t.Fatalf("Evaluate(%q): expected kind %s, got %s", in, KindCharacterSet, KindOf(err))
			}
		})
	}
}

func TestEvaluateWhitespace(t *testing.T) {
	accepted := []struct {
		expr string
		want float64
	}{
		{"1\t+\n1", 2},
		{"1\u00a0+\u00a01", 2},
		{"1\u2028+\u30001", 2},
		{"1\ufeff+1", 2},
		{"\ufeff-2*-3", 6},
	}
	for _, tc := range accepted {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Evaluate(tc.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): unexpected error %v", tc.expr, err)
			}
			if got != tc.want {
				t.Fatalf("Evaluate(%q): expected %v, got %v", tc.expr, tc.want, got)
			}
		})
	}

	for _, in := range []string{"1\u0085+1", "1\u200b+1"} {
		t.Run(in, func(t *testing.T) {
			if _, err := Evaluate(in); !errors.Is(err, ErrCharacterSet) {
				t.Fatalf("Evaluate(%q): expected character set violation, got %v", in, err)
			}
		})
	}
}

func TestEvaluateEvaluationErrors(t *testing.T) {
	inputs := []string{
		"1/0",
		"0/0",
		"1/(1-1)",
		"(1/0)*0",
		"5+",
		"(1+2",
		"1+2)",
		"",
		"   ",
		"()",
		"1.2.3",
		".",
		"2(3)",
		"(2)(3)",
		"1 2",
		"05",
		"00.5",
		"%5",
		"1" + strings.Repeat("0", 400),
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := Evaluate(in)
			if !errors.Is(err, ErrEvaluation) {
				t.Fatalf("Evaluate(%q): expected evaluation error, got result %v err %v", in, got, err)
			}
		})
	}
}

func TestEvaluateErrorMessagesAreGeneric(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{expr: "2+a", want: "Unsafe characters in expression"},
		{expr: "2++2", want: "Invalid operator sequence"},
		{expr: "1/0", want: "Evaluation error"},
		{expr: "(1", want: "Evaluation error"},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			_, err := Evaluate(tc.expr)
			if err == nil {
				t.Fatalf("Evaluate(%q): expected error", tc.expr)
			}
			if err.Error() != tc.want {
				t.Fatalf("Evaluate(%q): expected message %q, got %q", tc.expr, tc.want, err.Error())
			}
			if errors.Unwrap(err) == nil {
				t.Fatalf("Evaluate(%q): expected an underlying cause for logging", tc.expr)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"10%":    "10/100",
		"50%%":   "50/100/100",
		"%":      "/100",
		"1 + 2":  "1 + 2",
		"5% + 1": "5/100 + 1",
	}

	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestValidateDoesNotCheckSyntax(t *testing.T) {
	for _, expr := range []string{"5+", "((1", "1)", "-5++2", ""} {
		if err := Validate(expr); err != nil {
			t.Fatalf("Validate(%q): expected nil, got %v", expr, err)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0.1 + 0.2, want: 0.3},
		{in: 1.0 / 3, want: 0.333333333333},
		{in: -1.0 / 3, want: -0.333333333333},
		{in: 1.0000000000004, want: 1},
		{in: 14.5, want: 14.5},
		{in: -3, want: -3},
		{in: 123456789, want: 123456789},
		{in: 1e-13, want: 0},
	}

	for _, tc := range tests {
		if got := Round(tc.in); got != tc.want {
			t.Fatalf("Round(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestRoundDropsNegativeZero(t *testing.T) {
	if got := Round(math.Copysign(0, -1)); math.Signbit(got) {
		t.Fatalf("expected +0, got %v", got)
	}
}

func TestRoundIsIdempotent(t *testing.T) {
	inputs := []string{
		"12 + 5 / 2", "10%", "1/3", "2/3", "0.1+0.2", "-7/9", "1/7*1000000",
		"22/7", "123456.789/1000", "-5+2", "0.000001/3", "99999999/7",
	}

	for _, in := range inputs {
		v, err := Evaluate(in)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", in, err)
		}
		if again := Round(v); again != v {
			t.Fatalf("Round not idempotent for %q: %v then %v", in, v, again)
		}
	}
}

func TestEvaluateRejectsDeepNesting(t *testing.T) {
	shallow := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
	if got, err := Evaluate(shallow); err != nil || got != 1 {
		t.Fatalf("expected 100 levels to evaluate to 1, got %v, %v", got, err)
	}

	deep := strings.Repeat("(", 10000) + "1" + strings.Repeat(")", 10000)
	if _, err := Evaluate(deep); !errors.Is(err, ErrEvaluation) {
		t.Fatalf("expected evaluation error for deep nesting, got %v", err)
	}
}
