package host

import (
	"errors"
	"fmt"
	"testing"
)

type testResolver map[string]int64

func (r testResolver) resolveIdentifier(s string) (int64, error) {
	if v, ok := r[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("identifier '%s' not found", s)
}

func TestExprParser(t *testing.T) {
	r := testResolver{"a": 0x10, "pc": 0xc000, "ab": 7}

	tests := []struct {
		expr    string
		hexMode bool
		want    int64
	}{
		{"1+2*3", false, 7},
		{"(1+2)*3", false, 9},
		{"1+2<<1", false, 6},
		{"$ff & %1010", false, 0x0a},
		{"0x10 | 0b1", false, 0x11},
		{"-1", false, -1},
		{"~0 & $ff", false, 0xff},
		{"<$1234", false, 0x34},
		{">$1234", false, 0x12},
		{"'A'", false, 65},
		{"pc + a", false, 0xc010},
		{"10 % 4 ^ 3", false, 1},
		{"10", true, 0x10},
		{"ff", true, 0xff},
		{"ab", false, 7},
		{"ab", true, 0xab},
		{"pc - 1", true, 0xbfff},
	}

	p := newExprParser()
	for _, tc := range tests {
		p.hexMode = tc.hexMode
		got, err := p.Parse(tc.expr, r)
		if err != nil {
			t.Errorf("Parse(%q, hex=%v): unexpected error: %v", tc.expr, tc.hexMode, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q, hex=%v): exp %d, got %d", tc.expr, tc.hexMode, tc.want, got)
		}
	}
}

func TestExprParserErrors(t *testing.T) {
	r := testResolver{}
	p := newExprParser()

	tests := []struct {
		expr string
		want error
	}{
		{"", errExprParse},
		{"1 +", errExprParse},
		{"(1", errExprParse},
		{"1 2", errExprParse},
		{"$", errExprParse},
		{"'a", errExprParse},
		{"5 / 0", errDivideByZero},
		{"5 % (1-1)", errDivideByZero},
	}

	for _, tc := range tests {
		_, err := p.Parse(tc.expr, r)
		if !errors.Is(err, tc.want) {
			t.Errorf("Parse(%q): exp error %v, got %v", tc.expr, tc.want, err)
		}
	}

	if _, err := p.Parse("nosuch", r); err == nil {
		t.Error("Parse(nosuch): expected an unknown identifier error")
	}
}
