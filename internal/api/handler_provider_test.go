package api

import "testing"

func TestParseAmountCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "whole_dollars", in: "25", want: 2500},
		{name: "two_decimals", in: "10.50", want: 1050},
		{name: "one_decimal", in: "3.5", want: 350},
		{name: "cents_only", in: "0.05", want: 5},
		{name: "leading_plus", in: "+12.00", want: 1200},
		{name: "surrounding_space", in: " 7.25 ", want: 725},
		{name: "max_representable", in: "92233720368547757.99", want: 9223372036854775799},
		{name: "empty", in: "", wantErr: true},
		{name: "zero", in: "0", wantErr: true},
		{name: "zero_with_decimals", in: "0.00", wantErr: true},
		{name: "negative", in: "-5.00", wantErr: true},
		{name: "three_decimals", in: "1.005", wantErr: true},
		{name: "not_a_number", in: "ten", wantErr: true},
		{name: "two_dots", in: "1.2.3", wantErr: true},
		{name: "missing_integer_part", in: ".50", wantErr: true},
		{name: "beyond_int64", in: "92233720368547758.07", wantErr: true},
		{name: "absurdly_large", in: "99999999999999999999.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseAmountCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseAmountCents(%q): expected error, got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmountCents(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parseAmountCents(%q): want %d, got %d", tt.in, tt.want, got)
			}
		})
	}
}
