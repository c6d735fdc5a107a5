package quantity

import "testing"

func TestParseBytes(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1Gi", 1073741824},
		{"1G", 1073741824},
		{"512Mi", 536870912},
		{"10Ki", 10240},
		{"2Ti", 2 << 40},
		{"1Pi", 1 << 50},
		{"100", 100},
		{" 5Gi ", 5 << 30},
		{"", 0},
		{"abc", 0},
		{"100GiB", 0},
		{"10Q", 0},
		{"-5Gi", 0},
		{"1.5Gi", 0},
	}
	for _, tc := range cases {
		if got := ParseBytes(tc.in); got != tc.want {
			t.Errorf("ParseBytes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		op, left, right string
		want            bool
	}{
		{">", "2Gi", "1500Mi", true},
		{">", "1Gi", "2Gi", false},
		{"<", "500Mi", "1Gi", true},
		{"=", "1Gi", "1024Mi", true},
		{"=", "1Gi", "1Gi", true},
		{"=", "1Gi", "1000Mi", false},
		{">=", "2Gi", "1Gi", false},
		{">", "garbage", "1Gi", false},
		{"<", "garbage", "1Gi", true},
	}
	for _, tc := range cases {
		if got := Compare(tc.op, tc.left, tc.right); got != tc.want {
			t.Errorf("Compare(%q, %q, %q) = %v, want %v", tc.op, tc.left, tc.right, got, tc.want)
		}
	}
}
