package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRatingAvg(t *testing.T) {
	cases := []struct {
		name string
		avg  float64
		want string
	}{
		{"trung bình của 4, 6, 10", (4.0 + 6.0 + 10.0) / 3.0, "6.7"},
		{"số nguyên", 5, "5.0"},
		{"làm tròn half-up lên", 4.65, "4.7"},
		{"làm tròn xuống", 4.64, "4.6"},
		{"điểm tối đa", 10, "10.0"},
		{"điểm không", 0, "0.0"},
		{"một chữ số thập phân giữ nguyên", 7.5, "7.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatRatingAvg(tc.avg), "FormatRatingAvg(%v)", tc.avg)
		})
	}
}
