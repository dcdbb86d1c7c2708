package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		950:     "950",
		1000:    "1 000",
		1234500: "1 234 500",
		-42000:  "-42 000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(in), "FormatMoney(%d)", in)
	}
}
