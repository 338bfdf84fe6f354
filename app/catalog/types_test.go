package catalog

import (
	"encoding/json"
	"math"
	"testing"
)

func TestQuantityUnmarshal(t *testing.T) {
	cases := map[string]Quantity{
		`5`:      5,
		`"7"`:    7,
		`0`:      0,
		`null`:   0,
		`"many"`: 0,
		`-2`:     -2,
		`" 3 "`:  3,
		`""`:     0,
		`"NaN"`:  0,
		`"0x10"`: 16,
		`"0b11"`: 3,
		`true`:   1,
		`false`:  0,
	}

	for input, expected := range cases {
		var v struct {
			Q Quantity `json:"q"`
		}
		if err := json.Unmarshal([]byte(`{"q":`+input+`}`), &v); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", input, err)
			continue
		}
		if math.IsNaN(float64(v.Q)) {
			t.Errorf("Unmarshal(%s): expected %v, got NaN", input, expected)
			continue
		}
		if v.Q != expected {
			t.Errorf("Unmarshal(%s): expected %v, got %v", input, expected, v.Q)
		}
	}

	var absent struct {
		Q Quantity `json:"q"`
	}
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil || absent.Q != 0 {
		t.Errorf("Absent quantity should be 0, got %v (%v)", absent.Q, err)
	}
}

func TestQuantityIsZero(t *testing.T) {
	if !Quantity(0).IsZero() {
		t.Error("0 should be zero")
	}
	if !Quantity(math.NaN()).IsZero() {
		t.Error("NaN should count as zero")
	}
	if Quantity(-1).IsZero() || Quantity(0.5).IsZero() {
		t.Error("Non-zero quantities should not be zero")
	}
}
