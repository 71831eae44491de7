package flush

import (
	"reflect"
	"testing"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name       string
		matrix     []int
		multiplier float64
		want       []int
	}{
		{"identity", []int{0, 100, 250, 999}, 1.0, []int{0, 100, 250, 999}},
		{"halve", []int{0, 100, 250, 999}, 0.5, []int{0, 50, 125, 500}},
		{"quarter rounds", []int{0, 100, 250, 999}, 0.25, []int{0, 25, 63, 250}},
		{"double", []int{0, 100, 250, 999}, 2.0, []int{0, 200, 500, 1998}},
		{"zero multiplier", []int{0, 100, 250, 999}, 0, []int{0, 0, 0, 0}},
		{"tie rounds away from zero", []int{1, 3, 5}, 0.5, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(tt.matrix, tt.multiplier)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scale(%v, %v) = %v, want %v", tt.matrix, tt.multiplier, got, tt.want)
			}
		})
	}
}

func TestScaleDoesNotMutateInput(t *testing.T) {
	in := []int{10, 20, 30}
	Scale(in, 2.0)
	if !reflect.DeepEqual(in, []int{10, 20, 30}) {
		t.Errorf("Scale mutated input: %v", in)
	}
}

func TestSubtractPrime(t *testing.T) {
	tests := []struct {
		name   string
		matrix []int
		volume int
		want   []int
	}{
		{"plain subtraction", []int{500, 300}, 45, []int{455, 255}},
		{"zero entries untouched", []int{0, 500}, 45, []int{0, 455}},
		{"floors at minimum", []int{120, 500}, 45, []int{100, 455}},
		{"never zeroed by subtraction", []int{50, 10}, 999, []int{100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubtractPrime(tt.matrix, tt.volume)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SubtractPrime(%v, %d) = %v, want %v", tt.matrix, tt.volume, got, tt.want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	vol := 45
	zero := 0

	tests := []struct {
		name       string
		matrix     []int
		multiplier float64
		primeTower bool
		primeVol   *int
		want       []int
	}{
		{"scale only", []int{0, 200}, 0.5, false, &vol, []int{0, 100}},
		{"tower enabled applies correction", []int{0, 200}, 1.0, true, &vol, []int{0, 155}},
		{"tower enabled without volume", []int{0, 200}, 1.0, true, nil, []int{0, 200}},
		{"tower enabled zero volume", []int{0, 200}, 1.0, true, &zero, []int{0, 200}},
		{"correction floors at minimum", []int{0, 120}, 1.0, true, &vol, []int{0, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.matrix, tt.multiplier, tt.primeTower, tt.primeVol)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Transform() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Every output of the full policy is non-negative, and corrected non-zero
// entries are at least MinVolume.
func TestTransformInvariants(t *testing.T) {
	vol := 200
	matrix := []int{0, 1, 50, 99, 100, 101, 500, 1000}
	for _, mult := range []float64{0, 0.1, 0.25, 0.5, 1, 1.7, 3} {
		got := Transform(matrix, mult, true, &vol)
		for i, v := range got {
			if v < 0 {
				t.Errorf("mult=%v: got[%d] = %d, want >= 0", mult, i, v)
			}
			if v != 0 && v < MinVolume {
				t.Errorf("mult=%v: got[%d] = %d, want 0 or >= %d", mult, i, v, MinVolume)
			}
		}
	}
}

func TestPayload(t *testing.T) {
	got := Payload([]int{0, 250, 999})
	want := "0, 250, 999"
	if got != want {
		t.Errorf("Payload() = %q, want %q", got, want)
	}
}

func TestRows(t *testing.T) {
	matrix := make([]int, 16)
	for i := range matrix {
		matrix[i] = i * 100
	}
	rows := Rows(matrix)
	if len(rows) != 4 {
		t.Fatalf("len(Rows()) = %d, want 4", len(rows))
	}
	if rows[0] != "   0,  100,  200,  300" {
		t.Errorf("rows[0] = %q", rows[0])
	}
	if rows[3] != "1200, 1300, 1400, 1500" {
		t.Errorf("rows[3] = %q", rows[3])
	}
}
