package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float32{0.5, 0.5, 0.5},
			b:    []float32{0.5, 0.5, 0.5},
			want: 1.0,
		},
		{
			name: "parallel vectors of different magnitude",
			a:    []float32{1, 2, 3},
			b:    []float32{2, 4, 6},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1.0,
		},
		{
			name: "empty vectors",
			a:    []float32{},
			b:    []float32{},
			want: 0.0,
		},
		{
			name: "mismatched lengths",
			a:    []float32{1, 2},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "zero magnitude",
			a:    []float32{0, 0, 0},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := cosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCosineSimilarity_Deterministic(t *testing.T) {
	t.Parallel()

	a := []float32{0.12, -0.34, 0.56, 0.78}
	b := []float32{0.21, 0.43, -0.65, 0.87}

	first := cosineSimilarity(a, b)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, cosineSimilarity(a, b))
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, clampScore(-0.3))
	assert.Equal(t, 0.0, clampScore(0.0))
	assert.Equal(t, 0.42, clampScore(0.42))
	assert.Equal(t, 1.0, clampScore(1.0))
	assert.Equal(t, 1.0, clampScore(1.0000001))
}
