package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketClassifier_Label(t *testing.T) {
	t.Parallel()

	b := NewBucketClassifier()
	tests := []struct {
		desc string
		want string
	}{
		{"Vergalhão CA-50 10mm", BucketMateriaPrima},
		{"Mão de obra instalação", BucketMaoDeObra},
		{"Frete rodoviário", BucketMobilizacao},
		{"Aluguel de máquina", BucketEquipamentos},
		{"Parafuso", BucketOutros},
		{"", BucketOutros},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Label(tt.desc), tt.desc)
	}
}

func TestBucketClassifier_Labels(t *testing.T) {
	t.Parallel()

	labels := NewBucketClassifier().Labels()
	assert.Len(t, labels, 5)
	assert.Equal(t, BucketOutros, labels[len(labels)-1])
}
