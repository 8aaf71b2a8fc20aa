package classify

// Invoice item buckets assigned to imported invoice lines.
const (
	BucketMateriaPrima = "MATERIA_PRIMA"
	BucketMaoDeObra    = "MAO_DE_OBRA"
	BucketMobilizacao  = "MOBILIZACAO"
	BucketEquipamentos = "EQUIPAMENTOS"
	BucketOutros       = "OUTROS"
)

type bucket struct {
	label    string
	keywords []string
}

// BucketClassifier labels invoice items with a coarse cost bucket. Buckets
// are checked in order and the first with any keyword hit wins.
type BucketClassifier struct {
	buckets []bucket
}

// NewBucketClassifier returns the classifier with the built-in buckets.
func NewBucketClassifier() *BucketClassifier {
	return &BucketClassifier{buckets: []bucket{
		{BucketMateriaPrima, []string{"aco", "ferro", "metal", "vergalhao", "cimento", "concreto"}},
		{BucketMaoDeObra, []string{"mao de obra", "trabalho", "servico"}},
		{BucketMobilizacao, []string{"transporte", "frete", "entrega", "mobilizacao"}},
		{BucketEquipamentos, []string{"equipamento", "maquina", "ferramenta"}},
	}}
}

// Label returns the bucket for a description, BucketOutros when nothing matches.
func (b *BucketClassifier) Label(description string) string {
	text := Fold(description)
	for _, bk := range b.buckets {
		if len(matchKeywords(bk.keywords, text)) > 0 {
			return bk.label
		}
	}
	return BucketOutros
}

// Labels lists every label the classifier can return, fallback last.
func (b *BucketClassifier) Labels() []string {
	out := make([]string, 0, len(b.buckets)+1)
	for _, bk := range b.buckets {
		out = append(out, bk.label)
	}
	return append(out, BucketOutros)
}
