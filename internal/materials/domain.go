package materials

// Kind tells how a material's content is interpreted.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Material is a reusable promotional asset. Content is copy text for
// KindText and an image URL for KindImage.
type Material struct {
	ID      int64  `json:"id"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Seed returns the materials every new list starts with.
func Seed() []*Material {
	return []*Material{
		{ID: 1, Kind: KindText, Title: "Copy para Story", Content: "🔥 Quer aprender a faturar 5 dígitos por mês trabalhando de casa? Arrasta pra cima e descubra o método que mudou minha vida! 🚀"},
		{ID: 2, Kind: KindImage, Title: "Banner Promocional", Content: "https://picsum.photos/800/400"},
		{ID: 3, Kind: KindText, Title: "Texto para Post", Content: "Você não precisa de mais motivação, você precisa de um método. Conheça o passo a passo para alcançar seus objetivos ainda este ano. Link na bio! #sucesso #marketingdigital"},
	}
}
