package sales

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxBackdate is how far in the past a generated sale can be dated.
const MaxBackdate = 30 * 24 * time.Hour

var (
	// MinCommission and MaxCommission bound every generated commission.
	MinCommission = decimal.NewFromInt(15)
	MaxCommission = decimal.NewFromInt(250)
)

// Catalog is the fixed set of product names sales are drawn from.
var Catalog = []string{
	"Curso de Marketing Digital",
	"Ebook de Receitas Fit",
	"Plugin para WordPress",
	"Template de Design Gráfico",
	"Curso de Inglês Online",
	"Mentoria de Carreira",
	"Software de Edição de Vídeo",
}

// Generator produces synthetic sales.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator. A nil rnd seeds one from the clock and a
// nil now defaults to time.Now.
func NewGenerator(rnd *rand.Rand, now func() time.Time) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rnd, now: now}
}

// Generate returns a sale dated anywhere in the last MaxBackdate.
func (g *Generator) Generate() *Sale {
	g.mu.Lock()
	defer g.mu.Unlock()

	sale := g.newSale()
	sale.SaleDate = sale.SaleDate.Add(-time.Duration(g.rnd.Int63n(int64(MaxBackdate) + 1)))
	return sale
}

// GenerateNow returns a sale stamped with the current instant.
func (g *Generator) GenerateNow() *Sale {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.newSale()
}

// Float64 draws from the generator's random source.
func (g *Generator) Float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.rnd.Float64()
}

func (g *Generator) newSale() *Sale {
	span := MaxCommission.Sub(MinCommission).InexactFloat64()
	commission := decimal.NewFromFloat(g.rnd.Float64()*span).Add(MinCommission).Round(2)

	return &Sale{
		ID:          uuid.NewString(),
		ProductName: Catalog[g.rnd.Intn(len(Catalog))],
		Commission:  commission,
		SaleDate:    g.now(),
		Platform:    Platforms[g.rnd.Intn(len(Platforms))],
	}
}
