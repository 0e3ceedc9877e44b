package profile

import (
	"errors"
	"sync"
)

var ErrUnknownTip = errors.New("unknown training tip")

// TrainingTip is a read-only piece of training content.
type TrainingTip struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PlatformToken is a saved platform credential, always shown masked.
type PlatformToken struct {
	Platform string `json:"platform"`
	Masked   string `json:"masked"`
}

var tips = []TrainingTip{
	{ID: 1, Title: "Conheça seu público", Content: "Entenda as dores, desejos e objeções do seu público-alvo para criar uma comunicação mais eficaz e aumentar suas conversões."},
	{ID: 2, Title: "Crie conteúdo de valor", Content: "Não foque apenas em vender. Entregue conteúdo que ajude sua audiência a resolver problemas. Isso gera autoridade e confiança."},
	{ID: 3, Title: "Use gatilhos mentais", Content: "Utilize gatilhos como escassez, urgência e prova social em suas copys para incentivar a tomada de decisão do cliente."},
	{ID: 4, Title: "Analise suas métricas", Content: "Acompanhe os cliques, conversões e ROI de suas campanhas. Analisar os dados é fundamental para otimizar seus resultados."},
}

// Identity is the card at the top of the profile screen.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User returns the identity of the signed-in affiliate.
func User() Identity {
	return Identity{Name: "Afiliado de Sucesso", Email: "afiliado@exemplo.com"}
}

// Tips returns the training tips in display order.
func Tips() []TrainingTip {
	return append([]TrainingTip{}, tips...)
}

// MaskedTokens returns placeholders for the saved platform tokens.
func MaskedTokens() []PlatformToken {
	return []PlatformToken{
		{Platform: "Hotmart", Masked: "********-****-****-****-************"},
		{Platform: "Monetizze", Masked: "****************"},
		{Platform: "Eduzz", Masked: "****************"},
	}
}

// Accordion tracks which tip is expanded. At most one is open.
type Accordion struct {
	mu   sync.Mutex
	open int
}

// Toggle opens tip id, or closes it when it is already open.
func (a *Accordion) Toggle(id int) (int, error) {
	known := false
	for _, t := range tips {
		if t.ID == id {
			known = true
			break
		}
	}
	if !known {
		return 0, ErrUnknownTip
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.open == id {
		a.open = 0
	} else {
		a.open = id
	}
	return a.open, nil
}

// OpenID returns the expanded tip, or 0 when all are collapsed.
func (a *Accordion) OpenID() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open
}

// Reset collapses every tip.
func (a *Accordion) Reset() {
	a.mu.Lock()
	a.open = 0
	a.mu.Unlock()
}
