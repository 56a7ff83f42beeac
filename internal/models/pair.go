package models

import "fmt"

// Pair identifies the two legs of a monitored pair. SymbolY is the
// dependent leg, SymbolX the hedge leg.
type Pair struct {
	SymbolY string `json:"symbol_y"`
	SymbolX string `json:"symbol_x"`
}

// Name returns the canonical pair identifier
func (p Pair) Name() string {
	return fmt.Sprintf("%s/%s", p.SymbolY, p.SymbolX)
}
