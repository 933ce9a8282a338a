package nbrb

import (
	"fmt"
	"strings"
)

// Params accumulates query fragments in insertion order.
// Values are rendered with fmt.Sprint and are not escaped.
type Params struct {
	parts []string
}

func NewParams() *Params {
	return &Params{}
}

func (p *Params) Add(key string, value any) *Params {
	p.parts = append(p.parts, fmt.Sprintf("%s=%v", key, value))
	return p
}

func (p *Params) String() string {
	return strings.Join(p.parts, "&")
}
