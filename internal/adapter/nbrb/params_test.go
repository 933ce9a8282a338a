package nbrb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Empty(t *testing.T) {
	p := NewParams()
	assert.Equal(t, "", p.String())
}

func TestParams_Add(t *testing.T) {
	p := NewParams()
	p.Add("a", 1)
	p.Add("b", 2)
	assert.Equal(t, "a=1&b=2", p.String())
}

func TestParams_Chained(t *testing.T) {
	p := NewParams().Add("parammode", 2).Add("date", "2024-5-9").Add("periodicity", 0)
	assert.Equal(t, "parammode=2&date=2024-5-9&periodicity=0", p.String())
}

func TestParams_NoEscaping(t *testing.T) {
	p := NewParams().Add("q", "a b&c")
	assert.Equal(t, "q=a b&c", p.String())
}
