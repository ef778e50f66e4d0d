package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pump-sniper-go/internal/position"
)

func TestPruneCacheDropsClosedMints(t *testing.T) {
	p := &Poller{curveCache: map[string]string{
		"mint1": "curve1",
		"mint2": "curve2",
	}}

	p.pruneCache([]position.Position{{Mint: "mint1"}})

	assert.Contains(t, p.curveCache, "mint1")
	assert.NotContains(t, p.curveCache, "mint2")
}

func TestPruneCacheEmptiesWhenNothingHeld(t *testing.T) {
	p := &Poller{curveCache: map[string]string{"mint1": "curve1"}}

	p.pruneCache(nil)

	assert.Empty(t, p.curveCache)
}
