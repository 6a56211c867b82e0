package modulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRunIsDeterministicGivenSameInputs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var srcMods, dstMods Modulators
		srcMods.Outputs[0] = rapid.Float64Range(-1, 1).Draw(t, "srcVal")

		var m ModMatrix
		m.AddModSource(0, SlotRef{Mods: &srcMods, Index: 0, IsOut: true})
		m.AddModDestination(0, SlotRef{Mods: &dstMods, Index: 0}, TransformNone)
		intensity := rapid.Float64Range(-1, 1).Draw(t, "intensity")
		m.SetRouting(0, 0, true, intensity, false, 0)
		m.SetDefaultValue(0, 0)

		m.Run()
		first := dstMods.Inputs[0]
		m.Run()
		second := dstMods.Inputs[0]

		assert.Equal(t, first, second)
		assert.InDelta(t, srcMods.Outputs[0]*intensity, first, 1e-12)
	})
}

func TestHardwiredRoutingIgnoresIntensity(t *testing.T) {
	var srcMods, dstMods Modulators
	srcMods.Outputs[0] = 0.5

	var m ModMatrix
	m.AddModSource(0, SlotRef{Mods: &srcMods, Index: 0, IsOut: true})
	m.AddModDestination(0, SlotRef{Mods: &dstMods, Index: 0}, TransformNone)
	m.SetRouting(0, 0, true, 0.1, true, 1.0)

	m.Run()

	assert.Equal(t, 0.5, dstMods.Inputs[0])
}

func TestUnregisteredSourceIsSkipped(t *testing.T) {
	var dstMods Modulators
	var m ModMatrix
	m.AddModDestination(0, SlotRef{Mods: &dstMods, Index: 0}, TransformNone)
	m.SetDefaultValue(0, 0.25)
	m.SetRouting(0, 0, true, 1.0, false, 0)

	m.Run()

	assert.Equal(t, 0.25, dstMods.Inputs[0])
}
