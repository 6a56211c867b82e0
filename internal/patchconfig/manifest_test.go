package patchconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cbegin/polyvoice-go/internal/pcm"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
	"github.com/stretchr/testify/assert"
)

const testManifest = `
sample_rate: 48000
wavetable_sets:
  - name: basic-saw
    length: 512
    recipe: saw
voices:
  - name: lead
    family: multi_osc
    base_gain: 0.8
    velocity_amp: 0.5
    oscillators:
      - type: classic
        table: basic-saw
        shape: 0.1
        pan: 0
    amp_eg:
      attack_ms: 5
      decay_ms: 100
      sustain_level: 0.7
      release_ms: 200
    lfo1:
      waveform: triangle
      rate_hz: 4
    filter1:
      mode: lowpass
      cutoff_hz: 2000
      resonance: 0.2
`

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(testManifest), 0o644))
	return path
}

func TestLoadParsesManifestAndBuildsWavetableSet(t *testing.T) {
	path := writeManifest(t)
	dbs, voices, err := Load(path)
	assert.NoError(t, err)

	_, err = dbs.Wavetables.Lookup("basic-saw")
	assert.NoError(t, err)

	cfg, ok := voices["lead"]
	assert.True(t, ok)
	assert.Equal(t, "multi_osc", cfg.Family)
}

func TestBuildVoiceFromManifest(t *testing.T) {
	path := writeManifest(t)
	dbs, voices, err := Load(path)
	assert.NoError(t, err)

	v, err := BuildVoice(voices["lead"], dbs, 48000)
	assert.NoError(t, err)
	assert.NotNil(t, v.Oscillators[0])
	assert.Equal(t, 0.8, v.BaseGain)
}

func TestBuildVoiceRejectsUnknownWavetable(t *testing.T) {
	dbs := &Databases{Wavetables: wavetable.NewDatabase(), PCM: pcm.NewDatabase(), Banks: map[string]*wavetable.Bank{}}
	cfg := &VoicePatchConfig{
		Family:      "multi_osc",
		Oscillators: []OscillatorConfig{{Type: "classic", Table: "missing"}},
	}
	_, err := BuildVoice(cfg, dbs, 48000)
	assert.Error(t, err)
}
