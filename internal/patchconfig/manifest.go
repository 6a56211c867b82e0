// Package patchconfig loads the YAML manifests that describe a bank of
// voice patches, the wavetable sets and PCM sample folders they draw
// from, and builds the read-only databases and configured voice
// templates the engine hands to the voice manager at startup.
package patchconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/polyvoice-go/internal/filter"
	"github.com/cbegin/polyvoice-go/internal/ks"
	"github.com/cbegin/polyvoice-go/internal/lfo"
	"github.com/cbegin/polyvoice-go/internal/oscillator"
	"github.com/cbegin/polyvoice-go/internal/pcm"
	"github.com/cbegin/polyvoice-go/internal/synthlog"
	"github.com/cbegin/polyvoice-go/internal/voice"
	"github.com/cbegin/polyvoice-go/internal/wavetable"
)

// Manifest is the top-level YAML document shape: named wavetable
// banks (by harmonic recipe), named PCM sample folders, and named
// voice patches that reference them.
type Manifest struct {
	SampleRate    float64                  `yaml:"sample_rate"`
	WavetableSets []WavetableSetConfig     `yaml:"wavetable_sets"`
	WavetableBanks []WavetableBankConfig   `yaml:"wavetable_banks"`
	PCMPatches    []PCMPatchConfig         `yaml:"pcm_patches"`
	Voices        []VoicePatchConfig       `yaml:"voices"`
}

// WavetableSetConfig describes a 128-note classic wavetable set built
// additively from a named partial recipe ("saw", "square", or an
// explicit harmonic-amplitude list).
type WavetableSetConfig struct {
	Name    string    `yaml:"name"`
	Length  int       `yaml:"length"`
	Recipe  string    `yaml:"recipe"` // "saw" | "square" | "harmonics"
	Harmonics []float64 `yaml:"harmonics,omitempty"`
}

// WavetableBankConfig describes a morph bank: an ordered list of
// single-cycle harmonic recipes, one per table.
type WavetableBankConfig struct {
	Name   string      `yaml:"name"`
	Length int         `yaml:"length"`
	Tables []HarmonicRecipe `yaml:"tables"`
}

// HarmonicRecipe is one single-cycle table's harmonic amplitude list.
type HarmonicRecipe struct {
	Harmonics []float64 `yaml:"harmonics"`
}

// PCMPatchConfig describes a folder of WAV files to load into a
// 128-note PCM patch. Filenames are expected to sort into MIDI note
// order; AddSample reads each file's own unity-note metadata (or WAV
// default) rather than trusting the filename.
type PCMPatchConfig struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

// OscillatorConfig configures one of a multi-osc voice's up to four
// core slots.
type OscillatorConfig struct {
	Type       string  `yaml:"type"` // "classic" | "morph" | "fm" | "fourier" | "ks" | "pcm"
	Table      string  `yaml:"table,omitempty"`
	Bank       string  `yaml:"bank,omitempty"`
	PCMPatch   string  `yaml:"pcm_patch,omitempty"`
	Shape      float64 `yaml:"shape,omitempty"`
	Pan        float64 `yaml:"pan,omitempty"`
	MixGain    float64 `yaml:"mix_gain,omitempty"`
	Coarse     float64 `yaml:"coarse,omitempty"`
	Fine       float64 `yaml:"fine,omitempty"`
	BodyModel  string  `yaml:"body_model,omitempty"`  // ks only
	Decay      float64 `yaml:"decay,omitempty"`       // ks only
	Harmonics  []float64 `yaml:"harmonics,omitempty"` // fourier only
	TableLen   int     `yaml:"table_len,omitempty"`   // fourier only
}

// EnvelopeConfig configures the amplitude envelope (linear ADSR).
type EnvelopeConfig struct {
	AttackMs     float64 `yaml:"attack_ms"`
	DecayMs      float64 `yaml:"decay_ms"`
	SustainLevel float64 `yaml:"sustain_level"`
	ReleaseMs    float64 `yaml:"release_ms"`
}

// LFOConfig configures LFO1 (the standard multi-waveform LFO).
type LFOConfig struct {
	Waveform string  `yaml:"waveform"`
	RateHz   float64 `yaml:"rate_hz"`
}

// FilterConfig configures one of the voice's two filter cores.
type FilterConfig struct {
	Mode      string  `yaml:"mode"`
	CutoffHz  float64 `yaml:"cutoff_hz"`
	Resonance float64 `yaml:"resonance"`
}

// VoicePatchConfig is one named, fully-configured voice template.
type VoicePatchConfig struct {
	Name        string             `yaml:"name"`
	Family      string             `yaml:"family"` // "multi_osc" | "fm" | "wave_sequencer"
	Oscillators []OscillatorConfig `yaml:"oscillators"`
	AmpEG       EnvelopeConfig     `yaml:"amp_eg"`
	LFO1        LFOConfig          `yaml:"lfo1"`
	Filter1     FilterConfig       `yaml:"filter1"`
	BaseGain    float64            `yaml:"base_gain"`
	VelocityAmp float64            `yaml:"velocity_amp"`
	GlideMs     float64            `yaml:"glide_ms"`
}

// Databases bundles the shared, read-only stores built while loading
// a manifest, kept around so patches built later (or reloaded) can
// look names back up.
type Databases struct {
	Wavetables *wavetable.Database
	Banks      map[string]*wavetable.Bank
	PCM        *pcm.Database
}

// Load parses a YAML manifest from path and builds both the shared
// databases and the named voice templates it describes.
func Load(path string) (*Databases, map[string]*VoicePatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("patchconfig: read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("patchconfig: parse %s: %w", path, err)
	}
	if m.SampleRate <= 0 {
		m.SampleRate = 48000
	}

	dbs := &Databases{
		Wavetables: wavetable.NewDatabase(),
		Banks:      make(map[string]*wavetable.Bank),
		PCM:        pcm.NewDatabase(),
	}

	for _, cfg := range m.WavetableSets {
		set := buildWavetableSet(cfg, m.SampleRate)
		if _, err := dbs.Wavetables.Register(set); err != nil {
			synthlog.WarnLoad("duplicate wavetable set", "name", cfg.Name)
		}
	}

	for _, cfg := range m.WavetableBanks {
		dbs.Banks[cfg.Name] = buildBank(cfg, m.SampleRate)
	}

	for _, cfg := range m.PCMPatches {
		patch, err := loadPCMFolder(cfg)
		if err != nil {
			synthlog.WarnLoad("skipping pcm patch", "name", cfg.Name, "error", err)
			continue
		}
		if _, err := dbs.PCM.Register(patch); err != nil {
			synthlog.WarnLoad("duplicate pcm patch", "name", cfg.Name)
		}
	}

	voices := make(map[string]*VoicePatchConfig, len(m.Voices))
	for i := range m.Voices {
		voices[m.Voices[i].Name] = &m.Voices[i]
	}

	return dbs, voices, nil
}

func buildWavetableSet(cfg WavetableSetConfig, sampleRate float64) *wavetable.Set {
	length := cfg.Length
	if length <= 0 {
		length = 2048
	}
	switch cfg.Recipe {
	case "square":
		return wavetable.BuildBandLimited(cfg.Name, sampleRate, length, wavetable.SquarePartials)
	case "harmonics":
		harmonics := cfg.Harmonics
		return wavetable.BuildBandLimited(cfg.Name, sampleRate, length, func(h int) (float64, float64) {
			if h-1 < 0 || h-1 >= len(harmonics) {
				return 0, 0
			}
			return harmonics[h-1], 0
		})
	default:
		return wavetable.BuildBandLimited(cfg.Name, sampleRate, length, wavetable.SawPartials)
	}
}

func buildBank(cfg WavetableBankConfig, sampleRate float64) *wavetable.Bank {
	length := cfg.Length
	if length <= 0 {
		length = 2048
	}
	bank := &wavetable.Bank{Name: cfg.Name}
	for _, t := range cfg.Tables {
		set := wavetable.BuildBandLimited(cfg.Name, sampleRate, length, func(h int) (float64, float64) {
			if h-1 < 0 || h-1 >= len(t.Harmonics) {
				return 0, 0
			}
			return t.Harmonics[h-1], 0
		})
		// BuildBandLimited produces a full 128-note Set; a morph bank
		// wants one representative table, so take the middle note's.
		bank.Tables = append(bank.Tables, set.Entries[60])
	}
	return bank
}

// loadPCMFolder reads every .wav file in cfg.Dir into a Patch, using
// each file's own unity-note metadata to place it in the keymap, then
// fills gaps so every note has a nearest-sample fallback.
func loadPCMFolder(cfg PCMPatchConfig) (*pcm.Patch, error) {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, err
	}
	patch := &pcm.Patch{Name: cfg.Name}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(cfg.Dir, e.Name()))
		if err != nil {
			synthlog.WarnLoad("skipping unreadable wav", "file", e.Name(), "error", err)
			continue
		}
		sample, err := pcm.ParseWAV(data)
		if err != nil {
			synthlog.WarnLoad("skipping malformed wav", "file", e.Name(), "error", err)
			continue
		}
		patch.AddSample(sample)
	}
	patch.FillGaps()
	return patch, nil
}

// BuildVoice constructs and resets a voice.Voice from a named patch
// config, wiring its oscillator slots against the shared databases.
func BuildVoice(cfg *VoicePatchConfig, dbs *Databases, sampleRate float64) (*voice.Voice, error) {
	v := &voice.Voice{
		BaseGain:    cfg.BaseGain,
		GlideTimeMs: cfg.GlideMs,
	}
	v.DCA.VelocityAmp = cfg.VelocityAmp

	switch cfg.Family {
	case "fm":
		v.Family = voice.FamilyFM
	case "wave_sequencer":
		v.Family = voice.FamilyWaveSequencer
	default:
		v.Family = voice.FamilyMultiOsc
	}

	for i, oc := range cfg.Oscillators {
		if i >= 4 {
			break
		}
		core, err := buildOscillator(oc, dbs)
		if err != nil {
			return nil, err
		}
		v.Oscillators[i] = core
		v.OscMixGain[i] = oc.MixGain
		v.CoarseSemitones[i] = oc.Coarse
		v.FineSemitones[i] = oc.Fine
	}

	v.AmpEG.AttackMs = cfg.AmpEG.AttackMs
	v.AmpEG.DecayMs = cfg.AmpEG.DecayMs
	v.AmpEG.SustainLevel = cfg.AmpEG.SustainLevel
	v.AmpEG.ReleaseMs = cfg.AmpEG.ReleaseMs

	v.LFO1.RateHz = cfg.LFO1.RateHz
	v.LFO1.Waveform = parseWaveform(cfg.LFO1.Waveform)

	v.Filter1Mode = parseFilterMode(cfg.Filter1.Mode)
	v.Filter1BaseCutoffHz = cfg.Filter1.CutoffHz
	v.Filter1BaseResonance = cfg.Filter1.Resonance
	v.Filter2Mode = v.Filter1Mode
	v.Filter2BaseCutoffHz = cfg.Filter1.CutoffHz
	v.Filter2BaseResonance = cfg.Filter1.Resonance

	v.Reset(sampleRate)
	return v, nil
}

func buildOscillator(oc OscillatorConfig, dbs *Databases) (oscillator.Core, error) {
	switch oc.Type {
	case "morph":
		bank, ok := dbs.Banks[oc.Bank]
		if !ok {
			return nil, fmt.Errorf("patchconfig: unknown wavetable bank %q", oc.Bank)
		}
		return &oscillator.Morph{Bank: bank, Pan: oc.Pan}, nil
	case "fm":
		return &oscillator.FM{Pan: oc.Pan}, nil
	case "fourier":
		return &oscillator.Fourier{Harmonics: oc.Harmonics, TableLen: oc.TableLen, Pan: oc.Pan}, nil
	case "ks":
		return &oscillator.KarplusStrong{
			Model:    parseBodyModel(oc.BodyModel),
			Decay:    oc.Decay,
			PluckPos: 0.2,
			Pan:      oc.Pan,
		}, nil
	case "pcm":
		patch, err := dbs.PCM.Lookup(oc.PCMPatch)
		if err != nil {
			return nil, fmt.Errorf("patchconfig: unknown pcm patch %q", oc.PCMPatch)
		}
		return &oscillator.PCMPlayer{Patch: patch, Pan: oc.Pan}, nil
	default:
		set, err := dbs.Wavetables.Lookup(oc.Table)
		if err != nil {
			return nil, fmt.Errorf("patchconfig: unknown wavetable set %q", oc.Table)
		}
		return &oscillator.Classic{Set: set, Shape: oc.Shape, Pan: oc.Pan}, nil
	}
}

func parseWaveform(s string) lfo.Waveform {
	switch s {
	case "triangle":
		return lfo.WaveTriangle
	case "saw":
		return lfo.WaveSaw
	case "pulse":
		return lfo.WavePulse
	case "sample_hold":
		return lfo.WaveSampleHold
	case "noise":
		return lfo.WaveNoise
	default:
		return lfo.WaveSine
	}
}

func parseFilterMode(s string) filter.Mode {
	switch s {
	case "highpass":
		return filter.HighPass
	case "bandpass":
		return filter.BandPass
	case "notch":
		return filter.Notch
	default:
		return filter.LowPass
	}
}

func parseBodyModel(s string) ks.BodyModel {
	switch s {
	case "distorted_guitar":
		return ks.DistortedGuitar
	case "bass":
		return ks.Bass
	default:
		return ks.Nylon
	}
}
