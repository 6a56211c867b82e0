// Command polyvoice-demo loads a patch manifest, plays a short
// synthetic note sequence against the polyphonic voice manager, and
// streams the result through the audio backend.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/cbegin/polyvoice-go/internal/audiobuf"
	"github.com/cbegin/polyvoice-go/internal/audiosink"
	"github.com/cbegin/polyvoice-go/internal/effects"
	"github.com/cbegin/polyvoice-go/internal/engine"
	"github.com/cbegin/polyvoice-go/internal/midi"
	"github.com/cbegin/polyvoice-go/internal/patchconfig"
	"github.com/cbegin/polyvoice-go/internal/synthlog"
	"github.com/cbegin/polyvoice-go/internal/voice"
	"github.com/cbegin/polyvoice-go/internal/voicemanager"
)

func main() {
	var (
		sampleRate = pflag.Int("sample-rate", 48000, "output sample rate")
		manifest   = pflag.String("patch-file", "", "path to a patch manifest YAML file")
		patchName  = pflag.String("patch", "", "voice patch name to play, from the manifest")
		maxVoices  = pflag.Int("max-voices", 8, "polyphonic voice pool size")
		mode       = pflag.String("mode", "poly", "polyphony mode: poly|mono|legato|unison|unison_legato")
		volume     = pflag.Float64("volume", 0.8, "master volume scalar")
		seconds    = pflag.Float64("seconds", 4.0, "duration to play before exiting")
		delayMs    = pflag.Float64("delay-ms", 0, "ping-pong delay time in ms; 0 disables the send")
		delayFB    = pflag.Float64("delay-feedback", 0.35, "ping-pong delay feedback, 0..1")
		delayWet   = pflag.Float64("delay-wet", 0.25, "ping-pong delay wet mix, 0..1")
	)
	pflag.Parse()

	log := synthlog.Default()

	if *manifest == "" || *patchName == "" {
		log.Fatal("both --patch-file and --patch are required")
	}

	dbs, patches, err := patchconfig.Load(*manifest)
	if err != nil {
		log.Fatal("failed to load manifest", "error", err)
	}
	cfg, ok := patches[*patchName]
	if !ok {
		log.Fatal("unknown patch", "patch", *patchName)
	}

	pool := make([]*voice.Voice, *maxVoices)
	for i := range pool {
		v, err := patchconfig.BuildVoice(cfg, dbs, float64(*sampleRate))
		if err != nil {
			log.Fatal("failed to build voice", "error", err)
		}
		pool[i] = v
	}

	mgr := voicemanager.New(pool, parseMode(*mode))
	eng := engine.New(mgr)
	eng.MasterGain = *volume
	if *delayMs > 0 {
		eng.DelaySend = effects.NewChain(effects.NewDelay(*sampleRate, *delayMs, float32(*delayFB), float32(*delayWet)))
	}

	player, err := audiosink.NewPlayer(*sampleRate, &engineSource{eng: eng})
	if err != nil {
		log.Fatal("failed to open audio backend", "error", err)
	}

	eng.HandleEvent(midi.Event{Message: midi.NoteOn, Data1: 60, Data2: 100})
	eng.HandleEvent(midi.Event{Message: midi.NoteOn, Data1: 64, Data2: 100})
	eng.HandleEvent(midi.Event{Message: midi.NoteOn, Data1: 67, Data2: 100})

	player.Play()
	fmt.Fprintf(os.Stderr, "playing %s for %.1fs\n", *patchName, *seconds)
	time.Sleep(time.Duration(*seconds * float64(time.Second)))

	eng.HandleEvent(midi.Event{Message: midi.ControlChange, Data1: midi.CCAllNotesOff})
	player.Stop()
}

// engineSource adapts Engine's block-based rendering to audiosink's
// flat-float32-buffer SampleSource contract.
type engineSource struct {
	eng  *engine.Engine
	rem  []float32
	buf  []float32
}

func (s *engineSource) Process(dst []float32) {
	out := dst
	for len(out) > 0 {
		if len(s.rem) == 0 {
			s.eng.RenderBlock(audiobuf.BlockSize)
			s.buf = s.eng.Output.Interleave(s.buf)
			s.rem = s.buf
		}
		n := copy(out, s.rem)
		s.rem = s.rem[n:]
		out = out[n:]
	}
}

func parseMode(s string) voicemanager.Mode {
	switch s {
	case "mono":
		return voicemanager.ModeMono
	case "legato":
		return voicemanager.ModeLegato
	case "unison":
		return voicemanager.ModeUnison
	case "unison_legato":
		return voicemanager.ModeUnisonLegato
	default:
		return voicemanager.ModePoly
	}
}
