package main

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// SoundKind identifies the feedback blips.
type SoundKind int

const (
	SoundPlace SoundKind = iota
	SoundRemove
	SoundRebuild
)

// AudioSystem plays short procedural blips for block edits.
type AudioSystem struct {
	ctx   *oto.Context
	ready chan struct{}
}

var globalAudio *AudioSystem

// InitAudio initializes the audio system.
func InitAudio() error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return err
	}
	globalAudio = &AudioSystem{ctx: ctx, ready: ready}
	return nil
}

// PlaySound plays a procedurally generated blip for the given kind.
func PlaySound(kind SoundKind) {
	if globalAudio == nil {
		return
	}
	select {
	case <-globalAudio.ready:
	default:
		return
	}
	samples := generateBlip(kind)
	go func() {
		reader := &soundReader{data: samples}
		player := globalAudio.ctx.NewPlayer(reader)
		player.SetVolume(0.6)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

// generateBlip synthesizes a short sine blip with an exponential decay.
// Place is a rising fifth, remove a falling one, rebuild a low thud.
func generateBlip(kind SoundKind) []float32 {
	var freqA, freqB float64
	dur := 0.12
	switch kind {
	case SoundPlace:
		freqA, freqB = 440, 660
	case SoundRemove:
		freqA, freqB = 660, 440
	case SoundRebuild:
		freqA, freqB = 180, 120
		dur = 0.25
	}

	n := int(dur * SampleRate)
	out := make([]float32, n*ChannelCount)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		freq := freqA + (freqB-freqA)*(t/dur)
		env := math.Exp(-t * 18)
		s := float32(math.Sin(2*math.Pi*freq*t) * env * 0.5)
		out[i*2] = s
		out[i*2+1] = s
	}
	return out
}

// soundReader streams float32 samples as little-endian bytes.
type soundReader struct {
	data []float32
	pos  int
}

func (s *soundReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := 0
	for s.pos < len(s.data) && n+4 <= len(p) {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(s.data[s.pos]))
		s.pos++
		n += 4
	}
	return n, nil
}
