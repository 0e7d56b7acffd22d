package gui

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"

	"github.com/jetsetilly/testchip8/hardware/audio"
)

type audioPlayer struct {
	p *oto.Player
	r io.Reader
}

func (s *audioPlayer) Read(buf []uint8) (int, error) {
	return s.r.Read(buf)
}

func createAudioPlayer(r io.Reader) (*audioPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	<-ready

	s := &audioPlayer{
		r: r,
	}
	s.p = ctx.NewPlayer(s)
	s.p.Play()

	return s, nil
}

func (s *audioPlayer) close() {
	if s.p != nil {
		s.p.Close()
	}
}
