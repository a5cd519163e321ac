// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the PCM buffer, sample conversion and the loop reader
// Package audio provides the PCM types shared by the decoders and outputs.
//
// All decoded audio is carried as signed 16-bit little-endian interleaved
// samples, which is the format the oto output plays natively:
//   - PCM: a fully decoded track with its sample rate and channel count
//   - LoopReader: an endless io.Reader over a PCM track
//
// Example:
//
//	pcm := &audio.PCM{SampleRate: 44100, Channels: 2}
//	pcm.AppendSample(audio.ToInt16(sample24, 24))
//	r := audio.NewLoopReader(pcm.Data)
package audio
