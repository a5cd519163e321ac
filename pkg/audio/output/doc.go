// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and the oto implementation
// Package output provides audio playback backends.
//
// Currently supports oto for cross-platform audio output. Volume is applied
// by the backend so the decoded track is never rewritten.
//
// Example:
//
//	out := output.NewOto(logger)
//	err := out.Open(44100, 2)
//	err = out.Start(audio.NewLoopReader(pcm.Data))
package output
