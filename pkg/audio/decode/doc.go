// ABOUTME: Audio decoder package for whole-file decoding
// ABOUTME: Sniffs MP3, FLAC, WAV and Ogg Opus containers and decodes them to PCM
// Package decode turns an encoded audio file into a 16-bit PCM track.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), WAV (go-audio/wav),
// Ogg Opus (hraban/opus, requires libopusfile).
//
// The container is detected from its magic bytes rather than the file
// extension so remote resources without a suffix still decode.
//
// Example:
//
//	pcm, codec, err := decode.Bytes(data)
package decode
