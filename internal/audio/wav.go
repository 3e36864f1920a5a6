// Package audio adapts a pure-Go WAV reader/writer onto processor.AudioBuffer.
// Grounded on auleian-noise-cancellation/backend/wav.go's chunk-walking
//16-bit-PCM reader/writer, since spec.md places container demuxing out of
// scope and the teacher's own decoder is cgo-bound to libav (dropped — see
// DESIGN.md).
package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/linuxmatters/jivesync/internal/processor"
)

// Header is the subset of a WAV fmt chunk this package inspects.
type Header struct {
	SampleRate    int
	NumChannels   int
	BitsPerSample int
}

// ReadWAV parses 16-bit PCM WAV data into a mono processor.AudioBuffer,
// downmixing stereo to mono by averaging channels, exactly as the reference
// WAV reader does.
func ReadWAV(data []byte) (*processor.AudioBuffer, error) {
	if len(data) < 44 {
		return nil, processor.NewAlignError(processor.InvalidInput, "wav data too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, processor.NewAlignError(processor.InvalidInput, "not a RIFF/WAVE file")
	}

	var hdr Header
	var pcmData []byte
	pos := 12

	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		chunkStart := pos + 8
		if chunkStart+chunkSize > len(data) {
			chunkSize = len(data) - chunkStart
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, processor.NewAlignError(processor.UnsupportedFormat, "fmt chunk too small")
			}
			audioFormat := binary.LittleEndian.Uint16(data[chunkStart : chunkStart+2])
			if audioFormat != 1 {
				return nil, processor.NewAlignError(processor.UnsupportedFormat, "only PCM WAV is supported")
			}
			hdr.NumChannels = int(binary.LittleEndian.Uint16(data[chunkStart+2 : chunkStart+4]))
			hdr.SampleRate = int(binary.LittleEndian.Uint32(data[chunkStart+4 : chunkStart+8]))
			hdr.BitsPerSample = int(binary.LittleEndian.Uint16(data[chunkStart+14 : chunkStart+16]))
			if hdr.BitsPerSample != 16 {
				return nil, processor.NewAlignError(processor.UnsupportedFormat, "only 16-bit PCM is supported")
			}
		case "data":
			pcmData = data[chunkStart : chunkStart+chunkSize]
		}

		pos = chunkStart + chunkSize
		if chunkSize%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}

	if hdr.SampleRate == 0 || hdr.NumChannels == 0 || pcmData == nil {
		return nil, processor.NewAlignError(processor.InvalidInput, "wav file missing fmt or data chunk")
	}

	samples := pcmToMono(pcmData, hdr.NumChannels)
	return processor.NewAudioBuffer(samples, float64(hdr.SampleRate))
}

func pcmToMono(pcm []byte, numChannels int) []float64 {
	frameBytes := 2 * numChannels
	numFrames := len(pcm) / frameBytes
	out := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float64
		for c := 0; c < numChannels; c++ {
			offset := i*frameBytes + c*2
			v := int16(binary.LittleEndian.Uint16(pcm[offset : offset+2]))
			sum += float64(v) / 32768.0
		}
		out[i] = sum / float64(numChannels)
	}
	return out
}

// WriteWAV encodes a mono AudioBuffer as a standard 44-byte-header 16-bit PCM
// WAV file, clamping samples to [-1, 1] before rounding to int16.
func WriteWAV(buf *processor.AudioBuffer) []byte {
	samples := buf.Samples()
	dataSize := len(samples) * 2
	out := make([]byte, 44+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], 1) // mono
	sr := uint32(buf.SampleRate())
	binary.LittleEndian.PutUint32(out[24:28], sr)
	binary.LittleEndian.PutUint32(out[28:32], sr*2) // byte rate, 16-bit mono
	binary.LittleEndian.PutUint16(out[32:34], 2)    // block align
	binary.LittleEndian.PutUint16(out[34:36], 16)   // bits per sample
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(math.Round(s * 32767))
		binary.LittleEndian.PutUint16(out[44+i*2:46+i*2], uint16(v))
	}
	return out
}

// String renders a Header for debug logging.
func (h Header) String() string {
	return fmt.Sprintf("%dHz, %dch, %d-bit", h.SampleRate, h.NumChannels, h.BitsPerSample)
}
