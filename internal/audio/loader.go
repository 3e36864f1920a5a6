package audio

import (
	"fmt"
	"os"

	"github.com/linuxmatters/jivesync/internal/processor"
)

// LoadFile reads a WAV file from disk into an AudioBuffer.
func LoadFile(path string) (*processor.AudioBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	buf, err := ReadWAV(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return buf, nil
}

// LoadPair reads a reference and target WAV file, enforcing §6's "mismatched
// sample rates yield InvalidInput" input assumption before either buffer
// reaches the alignment engine.
func LoadPair(refPath, tgtPath string) (ref, tgt *processor.AudioBuffer, err error) {
	ref, err = LoadFile(refPath)
	if err != nil {
		return nil, nil, err
	}
	tgt, err = LoadFile(tgtPath)
	if err != nil {
		return nil, nil, err
	}
	if ref.SampleRate() != tgt.SampleRate() {
		return nil, nil, processor.NewAlignError(processor.InvalidInput,
			fmt.Sprintf("sample rate mismatch: reference %gHz vs target %gHz", ref.SampleRate(), tgt.SampleRate()))
	}
	return ref, tgt, nil
}
