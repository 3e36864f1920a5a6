package processor

import (
	"runtime"
	"sync"
)

// BatchTarget is one target slot submitted to AlignBatch.
type BatchTarget struct {
	Samples []float64
}

// BatchProgressFunc reports progress for one target slot in a batch run,
// adapted from the teacher's per-file FileStartMsg/FileCompleteMsg/
// ProgressMsg shape (internal/ui/messages.go) to per-target alignment
// progress instead of per-file podcast-processing passes.
type BatchProgressFunc func(targetIndex int, stage Stage, percent float64, label string)

// AlignBatch aligns each target against the reference by running Align for
// every slot. Each slot preprocesses the reference and extracts its features
// again; no feature sequence is shared between slots. Targets are handed to
// the worker pool in submission order and results are returned in input
// order; a single target's failure produces an error result for that slot
// without aborting the batch. Independent targets run in parallel on a
// worker pool bounded by GOMAXPROCS and the number of targets.
func AlignBatch(refSamples []float64, targets []BatchTarget, sampleRate float64, method Method, cfg *Config, progress BatchProgressFunc, cancel CancelFunc) []*AlignmentResult {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	results := make([]*AlignmentResult, len(targets))

	if err := ValidateConfig(cfg); err != nil {
		for i := range results {
			results[i] = errResult(method, toAlignError(err))
		}
		return results
	}

	if len(refSamples) == 0 {
		errAE := NewAlignError(InvalidInput, "reference samples must not be empty")
		for i := range results {
			results[i] = errResult(method, errAE)
		}
		return results
	}

	poolSize := runtime.GOMAXPROCS(0)
	if poolSize > len(targets) {
		poolSize = len(targets)
	}
	if poolSize < 1 {
		poolSize = 1
	}

	type job struct {
		index  int
		target BatchTarget
	}
	jobs := make(chan job)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for j := range jobs {
			var pf ProgressFunc
			if progress != nil {
				idx := j.index
				pf = func(stage Stage, percent float64, label string) {
					progress(idx, stage, percent, label)
				}
			}
			results[j.index] = Align(refSamples, j.target.Samples, sampleRate, method, cloneConfig(cfg), pf, cancel)
		}
	}

	for w := 0; w < poolSize; w++ {
		wg.Add(1)
		go worker()
	}

	for i, t := range targets {
		if isCancelled(cancel) {
			break
		}
		jobs <- job{index: i, target: t}
	}
	close(jobs)
	wg.Wait()

	for i := range results {
		if results[i] == nil {
			results[i] = errResult(method, cancelledError())
		}
	}

	return results
}

func cloneConfig(cfg *Config) *Config {
	c := *cfg
	return &c
}
