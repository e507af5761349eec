package chip8

import "time"

const (
	// waitInterval is the only point RunAt checks the stop channel, and so
	// bounds how long shutdown can take.
	waitInterval = 50 * time.Millisecond

	// frequencyAdjustStep is how far instructionCost is nudged toward the
	// target each outer iteration.
	frequencyAdjustStep = 500 * time.Nanosecond

	// ringBufferFactor sizes the achieved-frequency sample ring relative to
	// targetHz: roughly four seconds of history at steady state.
	ringBufferFactor = 4
)

// RunAt drives Step in a loop paced to targetHz instructions per second,
// until stop is closed or Step reports termination or failure.
//
// The only cancellation point is a 50 ms wait; no instruction executes
// between observing stop closed and returning, so shutdown latency is
// bounded by one wait interval regardless of targetHz.
func (c *CPU) RunAt(stop <-chan struct{}, targetHz int) error {
	instructionCost := time.Second / time.Duration(targetHz)
	var budget time.Duration
	lastTick := time.Now()

	ringSize := targetHz * ringBufferFactor
	if ringSize < 1 {
		ringSize = 1
	}
	ring := make([]time.Time, 0, ringSize)

	for {
		select {
		case <-stop:
			return nil
		case <-time.After(waitInterval):
		}

		now := time.Now()
		budget += now.Sub(lastTick)
		lastTick = now

		for budget >= instructionCost {
			budget -= instructionCost

			cont, err := c.Step()
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}

			ring = append(ring, time.Now())
			if len(ring) > ringSize {
				ring = ring[len(ring)-ringSize:]
			}
		}

		instructionCost = adjustCost(instructionCost, targetHz, ring)
	}
}

// adjustCost nudges cost by frequencyAdjustStep toward whatever value would
// have produced exactly targetHz over the samples in ring.
func adjustCost(cost time.Duration, targetHz int, ring []time.Time) time.Duration {
	if len(ring) < 2 {
		return cost
	}

	elapsed := ring[len(ring)-1].Sub(ring[0])
	if elapsed <= 0 {
		return cost
	}

	achieved := float64(len(ring)-1) / elapsed.Seconds()
	switch {
	case achieved > float64(targetHz):
		cost += frequencyAdjustStep
	case achieved < float64(targetHz):
		cost -= frequencyAdjustStep
		if cost < 0 {
			cost = 0
		}
	}
	return cost
}
