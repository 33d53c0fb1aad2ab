package utils

import (
	"math/rand"
	"time"
)

// RandomDelay sleeps for a random duration between min and max.
// Fixed delays are a detectable request-rate signature; jittered ones
// look more like a human browsing.
func RandomDelay(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	diff := max - min
	time.Sleep(min + time.Duration(rand.Int63n(int64(diff))))
}
