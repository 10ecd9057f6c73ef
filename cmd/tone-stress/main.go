// ABOUTME: Stress app for concurrent tone playback on one session
// ABOUTME: Runs many goroutines against a shared session and reports outcomes
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tone"
)

var (
	driverName = flag.String("driver", "null", "Audio driver")
	workers    = flag.Int("workers", 8, "Concurrent callers")
	plays      = flag.Int("plays", 4, "Tones per caller")
	durationMs = flag.Uint("duration", 50, "Tone duration in milliseconds")
	closeEvery = flag.Int("close-every", 0, "Close the session after every N plays (0 disables)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	fmt.Println("=== Tone Stress Test ===")
	fmt.Println("This test will:")
	fmt.Println("1. Open one session on the selected driver")
	fmt.Println("2. Play tones from many goroutines at once")
	fmt.Println("3. Check that playback was serialized (wall time >= sum of durations)")
	fmt.Println()

	driver, err := output.New(*driverName)
	if err != nil {
		log.Fatalf("Driver error: %v", err)
	}

	duration := toneDuration(*durationMs)

	session := tone.NewSession(driver)
	defer session.Close()

	fmt.Printf("Driver %s, %d workers x %d plays of %dms...\n", driver.Name(), *workers, *plays, duration)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		issued int
	)

	start := time.Now()
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < *plays; i++ {
				freq := 200 + float64(w*100+i*10)
				if err := session.PlayTone(freq, 0.3, duration); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("worker %d play %d: %w", w, i, err))
					mu.Unlock()
				}

				mu.Lock()
				issued++
				closeNow := *closeEvery > 0 && issued%*closeEvery == 0
				mu.Unlock()
				if closeNow {
					session.Close()
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	stats := session.Stats()
	expected := time.Duration(*workers**plays) * time.Duration(duration) * time.Millisecond

	log.Printf("Elapsed %s (serialized minimum %s)", elapsed.Round(time.Millisecond), expected)
	log.Printf("Played %d, failed %d, device opens %d", stats.Played, stats.Failed, stats.Opens)
	for _, err := range errs {
		log.Printf("Error: %v", err)
	}

	if len(errs) == 0 && elapsed < expected {
		log.Fatalf("Playback overlapped: %s < %s", elapsed, expected)
	}

	log.Printf("Test complete")
}

// toneDuration saturates a flag value to the uint32 milliseconds PlayTone takes
func toneDuration(ms uint) uint32 {
	return uint32(min(ms, math.MaxUint32))
}
