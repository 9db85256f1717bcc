package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	movieCount  int
	memberCount int
)

// Metrics
var (
	totalRequests uint64
	success200    uint64 // Toggles applied
	fail404       uint64 // Unknown movies
	fail409       uint64 // Duplicate recommendation races
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
	flag.IntVar(&movieCount, "movies", 10, "Number of seeded movies (IDs 1..N)")
	flag.IntVar(&memberCount, "members", 50, "Number of seeded members (member000..)")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		movieID, memberID := generateToggle()

		url := fmt.Sprintf("%s/api/movies/%d/recommend?memberId=%s", targetURL, movieID, memberID)
		req, _ := http.NewRequest("POST", url, nil)

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case 200:
			atomic.AddUint64(&success200, 1)
		case 404:
			atomic.AddUint64(&fail404, 1)
		case 409:
			atomic.AddUint64(&fail409, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func generateToggle() (int64, string) {
	if workload == "hotspot" {
		// Hotspot: 90% of toggles hit movie 1, many from the same member
		// to force (movie, member) contention.
		if rand.Float32() < 0.90 {
			return 1, fmt.Sprintf("member%03d", rand.Intn(3))
		}
	}

	// Uniform Random
	movie := int64(rand.Intn(movieCount) + 1)
	member := fmt.Sprintf("member%03d", rand.Intn(memberCount))
	return movie, member
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	s200 := atomic.LoadUint64(&success200)
	f404 := atomic.LoadUint64(&fail404)
	f409 := atomic.LoadUint64(&fail409)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()
	conflictRate := float64(0)
	if total > 0 {
		conflictRate = float64(f409) / float64(total) * 100
	}

	results := map[string]interface{}{
		"workload":          workload,
		"duration_sec":      d.Seconds(),
		"total_requests":    total,
		"throughput_tps":    tps,
		"toggles_applied":   s200,
		"not_found":         f404,
		"duplicate_races":   f409,
		"conflict_rate_pct": conflictRate,
		"errors":            fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	// Also save to file
	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
