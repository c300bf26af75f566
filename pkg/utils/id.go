package utils

import (
	"fmt"
	"sync"
	"time"
)

// GenerateID creates schema-aligned IDs
// Format: prefix-timestamp-counter (e.g., "snip-1705612800000-001")
func GenerateID(prefix string) string {
	timestamp := time.Now().UnixMilli()
	counter := atomicCounter()
	return fmt.Sprintf("%s-%d-%03d", prefix, timestamp, counter)
}

// atomicCounter provides thread-safe sequential counters
var (
	counter int64
	mu      sync.Mutex
)

func atomicCounter() int {
	mu.Lock()
	defer mu.Unlock()
	counter++
	return int(counter)
}
