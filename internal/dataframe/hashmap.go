package dataframe

import (
	xxhash "github.com/cespare/xxhash/v2"
)

const (
	bucketLoadFactor     = 0.75       // resize threshold for the value map
	bucketGrowthFactor   = 2          // capacity multiplier on resize
	bucketCapacityFactor = 1.3        // headroom over the estimated size
	bucketHashMask       = 0x7FFFFFFF // keeps the bucket modulo positive
)

// valueMap buckets row positions by value identity key. xxhash keeps the
// bucket spread stable for long string keys, which date and label keys
// usually are.
type valueMap struct {
	buckets  [][]valueEntry
	capacity int
	size     int
}

type valueEntry struct {
	key  string
	rows []int
}

func newValueMap(estimatedSize int) *valueMap {
	capacity := nextPowerOfTwo(int(float64(estimatedSize) * bucketCapacityFactor))
	return &valueMap{
		buckets:  make([][]valueEntry, capacity),
		capacity: capacity,
	}
}

// add records a row under the key and reports whether the key is new.
func (m *valueMap) add(key string, row int) bool {
	slot := m.slot(key, m.capacity)
	for i := range m.buckets[slot] {
		if m.buckets[slot][i].key == key {
			m.buckets[slot][i].rows = append(m.buckets[slot][i].rows, row)
			return false
		}
	}

	m.buckets[slot] = append(m.buckets[slot], valueEntry{key: key, rows: []int{row}})
	m.size++
	if float64(m.size) > float64(m.capacity)*bucketLoadFactor {
		m.resize()
	}
	return true
}

// rows returns the row positions recorded under the key, in insertion order.
func (m *valueMap) rows(key string) []int {
	slot := m.slot(key, m.capacity)
	for _, entry := range m.buckets[slot] {
		if entry.key == key {
			return entry.rows
		}
	}
	return nil
}

func (m *valueMap) slot(key string, capacity int) int {
	hash := xxhash.Sum64String(key)
	return int((hash & bucketHashMask) % uint64(capacity))
}

// resize doubles the capacity and rehashes every entry.
func (m *valueMap) resize() {
	newCapacity := m.capacity * bucketGrowthFactor
	newBuckets := make([][]valueEntry, newCapacity)
	for _, bucket := range m.buckets {
		for _, entry := range bucket {
			slot := m.slot(entry.key, newCapacity)
			newBuckets[slot] = append(newBuckets[slot], entry)
		}
	}
	m.buckets = newBuckets
	m.capacity = newCapacity
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
