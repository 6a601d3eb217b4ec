package common

import (
	"log"
	"sync/atomic"
	"time"
)

// Stats holds atomic counters for one run.
// Counters may be updated from the parallel smoothing and export steps.
type Stats struct {
	FilesRead     atomic.Uint64
	BytesRead     atomic.Uint64
	RowsParsed    atomic.Uint64
	MonthsAligned atomic.Uint64
	RowsWritten   atomic.Uint64
	StartTime     time.Time
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// AddFile records one parsed input file.
func (s *Stats) AddFile(bytes, rows uint64) {
	s.FilesRead.Add(1)
	s.BytesRead.Add(bytes)
	s.RowsParsed.Add(rows)
}

// Elapsed returns the time since the run started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// LogFinal prints the final statistics block.
func (s *Stats) LogFinal() {
	log.Println()
	log.Println("=========================================================")
	log.Println("Final Statistics")
	log.Println("=========================================================")
	log.Printf("Files:         %d (%d bytes)", s.FilesRead.Load(), s.BytesRead.Load())
	log.Printf("Rows Parsed:   %d", s.RowsParsed.Load())
	log.Printf("Months:        %d", s.MonthsAligned.Load())
	log.Printf("Rows Written:  %d", s.RowsWritten.Load())
	log.Printf("Elapsed:       %v", s.Elapsed().Round(time.Millisecond))
	log.Println("=========================================================")
}
