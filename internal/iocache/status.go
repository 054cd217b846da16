package iocache

import (
	"fmt"

	"github.com/huangsam/trendspot/schema"
)

// PrintSeriesStatus prints series store status information.
func PrintSeriesStatus(status schema.SeriesStatus) {
	fmt.Printf("Series Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Items: %d\n", status.TotalItems)
	fmt.Printf("Total Points: %d\n", status.TotalPoints)
	if status.TotalPoints > 0 {
		fmt.Printf("First Bucket: %s\n", status.FirstBucket.Format("2006-01-02 15:04:05"))
		fmt.Printf("Last Bucket: %s\n", status.LastBucketTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintAnalysisStatus prints analysis status information.
func PrintAnalysisStatus(status schema.AnalysisStatus) {
	fmt.Printf("Analysis Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Total Items Scored: %d\n", status.TotalItemsScored)
	}
	fmt.Println("Table Sizes:")
	for table, size := range status.TableSizes {
		fmt.Printf("  %s: %d rows\n", table, size)
	}
}
