package fileserver

import "fmt"

// FormatSize renders a byte count in human-readable form using 1024-based
// units: plain integers below 1 KB, one decimal place for every larger
// unit, capped at PB.
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024 {
			if unit == "B" {
				return fmt.Sprintf("%d %s", size, unit)
			}
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f PB", value)
}
