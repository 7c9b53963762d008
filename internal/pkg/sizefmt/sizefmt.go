package sizefmt

import "fmt"

var units = []string{"B", "KB", "MB", "GB"}

// Bytes renders a byte count for humans using 1024-based units, e.g. "512 B",
// "1.5 MB". Values beyond the largest unit stay in that unit.
func Bytes(n uint64) string {
	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", n, units[unit])
	}
	return fmt.Sprintf("%.1f %s", size, units[unit])
}
