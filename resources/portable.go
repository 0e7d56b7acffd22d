package resources

import (
	"os"
	"path/filepath"
)

const portablePath = "TestChip8_UserData"

// the presence of an empty file named portable.txt alongside the program
// binary forces resources into the portablePath directory
func checkPortable() bool {
	x, err := os.Executable()
	if err != nil {
		return false
	}

	pth := filepath.Join(filepath.Dir(x), "portable.txt")
	if _, err := os.Stat(pth); err != nil {
		return false
	}

	return true
}
