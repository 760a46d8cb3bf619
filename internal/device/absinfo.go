package device

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// absInfo mirrors the kernel's struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// eviocgabs builds the EVIOCGABS(axis) ioctl request number:
// _IOR('E', 0x40 + axis, struct input_absinfo).
func eviocgabs(axis uint16) uintptr {
	const (
		iocRead  = 2
		sizeBits = 16
		dirBits  = 30
	)
	size := uint32(unsafe.Sizeof(absInfo{}))
	return uintptr(iocRead<<dirBits | size<<sizeBits | 'E'<<8 | (0x40 + uint32(axis)))
}

// readAbsInfo queries the calibration of one absolute axis.
func readAbsInfo(fd uintptr, axis uint16) (absInfo, error) {
	var info absInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, eviocgabs(axis), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return absInfo{}, fmt.Errorf("EVIOCGABS(0x%x): %w", axis, errno)
	}
	return info, nil
}
