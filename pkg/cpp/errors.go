package cpp

import "fmt"

// UnknownToolchainError is returned for a toolchain family that is neither `gnu` nor `msvc`.
type UnknownToolchainError struct {
	Family string
}

func (err UnknownToolchainError) Error() string {
	return fmt.Sprintf("unknown toolchain family %q, expected %q or %q", err.Family, GNUFamily, MSVCFamily)
}
