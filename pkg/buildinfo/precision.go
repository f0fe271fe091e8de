package buildinfo

import "fmt"

// Precision is the numeric precision used for in-memory computation.
type Precision int

const (
	Float Precision = iota
	Double
)

func (p Precision) String() string {
	switch p {
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// MarshalText lets descriptors serialize precisions by name.
func (p Precision) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Storage is the representation used when persisting data.
type Storage int

const (
	StorageFloat Storage = iota
	StorageDouble
	StorageInt
)

func (s Storage) String() string {
	switch s {
	case StorageFloat:
		return "float"
	case StorageDouble:
		return "double"
	case StorageInt:
		return "int"
	default:
		return fmt.Sprintf("Storage(%d)", int(s))
	}
}

// MarshalText lets descriptors serialize storage types by name.
func (s Storage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StorageOverride is an explicit storage selection that takes precedence
// over the precision default. At most one override exists per build.
type StorageOverride int

const (
	OverrideNone StorageOverride = iota
	OverrideFloat
	OverrideInt
)

// Resolve applies the precision policy. The working precision defaults to
// float and storage follows it; a double build switches both to double.
// An explicit storage override is applied after that default.
func Resolve(useDouble bool, override StorageOverride) (Precision, Storage) {
	working, storage := Float, StorageFloat
	if useDouble {
		working, storage = Double, StorageDouble
	}

	switch override {
	case OverrideInt:
		storage = StorageInt
	case OverrideFloat:
		storage = StorageFloat
	}
	return working, storage
}
