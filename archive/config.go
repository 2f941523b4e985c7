package archive

import "github.com/shroomkit/wz/internal/keys"

// Region selects one of the format's hard-coded crypto contexts.
type Region uint8

const (
	RegionGMS Region = iota
	RegionSEA
	RegionOther
	RegionBmsSrv
)

// Context returns the crypto key context for the region. Other and BmsSrv
// share the default IV.
func (r Region) Context() keys.Context {
	switch r {
	case RegionGMS:
		return keys.GMSContext
	case RegionSEA:
		return keys.SEAContext
	default:
		return keys.DefaultContext
	}
}

// DefaultVersion is the client version assumed when a Config doesn't
// specify one.
const DefaultVersion uint16 = 95

// Config selects the region and client version an archive is opened with.
type Config struct {
	Region  Region
	Version uint16
}

// DefaultConfig returns the GMS region at DefaultVersion.
func DefaultConfig() Config {
	return Config{Region: RegionGMS, Version: DefaultVersion}
}
