package strictjson

// Feature identifies an optional converter family. The set compiled into
// the binary is fixed by build tags; Options.Disable removes families at
// startup. Neither is observable other than through converter behavior.
type Feature uint8

const (
	// FeatureExactNumeric converts math/big values to JSON numbers.
	FeatureExactNumeric Feature = 1 << iota
	// FeatureArray converts the Masked array sentinel to null.
	FeatureArray
	// FeatureTabular converts NaT and invalid database/sql null wrappers to null.
	FeatureTabular
)

func (f Feature) has(x Feature) bool { return f&x == x }
