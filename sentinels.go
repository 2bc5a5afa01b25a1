package strictjson

// Masked marks a missing cell of a numeric array. It encodes as null
// through FeatureArray (as NaN, then normalized) and, with the feature
// off, through its ToList method.
var Masked = masked{}

// NaT is the "not a time" marker of tabular data. It encodes as null
// through FeatureTabular; with the feature off it formats as "NaT".
var NaT = nat{}

type masked struct{}

func (masked) ToList() []any  { return nil }
func (masked) String() string { return "masked" }

type nat struct{}

func (nat) ISOFormat() string { return "NaT" }
func (nat) String() string    { return "NaT" }
