//go:build !strictjson_minimal

package strictjson

const compiledFeatures = FeatureExactNumeric | FeatureArray | FeatureTabular
