//go:build strictjson_minimal

package strictjson

const compiledFeatures Feature = 0
