// Package doccache memoizes encoded documents per caller key.
//
// Entries live in a provider.Provider under "doc:<ns>:<key>" and are framed
// with the codec name and a checksum. Frames that fail validation, or that
// were written by a different codec, are deleted on read and reported as a
// miss.
//
//	c, err := doccache.New(doccache.Options{
//	    Namespace: "attrs",
//	    Provider:  p,
//	    Codec:     codec.JSON{},
//	})
//	b, err := c.Encode(ctx, id, attrs, 0)
package doccache
