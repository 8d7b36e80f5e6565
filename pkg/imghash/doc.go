// Package imghash computes perceptual image fingerprints.
//
// An image is converted to luminance, shrunk with a resampling filter and
// reduced to a bit sequence by one of several hash algorithms. Fingerprints of
// the same length are compared by Hamming distance; small distances mean
// visually similar images.
//
//	hasher, err := imghash.NewHasherConfig().
//		HashSize(8, 8).
//		HashAlg(imghash.Gradient).
//		ToHasher()
//	if err != nil {
//		return err
//	}
//	fp, err := hasher.Hash(img)
package imghash
