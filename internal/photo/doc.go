// Package photo contains the pure image transforms of the ingestion
// pipeline: EXIF extraction, orientation rotation, and the two bounding
// resize rules producing the medium and small derivatives.
//
// The resize math reproduces the historical behavior exactly: the ratio is
// the float quotient of the bounding dimension by its target, and the other
// dimension is floor-divided by that ratio. Derivative byte-size parity in
// fixture-based tests depends on this.
package photo
