// Package buffer provides the bounded streaming primitives used by the
// loudness and dynamics meters.
//
// [Ring] is a generic fixed-capacity circular buffer that evicts its oldest
// element on overflow. [SumRing] is the float64 specialisation that keeps a
// running sum for sliding-window energy integration. [Capture] hands blocks
// from one writer goroutine to one reader goroutine without locks. [Pool]
// recycles chunk-sized sample slices.
//
// Ring and SumRing are single-producer/single-consumer and not safe for
// concurrent use; Capture is the only cross-goroutine type.
package buffer
