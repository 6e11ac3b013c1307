// Package prebuilt offers ready-made topologies over the builder:
// linear pipelines, bounded loops, retry-by-looping, and map-reduce
// fan-out. Each template is plain sugar: the returned graph behaves
// exactly as if the caller had wired it by hand.
package prebuilt
