package compress

// zstdCodec selects its implementation at build time: the cgo build binds
// libzstd through valyala/gozstd, the pure-Go build uses
// klauspost/compress/zstd. Both produce standard Zstandard frames and can
// read each other's output.
type zstdCodec struct{}

var _ Codec = zstdCodec{}
