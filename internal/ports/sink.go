package ports

// SubdomainSink persists blocks of lines. One Write call is never interleaved
// with another.
type SubdomainSink interface {
	Write(lines []string) error
}
