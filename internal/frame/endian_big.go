//go:build armbe || arm64be || m68k || mips || mips64 || mips64p32 || ppc || ppc64 || s390 || s390x || shbe || sparc || sparc64

package frame

// Frame bytes are reinterpreted little-endian; a big-endian target would
// report different field values for the same writes. Refuse to build.
var _ = frameRequiresLittleEndianTarget
