package objc

// HostArch is the architecture of the running program. It is declared in each
// architecture-specific file so that a compilation error occurs on any
// architecture the runtime does not support.
const HostArch = ArchX86_64
