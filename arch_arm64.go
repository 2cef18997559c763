package objc

// HostArch is AArch64.
const HostArch = ArchARM64
