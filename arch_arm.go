package objc

// HostArch is 32-bit ARM.
const HostArch = ArchARM
