package objc

// HostArch is 32-bit x86.
const HostArch = ArchX86
