// Package hash provides the CRC32-Castagnoli checksum used by edge frames.
//
//	sum := hash.CRC32C(records)
//
// Go's crc32 package uses SSE4.2 or the ARM CRC extension when present.
package hash
