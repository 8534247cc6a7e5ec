package chunk

// PackBlockPos encodes a block position into the big-endian i64 wire form
// used by position-carrying packets and as the block-entity NBT key (§6):
// (x<<38) | ((z & 0x3FFFFFF) << 12) | (y & 0xFFF), with x/z as 26-bit signed
// and y as 12-bit signed.
func PackBlockPos(x, y, z int) int64 {
	return (int64(x) << 38) | ((int64(z) & 0x3FFFFFF) << 12) | (int64(y) & 0xFFF)
}

// UnpackBlockPos is the inverse of PackBlockPos, sign-extending each field
// back out of its packed width.
func UnpackBlockPos(packed int64) (x, y, z int) {
	x = int(packed >> 38)
	y = int(packed << 52 >> 52)
	z = int(packed << 26 >> 38)
	return x, y, z
}
