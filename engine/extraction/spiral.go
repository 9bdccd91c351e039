package extraction

// SpiralColumns returns the column offsets of a square spiral around (0,0), ring by ring,
// covering every offset with max(|x|,|z|) <= radius.
func SpiralColumns(radius int) [][2]int32 {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	result := make([][2]int32, 0, side*side)
	result = append(result, [2]int32{0, 0})
	for ring := int32(1); ring <= int32(radius); ring++ {
		x, z := ring, -ring+1
		for ; z <= ring; z++ {
			result = append(result, [2]int32{x, z})
		}
		for x, z = ring-1, ring; x >= -ring; x-- {
			result = append(result, [2]int32{x, z})
		}
		for x, z = -ring, ring-1; z >= -ring; z-- {
			result = append(result, [2]int32{x, z})
		}
		for x, z = -ring+1, -ring; x <= ring; x++ {
			result = append(result, [2]int32{x, z})
		}
	}
	return result
}
