package literal

// boolCache is a compact tri-state cache of boolean answers indexed by
// literal index. Each slot stores generation<<1 | value; a slot written in an
// older generation reads as unknown.
type boolCache struct {
	slots []uint32
}

func newBoolCache(size int) boolCache {
	return boolCache{slots: make([]uint32, size)}
}

// get returns the cached value for index and whether one is present for gen.
func (c *boolCache) get(index, gen uint32) (value, ok bool) {
	if int(index) >= len(c.slots) {
		return false, false
	}
	slot := c.slots[index]
	if slot>>1 != gen {
		return false, false
	}
	return slot&1 == 1, true
}

// set stores value for index in generation gen.
// Indices beyond the cache size are silently not cached.
func (c *boolCache) set(index, gen uint32, value bool) {
	if int(index) >= len(c.slots) {
		return
	}
	slot := gen << 1
	if value {
		slot |= 1
	}
	c.slots[index] = slot
}

func (c *boolCache) clear() {
	clear(c.slots)
}
